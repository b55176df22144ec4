package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pizzamerge/common"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

const (
	collisionTypePiece cp.CollisionType = iota + 1
	collisionTypeSolid
)

// PhysicsSettings tunes the Chipmunk space.
type PhysicsSettings struct {
	Gravity            float64
	Iterations         int
	SleepTimeThreshold float64
	IdleSpeedThreshold float64
	TimeStep           float64
	WallFriction       float64
	WallElasticity     float64
}

func DefaultPhysicsSettings() PhysicsSettings {
	return PhysicsSettings{
		Gravity:            common.Gravity,
		Iterations:         20,
		SleepTimeThreshold: 30,
		IdleSpeedThreshold: 0.05,
		TimeStep:           common.TimeStep,
		WallFriction:       0.1,
		WallElasticity:     0.2,
	}
}

// PhysicsSystem mirrors piece and boundary entities into a cp space, steps
// it, and copies positions back. Collision-begin callbacks only record
// pairs; they are pushed to the world event queue after the step because
// the space is locked while stepping.
type PhysicsSystem struct {
	space         *cp.Space
	settings      PhysicsSettings
	handlersReady bool

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity
	contacts []ecs.CollisionPair
}

type bodyInfo struct {
	body      *cp.Body
	shape     *cp.Shape
	static    bool
	kinematic bool
	sensor    bool
}

func NewPhysicsSystem(settings PhysicsSettings) *PhysicsSystem {
	if settings.Iterations <= 0 {
		settings.Iterations = 20
	}
	if settings.TimeStep <= 0 {
		settings.TimeStep = common.TimeStep
	}
	return &PhysicsSystem{
		space:    newSpace(settings),
		settings: settings,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
}

func newSpace(settings PhysicsSettings) *cp.Space {
	space := cp.NewSpace()
	space.Iterations = uint(settings.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: settings.Gravity})
	if settings.SleepTimeThreshold > 0 {
		space.SleepTimeThreshold = settings.SleepTimeThreshold
	}
	if settings.IdleSpeedThreshold > 0 {
		space.IdleSpeedThreshold = settings.IdleSpeedThreshold
	}
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount returns how many entities currently own a cp shape.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if _, session, ok := entity.Session(w); ok && session.GameOver {
		return
	}

	if ps.space == nil {
		ps.space = newSpace(ps.settings)
		ps.handlersReady = false
	}

	ps.ensureHandlers()
	ps.syncEntities(w)
	ps.syncBoundaries(w)

	ps.contacts = ps.contacts[:0]
	ps.space.Step(ps.settings.TimeStep)

	ps.flushContacts(w)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	pieceHandler := ps.space.NewCollisionHandler(collisionTypePiece, collisionTypePiece)
	pieceHandler.UserData = ps
	pieceHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		a, okA := sys.shapes[shapeA]
		b, okB := sys.shapes[shapeB]
		if !okA || !okB || a == b {
			return true
		}
		sys.contacts = append(sys.contacts, ecs.CollisionPair{A: a, B: b})
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	events := ecs.Events(w)
	for _, pair := range ps.contacts {
		events.Push(ecs.Event{Type: ecs.EventCollisionBegin, Data: pair})
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		info := ps.entities[e]
		// Dropping a piece flips it from kinematic sensor to dynamic solid.
		// The body is rebuilt so contacts that already overlap report a
		// fresh begin.
		if info != nil && (info.kinematic != bodyComp.Kinematic || info.sensor != bodyComp.Sensor) {
			ps.removeInfo(e, info)
			info = nil
		}

		if info == nil {
			info = ps.createBodyInfo(transform, bodyComp)
			if info == nil {
				return
			}
			ps.entities[e] = info
			ps.shapes[info.shape] = e
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			bodyComp.Teleport = false
			return
		}

		if bodyComp.Kinematic || bodyComp.Teleport {
			info.body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
			if bodyComp.Teleport {
				info.body.SetVelocityVector(cp.Vector{})
				info.body.Activate()
				bodyComp.Teleport = false
			}
		}
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	if ps.space == nil || bodyComp.Radius <= 0 {
		return nil
	}

	info := &bodyInfo{kinematic: bodyComp.Kinematic, sensor: bodyComp.Sensor}

	var body *cp.Body
	if bodyComp.Kinematic {
		body = cp.NewKinematicBody()
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, bodyComp.Radius, cp.Vector{}))
		body.SetVelocityVector(cp.Vector{X: bodyComp.InitialVX, Y: bodyComp.InitialVY})
	}
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)

	shape := cp.NewCircle(body, bodyComp.Radius, cp.Vector{})
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypePiece)
	shape.SetSensor(bodyComp.Sensor)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncBoundaries(w *ecs.World) {
	ecs.ForEach(w, component.BoundaryComponent.Kind(), func(e ecs.Entity, b *component.Boundary) {
		if _, exists := ps.entities[e]; exists {
			return
		}
		shape := cp.NewBox2(ps.space.StaticBody, cp.BB{L: b.Left, B: b.Top, R: b.Right, T: b.Bottom}, 0)
		shape.SetFriction(ps.settings.WallFriction)
		shape.SetElasticity(ps.settings.WallElasticity)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		ps.entities[e] = &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Kinematic {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()

		if vel, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
			v := bodyComp.Body.Velocity()
			vel.X = v.X
			vel.Y = v.Y
		}
		if piece, ok := ecs.Get(w, e, component.PieceComponent.Kind()); ok {
			piece.Sleeping = bodyComp.Body.IsSleeping()
		}
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) {
			if info.static && ecs.Has(w, e, component.BoundaryComponent.Kind()) {
				continue
			}
			if !info.static && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
				continue
			}
		}
		ps.removeInfo(e, info)
	}
}

func (ps *PhysicsSystem) removeInfo(e ecs.Entity, info *bodyInfo) {
	if info.shape != nil && ps.space != nil {
		ps.space.RemoveShape(info.shape)
		delete(ps.shapes, info.shape)
	}
	if info.body != nil && !info.static && ps.space != nil {
		ps.space.RemoveBody(info.body)
	}
	delete(ps.entities, e)
}
