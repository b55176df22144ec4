package system

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

// GameOverPolicy selects the single losing condition of a session.
type GameOverPolicy int

const (
	// PolicySettled ends the game when a resting piece sits at or above the
	// loss line.
	PolicySettled GameOverPolicy = iota
	// PolicyBoundary ends the game when a piece centre crosses a side wall.
	PolicyBoundary
)

func (p GameOverPolicy) String() string {
	switch p {
	case PolicySettled:
		return "settled"
	case PolicyBoundary:
		return "boundary"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

func ParseGameOverPolicy(s string) (GameOverPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "settled":
		return PolicySettled, nil
	case "boundary":
		return PolicyBoundary, nil
	default:
		return PolicySettled, fmt.Errorf("system: unknown game over policy %q", s)
	}
}

type GameOverSettings struct {
	Policy       GameOverPolicy
	RestSpeed    float64
	SettleFrames int
}

func DefaultGameOverSettings() GameOverSettings {
	return GameOverSettings{Policy: PolicySettled, RestSpeed: 0.05, SettleFrames: 45}
}

// GameOverSystem watches released pieces after every physics step.
type GameOverSystem struct {
	settings GameOverSettings
	reducer  *Reducer
}

func NewGameOverSystem(settings GameOverSettings, reducer *Reducer) *GameOverSystem {
	if settings.RestSpeed <= 0 {
		settings.RestSpeed = 0.05
	}
	if settings.SettleFrames <= 0 {
		settings.SettleFrames = 1
	}
	return &GameOverSystem{settings: settings, reducer: reducer}
}

func (g *GameOverSystem) Policy() GameOverPolicy {
	return g.settings.Policy
}

func (g *GameOverSystem) Update(w *ecs.World) {
	if g == nil || w == nil {
		return
	}
	_, session, ok := entity.Session(w)
	if !ok || session.GameOver {
		return
	}
	field, ok := entity.Field(w)
	if !ok {
		return
	}

	var trigger ecs.Entity
	var reason string
	ecs.ForEach3(w, component.PieceComponent.Kind(), component.TransformComponent.Kind(), component.VelocityComponent.Kind(), func(e ecs.Entity, piece *component.Piece, tr *component.Transform, vel *component.Velocity) {
		if piece.Falling || session.Falling == uint64(e) {
			piece.RestFrames = 0
			return
		}
		if math.Hypot(vel.X, vel.Y) < g.settings.RestSpeed {
			piece.RestFrames++
		} else {
			piece.RestFrames = 0
		}
		if trigger != 0 || piece.MergeLocked {
			return
		}

		switch g.settings.Policy {
		case PolicySettled:
			settled := piece.RestFrames >= g.settings.SettleFrames || piece.Sleeping
			if tr.Y <= field.LossLineY && settled {
				trigger = e
				reason = fmt.Sprintf("level %d piece settled above the loss line", piece.Level)
			}
		case PolicyBoundary:
			if tr.X < field.InnerLeft() || tr.X > field.InnerRight() {
				trigger = e
				reason = fmt.Sprintf("level %d piece crossed the wall", piece.Level)
			}
		}
	})

	if trigger == 0 {
		return
	}
	if err := g.reducer.ApplyIntents(w, []Intent{EndGame{Entity: trigger, Reason: reason}}); err != nil {
		log.Printf("GameOverSystem: %v", err)
	}
}
