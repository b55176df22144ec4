package system

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
	"github.com/milk9111/pizzamerge/placement"
)

// LevelPicker chooses the level of the next falling piece.
type LevelPicker interface {
	NextLevel(startingLevels int) int
}

// UniformPicker draws uniformly from 1..startingLevels.
type UniformPicker struct {
	rng *rand.Rand
}

// NewUniformPicker seeds a PCG source. A zero seed draws a random one.
func NewUniformPicker(seed uint64) *UniformPicker {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &UniformPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *UniformPicker) NextLevel(startingLevels int) int {
	if startingLevels <= 1 {
		return 1
	}
	return p.rng.IntN(startingLevels) + 1
}

// Float64 exposes the picker's source to scripted pickers.
func (p *UniformPicker) Float64() float64 {
	return p.rng.Float64()
}

// Spawner creates the falling piece near the top centre of the field.
type Spawner struct {
	Catalog   *catalog.Catalog
	Scale     float64
	Material  entity.Material
	Picker    LevelPicker
	Placement placement.Options
}

// SpawnNext creates the next falling piece. It is a no-op when the game is
// over or a falling piece already exists.
func (s *Spawner) SpawnNext(w *ecs.World) (ecs.Entity, bool, error) {
	_, session, ok := entity.Session(w)
	if !ok {
		return 0, false, ErrNoSession
	}
	if session.GameOver {
		return 0, false, nil
	}
	if session.Falling != 0 && ecs.IsAlive(w, ecs.Entity(session.Falling)) {
		return 0, false, nil
	}
	field, ok := entity.Field(w)
	if !ok {
		return 0, false, fmt.Errorf("system: spawn: world has no field")
	}

	starting := s.Catalog.StartingLevels()
	level := 1
	if s.Picker != nil {
		level = s.Picker.NextLevel(starting)
	}
	if level < 1 || level > starting {
		level = 1
	}

	radius := s.Catalog.ScaledRadius(level, s.Scale)
	res := placement.FindSafePosition(
		placement.Vec{X: field.Width / 2, Y: field.SpawnY},
		radius,
		dropBounds(field),
		Occupancy(w),
		s.Placement,
	)

	e, err := entity.NewPiece(w, s.Catalog, s.Scale, s.Material, entity.PieceSpec{
		Level:   level,
		X:       res.Pos.X,
		Y:       res.Pos.Y,
		Falling: true,
	})
	if err != nil {
		return 0, false, fmt.Errorf("system: spawn: %w", err)
	}
	session.Falling = uint64(e)
	session.State = component.SessionPlaying
	session.DropDisabled = false
	return e, true, nil
}

// Occupancy snapshots every piece in the world for the placement solver.
func Occupancy(w *ecs.World) placement.Occupants {
	var out placement.Occupants
	ecs.ForEach2(w, component.PieceComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, piece *component.Piece, tr *component.Transform) {
		out = append(out, placement.Occupant{Pos: placement.Vec{X: tr.X, Y: tr.Y}, Radius: piece.Radius})
	})
	return out
}

func dropBounds(field component.Field) placement.Field {
	pad := field.WallPadding
	if pad <= 0 {
		pad = field.WallThickness
	}
	return placement.Field{Left: pad, Right: field.Width - pad}
}
