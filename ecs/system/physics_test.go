package system

import (
	"testing"

	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceFallsAndRestsOnFloor(t *testing.T) {
	f := newFixture(t)
	e := f.piece(t, 1, 300, 300)
	ps := NewPhysicsSystem(DefaultPhysicsSettings())

	for i := 0; i < 400; i++ {
		ps.Update(f.w)
	}

	tr, _ := ecs.Get(f.w, e, component.TransformComponent.Kind())
	assert.InDelta(t, 800-20-40, tr.Y, 3)
	assert.InDelta(t, 300, tr.X, 3)
	assert.Equal(t, 4, ps.BodyCount(), "three walls and one piece")
}

func TestTouchingPiecesReportCollisionAndMerge(t *testing.T) {
	f := newFixture(t)
	a := f.piece(t, 1, 290, 700)
	b := f.piece(t, 1, 330, 700)
	ps := NewPhysicsSystem(DefaultPhysicsSettings())

	ps.Update(f.w)
	pairs := ecs.Events(f.w).Peek(ecs.EventCollisionBegin)
	require.NotEmpty(t, pairs)

	f.merge.Update(f.w)
	assert.False(t, ecs.IsAlive(f.w, a))
	assert.False(t, ecs.IsAlive(f.w, b))
	assert.Equal(t, map[int]int{2: 1}, f.pieceLevels())
	assert.Equal(t, 3, f.session.Score)

	// next update drops the destroyed bodies and builds the merged one
	ps.Update(f.w)
	assert.Equal(t, 4, ps.BodyCount())
}

func TestFallingPieceHoldsUntilDropped(t *testing.T) {
	f := newFixture(t)
	control := NewControlSystem(f.spawner, 30)
	ps := NewPhysicsSystem(DefaultPhysicsSettings())
	e, _, err := f.spawner.SpawnNext(f.w)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		ps.Update(f.w)
	}
	tr, _ := ecs.Get(f.w, e, component.TransformComponent.Kind())
	assert.Equal(t, 80.0, tr.Y, "kinematic piece ignores gravity")

	require.True(t, control.Aim(f.w, 400))
	ps.Update(f.w)
	body, _ := ecs.Get(f.w, e, component.PhysicsBodyComponent.Kind())
	assert.InDelta(t, 400, body.Body.Position().X, 1e-9)

	require.True(t, control.Drop(f.w, 400))
	for i := 0; i < 10; i++ {
		ps.Update(f.w)
	}
	assert.Greater(t, tr.Y, 80.0)
	assert.False(t, body.Body.IsSleeping())
}

func TestFallingSensorDoesNotPushPieces(t *testing.T) {
	f := newFixture(t)
	resting := f.piece(t, 1, 300, 740)
	ps := NewPhysicsSystem(DefaultPhysicsSettings())
	for i := 0; i < 60; i++ {
		ps.Update(f.w)
	}
	before, _ := ecs.Get(f.w, resting, component.TransformComponent.Kind())
	x0 := before.X

	falling, _, err := f.spawner.SpawnNext(f.w)
	require.NoError(t, err)
	ftr, _ := ecs.Get(f.w, falling, component.TransformComponent.Kind())
	ftr.Y = 740
	fb, _ := ecs.Get(f.w, falling, component.PhysicsBodyComponent.Kind())
	fb.Teleport = true

	for i := 0; i < 5; i++ {
		ps.Update(f.w)
	}
	assert.InDelta(t, x0, before.X, 0.5)
	f.merge.Update(f.w)
	assert.True(t, ecs.IsAlive(f.w, resting), "falling piece never merges")
}

func TestPhysicsStopsAfterGameOver(t *testing.T) {
	f := newFixture(t)
	e := f.piece(t, 1, 300, 300)
	ps := NewPhysicsSystem(DefaultPhysicsSettings())
	ps.Update(f.w)
	tr, _ := ecs.Get(f.w, e, component.TransformComponent.Kind())
	y := tr.Y

	require.NoError(t, f.reducer.ApplyIntents(f.w, []Intent{EndGame{Reason: "test"}}))
	for i := 0; i < 10; i++ {
		ps.Update(f.w)
	}
	assert.Equal(t, y, tr.Y)
}

func TestSpaceUsesSleepThresholds(t *testing.T) {
	settings := DefaultPhysicsSettings()
	settings.SleepTimeThreshold = 12
	settings.IdleSpeedThreshold = 0.3
	ps := NewPhysicsSystem(settings)

	space := ps.Space()
	require.NotNil(t, space)
	assert.Equal(t, 12.0, space.SleepTimeThreshold)
	assert.Equal(t, 0.3, space.IdleSpeedThreshold)
	assert.Equal(t, uint(settings.Iterations), space.Iterations)
}
