package system

import (
	"testing"

	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettledPieceAboveLineEndsGameOnce(t *testing.T) {
	f := newFixture(t)
	f.session.Score = 17
	f.piece(t, 3, 300, 150)
	g := NewGameOverSystem(GameOverSettings{Policy: PolicySettled, RestSpeed: 0.05, SettleFrames: 3}, f.reducer)

	for i := 0; i < 2; i++ {
		g.Update(f.w)
	}
	assert.False(t, f.session.GameOver, "needs SettleFrames consecutive resting ticks")

	for i := 0; i < 10; i++ {
		g.Update(f.w)
	}
	assert.True(t, f.session.GameOver)
	assert.Equal(t, component.SessionGameOver, f.session.State)
	assert.Equal(t, 17, f.session.FinalScore)
	assert.Len(t, ecs.Events(f.w).Peek(ecs.EventGameOver), 1, "latched game over fires once")
}

func TestGameOverIgnoresMovingAndLowPieces(t *testing.T) {
	f := newFixture(t)
	moving := f.piece(t, 1, 300, 150)
	vel, _ := ecs.Get(f.w, moving, component.VelocityComponent.Kind())
	vel.Y = 3
	f.piece(t, 2, 300, 600)
	g := NewGameOverSystem(GameOverSettings{Policy: PolicySettled, RestSpeed: 0.05, SettleFrames: 2}, f.reducer)

	for i := 0; i < 20; i++ {
		g.Update(f.w)
	}
	assert.False(t, f.session.GameOver)
}

func TestGameOverIgnoresFallingPiece(t *testing.T) {
	f := newFixture(t)
	e, ok, err := f.spawner.SpawnNext(f.w)
	require.NoError(t, err)
	require.True(t, ok)
	g := NewGameOverSystem(GameOverSettings{Policy: PolicySettled, RestSpeed: 0.05, SettleFrames: 1}, f.reducer)

	for i := 0; i < 5; i++ {
		g.Update(f.w)
	}
	assert.False(t, f.session.GameOver)
	assert.True(t, ecs.IsAlive(f.w, e))
}

func TestSleepingPieceAboveLineEndsGame(t *testing.T) {
	f := newFixture(t)
	e := f.piece(t, 1, 300, 190)
	p, _ := ecs.Get(f.w, e, component.PieceComponent.Kind())
	p.Sleeping = true
	g := NewGameOverSystem(GameOverSettings{Policy: PolicySettled, RestSpeed: 0.05, SettleFrames: 100}, f.reducer)

	g.Update(f.w)
	assert.True(t, f.session.GameOver)
}

func TestBoundaryPolicy(t *testing.T) {
	f := newFixture(t)
	f.piece(t, 1, 300, 150)
	g := NewGameOverSystem(GameOverSettings{Policy: PolicyBoundary, RestSpeed: 0.05, SettleFrames: 1}, f.reducer)

	for i := 0; i < 5; i++ {
		g.Update(f.w)
	}
	assert.False(t, f.session.GameOver, "boundary policy ignores settled pieces")

	f.piece(t, 1, 10, 500)
	g.Update(f.w)
	assert.True(t, f.session.GameOver)
	assert.Contains(t, f.session.GameOverCause, "wall")
}

func TestGameOverIsOneWay(t *testing.T) {
	f := newFixture(t)
	control := NewControlSystem(f.spawner, 0)
	falling, ok, err := f.spawner.SpawnNext(f.w)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, f.reducer.ApplyIntents(f.w, []Intent{EndGame{Reason: "test"}}))
	assert.False(t, ecs.IsAlive(f.w, falling), "falling piece is discarded")
	assert.Zero(t, f.session.Falling)

	assert.False(t, control.Drop(f.w, 300))
	_, spawned, err := f.spawner.SpawnNext(f.w)
	require.NoError(t, err)
	assert.False(t, spawned)

	require.NoError(t, f.reducer.ApplyIntents(f.w, []Intent{AddScore{Amount: 5}, EndGame{Reason: "again"}}))
	assert.Zero(t, f.session.Score)
	assert.Equal(t, "test", f.session.GameOverCause)
	assert.Len(t, ecs.Events(f.w).Peek(ecs.EventGameOver), 1)
}

func TestParseGameOverPolicy(t *testing.T) {
	p, err := ParseGameOverPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicySettled, p)

	p, err = ParseGameOverPolicy("Boundary")
	require.NoError(t, err)
	assert.Equal(t, PolicyBoundary, p)
	assert.Equal(t, "boundary", p.String())

	_, err = ParseGameOverPolicy("both")
	assert.Error(t, err)
}
