package entity

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldFromSpecScales(t *testing.T) {
	spec := prefabs.FieldSpec{Width: 600, Height: 800, WallThickness: 20, WallTopRatio: 0.25, LossLineRatio: 0.25, SpawnHeightRatio: 0.1, WallPadding: 20}
	f := FieldFromSpec(spec, 0.5)
	assert.Equal(t, 300.0, f.Width)
	assert.Equal(t, 400.0, f.Height)
	assert.Equal(t, 10.0, f.WallThickness)
	assert.Equal(t, 100.0, f.LossLineY)
	assert.Equal(t, 40.0, f.SpawnY)
	assert.Equal(t, 10.0, f.InnerLeft())
	assert.Equal(t, 290.0, f.InnerRight())
}

func TestNewFieldBuildsWalls(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.FieldSpec{Width: 600, Height: 800, WallThickness: 20, WallTopRatio: 0.25, LossLineRatio: 0.25, SpawnHeightRatio: 0.1}
	_, err := NewField(w, FieldFromSpec(spec, 1))
	require.NoError(t, err)

	names := map[string]component.Boundary{}
	ecs.ForEach(w, component.BoundaryComponent.Kind(), func(_ ecs.Entity, b *component.Boundary) {
		names[b.Name] = *b
	})
	require.Len(t, names, 3)
	assert.Equal(t, 780.0, names["floor"].Top)
	assert.Equal(t, 200.0, names["left_wall"].Top)
	assert.Equal(t, 580.0, names["right_wall"].Left)

	f, ok := Field(w)
	require.True(t, ok)
	assert.Equal(t, 600.0, f.Width)
}

func TestNewPiece(t *testing.T) {
	cat, err := catalog.New([]catalog.LevelDef{
		{Level: 1, Radius: 40, ScoreValue: 1},
		{Level: 2, Radius: 60, ScoreValue: 3},
	}, 1)
	require.NoError(t, err)
	w := ecs.NewWorld()

	e, err := NewPiece(w, cat, 1, Material{Density: 0.001}, PieceSpec{Level: 2, X: 10, Y: 20, Falling: true})
	require.NoError(t, err)
	piece, _ := ecs.Get(w, e, component.PieceComponent.Kind())
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	assert.Equal(t, 60.0, piece.Radius)
	assert.True(t, piece.Falling)
	assert.True(t, body.Kinematic)
	assert.True(t, body.Sensor)
	assert.InDelta(t, 0.001*math.Pi*3600, body.Mass, 1e-9)

	_, err = NewPiece(w, cat, 1, Material{}, PieceSpec{Level: 3})
	var oor *catalog.OutOfRangeError
	assert.ErrorAs(t, err, &oor)

	_, err = NewPiece(w, nil, 1, Material{}, PieceSpec{Level: 1})
	assert.Error(t, err)
}

func TestNewSession(t *testing.T) {
	w := ecs.NewWorld()
	id := uuid.New()
	_, err := NewSession(w, id, 12)
	require.NoError(t, err)

	_, s, ok := Session(w)
	require.True(t, ok)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, 12, s.HighScore)
	assert.Equal(t, component.SessionInitializing, s.State)
	assert.NotNil(t, s.PendingMerges)
}
