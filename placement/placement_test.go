package placement

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSafePositionIdentity(t *testing.T) {
	field := Field{Left: 20, Right: 580}
	desired := Vec{X: 300, Y: 80}
	occ := Occupants{{Pos: Vec{X: 100, Y: 700}, Radius: 40}}

	res := FindSafePosition(desired, 40, field, occ, DefaultOptions(1))
	assert.Equal(t, desired, res.Pos)
	assert.False(t, res.Fallback)
	assert.Equal(t, 1, res.Probes)
}

func TestFindSafePositionStepsUpOneRow(t *testing.T) {
	// The occupant below blocks the desired row, including every in-bounds
	// horizontal offset, but leaves the row one step up free.
	field := Field{Left: 0, Right: 150}
	occ := Occupants{{Pos: Vec{X: 75, Y: 285}, Radius: 80}}
	opts := Options{VerticalStep: 30, VerticalAttempts: 20, HorizontalStep: 10, HorizontalAttempts: 10}

	res := FindSafePosition(Vec{X: 75, Y: 200}, 20, field, occ, opts)
	require.False(t, res.Fallback)
	assert.Equal(t, Vec{X: 75, Y: 170}, res.Pos)
	assert.Equal(t, 12, res.Probes)
}

func TestFindSafePositionPrefersLeftThenRight(t *testing.T) {
	field := Field{Left: 0, Right: 600}
	occ := Occupants{{Pos: Vec{X: 300, Y: 100}, Radius: 10}}
	opts := Options{VerticalStep: 30, VerticalAttempts: 2, HorizontalStep: 40, HorizontalAttempts: 3}

	res := FindSafePosition(Vec{X: 300, Y: 100}, 20, field, occ, opts)
	assert.Equal(t, Vec{X: 260, Y: 100}, res.Pos)
}

func TestFindSafePositionFallback(t *testing.T) {
	field := Field{Left: 20, Right: 580}
	occ := Occupants{{Pos: Vec{X: 300, Y: 400}, Radius: 5000}}

	res := FindSafePosition(Vec{X: 300, Y: 80}, 40, field, occ, DefaultOptions(1))
	assert.True(t, res.Fallback)
	assert.Equal(t, Vec{X: 300, Y: 80}, res.Pos)
}

func TestFindSafePositionStopsAtTop(t *testing.T) {
	field := Field{Left: 0, Right: 100}
	var tested []Vec
	blocked := OccupancyFunc(func(p Vec, radius float64) bool {
		tested = append(tested, p)
		return true
	})
	opts := Options{VerticalStep: 30, VerticalAttempts: 20}

	res := FindSafePosition(Vec{X: 50, Y: 50}, 20, field, blocked, opts)
	assert.True(t, res.Fallback)
	assert.Equal(t, []Vec{{X: 50, Y: 50}, {X: 50, Y: 20}}, tested)
}

func TestFindSafePositionStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	field := Field{Left: 20, Right: 580}
	for i := 0; i < 200; i++ {
		var occ Occupants
		n := rng.IntN(12)
		for j := 0; j < n; j++ {
			occ = append(occ, Occupant{
				Pos:    Vec{X: rng.Float64() * 600, Y: rng.Float64() * 800},
				Radius: 20 + rng.Float64()*150,
			})
		}
		radius := 40 + rng.Float64()*30
		desired := Vec{X: rng.Float64()*800 - 100, Y: 80}

		res := FindSafePosition(desired, radius, field, occ, DefaultOptions(1))
		assert.GreaterOrEqual(t, res.Pos.X, field.Left+radius)
		assert.LessOrEqual(t, res.Pos.X, field.Right-radius)
		if !res.Fallback {
			assert.False(t, occ.Occupied(res.Pos, radius))
		}
	}
}

func TestClampX(t *testing.T) {
	field := Field{Left: 20, Right: 580}
	assert.Equal(t, 60.0, ClampX(0, 40, field))
	assert.Equal(t, 540.0, ClampX(1000, 40, field))
	assert.Equal(t, 300.0, ClampX(300, 40, field))
	assert.Equal(t, 300.0, ClampX(10, 400, field), "oversized piece is centred")
}
