// Package placement finds a spawn or drop point that does not overlap any
// existing piece, using a bounded deterministic probe pattern.
package placement

import (
	"log"
	"math"
)

// Vec is a point in field coordinates (y grows downward).
type Vec struct {
	X float64
	Y float64
}

// Field is the horizontal range a piece centre may occupy once its radius is
// accounted for, i.e. the inner faces of the side walls.
type Field struct {
	Left  float64
	Right float64
}

// Occupant is a circle already in the field.
type Occupant struct {
	Pos    Vec
	Radius float64
}

// OccupancyQuery answers whether a circle at p with the given radius would
// overlap a piece.
type OccupancyQuery interface {
	Occupied(p Vec, radius float64) bool
}

// OccupancyFunc adapts a function to OccupancyQuery.
type OccupancyFunc func(p Vec, radius float64) bool

func (f OccupancyFunc) Occupied(p Vec, radius float64) bool {
	if f == nil {
		return false
	}
	return f(p, radius)
}

// Occupants is a static OccupancyQuery over a fixed piece layout.
type Occupants []Occupant

func (o Occupants) Occupied(p Vec, radius float64) bool {
	for _, occ := range o {
		if Overlaps(p, radius, occ) {
			return true
		}
	}
	return false
}

// Overlaps reports whether a circle at p overlaps occ: centre distance below
// the sum of radii.
func Overlaps(p Vec, radius float64, occ Occupant) bool {
	return math.Hypot(p.X-occ.Pos.X, p.Y-occ.Pos.Y) < radius+occ.Radius
}

// Options bounds the probe pattern. Steps are in field units.
type Options struct {
	VerticalStep       float64
	VerticalAttempts   int
	HorizontalStep     float64
	HorizontalAttempts int
}

// DefaultOptions returns the shipped probe budget at the given scale.
func DefaultOptions(scale float64) Options {
	if scale <= 0 {
		scale = 1
	}
	return Options{
		VerticalStep:       30 * scale,
		VerticalAttempts:   20,
		HorizontalStep:     20 * scale,
		HorizontalAttempts: 10,
	}
}

// Result is the chosen point plus how it was found.
type Result struct {
	Pos Vec
	// Fallback is true when every probe was occupied and Pos is the
	// (clamped) desired point anyway.
	Fallback bool
	// Probes counts the candidates tested.
	Probes int
}

// ClampX keeps x within the field for a piece of the given radius. A piece
// wider than the field is centred.
func ClampX(x, radius float64, field Field) float64 {
	lo := field.Left + radius
	hi := field.Right - radius
	if lo > hi {
		return (field.Left + field.Right) / 2
	}
	return math.Min(math.Max(x, lo), hi)
}

// FindSafePosition returns the first unoccupied candidate near desired.
//
// The desired point comes first. After it, the search climbs in VerticalStep
// increments; each row tests the centre then alternates left and right
// HorizontalStep offsets, nearest first, skipping offsets that would overlap
// a wall. The climb stops once a row's y is above the radius (the top of the
// field). When nothing is free the clamped desired point is returned with
// Fallback set.
func FindSafePosition(desired Vec, radius float64, field Field, occupied OccupancyQuery, opts Options) Result {
	start := Vec{X: ClampX(desired.X, radius, field), Y: desired.Y}
	if occupied == nil {
		return Result{Pos: start, Probes: 1}
	}
	if opts.VerticalAttempts < 1 {
		opts.VerticalAttempts = 1
	}

	probes := 0
	test := func(p Vec) bool {
		probes++
		return !occupied.Occupied(p, radius)
	}

	for v := 0; v < opts.VerticalAttempts; v++ {
		y := start.Y - float64(v)*opts.VerticalStep
		if v > 0 && y < radius {
			break
		}
		if test(Vec{X: start.X, Y: y}) {
			return Result{Pos: Vec{X: start.X, Y: y}, Probes: probes}
		}
		if opts.HorizontalStep <= 0 {
			continue
		}
		for k := 1; k <= opts.HorizontalAttempts; k++ {
			off := float64(k) * opts.HorizontalStep
			for _, x := range [2]float64{start.X - off, start.X + off} {
				if !withinField(x, radius, field) {
					continue
				}
				if p := (Vec{X: x, Y: y}); test(p) {
					return Result{Pos: p, Probes: probes}
				}
			}
		}
	}

	log.Printf("Placement: no free spot for radius %.1f near (%.1f, %.1f) after %d probes, using desired point", radius, start.X, start.Y, probes)
	return Result{Pos: start, Fallback: true, Probes: probes}
}

func withinField(x, radius float64, field Field) bool {
	return x-radius >= field.Left && x+radius <= field.Right
}
