// Package catalog holds the immutable table of piece levels.
package catalog

import (
	"errors"
	"fmt"
)

// ErrInvalidCatalog is returned when a level table breaks an ordering rule.
var ErrInvalidCatalog = errors.New("catalog: invalid level table")

// LevelDef describes one piece level. ScoreValue is awarded when a piece of
// this level is created by merging two pieces of the level below.
type LevelDef struct {
	Level      int
	Radius     float64
	ScoreValue int
	VisualRef  string
}

// OutOfRangeError reports a level outside [1, MaxLevel].
type OutOfRangeError struct {
	Level    int
	MaxLevel int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("catalog: level %d out of range [1, %d]", e.Level, e.MaxLevel)
}

// Catalog is a validated, read-only level table.
type Catalog struct {
	defs           []LevelDef
	startingLevels int
}

// New validates defs and copies them into a Catalog. Levels must be 1..N in
// order with radius and score strictly increasing. startingLevels bounds the
// levels a freshly spawned piece may have and is clamped to [1, N].
func New(defs []LevelDef, startingLevels int) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no levels", ErrInvalidCatalog)
	}
	out := make([]LevelDef, len(defs))
	for i, d := range defs {
		if d.Level != i+1 {
			return nil, fmt.Errorf("%w: entry %d has level %d, want %d", ErrInvalidCatalog, i, d.Level, i+1)
		}
		if d.Radius <= 0 {
			return nil, fmt.Errorf("%w: level %d radius %.2f must be positive", ErrInvalidCatalog, d.Level, d.Radius)
		}
		if i > 0 {
			prev := defs[i-1]
			if d.Radius <= prev.Radius {
				return nil, fmt.Errorf("%w: level %d radius %.2f not above level %d radius %.2f", ErrInvalidCatalog, d.Level, d.Radius, prev.Level, prev.Radius)
			}
			if d.ScoreValue <= prev.ScoreValue {
				return nil, fmt.Errorf("%w: level %d score %d not above level %d score %d", ErrInvalidCatalog, d.Level, d.ScoreValue, prev.Level, prev.ScoreValue)
			}
		}
		out[i] = d
	}
	if startingLevels < 1 {
		startingLevels = 1
	}
	if startingLevels > len(out) {
		startingLevels = len(out)
	}
	return &Catalog{defs: out, startingLevels: startingLevels}, nil
}

// MaxLevel is the highest level, equal to the table size.
func (c *Catalog) MaxLevel() int {
	if c == nil {
		return 0
	}
	return len(c.defs)
}

// StartingLevels is the highest level a new falling piece may spawn at.
func (c *Catalog) StartingLevels() int {
	if c == nil {
		return 0
	}
	return c.startingLevels
}

// DefinitionFor returns the definition of level.
func (c *Catalog) DefinitionFor(level int) (LevelDef, error) {
	if c == nil || level < 1 || level > len(c.defs) {
		return LevelDef{}, &OutOfRangeError{Level: level, MaxLevel: c.MaxLevel()}
	}
	return c.defs[level-1], nil
}

// Lookup is DefinitionFor for callers that only ever ask for valid levels;
// an invalid level yields the zero LevelDef and false.
func (c *Catalog) Lookup(level int) (LevelDef, bool) {
	def, err := c.DefinitionFor(level)
	return def, err == nil
}

// CanMerge reports whether two pieces of level may merge into level+1.
func (c *Catalog) CanMerge(level int) bool {
	return level >= 1 && level < c.MaxLevel()
}

// ScaledRadius returns the radius of level at the given display scale, or 0
// for an invalid level.
func (c *Catalog) ScaledRadius(level int, scale float64) float64 {
	def, ok := c.Lookup(level)
	if !ok {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	return def.Radius * scale
}

// Levels returns a copy of the table.
func (c *Catalog) Levels() []LevelDef {
	if c == nil {
		return nil
	}
	out := make([]LevelDef, len(c.defs))
	copy(out, c.defs)
	return out
}
