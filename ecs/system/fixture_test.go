package system

import (
	"testing"

	"github.com/google/uuid"
	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
	"github.com/milk9111/pizzamerge/placement"
	"github.com/stretchr/testify/require"
)

var shippedRadii = []float64{40, 60, 70, 80, 90, 100, 110, 120, 130, 140, 150, 160, 170, 180, 190}

func shippedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	defs := make([]catalog.LevelDef, 0, len(shippedRadii))
	for i, r := range shippedRadii {
		level := i + 1
		defs = append(defs, catalog.LevelDef{Level: level, Radius: r, ScoreValue: level * (level + 1) / 2})
	}
	cat, err := catalog.New(defs, 3)
	require.NoError(t, err)
	return cat
}

func testField() component.Field {
	return component.Field{
		Width:         600,
		Height:        800,
		WallThickness: 20,
		WallTop:       200,
		LossLineY:     200,
		SpawnY:        80,
		WallPadding:   20,
		Scale:         1,
	}
}

type fixedPicker int

func (p fixedPicker) NextLevel(int) int { return int(p) }

type fixture struct {
	w       *ecs.World
	cat     *catalog.Catalog
	reducer *Reducer
	merge   *MergeSystem
	spawner *Spawner
	session *component.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld()
	_, err := entity.NewField(w, testField())
	require.NoError(t, err)
	_, err = entity.NewSession(w, uuid.New(), 0)
	require.NoError(t, err)
	_, session, ok := entity.Session(w)
	require.True(t, ok)

	cat := shippedCatalog(t)
	material := entity.Material{Density: 0.001, Friction: 0.1, Elasticity: 0.2}
	reducer := &Reducer{Catalog: cat, Scale: 1, Material: material, FlashFrames: 18}
	return &fixture{
		w:       w,
		cat:     cat,
		reducer: reducer,
		merge:   NewMergeSystem(cat, reducer),
		spawner: &Spawner{
			Catalog:   cat,
			Scale:     1,
			Material:  material,
			Picker:    fixedPicker(1),
			Placement: placement.DefaultOptions(1),
		},
		session: session,
	}
}

func (f *fixture) piece(t *testing.T, level int, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.NewPiece(f.w, f.cat, 1, f.reducer.Material, entity.PieceSpec{Level: level, X: x, Y: y})
	require.NoError(t, err)
	return e
}

func (f *fixture) pieceLevels() map[int]int {
	out := map[int]int{}
	ecs.ForEach(f.w, component.PieceComponent.Kind(), func(_ ecs.Entity, p *component.Piece) {
		out[p.Level]++
	})
	return out
}

func (f *fixture) mergeBatch(t *testing.T, batch ...ecs.CollisionPair) []Intent {
	t.Helper()
	intents := f.merge.PlanMerges(f.w, batch)
	require.NoError(t, f.reducer.ApplyIntents(f.w, intents))
	return intents
}
