package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
	"github.com/milk9111/pizzamerge/ecs/system"
	"github.com/milk9111/pizzamerge/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	scores []int
}

func (m *memorySink) Submit(score int) {
	m.scores = append(m.scores, score)
}

func newController(t *testing.T, opts Options) *Controller {
	t.Helper()
	prefabs.SetDiskDir("")
	t.Cleanup(func() { prefabs.SetDiskDir("prefabs") })

	if opts.Catalog == nil {
		cat, err := prefabs.LoadCatalog()
		require.NoError(t, err)
		opts.Catalog = cat
	}
	if opts.Field.Width == 0 {
		field, err := prefabs.LoadField()
		require.NoError(t, err)
		opts.Field = field
	}
	c, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	return c
}

func fallingCount(w *ecs.World) int {
	n := 0
	ecs.ForEach(w, component.PieceComponent.Kind(), func(_ ecs.Entity, p *component.Piece) {
		if p.Falling {
			n++
		}
	})
	return n
}

func TestInitSpawnsOneFallingPiece(t *testing.T) {
	c := newController(t, Options{Seed: 3, CooldownFrames: 30})

	snap := c.Snapshot()
	assert.Equal(t, component.SessionPlaying, snap.State)
	assert.Zero(t, snap.Score)
	assert.False(t, snap.GameOver)
	assert.Equal(t, 1, snap.Pieces)
	assert.GreaterOrEqual(t, snap.FallingLevel, 1)
	assert.LessOrEqual(t, snap.FallingLevel, 3)
	assert.Equal(t, 1, fallingCount(c.World()))

	ok, err := c.SpawnNext()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoCatalog)
}

func TestDropCooldownThenSpawn(t *testing.T) {
	c := newController(t, Options{Seed: 5, CooldownFrames: 4})

	require.True(t, c.Drop(100))
	assert.False(t, c.Drop(200), "cooldown blocks the next drop")
	assert.Equal(t, 0, fallingCount(c.World()))

	for i := 0; i < 4; i++ {
		c.Update()
	}
	assert.Equal(t, 1, fallingCount(c.World()))
	assert.Equal(t, 2, c.Snapshot().Pieces)
	assert.Equal(t, 1, c.Snapshot().Drops)
}

func TestRestartResetsEverything(t *testing.T) {
	sink := &memorySink{}
	c := newController(t, Options{Seed: 11, CooldownFrames: 1, Sink: sink})
	firstID := c.Snapshot().ID
	w := c.World()

	_, s, ok := entity.Session(w)
	require.True(t, ok)
	s.Score = 40
	s.HighScore = 40
	c.Update()

	require.NoError(t, c.Restart())
	snap := c.Snapshot()
	assert.NotEqual(t, firstID, snap.ID)
	assert.NotSame(t, w, c.World(), "restart builds a fresh world")
	assert.Zero(t, snap.Score)
	assert.False(t, snap.GameOver)
	assert.Equal(t, component.SessionPlaying, snap.State)
	assert.Equal(t, 40, snap.HighScore, "high score carries across sessions")
	assert.Equal(t, 1, snap.Pieces)
	assert.Equal(t, 1, fallingCount(c.World()))
	assert.GreaterOrEqual(t, snap.FallingLevel, 1)
	assert.LessOrEqual(t, snap.FallingLevel, 3)
	assert.Equal(t, []int{40}, sink.scores)
}

func TestGameOverLatchesAndRestartRecovers(t *testing.T) {
	c := newController(t, Options{Seed: 2, CooldownFrames: 1, Policy: system.PolicyBoundary})

	// a released piece outside the inner wall face ends a boundary game
	require.True(t, c.Drop(300))
	w := c.World()
	ecs.ForEach(w, component.PieceComponent.Kind(), func(e ecs.Entity, p *component.Piece) {
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		tr.X = 5
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		body.Teleport = true
	})
	c.Update()
	c.Update()

	require.True(t, c.GameOver())
	assert.Equal(t, component.SessionGameOver, c.State())
	assert.Equal(t, c.Score(), c.FinalScore())
	assert.False(t, c.Drop(300))
	ok, err := c.SpawnNext()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, fallingCount(w))

	require.NoError(t, c.Restart())
	assert.False(t, c.GameOver())
	assert.Zero(t, c.Score())
	assert.Equal(t, 1, fallingCount(c.World()))
}

func TestReloadAppliesOnRestart(t *testing.T) {
	c := newController(t, Options{Seed: 1, CooldownFrames: 1})
	small, err := catalog.New([]catalog.LevelDef{
		{Level: 1, Radius: 10, ScoreValue: 1},
		{Level: 2, Radius: 20, ScoreValue: 2},
	}, 1)
	require.NoError(t, err)

	c.Reload(small, nil)
	assert.Equal(t, 15, c.Catalog().MaxLevel(), "staged until restart")

	require.NoError(t, c.Restart())
	assert.Equal(t, 2, c.Catalog().MaxLevel())
	assert.Equal(t, 1, c.Snapshot().FallingLevel)
}

func TestScriptedSpawns(t *testing.T) {
	c := newController(t, Options{Seed: 9, CooldownFrames: 1, SpawnScript: "spawn.tengo"})
	lvl := c.Snapshot().FallingLevel
	assert.GreaterOrEqual(t, lvl, 1)
	assert.LessOrEqual(t, lvl, 3)
}

func TestReloadScriptAppliesOnRestart(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	script := filepath.Join(scripts, "pick.tengo")
	require.NoError(t, os.WriteFile(script, []byte("next_level := 2"), 0o644))

	prefabs.SetDiskDir(dir)
	t.Cleanup(func() { prefabs.SetDiskDir("prefabs") })
	cat, err := prefabs.LoadCatalog()
	require.NoError(t, err)
	field, err := prefabs.LoadField()
	require.NoError(t, err)

	c, err := New(Options{Catalog: cat, Field: field, Seed: 4, CooldownFrames: 1, SpawnScript: "pick.tengo"})
	require.NoError(t, err)
	require.NoError(t, c.Init())
	assert.Equal(t, 2, c.Snapshot().FallingLevel)

	require.NoError(t, os.WriteFile(script, []byte("next_level := 3"), 0o644))
	require.NoError(t, c.Restart())
	assert.Equal(t, 2, c.Snapshot().FallingLevel, "edits wait for ReloadScript")

	c.ReloadScript()
	require.NoError(t, c.Restart())
	assert.Equal(t, 3, c.Snapshot().FallingLevel)

	require.NoError(t, os.WriteFile(script, []byte("next_level := ("), 0o644))
	c.ReloadScript()
	require.NoError(t, c.Restart())
	assert.Equal(t, 3, c.Snapshot().FallingLevel, "a broken script keeps the previous picker")
}
