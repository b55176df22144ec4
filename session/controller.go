// Package session owns one game at a time: the world, the physics space and
// the scheduler that ticks them. Restart throws all of it away and builds a
// fresh set.
package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
	"github.com/milk9111/pizzamerge/ecs/system"
	"github.com/milk9111/pizzamerge/placement"
	"github.com/milk9111/pizzamerge/prefabs"
)

var ErrNoCatalog = errors.New("session: catalog is required")

type Options struct {
	Catalog        *catalog.Catalog
	Field          prefabs.FieldSpec
	Scale          float64
	Policy         system.GameOverPolicy
	CooldownFrames int
	Seed           uint64
	// SpawnScript names a tengo level picker; empty uses the uniform picker.
	SpawnScript string
	Sink        system.ScoreSink
	HighScore   int
	Debug       bool
}

type Controller struct {
	opts    Options
	picker  system.LevelPicker
	uniform *system.UniformPicker

	world     *ecs.World
	scheduler *ecs.Scheduler
	physics   *system.PhysicsSystem
	control   *system.ControlSystem
	spawner   *system.Spawner
	highScore *system.HighScoreSystem

	pendingCatalog *catalog.Catalog
	pendingField   *prefabs.FieldSpec
	pendingScript  bool
	lastHighScore  int
}

// Snapshot is a read-only view of the current session.
type Snapshot struct {
	ID           uuid.UUID
	State        component.SessionState
	Score        int
	HighScore    int
	GameOver     bool
	FinalScore   int
	Cause        string
	Pieces       int
	FallingLevel int
	Merges       int
	Drops        int
}

func New(opts Options) (*Controller, error) {
	if opts.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if err := opts.Field.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	uniform := system.NewUniformPicker(opts.Seed)
	var picker system.LevelPicker = uniform
	if opts.SpawnScript != "" {
		sp, err := system.NewScriptPicker(opts.SpawnScript, uniform)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		picker = sp
	}

	return &Controller{opts: opts, picker: picker, uniform: uniform, lastHighScore: opts.HighScore}, nil
}

// Init builds a fresh world and spawns the first falling piece.
func (c *Controller) Init() error {
	c.applyPending()

	opts := c.opts
	field := entity.FieldFromSpec(opts.Field, opts.Scale)
	material := entity.Material{
		Density:    opts.Field.Physics.Density,
		Friction:   opts.Field.Physics.Friction,
		Elasticity: opts.Field.Physics.Elasticity,
	}

	w := ecs.NewWorld()
	if _, err := entity.NewField(w, field); err != nil {
		return fmt.Errorf("session: init: %w", err)
	}
	if _, err := entity.NewSession(w, uuid.New(), c.lastHighScore); err != nil {
		return fmt.Errorf("session: init: %w", err)
	}

	physics := system.DefaultPhysicsSettings()
	if p := opts.Field.Physics; p.Gravity > 0 {
		physics.Gravity = p.Gravity
		if p.Iterations > 0 {
			physics.Iterations = p.Iterations
		}
		physics.SleepTimeThreshold = p.SleepTimeThreshold
		physics.IdleSpeedThreshold = p.IdleSpeedThreshold
		physics.WallFriction = p.Friction
		physics.WallElasticity = p.Elasticity
	}
	physics.Gravity *= opts.Scale

	reducer := &system.Reducer{
		Catalog:     opts.Catalog,
		Scale:       opts.Scale,
		Material:    material,
		FlashFrames: opts.Field.MergeFlashFrames,
	}

	probe := placement.DefaultOptions(opts.Scale)
	if p := opts.Field.Placement; p.VerticalAttempts > 0 {
		probe = placement.Options{
			VerticalStep:       p.VerticalStep * opts.Scale,
			VerticalAttempts:   p.VerticalAttempts,
			HorizontalStep:     p.HorizontalStep * opts.Scale,
			HorizontalAttempts: p.HorizontalAttempts,
		}
	}

	c.spawner = &system.Spawner{
		Catalog:   opts.Catalog,
		Scale:     opts.Scale,
		Material:  material,
		Picker:    c.picker,
		Placement: probe,
	}

	gameOver := system.DefaultGameOverSettings()
	gameOver.Policy = opts.Policy
	if g := opts.Field.GameOver; g.SettleFrames > 0 {
		gameOver.RestSpeed = g.RestSpeed
		gameOver.SettleFrames = g.SettleFrames
	}

	merge := system.NewMergeSystem(opts.Catalog, reducer)
	merge.Debug = opts.Debug

	c.world = w
	c.physics = system.NewPhysicsSystem(physics)
	c.control = system.NewControlSystem(c.spawner, opts.CooldownFrames)
	c.highScore = system.NewHighScoreSystem(opts.Sink, c.lastHighScore)
	c.scheduler = ecs.NewScheduler(
		c.control,
		system.NewCooldownSystem(c.spawner),
		c.physics,
		merge,
		system.NewGameOverSystem(gameOver, reducer),
		c.highScore,
		system.NewTTLSystem(),
	)

	if _, _, err := c.spawner.SpawnNext(w); err != nil {
		return fmt.Errorf("session: init: %w", err)
	}
	return nil
}

// Restart discards the current world and starts over. The high score
// carries across.
func (c *Controller) Restart() error {
	if _, s, ok := c.session(); ok {
		if s.HighScore > c.lastHighScore {
			c.lastHighScore = s.HighScore
		}
		log.Printf("Session: restart after %s (score %d)", s.State, s.Score)
	}
	return c.Init()
}

// Update advances the session one tick.
func (c *Controller) Update() {
	if c.scheduler == nil || c.world == nil {
		return
	}
	c.scheduler.Update(c.world)
	if _, s, ok := c.session(); ok && s.HighScore > c.lastHighScore {
		c.lastHighScore = s.HighScore
	}
}

// SpawnNext spawns a falling piece unless one exists or the game is over.
func (c *Controller) SpawnNext() (bool, error) {
	if c.spawner == nil {
		return false, nil
	}
	_, ok, err := c.spawner.SpawnNext(c.world)
	return ok, err
}

func (c *Controller) Aim(x float64) bool {
	if c.control == nil {
		return false
	}
	return c.control.Aim(c.world, x)
}

func (c *Controller) Drop(x float64) bool {
	if c.control == nil {
		return false
	}
	return c.control.Drop(c.world, x)
}

// Reload stages a new catalog and field for the next Init or Restart.
func (c *Controller) Reload(cat *catalog.Catalog, field *prefabs.FieldSpec) {
	if cat != nil {
		c.pendingCatalog = cat
	}
	if field != nil {
		f := *field
		c.pendingField = &f
	}
}

// ReloadScript stages a recompile of the spawn script for the next Init or
// Restart. It does nothing without a configured script.
func (c *Controller) ReloadScript() {
	if c.opts.SpawnScript != "" {
		c.pendingScript = true
	}
}

func (c *Controller) applyPending() {
	if c.pendingCatalog != nil {
		c.opts.Catalog = c.pendingCatalog
		c.pendingCatalog = nil
	}
	if c.pendingField != nil {
		c.opts.Field = *c.pendingField
		c.pendingField = nil
	}
	if c.pendingScript {
		c.pendingScript = false
		sp, err := system.NewScriptPicker(c.opts.SpawnScript, c.uniform)
		if err != nil {
			log.Printf("Session: reload spawn script: %v, keeping previous picker", err)
			return
		}
		c.picker = sp
		log.Printf("Session: reloaded spawn script %s", c.opts.SpawnScript)
	}
}

func (c *Controller) World() *ecs.World {
	return c.world
}

func (c *Controller) Physics() *system.PhysicsSystem {
	return c.physics
}

func (c *Controller) Catalog() *catalog.Catalog {
	return c.opts.Catalog
}

// FlashFrames is how long a merge flash lives.
func (c *Controller) FlashFrames() int {
	return c.opts.Field.MergeFlashFrames
}

func (c *Controller) Field() component.Field {
	f, _ := entity.Field(c.world)
	return f
}

func (c *Controller) Score() int {
	_, s, ok := c.session()
	if !ok {
		return 0
	}
	return s.Score
}

func (c *Controller) HighScore() int {
	_, s, ok := c.session()
	if !ok {
		return c.lastHighScore
	}
	return s.HighScore
}

func (c *Controller) GameOver() bool {
	_, s, ok := c.session()
	return ok && s.GameOver
}

func (c *Controller) State() component.SessionState {
	_, s, ok := c.session()
	if !ok {
		return component.SessionInitializing
	}
	return s.State
}

func (c *Controller) FinalScore() int {
	_, s, ok := c.session()
	if !ok {
		return 0
	}
	return s.FinalScore
}

func (c *Controller) Snapshot() Snapshot {
	_, s, ok := c.session()
	if !ok {
		return Snapshot{HighScore: c.lastHighScore}
	}
	snap := Snapshot{
		ID:         s.ID,
		State:      s.State,
		Score:      s.Score,
		HighScore:  s.HighScore,
		GameOver:   s.GameOver,
		FinalScore: s.FinalScore,
		Cause:      s.GameOverCause,
		Pieces:     ecs.Count(c.world, component.PieceComponent.Kind()),
		Merges:     s.Merges,
		Drops:      s.Drops,
	}
	if s.Falling != 0 {
		if p, ok := ecs.Get(c.world, ecs.Entity(s.Falling), component.PieceComponent.Kind()); ok {
			snap.FallingLevel = p.Level
		}
	}
	return snap
}

func (c *Controller) session() (ecs.Entity, *component.Session, bool) {
	if c.world == nil {
		return 0, nil, false
	}
	return entity.Session(c.world)
}
