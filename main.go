package main

import (
	"context"
	"flag"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pizzamerge/config"
	"github.com/milk9111/pizzamerge/ecs/system"
	"github.com/milk9111/pizzamerge/highscore"
	"github.com/milk9111/pizzamerge/prefabs"
	"github.com/milk9111/pizzamerge/session"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	seed := flag.Uint64("seed", 0, "random seed for spawn levels (0 picks one)")
	policy := flag.String("policy", "", "game over policy: settled or boundary")
	watch := flag.Bool("watch", false, "reload prefabs from disk when they change")
	flag.Parse()

	cfg := config.Load()
	if *debug {
		cfg.Debug = true
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *policy != "" {
		cfg.GameOverPolicy = strings.ToLower(*policy)
	}
	if *watch {
		cfg.PrefabWatch = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	prefabs.SetDiskDir(cfg.PrefabDir)
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	field, err := prefabs.LoadField()
	if err != nil {
		log.Fatalf("load field: %v", err)
	}
	gameOverPolicy, err := system.ParseGameOverPolicy(cfg.GameOverPolicy)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store := openStore(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	best, err := store.Load(ctx)
	cancel()
	if err != nil {
		log.Printf("HighScore: load failed, starting from 0: %v", err)
		best = 0
	}
	writer := highscore.NewWriter(store, 2*time.Second)

	controller, err := session.New(session.Options{
		Catalog:        cat,
		Field:          field,
		Scale:          cfg.Scale,
		Policy:         gameOverPolicy,
		CooldownFrames: cfg.CooldownFrames(),
		Seed:           cfg.Seed,
		SpawnScript:    cfg.SpawnScript,
		Sink:           writer,
		HighScore:      best,
		Debug:          cfg.Debug,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := controller.Init(); err != nil {
		log.Fatal(err)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game := NewGame(cfg, controller)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(game.width), int(game.height))
	ebiten.SetWindowTitle("pizza merge")

	runErr := ebiten.RunGame(game)

	game.Close()
	writer.Close()
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("HighScore: close: %v", err)
		}
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

// openStore falls back to memory when the configured backend is unreachable
// so the game still starts.
func openStore(cfg *config.Config) highscore.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	store, err := highscore.Open(ctx, cfg)
	if err != nil {
		log.Printf("HighScore: %s backend unavailable, using memory: %v", cfg.HighScoreBackend, err)
		return highscore.NewMemoryStore(0)
	}
	return store
}
