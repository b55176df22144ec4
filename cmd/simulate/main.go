package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/milk9111/pizzamerge/ecs/system"
	"github.com/milk9111/pizzamerge/highscore"
	"github.com/milk9111/pizzamerge/prefabs"
	"github.com/milk9111/pizzamerge/session"
)

// simulate plays headless games with random drops and reports the scores.
func main() {
	games := flag.Int("games", 1, "number of games to play")
	ticks := flag.Int("ticks", 20000, "tick limit per game")
	seed := flag.Uint64("seed", 1, "random seed")
	policy := flag.String("policy", "settled", "game over policy: settled or boundary")
	cooldown := flag.Int("cooldown", 30, "drop cooldown in ticks")
	prefabDir := flag.String("prefabs", "", "prefab override dir (empty uses embedded)")
	flag.Parse()

	prefabs.SetDiskDir(*prefabDir)
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}
	field, err := prefabs.LoadField()
	if err != nil {
		log.Fatalf("load field: %v", err)
	}
	p, err := system.ParseGameOverPolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}

	store := highscore.NewMemoryStore(0)
	writer := highscore.NewWriter(store, 0)
	defer writer.Close()

	c, err := session.New(session.Options{
		Catalog:        cat,
		Field:          field,
		Policy:         p,
		CooldownFrames: *cooldown,
		Seed:           *seed,
		Sink:           writer,
	})
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x5851f42d4c957f2d))
	for game := 1; game <= *games; game++ {
		var err error
		if game == 1 {
			err = c.Init()
		} else {
			err = c.Restart()
		}
		if err != nil {
			log.Fatal(err)
		}

		tick := 0
		for ; tick < *ticks && !c.GameOver(); tick++ {
			f := c.Field()
			c.Drop(f.WallPadding + rng.Float64()*(f.Width-2*f.WallPadding))
			c.Update()
		}

		snap := c.Snapshot()
		cause := snap.Cause
		if !snap.GameOver {
			cause = "tick limit"
		}
		fmt.Printf("game %d: score=%d best=%d merges=%d drops=%d ticks=%d end=%q\n",
			game, snap.Score, snap.HighScore, snap.Merges, snap.Drops, tick, cause)
	}
}
