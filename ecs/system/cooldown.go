package system

import (
	"log"

	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

// CooldownSystem counts down the drop cooldown and spawns the next falling
// piece when it expires. An expiry from an older session generation, or one
// that lands after game over, spawns nothing.
type CooldownSystem struct {
	spawner *Spawner
}

func NewCooldownSystem(spawner *Spawner) *CooldownSystem {
	return &CooldownSystem{spawner: spawner}
}

func (s *CooldownSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.DropCooldownComponent.Kind(), func(e ecs.Entity, cd *component.DropCooldown) {
		if cd.Frames > 1 {
			cd.Frames--
			return
		}

		// cooldown finished
		_ = ecs.Remove(w, e, component.DropCooldownComponent.Kind())

		_, session, ok := entity.Session(w)
		if !ok || session.GameOver || session.ID != cd.Generation {
			return
		}
		if _, _, err := s.spawner.SpawnNext(w); err != nil {
			log.Printf("CooldownSystem: spawn: %v", err)
		}
	})
}
