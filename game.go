package main

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pizzamerge/common"
	"github.com/milk9111/pizzamerge/config"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/system"
	"github.com/milk9111/pizzamerge/prefabs"
	"github.com/milk9111/pizzamerge/session"
	"golang.design/x/clipboard"
)

type Game struct {
	frames int

	controller *session.Controller
	input      *system.InputSystem
	render     *system.RenderSystem
	watcher    *prefabs.Watcher

	// overlay is built once per finished session
	overlay        *ebitenui.UI
	overlaySession uuid.UUID

	restartRequested bool
	clipboardReady   bool

	width  float64
	height float64
}

func NewGame(cfg *config.Config, controller *session.Controller) *Game {
	field := controller.Field()
	g := &Game{
		controller: controller,
		input:      system.NewInputSystem(),
		render:     system.NewRenderSystem(controller.FlashFrames()),
		width:      field.Width,
		height:     field.Height,
	}
	g.render.Debug = cfg.Debug

	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard: unavailable: %v", err)
	} else {
		g.clipboardReady = true
	}

	if cfg.PrefabWatch {
		w, err := prefabs.NewWatcher(cfg.PrefabDir, filepath.Join(cfg.PrefabDir, "scripts"))
		if err != nil {
			log.Printf("Prefabs: watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}
	return g
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		if changed := g.watcher.Poll(); len(changed) > 0 {
			g.reloadPrefabs(changed)
		}
	}

	w := g.controller.World()
	g.input.Update(w)
	if g.consumeRestart(w) || g.restartRequested {
		g.restartRequested = false
		if err := g.controller.Restart(); err != nil {
			return err
		}
		g.overlay = nil
		field := g.controller.Field()
		g.width, g.height = field.Width, field.Height
		return nil
	}

	g.controller.Update()

	if g.controller.GameOver() {
		snap := g.controller.Snapshot()
		if g.overlay == nil || g.overlaySession != snap.ID {
			g.overlay = NewGameOverUI(g, snap)
			g.overlaySession = snap.ID
		}
		g.overlay.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.controller.World(), screen)
	if g.overlay != nil && g.controller.GameOver() {
		g.overlay.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if g.width <= 0 || g.height <= 0 {
		return common.BaseWidth, common.BaseHeight
	}
	return g.width, g.height
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("Prefabs: close watcher: %v", err)
		}
	}
}

func (g *Game) requestRestart() {
	g.restartRequested = true
}

func (g *Game) copyScore(text string) {
	if !g.clipboardReady {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
}

func (g *Game) consumeRestart(w *ecs.World) bool {
	e, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return false
	}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if !in.Restart {
		return false
	}
	in.Restart = false
	return true
}

// reloadPrefabs stages edited specs; they take effect on the next restart.
func (g *Game) reloadPrefabs(changed []string) {
	cat, err := prefabs.LoadCatalog()
	if err != nil {
		log.Printf("Prefabs: reload catalog: %v", err)
		cat = nil
	}
	field, err := prefabs.LoadField()
	if err != nil {
		log.Printf("Prefabs: reload field: %v", err)
		g.controller.Reload(cat, nil)
	} else {
		g.controller.Reload(cat, &field)
	}
	for _, name := range changed {
		if strings.EqualFold(filepath.Ext(name), ".tengo") {
			g.controller.ReloadScript()
			break
		}
	}
	log.Printf("Prefabs: %d file(s) changed, applying on restart", len(changed))
}
