package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
)

// InputSystem samples mouse, touch and keyboard into the Input component.
// Cursor and touch positions arrive in layout coordinates, which are field
// coordinates.
type InputSystem struct {
	lastCursorX int
	lastCursorY int
	aimX        float64
	touches     []ebiten.TouchID
	released    []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{lastCursorX: -1, lastCursorY: -1}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	hasAim := false
	drop := false
	dropX := 0.0

	cx, cy := ebiten.CursorPosition()
	if cx != i.lastCursorX || cy != i.lastCursorY {
		i.lastCursorX, i.lastCursorY = cx, cy
		i.aimX = float64(cx)
		hasAim = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		drop = true
		dropX = float64(cx)
	}

	i.touches = ebiten.AppendTouchIDs(i.touches[:0])
	for _, id := range i.touches {
		tx, _ := ebiten.TouchPosition(id)
		i.aimX = float64(tx)
		hasAim = true
	}
	i.released = inpututil.AppendJustReleasedTouchIDs(i.released[:0])
	for _, id := range i.released {
		tx, _ := inpututil.TouchPositionInPreviousTick(id)
		drop = true
		dropX = float64(tx)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		drop = true
		dropX = i.aimX
	}
	restart := inpututil.IsKeyJustPressed(ebiten.KeyR)

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.AimX = i.aimX
		input.HasAim = hasAim
		input.Drop = drop
		input.DropX = dropX
		input.Restart = restart
	})
}
