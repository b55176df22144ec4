package system

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/pizzamerge/common"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var levelColors = []color.RGBA{
	colornames.Gold,
	colornames.Orange,
	colornames.Tomato,
	colornames.Crimson,
	colornames.Orchid,
	colornames.Mediumpurple,
	colornames.Royalblue,
	colornames.Deepskyblue,
	colornames.Turquoise,
	colornames.Mediumseagreen,
	colornames.Yellowgreen,
	colornames.Khaki,
	colornames.Sandybrown,
	colornames.Sienna,
	colornames.Firebrick,
}

// LevelColor is the fill used for a piece level.
func LevelColor(level int) color.RGBA {
	if level < 1 {
		return colornames.White
	}
	return levelColors[(level-1)%len(levelColors)]
}

type RenderSystem struct {
	face       ebtext.Face
	flashTotal int
	Debug      bool
}

func NewRenderSystem(flashFrames int) *RenderSystem {
	return &RenderSystem{face: ebtext.NewGoXFace(basicfont.Face7x13), flashTotal: flashFrames}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	screen.Fill(colornames.Bisque)

	field, ok := entity.Field(w)
	if ok {
		vector.StrokeLine(screen, 0, float32(field.LossLineY), float32(field.Width), float32(field.LossLineY), 2, colornames.Red, true)
	}

	ecs.ForEach(w, component.BoundaryComponent.Kind(), func(_ ecs.Entity, b *component.Boundary) {
		vector.FillRect(screen, float32(b.Left), float32(b.Top), float32(b.Right-b.Left), float32(b.Bottom-b.Top), colornames.Saddlebrown, false)
	})

	// Released pieces first, the aiming piece on top.
	pieces := ecs.Query(w, component.PieceComponent.Kind())
	sort.SliceStable(pieces, func(i, j int) bool {
		pi, _ := ecs.Get(w, pieces[i], component.PieceComponent.Kind())
		pj, _ := ecs.Get(w, pieces[j], component.PieceComponent.Kind())
		if pi.Falling != pj.Falling {
			return !pi.Falling
		}
		return uint64(pieces[i]) < uint64(pieces[j])
	})
	for _, e := range pieces {
		piece, _ := ecs.Get(w, e, component.PieceComponent.Kind())
		tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		fill := LevelColor(piece.Level)
		if piece.Falling {
			fill.A = 180
		}
		cx, cy, rad := float32(tr.X), float32(tr.Y), float32(piece.Radius)
		vector.FillCircle(screen, cx, cy, rad, fill, true)
		vector.StrokeCircle(screen, cx, cy, rad, 2, colornames.Saddlebrown, true)
		r.drawText(screen, fmt.Sprintf("%d", piece.Level), tr.X-3, tr.Y-6, colornames.Black)
		if r.Debug && piece.Sleeping {
			vector.StrokeCircle(screen, cx, cy, rad-4, 1, colornames.Blue, true)
		}
	}

	ecs.ForEach2(w, component.MergeFlashComponent.Kind(), component.TTLComponent.Kind(), func(_ ecs.Entity, flash *component.MergeFlash, ttl *component.TTL) {
		t := 1.0
		if r.flashTotal > 0 {
			t = float64(ttl.Frames) / float64(r.flashTotal)
		}
		c := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(common.Lerp(0, 255, t))}
		grow := float32(common.Lerp(1.4, 1, t))
		vector.StrokeCircle(screen, float32(flash.X), float32(flash.Y), float32(flash.Radius)*grow, 4, c, true)
	})

	if _, session, ok := entity.Session(w); ok {
		r.drawText(screen, fmt.Sprintf("Score: %d", session.Score), 10, 8, colornames.Black)
		r.drawText(screen, fmt.Sprintf("Best: %d", session.HighScore), 10, 24, colornames.Black)
		if r.Debug {
			r.drawText(screen, fmt.Sprintf("%s pieces=%d merges=%d", session.State, ecs.Count(w, component.PieceComponent.Kind()), session.Merges), 10, 40, colornames.Dimgray)
		}
	}
}

func (r *RenderSystem) drawText(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	ebtext.Draw(screen, s, r.face, op)
}
