package entity

import (
	"fmt"

	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/prefabs"
)

// FieldFromSpec applies the display scale to the unscaled field spec.
func FieldFromSpec(spec prefabs.FieldSpec, scale float64) component.Field {
	if scale <= 0 {
		scale = 1
	}
	w := spec.Width * scale
	h := spec.Height * scale
	return component.Field{
		Width:         w,
		Height:        h,
		WallThickness: spec.WallThickness * scale,
		WallTop:       spec.WallTopRatio * h,
		LossLineY:     spec.LossLineRatio * h,
		SpawnY:        spec.SpawnHeightRatio * h,
		WallPadding:   spec.WallPadding * scale,
		Scale:         scale,
	}
}

// NewField creates the field entity plus the floor and two side walls.
func NewField(w *ecs.World, field component.Field) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.FieldComponent.Kind(), &field); err != nil {
		return 0, fmt.Errorf("field: add field: %w", err)
	}

	t := field.WallThickness
	walls := []component.Boundary{
		{Name: "floor", Left: 0, Top: field.Height - t, Right: field.Width, Bottom: field.Height},
		{Name: "left_wall", Left: 0, Top: field.WallTop, Right: t, Bottom: field.Height},
		{Name: "right_wall", Left: field.Width - t, Top: field.WallTop, Right: field.Width, Bottom: field.Height},
	}
	for i := range walls {
		wall := walls[i]
		we := ecs.CreateEntity(w)
		if err := ecs.Add(w, we, component.BoundaryComponent.Kind(), &wall); err != nil {
			return 0, fmt.Errorf("field: add %s: %w", wall.Name, err)
		}
	}

	return e, nil
}
