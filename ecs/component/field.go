package component

// Field is the play-field geometry for the current session, already scaled.
type Field struct {
	Width         float64
	Height        float64
	WallThickness float64
	WallTop       float64
	LossLineY     float64
	SpawnY        float64
	WallPadding   float64
	Scale         float64
}

// InnerLeft is the x of the left wall's inner face.
func (f Field) InnerLeft() float64 {
	return f.WallThickness
}

// InnerRight is the x of the right wall's inner face.
func (f Field) InnerRight() float64 {
	return f.Width - f.WallThickness
}

var FieldComponent = NewComponent[Field]()
