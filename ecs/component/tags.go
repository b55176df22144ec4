package component

type SessionTag struct{}

var SessionTagComponent = NewComponent[SessionTag]()

// Boundary is a static axis-aligned wall or floor box in world space.
type Boundary struct {
	Name   string
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

var BoundaryComponent = NewComponent[Boundary]()
