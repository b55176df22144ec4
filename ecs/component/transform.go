package component

// Transform is the world-space centre of an entity, synced from its physics
// body after every step.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()

// Velocity mirrors the physics body's linear velocity in units per tick.
type Velocity struct {
	X float64
	Y float64
}

var VelocityComponent = NewComponent[Velocity]()
