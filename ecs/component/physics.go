package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are filled in by the physics system; the remaining fields
// are the requested configuration.
type PhysicsBody struct {
	Body       *cp.Body
	Shape      *cp.Shape
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	// Kinematic bodies ignore gravity and are moved only by the game.
	Kinematic bool
	// Sensor shapes report contacts but never push other bodies.
	Sensor bool
	// Teleport asks the physics system to copy Transform into the body on
	// its next update instead of the other way round.
	Teleport bool
	// InitialVX and InitialVY seed the velocity of a freshly created body.
	InitialVX float64
	InitialVY float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
