package common

const (
	// Gravity is the downward acceleration in units per tick squared.
	Gravity = 0.5
	// TimeStep is the physics step per update tick.
	TimeStep = 1.0

	BaseWidth  = 600
	BaseHeight = 800

	DefaultTPS = 60
)
