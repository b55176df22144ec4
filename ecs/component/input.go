package component

// Input stores the pointer state for the current tick. AimX is in field
// coordinates; Drop is set on the tick the pointer or touch was released.
type Input struct {
	AimX    float64
	HasAim  bool
	Drop    bool
	DropX   float64
	Restart bool
}

var InputComponent = NewComponent[Input]()
