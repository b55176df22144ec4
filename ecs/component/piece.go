package component

// Piece marks a pizza body. Radius is already multiplied by the display
// scale. Falling is true only for the single piece still under player
// control; MergeLocked is set while a merge that consumes this piece is
// being applied.
type Piece struct {
	Level       int
	Radius      float64
	Falling     bool
	MergeLocked bool
	// RestFrames counts consecutive ticks below the rest speed.
	RestFrames int
	Sleeping   bool
}

var PieceComponent = NewComponent[Piece]()
