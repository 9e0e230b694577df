package core

// Color is a foreground color for a screen cell. The platform maps these
// to terminal colors; games only pick from the palette.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorGray
)
