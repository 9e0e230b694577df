package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one character position on the screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' ', Color: ColorDefault}

// Screen is a fixed-size cell buffer. Games draw into it and the platform
// turns it into terminal output.
type Screen struct {
	width  int
	height int
	cells  []Cell // row-major, width*height
}

// NewScreen allocates a blank screen.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

func (s *Screen) Width() int  { return s.width }
func (s *Screen) Height() int { return s.height }

// Resize changes the dimensions. Content in the overlapping top-left area
// survives; everything else is blank.
func (s *Screen) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == s.width && height == s.height && s.cells != nil {
		return
	}

	next := make([]Cell, width*height)
	for i := range next {
		next[i] = blank
	}
	for y := 0; y < min(height, s.height); y++ {
		for x := 0; x < min(width, s.width); x++ {
			next[y*width+x] = s.cells[y*s.width+x]
		}
	}

	s.width = width
	s.height = height
	s.cells = next
}

// Clear blanks the whole screen.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

func (s *Screen) inBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set writes r with the default color. Out-of-bounds writes are dropped.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColored(x, y, r, ColorDefault)
}

// SetColored writes r with color c. Out-of-bounds writes are dropped.
func (s *Screen) SetColored(x, y int, r rune, c Color) {
	if !s.inBounds(x, y) {
		return
	}
	s.cells[y*s.width+x] = Cell{Rune: r, Color: c}
}

// Get returns the rune at (x, y), or a space when out of bounds.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell when out of bounds.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inBounds(x, y) {
		return blank
	}
	return s.cells[y*s.width+x]
}

// DrawText writes text left to right from (x, y), clipped to the screen.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColored(x, y, text, ColorDefault)
}

// DrawTextColored is DrawText with a color.
func (s *Screen) DrawTextColored(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColored(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered centers text horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	x := (s.width - utf8.RuneCountInString(text)) / 2
	s.DrawTextColored(x, y, text, c)
}

// DrawRect fills r with fill.
func (s *Screen) DrawRect(r Rect, fill rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill)
		}
	}
}

// DrawBox outlines r with box-drawing runes.
func (s *Screen) DrawBox(r Rect, c Color) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		s.SetColored(x, r.Y, '─', c)
		s.SetColored(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColored(r.X, y, '│', c)
		s.SetColored(right, y, '│', c)
	}
	s.SetColored(r.X, r.Y, '┌', c)
	s.SetColored(right, r.Y, '┐', c)
	s.SetColored(r.X, bottom, '└', c)
	s.SetColored(right, bottom, '┘', c)
}

// DrawHLine draws length copies of r starting at (x, y).
func (s *Screen) DrawHLine(x, y, length int, r rune, c Color) {
	for i := 0; i < length; i++ {
		s.SetColored(x+i, y, r, c)
	}
}

// Row returns row y as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for x := 0; x < s.width; x++ {
		sb.WriteRune(s.cells[y*s.width+x].Rune)
	}
	return sb.String()
}

// String returns the screen as plain text, rows separated by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.height)
	for y := range rows {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
