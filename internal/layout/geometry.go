package layout

import (
	"errors"
	"fmt"
	"math"
)

// Geometry describes the card size and the grid of cards on one page.
type Geometry struct {
	Width   float64 `json:"width"`   // Length of a card side
	Columns int     `json:"columns"` // Triangles per row, two per rhombus
	Rows    int     `json:"rows"`
	Margin  float64 `json:"margin"` // Blank border around the grid
}

// DefaultGeometry fits 16 cards on a letter page.
func DefaultGeometry() Geometry {
	return Geometry{Width: 100, Columns: 4, Rows: 4, Margin: 10}
}

// Validate checks that the grid can be tessellated.
func (g Geometry) Validate() error {
	var errs []error
	if g.Width <= 0 {
		errs = append(errs, fmt.Errorf("card width must be positive, got %g", g.Width))
	}
	if g.Columns <= 0 || g.Columns%2 != 0 {
		errs = append(errs, fmt.Errorf("columns must be a positive even number, got %d", g.Columns))
	}
	if g.Rows <= 0 {
		errs = append(errs, fmt.Errorf("rows must be positive, got %d", g.Rows))
	}
	if g.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin must not be negative, got %g", g.Margin))
	}
	return errors.Join(errs...)
}

// Height of a card: Width·√3/2.
func (g Geometry) Height() float64 {
	return g.Width * math.Sqrt(3) / 2
}

// PerPage is the number of cards on a full page.
func (g Geometry) PerPage() int {
	return g.Columns * g.Rows
}

// Pivot is the point about which inverted cards are rotated: the center of
// the card's bounding box.
func (g Geometry) Pivot() Point {
	return Point{X: g.Width / 2, Y: g.Height() / 2}
}

// ViewBox is the page area, in card units, including the margin.
func (g Geometry) ViewBox() Rect {
	return Rect{
		X:      -g.Margin,
		Y:      -g.Margin,
		Width:  float64(g.Columns+1)/2*g.Width + 2*g.Margin,
		Height: float64(g.Rows)*g.Height() + 2*g.Margin,
	}
}
