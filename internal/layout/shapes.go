// Package layout places triangular cards on printable pages.
//
// It only computes geometry: every card becomes a Unit of drawable
// primitives (Triangle, Line, Label) in card coordinates plus the Transform
// that puts the card on its page. Turning pages into SVG, PNG or PDF is the
// job of the render package.
package layout

import (
	"fmt"
	"math"
	"strconv"
)

// Point in page or card coordinates. Y grows downwards, as in SVG.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Transform translates a card onto its page, after an optional rotation of
// Rotation degrees (clockwise, SVG convention) about Pivot.
type Transform struct {
	TX, TY   float64
	Rotation float64
	Pivot    Point
}

// Apply maps a point from card to page coordinates.
func (t Transform) Apply(p Point) Point {
	if t.Rotation != 0 {
		p = rotate(p, t.Pivot, t.Rotation)
	}
	return Point{X: p.X + t.TX, Y: p.Y + t.TY}
}

// String returns the transform in SVG syntax.
func (t Transform) String() string {
	s := fmt.Sprintf("translate(%s, %s)", fmtFloat(t.TX), fmtFloat(t.TY))
	if t.Rotation != 0 {
		s += " " + rotationString(t.Rotation, t.Pivot)
	}
	return s
}

func rotationString(degrees float64, pivot Point) string {
	return fmt.Sprintf("rotate(%s, %s, %s)", fmtFloat(degrees), fmtFloat(pivot.X), fmtFloat(pivot.Y))
}

func rotate(p, pivot Point, degrees float64) Point {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	dx, dy := p.X-pivot.X, p.Y-pivot.Y
	return Point{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
	}
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Shape is one drawable primitive: *Triangle, *Line or *Label.
type Shape interface {
	isShape()
}

// Triangle is a filled, optionally stroked, triangle.
type Triangle struct {
	Points      [3]Point
	Fill        string
	Stroke      string // Empty for no stroke
	StrokeWidth float64
}

// Line is a stroked segment.
type Line struct {
	From, To    Point
	Stroke      string
	StrokeWidth float64
}

// Label is a line of text horizontally centered on At.
type Label struct {
	Text     string
	At       Point
	Size     float64
	Fill     string
	Centered bool // Vertically centered on At, otherwise At is on the baseline

	// Rotation in degrees about Pivot, applied before the card transform.
	Rotation float64
	Pivot    Point
}

// RotationString returns the label's own rotation in SVG syntax, or "" if it has none.
func (l *Label) RotationString() string {
	if l.Rotation == 0 {
		return ""
	}
	return rotationString(l.Rotation, l.Pivot)
}

// Anchor returns where the label's anchor lands in card coordinates.
func (l *Label) Anchor() Point {
	if l.Rotation == 0 {
		return l.At
	}
	return rotate(l.At, l.Pivot, l.Rotation)
}

func (*Triangle) isShape() {}
func (*Line) isShape()     {}
func (*Label) isShape()    {}
