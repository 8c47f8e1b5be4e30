package layout

import (
	"errors"
	"fmt"

	"github.com/janpfeifer/TriMatch/internal/deck"
)

// Side of a printed sheet.
type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// ErrUnknownSide is returned by ParseSide for anything but "front" and "back".
var ErrUnknownSide = errors.New("unknown side")

// ParseSide is the inverse of Side.String.
func ParseSide(s string) (Side, error) {
	switch s {
	case "front":
		return Front, nil
	case "back":
		return Back, nil
	}
	return Front, fmt.Errorf("%w %q", ErrUnknownSide, s)
}

// Cell is the position of one card on a page.
type Cell struct {
	Column, Row int
	Index       int // Index of the card in the page's list: Column + Columns·Row
	Transform   Transform
}

// Upright reports whether the card in the cell points up.
func (c Cell) Upright() bool {
	return c.Column%2 == c.Row%2
}

// Cells returns the positions of the first n cards of a page.
//
// Column i is offset by i·Width/2 and row j by j·Height, so two neighbouring
// columns form a rhombus. Cards alternate orientation in both directions:
// a card is upright when its column and row have the same parity, and
// otherwise rotated 180° about the center of its bounding box, so that it
// interlocks with its neighbours instead of leaving gaps.
//
// On the back side columns are mirrored, so that a sheet printed duplex and
// flipped along its vertical axis puts each back behind its front.
//
// Cells are listed column by column; a column stops at the first index >= n.
func (g Geometry) Cells(n int, side Side) []Cell {
	h := g.Height()
	cells := make([]Cell, 0, min(n, g.PerPage()))
	for i := 0; i < g.Columns; i++ {
		for j := 0; j < g.Rows; j++ {
			index := i + g.Columns*j
			if index >= n {
				break
			}
			column := i
			if side == Back {
				column = g.Columns - i - 1
			}
			cell := Cell{
				Column: i,
				Row:    j,
				Index:  index,
				Transform: Transform{
					TX: float64(column) * g.Width / 2,
					TY: float64(j) * h,
				},
			}
			if !cell.Upright() {
				cell.Transform.Rotation = 180
				cell.Transform.Pivot = g.Pivot()
			}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Unit is one positioned card: its primitives in card coordinates and where
// they go on the page.
type Unit struct {
	Cell
	CardID int
	Shapes []Shape
}

// Page is one side of a printed sheet.
type Page struct {
	Number  int // 1-based
	Side    Side
	ViewBox Rect
	Units   []Unit
}

// Engine lays out cards with a fixed geometry and artwork.
type Engine struct {
	Geometry Geometry
	Artwork  Artwork
}

// NewEngine returns an Engine, after validating the geometry.
func NewEngine(g Geometry, a Artwork) (*Engine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if a.Palette == nil {
		a.Palette = DefaultPalette()
	}
	return &Engine{Geometry: g, Artwork: a}, nil
}

// Layout positions up to Geometry.PerPage() cards on one side of a page.
// More cards than fit is a programming error and panics.
func (e *Engine) Layout(number int, cards []deck.Card, side Side) Page {
	if len(cards) > e.Geometry.PerPage() {
		panic(fmt.Sprintf("layout: %d cards do not fit on a page of %d", len(cards), e.Geometry.PerPage()))
	}
	page := Page{Number: number, Side: side, ViewBox: e.Geometry.ViewBox()}
	var back []Shape
	if side == Back {
		back = e.Artwork.Back(e.Geometry)
	}
	for _, cell := range e.Geometry.Cells(len(cards), side) {
		card := cards[cell.Index]
		unit := Unit{Cell: cell, CardID: card.ID}
		if side == Front {
			unit.Shapes = e.Artwork.Front(e.Geometry, card)
		} else {
			unit.Shapes = back
		}
		page.Units = append(page.Units, unit)
	}
	return page
}
