package layout

import (
	"fmt"
	"strings"

	"github.com/janpfeifer/TriMatch/internal/deck"
)

// Palette maps each code symbol to the fill color of its tile.
type Palette map[string]string

// FallbackColor fills tiles whose symbol has no palette entry.
const FallbackColor = "#808080"

// DefaultPalette returns the colors of the amino acid alphabet.
func DefaultPalette() Palette {
	return Palette{
		"A": "#7FB800",
		"C": "#A63D40",
		"D": "#F19A3E",
		"E": "#008FCC",
		"F": "#81701F",
		"G": "#264864",
		"H": "#16AC61",
		"I": "#702C96",
		"K": "#B49D1D",
		"L": "#4D1B1E",
		"M": "#2630C5",
		"N": "#A24395",
		"P": "#EA5906",
		"Q": "#4B9AAA",
		"R": "#E23318",
		"S": "#86C358",
		"T": "#DE2B73",
		"V": "#233E8B",
		"W": "#852A9D",
		"Y": "#AF3254",
	}
}

// Color returns the fill of symbol.
func (p Palette) Color(symbol byte) string {
	if c, ok := p[string(symbol)]; ok {
		return c
	}
	return FallbackColor
}

// Missing lists the symbols of alphabet without a color.
func (p Palette) Missing(alphabet string) []string {
	var missing []string
	for _, r := range alphabet {
		if _, ok := p[string(r)]; !ok {
			missing = append(missing, string(r))
		}
	}
	return missing
}

// Artwork holds what is printed on the cards besides the codes.
type Artwork struct {
	Palette      Palette `json:"palette"`
	FontFamily   string  `json:"font_family"`
	Title        string  `json:"title"`        // Printed along the base of the back
	Instructions string  `json:"instructions"` // Printed along the right side of the back
	Credits      string  `json:"credits"`      // Printed along the left side of the back

	// Debug prints the card id and starting table on the front.
	Debug bool `json:"-"`
}

// DefaultArtwork returns the artwork of the default event.
func DefaultArtwork() Artwork {
	return Artwork{
		Palette:      DefaultPalette(),
		FontFamily:   "Science Gothic",
		Title:        "Holiday Party",
		Instructions: "Write down your name and your 3 matches",
	}
}

const (
	codeFontSize   = 9
	codeTextOffset = 6 // Pushes tile letters towards the tile's wide side
)

// Front returns the primitives of a card's front, in card coordinates: the
// apex is at (Width/2, 0) and the base on y = Height.
func (a *Artwork) Front(g Geometry, card deck.Card) []Shape {
	w, h := g.Width, g.Height()
	shapes := []Shape{
		&Triangle{Points: outline(w, h), Fill: "white"},
		&Label{Text: fmt.Sprint(card.TargetTable + 1), At: Point{w / 2, 2*h/3 + 7}, Size: 15, Fill: "black", Centered: true},
		&Label{Text: fmt.Sprint(card.Number + 1), At: Point{w / 2, 2*h/3 - 12}, Size: 8, Fill: "black", Centered: true},
	}
	if a.Debug {
		shapes = append(shapes,
			&Label{Text: fmt.Sprintf("#%d", card.ID), At: Point{w/2 - 18, 2 * h / 3}, Size: 6, Fill: "gray", Centered: true},
			&Label{Text: fmt.Sprintf("T%d", card.Table+1), At: Point{w/2 + 18, 2 * h / 3}, Size: 6, Fill: "gray", Centered: true},
		)
	}

	codes := card.Codes
	n := len(codes.Bottom)
	sw, sh := w/float64(n), h/float64(n)

	// Bottom edge, left to right.
	for i := range n {
		x0, y0 := float64(i)*sw, h
		shapes = append(shapes, a.tile(codes.Bottom[i], x0, y0, sw, sh, Point{x0 + sw/2, h - sh/2 + codeTextOffset})...)
	}
	// Right edge, bottom to top.
	for i := range n {
		x0 := w - float64(i)*sw/2 - sw
		y0 := h - float64(i)*sh
		shapes = append(shapes, a.tile(codes.Right[i], x0, y0, sw, sh, Point{x0 + sw/2, y0 - sh/2 + codeTextOffset})...)
	}
	// Left edge, top to bottom.
	for i := range n {
		x0 := w/2 - float64(i+1)*sw/2
		y0 := float64(i+1) * sh
		shapes = append(shapes, a.tile(codes.Left[i], x0, y0, sw, sh, Point{x0 + sw/2, y0 - sh/2 + codeTextOffset})...)
	}
	return shapes
}

// tile is an upright sub-triangle with its base starting at (x0, y0) and its letter.
func (a *Artwork) tile(symbol byte, x0, y0, sw, sh float64, text Point) []Shape {
	return []Shape{
		&Triangle{
			Points:      [3]Point{{x0, y0}, {x0 + sw, y0}, {x0 + sw/2, y0 - sh}},
			Fill:        a.Palette.Color(symbol),
			Stroke:      "black",
			StrokeWidth: 1,
		},
		&Label{Text: string(symbol), At: text, Size: codeFontSize, Fill: "white", Centered: true},
	}
}

// Back returns the primitives of a card's back, which is the same for all cards.
func (a *Artwork) Back(g Geometry) []Shape {
	w, h := g.Width, g.Height()
	s := w / 100 // Back decorations are drawn for a side of 100
	shapes := []Shape{
		&Triangle{Points: outline(w, h), Fill: "white", Stroke: "black", StrokeWidth: 1},
		rule(w/2-35*s, w/2+35*s, h-10*s),
		rule(w/3-5*s, w/3+15*s, h-25*s),
		rule(2*w/3-15*s, 2*w/3+5*s, h-25*s),
		rule(w/2-10*s, w/2+10*s, h-40*s),
	}

	centroid := Point{w / 2, 2 * h / 3}
	base := Point{w / 2, h - 3*s}
	texts := []struct {
		text     string
		size     float64
		rotation float64
	}{
		{a.Title, 4 * s, 0},
		{a.Instructions, 3 * s, 120},
		{a.Credits, 3 * s, 240},
	}
	for _, t := range texts {
		if strings.TrimSpace(t.text) == "" {
			continue
		}
		l := &Label{Text: t.text, At: base, Size: t.size, Fill: "black"}
		if t.rotation != 0 {
			l.Rotation, l.Pivot = t.rotation, centroid
		}
		shapes = append(shapes, l)
	}
	return shapes
}

func outline(w, h float64) [3]Point {
	return [3]Point{{0, h}, {w, h}, {w / 2, 0}}
}

func rule(x0, x1, y float64) *Line {
	return &Line{From: Point{x0, y}, To: Point{x1, y}, Stroke: "black", StrokeWidth: 1}
}
