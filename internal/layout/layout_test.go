package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/janpfeifer/TriMatch/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCards(t *testing.T, n int) []deck.Card {
	t.Helper()
	size := (n + 3) / 4 * 4
	if size == 0 {
		return nil
	}
	d, err := deck.NewSeededGenerator(123, deck.AminoAcids, 5).GenerateDeck(size, 9)
	require.NoError(t, err)
	return d[:n]
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultGeometry(), DefaultArtwork())
	require.NoError(t, err)
	return e
}

func TestCellsFullPage(t *testing.T) {
	g := DefaultGeometry()
	cells := g.Cells(16, Front)
	require.Len(t, cells, 16)

	seenIndex := make(map[int]bool)
	seenTransform := make(map[Transform]bool)
	for _, c := range cells {
		assert.Equal(t, c.Column+g.Columns*c.Row, c.Index)
		assert.False(t, seenIndex[c.Index], "index %d placed twice", c.Index)
		seenIndex[c.Index] = true
		assert.False(t, seenTransform[c.Transform], "transform %v used twice", c.Transform)
		seenTransform[c.Transform] = true

		assert.InDelta(t, float64(c.Column)*g.Width/2, c.Transform.TX, 1e-9)
		assert.InDelta(t, float64(c.Row)*g.Height(), c.Transform.TY, 1e-9)
		if c.Column%2 == c.Row%2 {
			assert.Zero(t, c.Transform.Rotation, "cell (%d,%d) must be upright", c.Column, c.Row)
		} else {
			assert.Equal(t, 180.0, c.Transform.Rotation, "cell (%d,%d) must be inverted", c.Column, c.Row)
			assert.Equal(t, Point{50, g.Height() / 2}, c.Transform.Pivot)
		}
	}
}

func outlineOnPage(g Geometry, c Cell) [3]Point {
	var pts [3]Point
	for k, p := range outline(g.Width, g.Height()) {
		pts[k] = c.Transform.Apply(p)
	}
	return pts
}

func sharedVertices(a, b [3]Point) int {
	n := 0
	for _, p := range a {
		for _, q := range b {
			if math.Abs(p.X-q.X) < 1e-9 && math.Abs(p.Y-q.Y) < 1e-9 {
				n++
			}
		}
	}
	return n
}

func TestCellsInterlock(t *testing.T) {
	g := DefaultGeometry()
	byPos := make(map[[2]int]Cell)
	for _, c := range g.Cells(16, Front) {
		byPos[[2]int{c.Column, c.Row}] = c
	}

	for j := range g.Rows {
		for i := range g.Columns - 1 {
			left := outlineOnPage(g, byPos[[2]int{i, j}])
			right := outlineOnPage(g, byPos[[2]int{i + 1, j}])
			assert.Equal(t, 2, sharedVertices(left, right), "cells (%d,%d) and (%d,%d) must share an edge", i, j, i+1, j)
		}
	}
	// An upright cell stacks base to base on the cell below it; an inverted
	// one only touches it apex to apex.
	for i := range g.Columns {
		for j := range g.Rows - 1 {
			upper := byPos[[2]int{i, j}]
			top := outlineOnPage(g, upper)
			bottom := outlineOnPage(g, byPos[[2]int{i, j + 1}])
			want := 1
			if upper.Upright() {
				want = 2
			}
			assert.Equal(t, want, sharedVertices(top, bottom), "cells (%d,%d) and (%d,%d)", i, j, i, j+1)
		}
	}

	// Everything stays inside the view box.
	vb := g.ViewBox()
	for _, c := range byPos {
		for _, p := range outlineOnPage(g, c) {
			assert.True(t, p.X >= vb.X && p.X <= vb.X+vb.Width, "x=%g out of view box", p.X)
			assert.True(t, p.Y >= vb.Y && p.Y <= vb.Y+vb.Height, "y=%g out of view box", p.Y)
		}
	}
}

func TestCellsBackIsMirrored(t *testing.T) {
	g := DefaultGeometry()
	front := g.Cells(16, Front)
	back := g.Cells(16, Back)
	require.Len(t, back, len(front))
	for k := range front {
		f, b := front[k], back[k]
		require.Equal(t, f.Index, b.Index)
		assert.InDelta(t, float64(g.Columns-f.Column-1)*g.Width/2, b.Transform.TX, 1e-9)
		assert.Equal(t, f.Transform.TY, b.Transform.TY)
		assert.Equal(t, f.Transform.Rotation, b.Transform.Rotation)
	}
}

func TestCellsPartialPage(t *testing.T) {
	g := DefaultGeometry()
	cells := g.Cells(10, Front)
	require.Len(t, cells, 10)
	indices := make(map[int]bool)
	for _, c := range cells {
		require.Less(t, c.Index, 10)
		indices[c.Index] = true
	}
	assert.Len(t, indices, 10)
	assert.Empty(t, g.Cells(0, Back))
}

func TestTransformString(t *testing.T) {
	assert.Equal(t, "translate(50, 0)", Transform{TX: 50}.String())
	tr := Transform{TX: 150, TY: 100, Rotation: 180, Pivot: Point{50, 25}}
	assert.Equal(t, "translate(150, 100) rotate(180, 50, 25)", tr.String())

	p := tr.Apply(Point{0, 0})
	assert.InDelta(t, 250.0, p.X, 1e-9)
	assert.InDelta(t, 150.0, p.Y, 1e-9)
}

func TestBatch(t *testing.T) {
	e := newTestEngine(t)
	cases := []struct {
		cards int
		sizes []int
	}{
		{0, nil},
		{10, []int{10}},
		{16, []int{16}},
		{33, []int{16, 16, 1}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.cards), func(t *testing.T) {
			cards := testCards(t, tc.cards)
			sheets := e.Batch(cards)
			require.Len(t, sheets, len(tc.sizes))
			require.Equal(t, len(tc.sizes), e.Geometry.PageCount(tc.cards))

			next := 0
			for s, sheet := range sheets {
				assert.Equal(t, s+1, sheet.Number)
				assert.Equal(t, Front, sheet.Front.Side)
				assert.Equal(t, Back, sheet.Back.Side)
				require.Len(t, sheet.Front.Units, tc.sizes[s])
				require.Len(t, sheet.Back.Units, tc.sizes[s])

				ids := make(map[int]bool)
				for _, u := range sheet.Front.Units {
					ids[u.CardID] = true
				}
				for k := range tc.sizes[s] {
					assert.True(t, ids[cards[next+k].ID], "card %d missing from sheet %d", cards[next+k].ID, sheet.Number)
				}
				next += tc.sizes[s]
			}
		})
	}
}

func TestLayoutTooManyCardsPanics(t *testing.T) {
	e := newTestEngine(t)
	cards := testCards(t, 20)
	assert.Panics(t, func() { e.Layout(1, cards, Front) })
}

func TestGeometryValidate(t *testing.T) {
	require.NoError(t, DefaultGeometry().Validate())
	bad := []Geometry{
		{Width: 0, Columns: 4, Rows: 4},
		{Width: 100, Columns: 3, Rows: 4},
		{Width: 100, Columns: 4, Rows: 0},
		{Width: 100, Columns: 4, Rows: 4, Margin: -1},
	}
	for _, g := range bad {
		assert.Error(t, g.Validate(), "%+v", g)
		_, err := NewEngine(g, DefaultArtwork())
		assert.Error(t, err)
	}
	assert.InDelta(t, 86.60254037844386, DefaultGeometry().Height(), 1e-9)
	assert.InDelta(t, 270.0, DefaultGeometry().ViewBox().Width, 1e-9)
}

func TestFrontArtwork(t *testing.T) {
	e := newTestEngine(t)
	card := testCards(t, 4)[1]
	shapes := e.Artwork.Front(e.Geometry, card)

	var triangles, labels []Shape
	texts := make(map[string]bool)
	for _, s := range shapes {
		switch s := s.(type) {
		case *Triangle:
			triangles = append(triangles, s)
		case *Label:
			labels = append(labels, s)
			texts[s.Text] = true
		}
	}
	// Outline plus one tile per symbol, three edges of five.
	assert.Len(t, triangles, 1+15)
	assert.Len(t, labels, 2+15)
	assert.True(t, texts[fmt.Sprint(card.Number+1)])
	assert.True(t, texts[fmt.Sprint(card.TargetTable+1)])

	// The first tile is the bottom-left corner, colored by its symbol.
	tile := shapes[3].(*Triangle)
	assert.Equal(t, e.Artwork.Palette.Color(card.Codes.Bottom[0]), tile.Fill)
	assert.Equal(t, Point{0, e.Geometry.Height()}, tile.Points[0])

	e.Artwork.Debug = true
	assert.Len(t, e.Artwork.Front(e.Geometry, card), len(shapes)+2)
}

func TestBackArtwork(t *testing.T) {
	e := newTestEngine(t)
	shapes := e.Artwork.Back(e.Geometry)
	var labels []*Label
	for _, s := range shapes {
		if l, ok := s.(*Label); ok {
			labels = append(labels, l)
		}
	}
	// Default artwork has no credits.
	require.Len(t, labels, 2)
	assert.Equal(t, e.Artwork.Title, labels[0].Text)
	assert.Empty(t, labels[0].RotationString())
	assert.Equal(t, 120.0, labels[1].Rotation)

	e.Artwork.Credits = "Made with Go"
	assert.Len(t, e.Artwork.Back(e.Geometry), len(shapes)+1)
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Empty(t, p.Missing(deck.AminoAcids))
	assert.Equal(t, []string{"B", "Z"}, p.Missing("ABZ"))
	assert.Equal(t, "#7FB800", p.Color('A'))
	assert.Equal(t, FallbackColor, p.Color('B'))
}

func TestParseSide(t *testing.T) {
	for _, s := range []Side{Front, Back} {
		got, err := ParseSide(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseSide("edge")
	assert.ErrorIs(t, err, ErrUnknownSide)
}
