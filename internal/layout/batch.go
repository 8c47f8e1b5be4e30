package layout

import "github.com/janpfeifer/TriMatch/internal/deck"

// Sheet is one physical sheet: a front page and the matching back page.
type Sheet struct {
	Number int // 1-based
	Front  Page
	Back   Page
}

// PageCount returns how many sheets n cards need.
func (g Geometry) PageCount(n int) int {
	per := g.PerPage()
	return (n + per - 1) / per
}

// Batch splits cards into sheets of Geometry.PerPage() cards, in order. The
// last sheet may be partially filled; no cards gives no sheets.
func (e *Engine) Batch(cards []deck.Card) []Sheet {
	per := e.Geometry.PerPage()
	sheets := make([]Sheet, 0, e.Geometry.PageCount(len(cards)))
	for start := 0; start < len(cards); start += per {
		chunk := cards[start:min(start+per, len(cards))]
		number := len(sheets) + 1
		sheets = append(sheets, Sheet{
			Number: number,
			Front:  e.Layout(number, chunk, Front),
			Back:   e.Layout(number, chunk, Back),
		})
	}
	return sheets
}
