package deck

import (
	"fmt"
	"slices"
)

// Card is one triangular token of the deck.
//
// Numbers and tables are 0-based; the printed artwork and the solution record
// add one.
type Card struct {
	ID          int     `json:"id"`           // Position in generation order
	Number      int     `json:"number"`       // Participant number printed on the card
	Table       int     `json:"table"`        // Table the participant starts at
	TargetTable int     `json:"target_table"` // Table the participant is sent to
	Codes       Triplet `json:"codes"`
}

// NewCard builds a card, checking that all three codes have the same length
// and that their corners agree.
func NewCard(id, number, table, targetTable int, codes Triplet) (Card, error) {
	n := len(codes.Bottom)
	if n == 0 || len(codes.Right) != n || len(codes.Left) != n {
		return Card{}, fmt.Errorf("card %d: code lengths differ: %q %q %q", id, codes.Bottom, codes.Right, codes.Left)
	}
	if !codes.CornersMatch() {
		return Card{}, fmt.Errorf("card %d: corners do not match: %q %q %q", id, codes.Bottom, codes.Right, codes.Left)
	}
	return Card{ID: id, Number: number, Table: table, TargetTable: targetTable, Codes: codes}, nil
}

// mustCard is NewCard for codes built by the assembler, where a failure is a bug.
func mustCard(id, number, table, targetTable int, codes Triplet) Card {
	c, err := NewCard(id, number, table, targetTable, codes)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) String() string {
	return fmt.Sprintf("Card #%d (number=%d, table=%d->%d): %s/%s/%s",
		c.ID, c.Number+1, c.Table+1, c.TargetTable+1, c.Codes.Bottom, c.Codes.Right, c.Codes.Left)
}

// SortByNumber returns a copy of cards ordered by participant number, the
// order in which they are printed. The input is left untouched.
func SortByNumber(cards []Card) []Card {
	out := slices.Clone(cards)
	slices.SortStableFunc(out, func(a, b Card) int { return a.Number - b.Number })
	return out
}
