package deck

import (
	"errors"
	"fmt"
)

// ErrParticipantCount is returned when the participant count cannot be split
// into quadruplets.
var ErrParticipantCount = errors.New("participant count must be a non-negative multiple of 4")

// Deck is the ordered list of cards of one run, in generation order.
type Deck []Card

// Truncate returns the largest multiple of 4 not above participants, and how
// many participants are dropped to reach it.
func Truncate(participants int) (kept, dropped int) {
	dropped = participants % 4
	return participants - dropped, dropped
}

// TableNumbers returns the table of each seat when participants fill tables
// of tableSize seats in order: 0 for the first tableSize seats, 1 for the next, etc.
func TableNumbers(participants, tableSize int) []int {
	tables := make([]int, participants)
	for i := range tables {
		tables[i] = i / tableSize
	}
	return tables
}

// GenerateDeck creates participants cards, four per matching quadruplet.
//
// Participant numbers, starting tables and target tables are three
// independent shuffles, drawn in that order before any code, so that a
// seeded generator always reproduces the same deck. Each is a permutation:
// every number and every table seat is used exactly once.
//
// participants must be a non-negative multiple of 4: callers truncate first
// (see Truncate), this function never drops anyone. Zero participants give
// an empty deck.
func (g *Generator) GenerateDeck(participants, tableSize int) (Deck, error) {
	if participants < 0 || participants%4 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrParticipantCount, participants)
	}
	if tableSize <= 0 {
		return nil, fmt.Errorf("table size must be positive, got %d", tableSize)
	}

	numbers := make([]int, participants)
	for i := range numbers {
		numbers[i] = i
	}
	g.shuffle(numbers)
	tables := TableNumbers(participants, tableSize)
	g.shuffle(tables)
	targetTables := TableNumbers(participants, tableSize)
	g.shuffle(targetTables)

	deck := make(Deck, 0, participants)
	for offset := 0; offset < participants; offset += 4 {
		quad := g.GenerateQuadruplet(offset, numbers, tables, targetTables)
		deck = append(deck, quad[:]...)
	}
	return deck, nil
}

func (g *Generator) shuffle(s []int) {
	g.rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}
