package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Solution is the organizer's key: one row per generation quadruplet, holding
// the 1-based numbers of its four cards.
type Solution [][4]int

// ErrNotFound is returned by Solution.Lookup for numbers absent from the record.
var ErrNotFound = errors.New("participant not found in solution")

// SolutionOf groups cards back into the quadruplets they were generated in.
// Grouping uses the card IDs, so it works on a deck that was sorted for
// printing. It panics if the IDs do not form whole quadruplets.
func SolutionOf(cards []Card) Solution {
	byID := slices.Clone(cards)
	slices.SortFunc(byID, func(a, b Card) int { return a.ID - b.ID })
	if len(byID)%4 != 0 {
		panic(fmt.Sprintf("deck: %d cards do not form whole quadruplets", len(byID)))
	}
	sol := make(Solution, 0, len(byID)/4)
	for i := 0; i < len(byID); i += 4 {
		var row [4]int
		for k := range row {
			c := byID[i+k]
			if c.ID != i+k {
				panic(fmt.Sprintf("deck: expected card id %d, got %d", i+k, c.ID))
			}
			row[k] = c.Number + 1
		}
		sol = append(sol, row)
	}
	return sol
}

// WriteTSV writes one tab-separated line per quadruplet.
func (s Solution) WriteTSV(w io.Writer) error {
	cw := newTSVWriter(w)
	for _, row := range s {
		fields := make([]string, len(row))
		for k, n := range row {
			fields[k] = strconv.Itoa(n)
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func newTSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return cw
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = 4
	return cr
}

// ParseSolution reads a record written by WriteTSV.
func ParseSolution(r io.Reader) (Solution, error) {
	cr := newTSVReader(r)
	var sol Solution
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read solution: %w", err)
		}
		var row [4]int
		for k, field := range rec {
			n, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("solution line %d: invalid number %q: %w", line, field, err)
			}
			row[k] = n
		}
		sol = append(sol, row)
	}
	return sol, nil
}

// Lookup returns the quadruplet holding the 1-based participant number, and
// its row index.
func (s Solution) Lookup(number int) (row [4]int, index int, err error) {
	for i, r := range s {
		if slices.Contains(r[:], number) {
			return r, i, nil
		}
	}
	return row, -1, fmt.Errorf("%w: %d", ErrNotFound, number)
}
