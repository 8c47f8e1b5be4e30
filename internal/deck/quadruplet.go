package deck

import "fmt"

// GenerateQuadruplet builds four cards whose edges close into one matching loop.
//
// Two triplets (a, b, c) and (d, e, f) are drawn, then the corners of d, e and
// f are rewritten from the corners of the first triplet:
//
//	d = c[0] + d[1:-1] + a[-1]
//	e = a[-1] + e[1:-1] + c[-1]
//	f = e[0] + f[1:-1] + a[-1]
//
// The cards are (a, b, c), (c', d, e), (e', f, a') and (f', d', b'), where x'
// is x reversed: every code appears on exactly two cards, once in each reading
// direction, which is what the two cards see along their shared edge.
//
// Card k gets id offset+k and numbers[offset+k], tables[offset+k] and
// targetTables[offset+k]. Slices shorter than offset+4 are a programming
// error and cause a panic.
func (g *Generator) GenerateQuadruplet(offset int, numbers, tables, targetTables []int) [4]Card {
	end := offset + 4
	if offset < 0 || len(numbers) < end || len(tables) < end || len(targetTables) < end {
		panic(fmt.Sprintf("deck: quadruplet at offset %d needs 4 entries, got numbers=%d tables=%d targetTables=%d",
			offset, len(numbers), len(tables), len(targetTables)))
	}

	first := g.GenerateTriplet()
	second := g.GenerateTriplet()
	a, b, c := first.Bottom, first.Right, first.Left

	d := Code(string(c.First()) + second.Bottom.Middle() + string(a.Last()))
	e := Code(string(a.Last()) + second.Right.Middle() + string(c.Last()))
	f := Code(string(e.First()) + second.Left.Middle() + string(a.Last()))

	triplets := [4]Triplet{
		{Bottom: a, Right: b, Left: c},
		{Bottom: c.Reverse(), Right: d, Left: e},
		{Bottom: e.Reverse(), Right: f, Left: a.Reverse()},
		{Bottom: f.Reverse(), Right: d.Reverse(), Left: b.Reverse()},
	}

	var cards [4]Card
	for k, t := range triplets {
		id := offset + k
		cards[k] = mustCard(id, numbers[id], tables[id], targetTables[id], t)
	}
	return cards
}
