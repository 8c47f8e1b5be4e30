package deck

import (
	"math/rand"
)

// AminoAcids is the default alphabet: the 20 one-letter amino acid codes.
const AminoAcids = "ACDEFGHIKLMNPQRSTVWY"

// Code is the sequence of symbols printed along one edge of a card.
// Symbols are single ASCII letters.
type Code string

// First returns the symbol at the start of the code.
func (c Code) First() byte { return c[0] }

// Last returns the symbol at the end of the code.
func (c Code) Last() byte { return c[len(c)-1] }

// Middle returns the code without its two corner symbols.
func (c Code) Middle() string { return string(c[1 : len(c)-1]) }

// Reverse returns the code read from the other end, which is how the
// neighboring card sees a shared edge.
func (c Code) Reverse() Code {
	b := []byte(c)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return Code(b)
}

// Triplet holds the three edge codes of one card: bottom, right and left,
// going around the triangle counter-clockwise.
//
// Adjacent edges agree on the corner they share:
//
//	Bottom.Last()  == Right.First()
//	Right.Last()   == Left.First()
//	Left.Last()    == Bottom.First()
type Triplet struct {
	Bottom, Right, Left Code
}

// Codes returns the three codes in canonical order.
func (t Triplet) Codes() [3]Code { return [3]Code{t.Bottom, t.Right, t.Left} }

// CornersMatch reports whether the corner-sharing invariant holds.
func (t Triplet) CornersMatch() bool {
	return t.Bottom.Last() == t.Right.First() &&
		t.Bottom.First() == t.Left.Last() &&
		t.Right.Last() == t.Left.First()
}

// Generator draws codes from an explicitly owned random source.
//
// All the randomness of a deck goes through one Generator, so seeding its
// source reproduces the deck exactly. A Generator is not safe for concurrent use.
type Generator struct {
	rng      *rand.Rand
	alphabet string
	length   int
}

// NewGenerator returns a Generator producing codes of the given length over
// alphabet. It panics if length < 3 or the alphabet is empty: a triplet
// needs two distinct corners plus at least one free symbol per edge.
func NewGenerator(rng *rand.Rand, alphabet string, length int) *Generator {
	if length < 3 {
		panic("deck: code length must be at least 3")
	}
	if alphabet == "" {
		panic("deck: empty alphabet")
	}
	return &Generator{rng: rng, alphabet: alphabet, length: length}
}

// NewSeededGenerator is a shortcut for a Generator over a fresh source seeded with seed.
func NewSeededGenerator(seed int64, alphabet string, length int) *Generator {
	return NewGenerator(rand.New(rand.NewSource(seed)), alphabet, length)
}

// Rand returns the generator's random source, shared with the deck shuffles.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Length returns the number of symbols per code.
func (g *Generator) Length() int { return g.length }

func (g *Generator) symbol() byte {
	return g.alphabet[g.rng.Intn(len(g.alphabet))]
}

// GenerateTriplet returns three codes whose corners agree.
// The constrained symbols are assigned directly, never sampled and checked.
func (g *Generator) GenerateTriplet() Triplet {
	n := g.length

	a := make([]byte, n)
	for i := range a {
		a[i] = g.symbol()
	}

	b := make([]byte, n)
	b[0] = a[n-1]
	for i := 1; i < n; i++ {
		b[i] = g.symbol()
	}

	c := make([]byte, n)
	c[0] = b[n-1]
	for i := 1; i < n-1; i++ {
		c[i] = g.symbol()
	}
	c[n-1] = a[0]

	return Triplet{Bottom: Code(a), Right: Code(b), Left: Code(c)}
}
