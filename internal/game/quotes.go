package game

import "math/rand"

// DefaultQuotes are shown between rounds.
var DefaultQuotes = []string{
	"Pick the right data structure and half the problem is solved.",
	"A graph is just a list of friendships with opinions.",
	"Every linked list ends somewhere; make sure yours ends in nil.",
	"Recursion is a tree that trusts its branches.",
	"Push your luck, pop your doubts.",
	"First in, first out, first to the million.",
	"Hash it once, find it forever.",
	"Sorting takes patience; searching rewards it.",
	"Big-O is the price tag on every idea.",
	"Elegant code solves the problem and explains itself.",
}

type QuoteBook struct {
	quotes []string
}

// NewQuoteBook uses DefaultQuotes when quotes is empty.
func NewQuoteBook(quotes []string) *QuoteBook {
	if len(quotes) == 0 {
		quotes = DefaultQuotes
	}
	return &QuoteBook{quotes: quotes}
}

func (b *QuoteBook) Random(rng *rand.Rand) string {
	if len(b.quotes) == 0 {
		return ""
	}
	return b.quotes[rng.Intn(len(b.quotes))]
}
