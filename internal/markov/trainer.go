package markov

import "strings"

// FeedText tokenizes text on ASCII whitespace and trains one sentence into
// the chain. Empty input (no tokens after filtering) is a no-op. Consecutive
// whitespace never produces an empty token: the ASCII whitespace set is
// listed explicitly and empty fields are dropped. Non-ASCII whitespace (such
// as U+00A0) is kept as part of a token.
//
// For a sentence of K non-empty tokens, FeedText adds exactly K+1 edges: one
// per token transition, plus a terminal edge into Boundary marking the end
// of the sentence.
func (c *Chain) FeedText(text string) {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	})
	if len(tokens) == 0 {
		return
	}

	key := EmptyKey()
	for _, tok := range tokens {
		id := c.symbols.Intern(tok)
		c.graph.AddEdge(key, id)
		key = key.Shift(c.order, id)
	}
	c.graph.AddEdge(key, Boundary)
}
