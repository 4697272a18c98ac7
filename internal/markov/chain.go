package markov

import "fmt"

// ErrUnsupportedOrder is returned by Create and FromParts when the requested
// chain order is outside [1, MaxOrder]. The codec reports a bad stored order
// with its own codec.ErrUnsupportedOrder sentinel.
type ErrUnsupportedOrder struct {
	Order int
}

func (e ErrUnsupportedOrder) Error() string {
	return fmt.Sprintf("markov: unsupported order %d (must be 1..%d)", e.Order, MaxOrder)
}

// ErrSeedTooLong is returned by Generate when the caller's seed has more
// tokens than the chain's order.
type ErrSeedTooLong struct {
	SeedLen, Order int
}

func (e ErrSeedTooLong) Error() string {
	return fmt.Sprintf("markov: seed has %d tokens, exceeds order %d", e.SeedLen, e.Order)
}

// Chain is the tuple (order, symbol table, graph, metadata). It is mutated
// exclusively by FeedText; generation never mutates it, which makes a loaded
// chain safe for concurrent readers.
type Chain struct {
	order    int
	symbols  *SymbolTable
	graph    *Graph
	metadata []byte
}

// Create returns an empty chain of the given order. order must be in
// [1, MaxOrder]. metadata is opaque and round-tripped through save/load.
func Create(order int, metadata []byte) (*Chain, error) {
	if order < 1 || order > MaxOrder {
		return nil, ErrUnsupportedOrder{Order: order}
	}
	return &Chain{
		order:    order,
		symbols:  NewSymbolTable(),
		graph:    NewGraph(),
		metadata: metadata,
	}, nil
}

// FromParts reconstructs a chain from already-validated parts. It is used by
// internal/codec when loading a chain from disk; invariants (valid order,
// dangling ids, zero counts, duplicate keys) must already have been checked
// by the caller.
func FromParts(order int, symbols *SymbolTable, graph *Graph, metadata []byte) (*Chain, error) {
	if order < 1 || order > MaxOrder {
		return nil, ErrUnsupportedOrder{Order: order}
	}
	return &Chain{order: order, symbols: symbols, graph: graph, metadata: metadata}, nil
}

// Order returns the chain's fixed order N.
func (c *Chain) Order() int { return c.order }

// Metadata returns the opaque metadata payload.
func (c *Chain) Metadata() []byte { return c.metadata }

// Symbols exposes the chain's symbol table for the codec and for callers
// that want to resolve tokens without going through Edges.
func (c *Chain) Symbols() *SymbolTable { return c.symbols }

// Graph exposes the chain's graph store for the codec.
func (c *Chain) Graph() *Graph { return c.graph }

// Edges returns the (token, count) pairs for key, in stored order. The
// Boundary successor resolves to the empty string.
func (c *Chain) Edges(key Key) []TokenEdge {
	raw := c.graph.Edges(key)
	if raw == nil {
		return nil
	}
	out := make([]TokenEdge, len(raw))
	for i, e := range raw {
		tok := ""
		if e.Successor != Boundary {
			tok = c.symbols.Resolve(e.Successor)
		}
		out[i] = TokenEdge{Token: tok, Count: e.Count}
	}
	return out
}

// TokenEdge is the token-resolved view of an Edge, returned by Chain.Edges.
type TokenEdge struct {
	Token string
	Count uint32
}

// KeyFromTokens resolves tokens (most recent last) against the chain's
// symbol table and builds the Key they address, for read-only introspection
// of a chain's edges by callers that only have strings (an HTTP request,
// say). It returns ok=false if tokens is longer than the chain's order or
// contains a token the chain has never seen.
func (c *Chain) KeyFromTokens(tokens []string) (key Key, ok bool) {
	if len(tokens) > c.order {
		return Key{}, false
	}
	ids := make([]uint32, len(tokens))
	for i, tok := range tokens {
		id, found := c.symbols.Lookup(tok)
		if !found {
			return Key{}, false
		}
		ids[i] = id
	}
	return keyFromSeed(c.order, ids), true
}
