// Package markov implements the order-N string Markov chain engine: symbol
// interning, the key space, the weighted graph store, and training/generation
// over it.
package markov

// Boundary is the reserved symbol id meaning "no token" in a key slot, or
// "end of sentence" as an edge successor. Real tokens are interned starting
// at id 1.
const Boundary uint32 = 0

// SymbolTable is an append-only, bidirectional mapping between token strings
// and dense 32-bit ids. Ids are assigned starting at 1, in insertion order,
// and are never reassigned or compacted — that stability is what makes
// save/load id-order round-tripping sound.
type SymbolTable struct {
	byToken map[string]uint32
	byID    []string // byID[i] holds the token for id i+1
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byToken: make(map[string]uint32)}
}

// Intern returns the id for token, assigning a new one if token hasn't been
// seen before. Equality is byte-exact.
func (t *SymbolTable) Intern(token string) uint32 {
	if id, ok := t.byToken[token]; ok {
		return id
	}
	id := uint32(len(t.byID)) + 1
	t.byToken[token] = id
	t.byID = append(t.byID, token)
	return id
}

// Lookup returns the id for token without inserting. ok is false if token has
// never been interned.
func (t *SymbolTable) Lookup(token string) (id uint32, ok bool) {
	id, ok = t.byToken[token]
	return id, ok
}

// Resolve returns the token for a previously assigned id. Callers must never
// pass Boundary or an id that was never interned.
func (t *SymbolTable) Resolve(id uint32) string {
	return t.byID[id-1]
}

// Len returns the number of distinct interned tokens.
func (t *SymbolTable) Len() int {
	return len(t.byID)
}

// Tokens returns the interned strings in id order (first entry is id 1).
// The slice is owned by the table; callers must not mutate it.
func (t *SymbolTable) Tokens() []string {
	return t.byID
}
