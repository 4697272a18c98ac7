package codec

import (
	"io"

	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

// Handle is the capability object returned by LoadAny: it exposes every
// operation that does not require the caller to know the chain's order N.
type Handle interface {
	Order() int
	Metadata() []byte
	Generate(seed []string, rng markov.RNG) ([]string, error)
	SampleBest(seed []string, rng markov.RNG, k int) ([]string, error)
	Edges(key markov.Key) []markov.TokenEdge
	KeyFromTokens(tokens []string) (markov.Key, bool)
}

// LoadAny reads a chain of any supported order from r and returns it as a
// Handle hiding N. There is no per-order load routine: Load handles every
// order, and *markov.Chain implements Handle uniformly across orders (see
// internal/markov's runtime-array key representation), so LoadAny here is
// Load plus the documented guarantee that order is validated against the
// header before any graph data is trusted.
func LoadAny(r io.Reader) (Handle, error) {
	chain, err := Load(r)
	if err != nil {
		return nil, err
	}
	return chain, nil
}
