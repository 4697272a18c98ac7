package markov

// MaxGenerated is the hard cap on tokens produced by Generate (including the
// seed), guaranteeing termination regardless of cycles in the graph.
const MaxGenerated = 100

// Generate produces a token sequence starting from seed (at most Order
// tokens). If a seed token was never interned, the chain has no way to match
// it in the graph; the generator emits the seed verbatim and stops, since no
// lookup from an unresolvable seed could ever succeed.
//
// Generation repeatedly samples a successor for the current key; it stops
// when the sample is Boundary, when the key is unseen, or after MaxGenerated
// tokens have been produced.
func (c *Chain) Generate(seed []string, rng RNG) ([]string, error) {
	if len(seed) > c.order {
		return nil, ErrSeedTooLong{SeedLen: len(seed), Order: c.order}
	}

	out := make([]string, 0, len(seed)+8)
	out = append(out, seed...)

	seedIDs := make([]uint32, 0, len(seed))
	unresolvable := false
	for _, tok := range seed {
		id, ok := c.symbols.Lookup(tok)
		if !ok {
			unresolvable = true
			break
		}
		seedIDs = append(seedIDs, id)
	}
	if unresolvable {
		return out, nil
	}

	key := keyFromSeed(c.order, seedIDs)

	for len(out) < MaxGenerated {
		successor, ok := c.graph.Sample(key, rng)
		if !ok {
			break
		}
		if successor == Boundary {
			break
		}
		out = append(out, c.symbols.Resolve(successor))
		key = key.Shift(c.order, successor)
	}

	return out, nil
}

// SampleBest runs Generate K times (K >= 1) and returns the longest result,
// ties broken by whichever was produced first. K=1 is equivalent to a single
// Generate call.
func (c *Chain) SampleBest(seed []string, rng RNG, k int) ([]string, error) {
	if k < 1 {
		k = 1
	}

	best, err := c.Generate(seed, rng)
	if err != nil {
		return nil, err
	}

	for i := 1; i < k; i++ {
		candidate, err := c.Generate(seed, rng)
		if err != nil {
			return nil, err
		}
		if len(candidate) > len(best) {
			best = candidate
		}
	}
	return best, nil
}
