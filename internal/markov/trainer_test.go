package markov

import "testing"

func TestFeedTextOrder2ProducesExpectedEdges(t *testing.T) {
	c, err := Create(2, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.FeedText("the quick brown fox")

	the, _ := c.symbols.Lookup("the")
	quick, _ := c.symbols.Lookup("quick")
	brown, _ := c.symbols.Lookup("brown")
	fox, _ := c.symbols.Lookup("fox")

	key := func(a, b uint32) Key {
		k := EmptyKey()
		k = k.Shift(2, a)
		return k.Shift(2, b)
	}

	cases := []struct {
		name      string
		key       Key
		successor uint32
	}{
		{"boundary,boundary -> the", EmptyKey(), the},
		{"boundary,the -> quick", EmptyKey().Shift(2, the), quick},
		{"the,quick -> brown", key(the, quick), brown},
		{"quick,brown -> fox", key(quick, brown), fox},
		{"brown,fox -> boundary", key(brown, fox), Boundary},
	}
	for _, tc := range cases {
		edges := c.Graph().Edges(tc.key)
		if len(edges) != 1 || edges[0].Successor != tc.successor || edges[0].Count != 1 {
			t.Errorf("%s: edges = %+v, want single edge to %d count 1", tc.name, edges, tc.successor)
		}
	}

	if c.Symbols().Len() != 4 {
		t.Errorf("symbol table has %d entries, want 4", c.Symbols().Len())
	}
}

func TestFeedTextEmptyIsNoOp(t *testing.T) {
	c, _ := Create(1, nil)
	c.FeedText("   \t  ")
	if c.Graph().NodeCount() != 0 {
		t.Fatalf("expected no nodes after feeding whitespace-only text, got %d", c.Graph().NodeCount())
	}
}

func TestFeedTextEdgeCountInvariant(t *testing.T) {
	c, _ := Create(3, nil)
	sentences := []string{"a b c", "a b", "d"}
	wantEdges := 0
	for _, s := range sentences {
		c.FeedText(s)
		// tokens + 1 terminator, per sentence
		n := 0
		for range splitFields(s) {
			n++
		}
		if n > 0 {
			wantEdges += n + 1
		}
	}

	gotEdges := 0
	c.Graph().ForEachNode(func(_ Key, edges []Edge) {
		for _, e := range edges {
			gotEdges += int(e.Count)
		}
	})
	if gotEdges != wantEdges {
		t.Fatalf("total edge count = %d, want %d", gotEdges, wantEdges)
	}
}

// splitFields counts tokens independently of FeedText's own splitter.
func splitFields(s string) []string {
	var out []string
	field := ""
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if field != "" {
				out = append(out, field)
				field = ""
			}
			continue
		}
		field += string(r)
	}
	if field != "" {
		out = append(out, field)
	}
	return out
}
