package markov

import "testing"

type fixedRNG struct{ n int }

func (f fixedRNG) Intn(n int) int {
	if f.n >= n {
		return n - 1
	}
	return f.n
}

func TestGraphAddEdgeAccumulatesCounts(t *testing.T) {
	g := NewGraph()
	key := EmptyKey()

	g.AddEdge(key, 5)
	g.AddEdge(key, 5)
	g.AddEdge(key, 7)

	edges := g.Edges(key)
	if len(edges) != 2 {
		t.Fatalf("expected 2 distinct successors, got %d", len(edges))
	}
	if edges[0].Successor != 5 || edges[0].Count != 2 {
		t.Errorf("edges[0] = %+v, want {5 2}", edges[0])
	}
	if edges[1].Successor != 7 || edges[1].Count != 1 {
		t.Errorf("edges[1] = %+v, want {7 1}", edges[1])
	}
	if total := g.EdgeTotal(key); total != 3 {
		t.Errorf("EdgeTotal = %d, want 3", total)
	}
}

func TestGraphSampleUnseenKey(t *testing.T) {
	g := NewGraph()
	_, ok := g.Sample(EmptyKey(), fixedRNG{0})
	if ok {
		t.Fatal("expected sample of an unseen key to report ok=false")
	}
}

func TestGraphSampleWeightedByInsertionOrderOnTie(t *testing.T) {
	g := NewGraph()
	key := EmptyKey()
	g.AddEdge(key, 1)
	g.AddEdge(key, 2)

	// r=0 selects the first cumulative bucket, i.e. successor 1 (first-seen).
	got, ok := g.Sample(key, fixedRNG{0})
	if !ok || got != 1 {
		t.Errorf("Sample(r=0) = (%d, %v), want (1, true)", got, ok)
	}
	// r=1 selects the second bucket, successor 2.
	got, ok = g.Sample(key, fixedRNG{1})
	if !ok || got != 2 {
		t.Errorf("Sample(r=1) = (%d, %v), want (2, true)", got, ok)
	}
}

func TestKeyShiftSlidesWindow(t *testing.T) {
	order := 2
	k := EmptyKey()
	k = k.Shift(order, 10)
	k = k.Shift(order, 20)

	if k.Slot(0) != 10 || k.Slot(1) != 20 {
		t.Fatalf("key after two shifts = (%d, %d), want (10, 20)", k.Slot(0), k.Slot(1))
	}

	k = k.Shift(order, 30)
	if k.Slot(0) != 20 || k.Slot(1) != 30 {
		t.Fatalf("key after third shift = (%d, %d), want (20, 30)", k.Slot(0), k.Slot(1))
	}
}
