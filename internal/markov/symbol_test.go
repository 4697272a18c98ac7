package markov

import "testing"

func TestSymbolTableInternAssignsDenseIDs(t *testing.T) {
	tbl := NewSymbolTable()

	id1 := tbl.Intern("the")
	id2 := tbl.Intern("quick")
	id3 := tbl.Intern("the") // repeat

	if id1 != 1 || id2 != 2 {
		t.Fatalf("expected ids 1, 2; got %d, %d", id1, id2)
	}
	if id3 != id1 {
		t.Fatalf("re-interning %q should return the original id %d, got %d", "the", id1, id3)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestSymbolTableResolveRoundTrips(t *testing.T) {
	tbl := NewSymbolTable()
	tokens := []string{"a", "b", "c"}
	for _, tok := range tokens {
		tbl.Intern(tok)
	}
	for i, tok := range tokens {
		id := uint32(i + 1)
		if got := tbl.Resolve(id); got != tok {
			t.Errorf("Resolve(%d) = %q, want %q", id, got, tok)
		}
	}
}

func TestSymbolTableLookupMissing(t *testing.T) {
	tbl := NewSymbolTable()
	tbl.Intern("known")

	if _, ok := tbl.Lookup("known"); !ok {
		t.Fatal("expected known token to be found")
	}
	if _, ok := tbl.Lookup("unknown"); ok {
		t.Fatal("expected unknown token to be absent")
	}
}

func TestSymbolTableByteExactEquality(t *testing.T) {
	tbl := NewSymbolTable()
	id1 := tbl.Intern("Foo")
	id2 := tbl.Intern("foo")
	if id1 == id2 {
		t.Fatal("case-distinct tokens must not collapse to the same id")
	}
}
