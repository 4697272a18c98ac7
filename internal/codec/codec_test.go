package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

func buildTestChain(t *testing.T) *markov.Chain {
	t.Helper()
	c, err := markov.Create(2, []byte(`{"source":"test"}`))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	c.FeedText("the quick brown fox")
	c.FeedText("the lazy dog")
	return c
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := buildTestChain(t)

	var buf bytes.Buffer
	if err := Save(&buf, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Order() != c.Order() {
		t.Errorf("Order() = %d, want %d", loaded.Order(), c.Order())
	}
	if string(loaded.Metadata()) != string(c.Metadata()) {
		t.Errorf("Metadata() = %q, want %q", loaded.Metadata(), c.Metadata())
	}
	if loaded.Symbols().Len() != c.Symbols().Len() {
		t.Errorf("symbol count = %d, want %d", loaded.Symbols().Len(), c.Symbols().Len())
	}
	if loaded.Graph().NodeCount() != c.Graph().NodeCount() {
		t.Errorf("node count = %d, want %d", loaded.Graph().NodeCount(), c.Graph().NodeCount())
	}

	// Generation output for a given seeded RNG must be identical.
	seed := []string{"the"}
	want, err := c.SampleBest(seed, rand.New(rand.NewSource(7)), 3)
	if err != nil {
		t.Fatalf("SampleBest (original): %v", err)
	}
	got, err := loaded.SampleBest(seed, rand.New(rand.NewSource(7)), 3)
	if err != nil {
		t.Fatalf("SampleBest (loaded): %v", err)
	}
	if len(want) != len(got) {
		t.Fatalf("generation mismatch after round-trip: want %v, got %v", want, got)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("generation mismatch at %d: want %v, got %v", i, want, got)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte("XXXX"))
	buf.Write([]byte{1, 0}) // version
	buf.WriteByte(1)        // order
	buf.WriteByte(0)        // reserved
	buf.Write([]byte{0, 0, 0, 0})

	_, err := Load(&buf)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Load with bad magic: err = %v, want ErrBadMagic", err)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.Write([]byte{99, 0}) // version 99
	buf.WriteByte(1)
	buf.WriteByte(0)
	buf.Write([]byte{0, 0, 0, 0})

	_, err := Load(&buf)
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("Load with bad version: err = %v, want ErrUnsupportedVersion", err)
	}
}

func TestLoadRejectsUnsupportedOrder(t *testing.T) {
	for _, order := range []uint8{0, 7} {
		var buf bytes.Buffer
		buf.Write(Magic[:])
		buf.Write([]byte{1, 0})
		buf.WriteByte(order)
		buf.WriteByte(0)
		buf.Write([]byte{0, 0, 0, 0})

		_, err := Load(&buf)
		if !errors.Is(err, ErrUnsupportedOrder) {
			t.Fatalf("Load with order %d: err = %v, want ErrUnsupportedOrder", order, err)
		}
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	c := buildTestChain(t)
	var full bytes.Buffer
	if err := Save(&full, c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data := full.Bytes()
	// Truncate at several points before the end; each must surface ErrTruncated.
	for _, cut := range []int{4, 8, len(data) - 1, len(data) / 2} {
		if cut <= 0 || cut >= len(data) {
			continue
		}
		_, err := Load(bytes.NewReader(data[:cut]))
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("Load truncated at %d: err = %v, want ErrTruncated", cut, err)
		}
	}
}

func TestLoadAnyHidesOrder(t *testing.T) {
	c1, _ := markov.Create(1, nil)
	c1.FeedText("a b")
	c3, _ := markov.Create(3, nil)
	c3.FeedText("a b c d")

	var buf1, buf3 bytes.Buffer
	Save(&buf1, c1)
	Save(&buf3, c3)

	h1, err := LoadAny(&buf1)
	if err != nil {
		t.Fatalf("LoadAny(order 1): %v", err)
	}
	h3, err := LoadAny(&buf3)
	if err != nil {
		t.Fatalf("LoadAny(order 3): %v", err)
	}

	if h1.Order() != 1 {
		t.Errorf("h1.Order() = %d, want 1", h1.Order())
	}
	if h3.Order() != 3 {
		t.Errorf("h3.Order() = %d, want 3", h3.Order())
	}

	if _, err := h1.Generate([]string{"x", "y"}, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected seed-too-long error from order-1 handle with 2-token seed")
	}
	if _, err := h3.Generate([]string{"x", "y"}, rand.New(rand.NewSource(1))); err != nil {
		t.Errorf("order-3 handle should accept a 2-token seed: %v", err)
	}
}

func TestLoadRejectsDanglingSymbolID(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(Magic[:])
	buf.Write([]byte{1, 0})
	buf.WriteByte(1) // order 1
	buf.WriteByte(0)
	buf.Write([]byte{0, 0, 0, 0}) // empty metadata
	buf.Write([]byte{0, 0, 0, 0}) // zero symbols
	buf.Write([]byte{1, 0, 0, 0}) // one node
	buf.Write([]byte{5, 0, 0, 0}) // key slot references id 5, but no symbols exist
	buf.Write([]byte{0, 0, 0, 0}) // zero edges

	_, err := Load(&buf)
	if !errors.Is(err, ErrDanglingSymbolID) {
		t.Fatalf("err = %v, want ErrDanglingSymbolID", err)
	}
}
