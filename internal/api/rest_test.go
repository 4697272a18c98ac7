package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

type fakeHandle struct {
	edges []markov.TokenEdge
}

func (f *fakeHandle) Order() int           { return 2 }
func (f *fakeHandle) Metadata() []byte     { return nil }
func (f *fakeHandle) Generate(seed []string, rng markov.RNG) ([]string, error) {
	return seed, nil
}
func (f *fakeHandle) SampleBest(seed []string, rng markov.RNG, k int) ([]string, error) {
	return seed, nil
}
func (f *fakeHandle) Edges(key markov.Key) []markov.TokenEdge { return f.edges }
func (f *fakeHandle) KeyFromTokens(tokens []string) (markov.Key, bool) {
	if len(tokens) > 2 {
		return markov.Key{}, false
	}
	return markov.EmptyKey(), true
}

func TestHandleEdgesSortsAndCapsResults(t *testing.T) {
	h := &fakeHandle{edges: []markov.TokenEdge{
		{Token: "a", Count: 1},
		{Token: "b", Count: 5},
		{Token: "c", Count: 3},
	}}
	s := &Server{chain: func() codec.Handle { return h }}

	req := httptest.NewRequest(http.MethodGet, "/edges?k=2", nil)
	w := httptest.NewRecorder()
	s.handleEdges(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !containsAll(body, `"token":"b"`, `"token":"c"`) || containsAll(body, `"token":"a"`) {
		t.Errorf("body = %s, want top-2 by count (b, c) without a", body)
	}
}

func TestHandleEdgesRejectsOverlongKey(t *testing.T) {
	h := &fakeHandle{}
	s := &Server{chain: func() codec.Handle { return h }}

	req := httptest.NewRequest(http.MethodGet, "/edges?key=a,b,c", nil)
	w := httptest.NewRecorder()
	s.handleEdges(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !contains(s, sub) {
			return false
		}
	}
	return true
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
