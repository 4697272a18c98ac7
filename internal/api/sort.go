package api

import (
	"sort"

	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

func sortEdgesByCountDesc(edges []markov.TokenEdge) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Count > edges[j].Count
	})
}
