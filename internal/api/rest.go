package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
)

type lineResponse struct {
	ID         int64  `json:"id"`
	Channel    string `json:"channel"`
	Username   string `json:"username"`
	Text       string `json:"text"`
	ReceivedAt string `json:"received_at"`
}

func lineToResponse(l *pgstore.ChatLine) lineResponse {
	return lineResponse{
		ID:         l.ID,
		Channel:    l.Channel,
		Username:   l.Username,
		Text:       l.Text,
		ReceivedAt: l.ReceivedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleRecentLines(w http.ResponseWriter, r *http.Request) {
	channel := r.PathValue("channel")
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	lines, err := s.store.RecentLines(channel, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result := make([]lineResponse, len(lines))
	for i, l := range lines {
		result[i] = lineToResponse(l)
	}
	writeJSON(w, http.StatusOK, result)
}

type modelResponse struct {
	Name          string `json:"name"`
	Order         int    `json:"order"`
	Path          string `json:"path"`
	TrainedAt     string `json:"trained_at"`
	SentenceCount int64  `json:"sentence_count"`
	TokenCount    int64  `json:"token_count"`
}

func modelToResponse(m *pgstore.ModelRecord) modelResponse {
	return modelResponse{
		Name:          m.Name,
		Order:         m.Order,
		Path:          m.Path,
		TrainedAt:     m.TrainedAt.UTC().Format(time.RFC3339),
		SentenceCount: m.SentenceCount,
		TokenCount:    m.TokenCount,
	}
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.store.ListModels()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result := make([]modelResponse, len(models))
	for i, m := range models {
		result[i] = modelToResponse(m)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	m, err := s.store.GetModel(name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "model not found")
		return
	}
	writeJSON(w, http.StatusOK, modelToResponse(m))
}

type edgeResponse struct {
	Token string `json:"token"`
	Count uint32 `json:"count"`
}

// handleEdges is the top-K edge introspection endpoint: given ?key=a,b
// (tokens most-recent-last), it returns the successor distribution the
// loaded chain would sample from, sorted by count descending and capped to
// ?k (default 10). An empty key queries the sentence-start node.
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	chain := s.chain()
	if chain == nil {
		writeError(w, http.StatusServiceUnavailable, "no chain loaded")
		return
	}

	var tokens []string
	if raw := r.URL.Query().Get("key"); raw != "" {
		tokens = strings.Split(raw, ",")
	}

	key, ok := chain.KeyFromTokens(tokens)
	if !ok {
		writeError(w, http.StatusBadRequest, "key is longer than the chain order or contains an unseen token")
		return
	}

	k := 10
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid k")
			return
		}
		k = n
	}

	edges := chain.Edges(key)
	sortEdgesByCountDesc(edges)
	if len(edges) > k {
		edges = edges[:k]
	}

	result := make([]edgeResponse, len(edges))
	for i, e := range edges {
		result[i] = edgeResponse{Token: e.Token, Count: e.Count}
	}
	writeJSON(w, http.StatusOK, result)
}
