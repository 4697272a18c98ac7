package pgstore

import (
	"database/sql"
	"errors"
	"time"
)

// ModelRecord tracks a trained chain file so the log API can list available
// models and report their training provenance without opening the binary.
type ModelRecord struct {
	Name          string
	Order         int
	Path          string
	TrainedAt     time.Time
	SentenceCount int64
	TokenCount    int64
}

// RegisterModel upserts a model's metadata after a training run completes.
func (s *Store) RegisterModel(m *ModelRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO models (name, order_n, path, trained_at, sentence_count, token_count)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE SET
		   order_n = EXCLUDED.order_n,
		   path = EXCLUDED.path,
		   trained_at = EXCLUDED.trained_at,
		   sentence_count = EXCLUDED.sentence_count,
		   token_count = EXCLUDED.token_count`,
		m.Name, m.Order, m.Path, m.TrainedAt, m.SentenceCount, m.TokenCount,
	)
	return err
}

// GetModel returns the record for name, or nil if no such model is registered.
func (s *Store) GetModel(name string) (*ModelRecord, error) {
	row := s.db.QueryRow(
		`SELECT name, order_n, path, trained_at, sentence_count, token_count
		 FROM models WHERE name = $1`, name,
	)
	var m ModelRecord
	if err := row.Scan(&m.Name, &m.Order, &m.Path, &m.TrainedAt, &m.SentenceCount, &m.TokenCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// ListModels returns every registered model, most recently trained first.
func (s *Store) ListModels() ([]*ModelRecord, error) {
	rows, err := s.db.Query(
		`SELECT name, order_n, path, trained_at, sentence_count, token_count
		 FROM models ORDER BY trained_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ModelRecord
	for rows.Next() {
		var m ModelRecord
		if err := rows.Scan(&m.Name, &m.Order, &m.Path, &m.TrainedAt, &m.SentenceCount, &m.TokenCount); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}
	return result, rows.Err()
}
