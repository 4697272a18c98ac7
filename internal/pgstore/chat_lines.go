package pgstore

import "time"

// ChatLine is one ingested chat message, keyed by channel and arrival time.
type ChatLine struct {
	ID         int64
	Channel    string
	Username   string
	Text       string
	ReceivedAt time.Time
}

// InsertLine records one ingested chat line.
func (s *Store) InsertLine(line *ChatLine) error {
	return s.db.QueryRow(
		`INSERT INTO chat_lines (channel, username, text, received_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		line.Channel, line.Username, line.Text, line.ReceivedAt,
	).Scan(&line.ID)
}

// RecentLines returns up to limit chat lines for channel, newest first.
func (s *Store) RecentLines(channel string, limit int) ([]*ChatLine, error) {
	rows, err := s.db.Query(
		`SELECT id, channel, username, text, received_at FROM chat_lines
		 WHERE channel = $1 ORDER BY received_at DESC LIMIT $2`,
		channel, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*ChatLine
	for rows.Next() {
		var l ChatLine
		if err := rows.Scan(&l.ID, &l.Channel, &l.Username, &l.Text, &l.ReceivedAt); err != nil {
			return nil, err
		}
		result = append(result, &l)
	}
	return result, rows.Err()
}

// CountLines returns the total number of ingested lines for channel.
func (s *Store) CountLines(channel string) (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chat_lines WHERE channel = $1`, channel).Scan(&n)
	return n, err
}
