package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Rotator appends ingested chat lines to one file per channel per UTC day,
// matching the "one call per sentence" contract internal/markov's trainer
// expects downstream. Write opens a channel's new day file lazily, the first
// time a line lands on a new day.
type Rotator struct {
	dir string

	mu      sync.Mutex
	files   map[string]*os.File // channel -> current file
	dayKeys map[string]string   // channel -> day the open file belongs to
}

// NewRotator returns a Rotator writing under dir, which is created if
// missing.
func NewRotator(dir string) (*Rotator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ingest: create log dir: %w", err)
	}
	return &Rotator{
		dir:     dir,
		files:   make(map[string]*os.File),
		dayKeys: make(map[string]string),
	}, nil
}

// Write appends one line "<unix-ts>\t<username>\t<text>\n" to channel's
// current day file, rotating to a new file if the UTC date has changed.
func (r *Rotator) Write(channel, username, text string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := at.UTC().Format("2006-01-02")
	if r.dayKeys[channel] != day {
		if f := r.files[channel]; f != nil {
			f.Close()
		}
		path := filepath.Join(r.dir, fmt.Sprintf("%s-%s.log", channel, day))
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("ingest: open rotated log %s: %w", path, err)
		}
		r.files[channel] = f
		r.dayKeys[channel] = day
	}

	line := fmt.Sprintf("%d\t%s\t%s\n", at.Unix(), username, text)
	_, err := r.files[channel].WriteString(line)
	return err
}

// Close closes every open file handle.
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, f := range r.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
