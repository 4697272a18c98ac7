// Package trainer reads rotated ingest logs from disk and trains a Markov
// chain from them. It is shared by cmd/cssbuild (one-shot / scheduled /
// watch-mode batch training) and cmd/cssd (the daemon's in-process retrain
// loop), so both get identical training semantics.
package trainer

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

// Stats reports how much training data a run consumed.
type Stats struct {
	Sentences int64
	Tokens    int64
}

// FromLogs trains a fresh chain of order from every rotated log file for
// channel under logDir. internal/ingest writes "<unix>\t<username>\t<text>"
// lines, one sentence per line.
func FromLogs(logDir, channel string, order int) (*markov.Chain, Stats, error) {
	var stats Stats
	chain, err := markov.Create(order, nil)
	if err != nil {
		return nil, stats, fmt.Errorf("trainer: create chain: %w", err)
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return nil, stats, fmt.Errorf("trainer: read log dir %s: %w", logDir, err)
	}

	var files []string
	prefix := channel + "-"
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".log") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if err := feedFile(chain, filepath.Join(logDir, name), &stats); err != nil {
			return nil, stats, fmt.Errorf("trainer: read %s: %w", name, err)
		}
	}
	return chain, stats, nil
}

func feedFile(chain *markov.Chain, path string, stats *Stats) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), "\t", 3)
		if len(parts) != 3 {
			continue
		}
		text := parts[2]
		chain.FeedText(text)
		stats.Sentences++
		stats.Tokens += int64(len(strings.Fields(text)))
	}
	return scanner.Err()
}

// SaveAtomic encodes chain and replaces path with it atomically: write to a
// sibling temp file, then rename over the target so readers never observe
// a partially written model.
func SaveAtomic(path string, chain *markov.Chain) error {
	tmp := path + ".tmp-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("trainer: create temp model file: %w", err)
	}
	if err := codec.Save(f, chain); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("trainer: encode chain: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("trainer: close temp model file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("trainer: rename into place: %w", err)
	}
	return nil
}
