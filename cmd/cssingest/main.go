// Command cssingest replays rotated ingest log files into Postgres, so the
// HTTP/GraphQL log API can serve them without reading the filesystem.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
)

var log = logger.Component("cssingest")

func main() {
	var configPath, channel string

	root := &cobra.Command{
		Use:   "cssingest",
		Short: "Load rotated chat log files into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.Init(cfg.LogLevel, ""); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if cfg.Postgres.DSN == "" {
				return fmt.Errorf("postgres.dsn is required")
			}
			if channel == "" {
				return fmt.Errorf("--channel is required")
			}

			store, err := pgstore.Open(cfg.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("open pgstore: %w", err)
			}
			defer store.Close()

			n, err := ingestChannel(store, cfg.LogDir, channel)
			if err != nil {
				return err
			}
			log.Info("done", "channel", channel, "lines", n)
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	root.Flags().StringVar(&channel, "channel", "", "channel whose rotated logs should be ingested")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func ingestChannel(store *pgstore.Store, logDir, channel string) (int, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return 0, fmt.Errorf("read log dir %s: %w", logDir, err)
	}

	prefix := channel + "-"
	total := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		n, err := ingestFile(store, channel, filepath.Join(logDir, name))
		if err != nil {
			return total, fmt.Errorf("ingest %s: %w", name, err)
		}
		total += n
	}
	return total, nil
}

func ingestFile(store *pgstore.Store, channel, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), "\t", 3)
		if len(parts) != 3 {
			continue
		}
		ts, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		if err := store.InsertLine(&pgstore.ChatLine{
			Channel:    channel,
			Username:   parts[1],
			Text:       parts[2],
			ReceivedAt: time.Unix(ts, 0).UTC(),
		}); err != nil {
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}
