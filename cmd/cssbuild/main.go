// Command cssbuild trains a chain from rotated ingest logs and writes it
// atomically to disk, either once or on a cron schedule / filesystem watch.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/cron"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/markov"
	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
	"github.com/ezclap-tv/shit-chat-says/internal/trainer"
)

var log = logger.Component("cssbuild")

func main() {
	var configPath, channel string
	var watch bool

	root := &cobra.Command{
		Use:   "cssbuild",
		Short: "Train a Markov chain from ingested chat logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.Init(cfg.LogLevel, ""); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if channel == "" {
				return fmt.Errorf("--channel is required")
			}

			if watch {
				return watchAndTrain(cfg, channel)
			}
			if cfg.RetrainCron != "" {
				return scheduleAndTrain(cfg, channel)
			}
			return trainOnce(cfg, channel)
		},
	}
	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	root.Flags().StringVar(&channel, "channel", "", "channel to train a model for")
	root.Flags().BoolVar(&watch, "watch", false, "retrain whenever the channel's log directory changes")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func trainOnce(cfg *config.Config, channel string) error {
	chain, stats, err := trainer.FromLogs(cfg.LogDir, channel, cfg.Order)
	if err != nil {
		return err
	}
	if err := trainer.SaveAtomic(cfg.ModelPath, chain); err != nil {
		return err
	}
	log.Info("trained", "channel", channel, "sentences", stats.Sentences, "tokens", stats.Tokens, "path", cfg.ModelPath)
	return registerModel(cfg, channel, chain, stats)
}

func scheduleAndTrain(cfg *config.Config, channel string) error {
	schedule, err := cron.ParseRetrainSchedule(cfg.RetrainCron, []string{channel})
	if err != nil {
		return fmt.Errorf("parse retrain_cron: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for {
		log.Info("next retrain scheduled", "at", schedule.Next(time.Now()))
		channels, ok := schedule.Due(ctx, time.Now())
		if !ok {
			return ctx.Err()
		}
		for _, ch := range channels {
			if err := trainOnce(cfg, ch); err != nil {
				log.Error("scheduled retrain failed", "channel", ch, "err", err)
			}
		}
	}
}

func watchAndTrain(cfg *config.Config, channel string) error {
	if err := trainOnce(cfg, channel); err != nil {
		log.Error("initial train failed", "err", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.LogDir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.LogDir, err)
	}

	// Debounce: a log rotation can produce several rapid writes.
	var pending bool
	debounce := time.NewTicker(2 * time.Second)
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 && strings.Contains(filepath.Base(event.Name), channel) {
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "err", err)
		case <-debounce.C:
			if pending {
				pending = false
				if err := trainOnce(cfg, channel); err != nil {
					log.Error("watch-triggered retrain failed", "err", err)
				}
			}
		}
	}
}

func registerModel(cfg *config.Config, channel string, chain *markov.Chain, stats trainer.Stats) error {
	if cfg.Postgres.DSN == "" {
		return nil
	}
	store, err := pgstore.Open(cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("open pgstore: %w", err)
	}
	defer store.Close()

	return store.RegisterModel(&pgstore.ModelRecord{
		Name:          channel,
		Order:         chain.Order(),
		Path:          cfg.ModelPath,
		TrainedAt:     time.Now().UTC(),
		SentenceCount: stats.Sentences,
		TokenCount:    stats.Tokens,
	})
}
