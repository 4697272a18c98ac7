// Command cssd is the daemon supervisor: it runs the Twitch log collector,
// the HTTP/GraphQL API, and a cron-scheduled retrain loop side by side, and
// shuts all of them down together on SIGINT/SIGTERM. Chat lines reach
// Postgres live through the collector's sink, not on a schedule.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ezclap-tv/shit-chat-says/internal/api"
	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/cron"
	"github.com/ezclap-tv/shit-chat-says/internal/ingest"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
	"github.com/ezclap-tv/shit-chat-says/internal/trainer"
)

var log = logger.Component("cssd")

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "cssd",
		Short: "Run the collector, API, and retrain loop together",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.Init(cfg.LogLevel, ""); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return run(cfg)
		},
	}
	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var store *pgstore.Store
	if cfg.Postgres.DSN != "" {
		var err error
		store, err = pgstore.Open(cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("open pgstore: %w", err)
		}
		defer store.Close()
	}

	var current atomic.Pointer[codec.Handle]

	if len(cfg.Twitch.Channels) > 0 {
		rotator, err := ingest.NewRotator(cfg.LogDir)
		if err != nil {
			return fmt.Errorf("create rotator: %w", err)
		}
		defer rotator.Close()

		var sink ingest.Sink
		if store != nil {
			sink = func(channel, username, text string, at time.Time) {
				if err := store.InsertLine(&pgstore.ChatLine{Channel: channel, Username: username, Text: text, ReceivedAt: at}); err != nil {
					log.Error("insert ingested line failed", "err", err)
				}
			}
		}

		collector := ingest.New(cfg.Twitch.Username, cfg.Twitch.OAuthToken, cfg.Twitch.Channels, rotator, sink)
		g.Go(func() error { return collector.Run(ctx) })
	}

	if store != nil {
		if f, err := os.Open(cfg.ModelPath); err == nil {
			handle, err := codec.LoadAny(f)
			f.Close()
			if err == nil {
				current.Store(&handle)
			}
		}

		server := api.NewServer(store, func() codec.Handle {
			p := current.Load()
			if p == nil {
				return nil
			}
			return *p
		}, cfg.HTTP.Addr, rate.Limit(10), 20)
		g.Go(func() error { return server.ListenAndServe(ctx) })
	}

	if cfg.RetrainCron != "" && len(cfg.Twitch.Channels) > 0 {
		schedule, err := cron.ParseRetrainSchedule(cfg.RetrainCron, cfg.Twitch.Channels)
		if err != nil {
			return fmt.Errorf("parse retrain_cron: %w", err)
		}
		g.Go(func() error { return retrainLoop(ctx, cfg, schedule, &current) })
	}

	return g.Wait()
}

// retrainLoop periodically retrains every channel in schedule and swaps the
// API's live chain handle to the freshly trained one, without restarting
// cssd.
func retrainLoop(ctx context.Context, cfg *config.Config, schedule *cron.RetrainSchedule, current *atomic.Pointer[codec.Handle]) error {
	for {
		channels, ok := schedule.Due(ctx, time.Now())
		if !ok {
			return ctx.Err()
		}

		for _, channel := range channels {
			chain, stats, err := trainer.FromLogs(cfg.LogDir, channel, cfg.Order)
			if err != nil {
				log.Error("retrain failed", "channel", channel, "err", err)
				continue
			}
			if err := trainer.SaveAtomic(cfg.ModelPath, chain); err != nil {
				log.Error("save retrained model failed", "channel", channel, "err", err)
				continue
			}
			handle := codec.Handle(chain)
			current.Store(&handle)
			log.Info("retrained", "channel", channel, "sentences", stats.Sentences, "tokens", stats.Tokens)
		}
	}
}
