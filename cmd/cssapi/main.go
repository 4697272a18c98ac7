// Command cssapi serves the HTTP/GraphQL log API against pgstore and a
// trained chain, reloading the chain whenever cssbuild replaces it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ezclap-tv/shit-chat-says/internal/api"
	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/pgstore"
)

var log = logger.Component("cssapi")

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "cssapi",
		Short: "Serve the HTTP/GraphQL log API",
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

			store, err := pgstore.Open(cfg.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("open pgstore: %w", err)
			}
			defer store.Close()

			var current atomic.Pointer[codec.Handle]
			if f, err := os.Open(cfg.ModelPath); err == nil {
				handle, err := codec.LoadAny(f)
				f.Close()
				if err != nil {
					log.Warn("failed to load initial model", "err", err)
				} else {
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

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			go watchModel(ctx, cfg.ModelPath, &current)

			return server.ListenAndServe(ctx)
		},
	}
	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func watchModel(ctx context.Context, path string, current *atomic.Pointer[codec.Handle]) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("create watcher failed", "err", err)
		return
	}
	defer watcher.Close()

	dir := "."
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			dir = path[:i]
			break
		}
	}
	if err := watcher.Add(dir); err != nil {
		log.Error("watch model dir failed", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			f, err := os.Open(path)
			if err != nil {
				log.Error("reopen model failed", "err", err)
				continue
			}
			handle, err := codec.LoadAny(f)
			f.Close()
			if err != nil {
				log.Error("reload model failed", "err", err)
				continue
			}
			current.Store(&handle)
			log.Info("reloaded model", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "err", err)
		}
	}
}
