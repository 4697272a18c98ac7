// Command cssbot runs the Discord chat bot against a trained chain, reloading
// the chain whenever its file changes on disk (cssbuild replaces it
// atomically after every retrain).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ezclap-tv/shit-chat-says/internal/bot"
	"github.com/ezclap-tv/shit-chat-says/internal/codec"
	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

var log = logger.Component("cssbot")

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "cssbot",
		Short: "Run the Discord chat bot against a trained chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := logger.Init(cfg.LogLevel, ""); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			holder := newChainHolder()
			if err := holder.reload(cfg.ModelPath); err != nil {
				return fmt.Errorf("load initial model: %w", err)
			}

			b, err := bot.New(&cfg.Discord, holder)
			if err != nil {
				return fmt.Errorf("create bot: %w", err)
			}
			if err := b.Start(); err != nil {
				return fmt.Errorf("start bot: %w", err)
			}
			defer b.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			go watchModel(ctx, cfg.ModelPath, holder)

			<-ctx.Done()
			log.Info("shutting down")
			return nil
		},
	}
	root.Flags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// chainHolder lets the bot keep generating against the in-memory chain
// while a background watcher swaps in a freshly retrained one.
type chainHolder struct {
	handle atomic.Pointer[codec.Handle]
}

func newChainHolder() *chainHolder {
	return &chainHolder{}
}

func (h *chainHolder) reload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	handle, err := codec.LoadAny(f)
	if err != nil {
		return err
	}
	h.handle.Store(&handle)
	return nil
}

func (h *chainHolder) Order() int {
	return (*h.handle.Load()).Order()
}

func (h *chainHolder) SampleBest(seed []string, rng markov.RNG, k int) ([]string, error) {
	handle := h.handle.Load()
	return (*handle).SampleBest(seed, rng, k)
}

func watchModel(ctx context.Context, path string, holder *chainHolder) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("create watcher failed", "err", err)
		return
	}
	defer watcher.Close()

	dir := "."
	if idx := lastSlash(path); idx >= 0 {
		dir = path[:idx]
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
			if event.Name == path && event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				if err := holder.reload(path); err != nil {
					log.Error("reload model failed", "err", err)
					continue
				}
				log.Info("reloaded model", "path", path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "err", err)
		}
	}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}
