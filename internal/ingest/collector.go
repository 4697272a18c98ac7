// Package ingest is the log collector: it connects to Twitch IRC, writes
// every chat line to a rotating per-channel, per-day log file, and hands
// the same line to an optional in-process Sink. No chain is trained here;
// models are built from the rotated files by internal/trainer.
package ingest

import (
	"context"
	"fmt"
	"time"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/ezclap-tv/shit-chat-says/internal/logger"
)

var log = logger.Component("ingest")

// Sink receives one chat line as it arrives. cmd/cssd implements it by
// inserting the line into pgstore when a Postgres DSN is configured.
type Sink func(channel, username, text string, at time.Time)

// Collector joins a set of Twitch channels and dispatches each message to
// a Rotator (for durable storage) and a Sink (for live consumers).
type Collector struct {
	client   *twitch.Client
	channels []string
	rotator  *Rotator
	sink     Sink
}

// New builds a Collector. username/oauthToken authenticate the IRC
// connection; an empty username falls back to an anonymous "justinfan"
// login, which supports read-only joins.
func New(username, oauthToken string, channels []string, rotator *Rotator, sink Sink) *Collector {
	if username == "" {
		username = "justinfan11111"
	}
	client := twitch.NewClient(username, oauthToken)

	c := &Collector{
		client:   client,
		channels: channels,
		rotator:  rotator,
		sink:     sink,
	}

	client.OnPrivateMessage(c.handleMessage)
	client.OnConnect(func() {
		log.Info("connected to twitch irc", "channels", channels)
	})

	return c
}

func (c *Collector) handleMessage(msg twitch.PrivateMessage) {
	at := msg.Time
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if c.rotator != nil {
		if err := c.rotator.Write(msg.Channel, msg.User.Name, msg.Message, at); err != nil {
			log.Error("write rotated log failed", "channel", msg.Channel, "err", err)
		}
	}
	if c.sink != nil {
		c.sink(msg.Channel, msg.User.Name, msg.Message, at)
	}
}

// Run joins every configured channel and blocks until ctx is cancelled or
// the connection drops. It does not retry; callers that want reconnect
// behavior should loop on Run themselves.
func (c *Collector) Run(ctx context.Context) error {
	for _, ch := range c.channels {
		c.client.Join(ch)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- c.client.Connect() }()

	select {
	case <-ctx.Done():
		c.client.Disconnect()
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ingest: twitch irc connection: %w", err)
		}
		return nil
	}
}
