// Package bot is the chat bot frontend: it joins a Discord channel, samples
// responses from a loaded Markov chain, and posts them back when a message
// in that channel mentions the bot or starts with the "!css" command. It
// never replies unprompted. It holds the chain read-only — training happens
// out of band in cmd/cssbuild.
package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/ezclap-tv/shit-chat-says/internal/config"
	"github.com/ezclap-tv/shit-chat-says/internal/logger"
	"github.com/ezclap-tv/shit-chat-says/internal/markov"
)

var log = logger.Component("bot")

// Bot holds a Discord session and a read-only handle on a trained chain.
type Bot struct {
	session   *discordgo.Session
	channelID string
	chain     chainGenerator
	sampleK   int
	rng       *rand.Rand
}

// chainGenerator is the subset of codec.Handle the bot needs. Declared
// here rather than imported from codec so this package doesn't need to
// know about the on-disk format, only about generation.
type chainGenerator interface {
	Order() int
	SampleBest(seed []string, rng markov.RNG, k int) ([]string, error)
}

// New creates a Bot bound to a single channel. In cmd/cssbot, chain is a
// holder around a handle loaded via codec.LoadAny, which it swaps for a
// freshly loaded one whenever cmd/cssbuild replaces the model file.
func New(cfg *config.DiscordConfig, chain chainGenerator) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("bot: create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages

	k := cfg.SampleK
	if k <= 0 {
		k = 1
	}

	b := &Bot{
		session:   session,
		channelID: cfg.ChannelID,
		chain:     chain,
		sampleK:   k,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	session.AddHandler(b.messageHandler)
	return b, nil
}

// Start opens the Discord session.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("bot: open discord session: %w", err)
	}
	log.Info("connected to discord", "channel", b.channelID)
	return nil
}

// Stop closes the Discord session.
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) messageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	if m.ChannelID != b.channelID {
		return
	}

	switch {
	case strings.HasPrefix(m.Content, "!css"):
		seed := strings.Fields(strings.TrimPrefix(m.Content, "!css"))
		b.reply(seed)
	case s.State.User != nil && mentionsUser(m, s.State.User.ID):
		seed := strings.Fields(stripMention(m.Content, s.State.User.ID))
		b.reply(seed)
	}
}

func (b *Bot) reply(seed []string) {
	if order := b.chain.Order(); len(seed) > order {
		seed = seed[len(seed)-order:]
	}
	out, err := b.chain.SampleBest(seed, b.rng, b.sampleK)
	if err != nil {
		log.Error("generate failed", "err", err)
		return
	}
	if len(out) == 0 {
		return
	}
	if _, err := b.session.ChannelMessageSend(b.channelID, strings.Join(out, " ")); err != nil {
		log.Error("send message failed", "err", err)
	}
}

func mentionsUser(m *discordgo.MessageCreate, userID string) bool {
	for _, u := range m.Mentions {
		if u.ID == userID {
			return true
		}
	}
	return false
}

func stripMention(content, userID string) string {
	content = strings.ReplaceAll(content, "<@"+userID+">", "")
	content = strings.ReplaceAll(content, "<@!"+userID+">", "")
	return strings.TrimSpace(content)
}
