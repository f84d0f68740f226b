package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/metrics"
)

// DefaultChunkLimit is Discord's per-message character ceiling
const DefaultChunkLimit = 2000

var textChannelTypes = map[discordgo.ChannelType]bool{
	discordgo.ChannelTypeGuildText:          true,
	discordgo.ChannelTypeDM:                 true,
	discordgo.ChannelTypeGroupDM:            true,
	discordgo.ChannelTypeGuildNews:          true,
	discordgo.ChannelTypeGuildNewsThread:    true,
	discordgo.ChannelTypeGuildPublicThread:  true,
	discordgo.ChannelTypeGuildPrivateThread: true,
	discordgo.ChannelTypeGuildVoice:         true,
}

// Messenger sends text to channels, split into message sized chunks
type Messenger struct {
	session    Session
	limiter    *rate.Limiter
	chunkLimit int
	logger     *logrus.Logger
}

// NewMessenger creates a messenger paced by cfg
func NewMessenger(session Session, cfg *config.MessengerConfig, logger *logrus.Logger) *Messenger {
	if cfg == nil {
		cfg = config.DefaultMessengerConfig()
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	chunkLimit := cfg.ChunkLimit
	if chunkLimit <= 0 || chunkLimit > DefaultChunkLimit {
		chunkLimit = DefaultChunkLimit
	}
	return &Messenger{
		session:    session,
		limiter:    rate.NewLimiter(limit, burst),
		chunkLimit: chunkLimit,
		logger:     logger,
	}
}

// Send delivers content to channelID. Mentions are never pinged.
func (m *Messenger) Send(ctx context.Context, channelID, content string) error {
	if err := m.CheckChannel(ctx, channelID); err != nil {
		return err
	}

	chunks := SplitChunks(content, m.chunkLimit)
	for i, chunk := range chunks {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content:         chunk,
			AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
		}, discordgo.WithContext(ctx))
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"channel": channelID,
				"chunk":   i + 1,
				"chunks":  len(chunks),
			}).WithError(err).Error("Failed to send message chunk")
			return apperrors.NewInternalError(fmt.Sprintf("Could not send a message to channel %s.", channelID), err)
		}
		metrics.MessagesSentTotal.Inc()
	}
	return nil
}

// CheckChannel verifies channelID exists and accepts text messages
func (m *Messenger) CheckChannel(ctx context.Context, channelID string) error {
	channel, err := m.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil || channel == nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("Channel %s not found.", channelID), err)
	}
	if !textChannelTypes[channel.Type] {
		return apperrors.NewValidationError(fmt.Sprintf("Channel %s is not a text channel.", channelID), nil)
	}
	return nil
}

// SplitChunks cuts text into pieces of at most limit runes, preferring to
// break at a newline, then at a space. The separator at a break is dropped.
func SplitChunks(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}

	var parts []string
	remaining := []rune(text)
	for len(remaining) > limit {
		idx := lastIndex(remaining, '\n', limit)
		if idx <= 0 {
			idx = lastIndex(remaining, ' ', limit)
		}
		if idx <= 0 {
			idx = limit
		}

		parts = append(parts, string(remaining[:idx]))
		remaining = remaining[idx:]
		if len(remaining) > 0 && remaining[0] == '\n' {
			remaining = remaining[1:]
		}
		if len(remaining) > 0 && remaining[0] == ' ' {
			remaining = remaining[1:]
		}
	}
	return append(parts, string(remaining))
}

// lastIndex finds r at or before position from
func lastIndex(runes []rune, r rune, from int) int {
	if from >= len(runes) {
		from = len(runes) - 1
	}
	for i := from; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
