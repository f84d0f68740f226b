package discord

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
)

type fakeSession struct {
	channels map[string]*discordgo.Channel
	members  map[string]*discordgo.Member
	users    map[string]*discordgo.User
	sent     []*discordgo.MessageSend
	sendErr  error
}

func (f *fakeSession) Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, errors.New("HTTP 404 Not Found")
	}
	return ch, nil
}

func (f *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, data)
	return &discordgo.Message{ChannelID: channelID, Content: data.Content}, nil
}

func (f *fakeSession) GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error) {
	m, ok := f.members[guildID+"/"+userID]
	if !ok {
		return nil, errors.New("HTTP 404 Unknown Member")
	}
	return m, nil
}

func (f *fakeSession) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.New("HTTP 404 Unknown User")
	}
	return u, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func TestSplitChunks(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, SplitChunks("hello", 10))
		assert.Equal(t, []string{""}, SplitChunks("", 10))
	})

	t.Run("prefers newlines", func(t *testing.T) {
		assert.Equal(t, []string{"aaaa", "bbbb", "cc"}, SplitChunks("aaaa\nbbbb\ncc", 5))
	})

	t.Run("falls back to spaces", func(t *testing.T) {
		assert.Equal(t, []string{"one two", "three"}, SplitChunks("one two three", 7))
	})

	t.Run("hard cut without boundaries", func(t *testing.T) {
		assert.Equal(t, []string{"abcd", "efgh", "ij"}, SplitChunks("abcdefghij", 4))
	})

	t.Run("counts runes", func(t *testing.T) {
		text := strings.Repeat("é", 4500)
		chunks := SplitChunks(text, DefaultChunkLimit)
		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), DefaultChunkLimit)
		}
		assert.Equal(t, text, strings.Join(chunks, ""))
	})
}

func TestMessengerSend(t *testing.T) {
	session := &fakeSession{channels: map[string]*discordgo.Channel{
		"C1": {ID: "C1", Type: discordgo.ChannelTypeGuildText},
	}}
	m := NewMessenger(session, &config.MessengerConfig{ChunkLimit: 12}, quietLogger())

	require.NoError(t, m.Send(context.Background(), "C1", "first line\nsecond line\n@everyone"))

	require.Len(t, session.sent, 3)
	assert.Equal(t, "first line", session.sent[0].Content)
	assert.Equal(t, "second line", session.sent[1].Content)
	assert.Equal(t, "@everyone", session.sent[2].Content)
	for _, msg := range session.sent {
		require.NotNil(t, msg.AllowedMentions)
		assert.Empty(t, msg.AllowedMentions.Parse)
	}
}

func TestMessengerRejectsBadChannels(t *testing.T) {
	session := &fakeSession{channels: map[string]*discordgo.Channel{
		"V1": {ID: "V1", Type: discordgo.ChannelTypeGuildCategory},
	}}
	m := NewMessenger(session, nil, quietLogger())

	err := m.Send(context.Background(), "missing", "hi")
	assert.True(t, apperrors.IsNotFound(err))

	err = m.Send(context.Background(), "V1", "hi")
	assert.True(t, apperrors.IsValidationError(err))
	assert.Empty(t, session.sent)
}

func TestMessengerSendFailure(t *testing.T) {
	session := &fakeSession{
		channels: map[string]*discordgo.Channel{"C1": {ID: "C1", Type: discordgo.ChannelTypeGuildText}},
		sendErr:  errors.New("HTTP 403 Missing Permissions"),
	}
	m := NewMessenger(session, nil, quietLogger())

	err := m.Send(context.Background(), "C1", "hi")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInternal, apperrors.TypeOf(err))
}

func TestNameResolver(t *testing.T) {
	session := &fakeSession{
		members: map[string]*discordgo.Member{
			"G/U1": {Nick: "Ally", User: &discordgo.User{ID: "U1", Username: "alice", GlobalName: "Alice"}},
			"G/U2": {User: &discordgo.User{ID: "U2", Username: "bob", GlobalName: "Bobby"}},
			"G/U3": {User: &discordgo.User{ID: "U3", Username: "carol"}},
		},
		users: map[string]*discordgo.User{
			"U4": {ID: "U4", Username: "dave"},
		},
	}
	r := NewNameResolver(session, quietLogger())
	ctx := context.Background()

	for userID, want := range map[string]string{"U1": "Ally", "U2": "Bobby", "U3": "carol", "U4": "dave"} {
		name, err := r.DisplayName(ctx, "G", userID)
		require.NoError(t, err, userID)
		assert.Equal(t, want, name, userID)
	}

	_, err := r.DisplayName(ctx, "G", "U404")
	assert.Error(t, err)
}
