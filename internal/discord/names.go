package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// NameResolver looks up how a user appears in a guild
type NameResolver struct {
	session Session
	logger  *logrus.Logger
}

// NewNameResolver creates a new display name resolver
func NewNameResolver(session Session, logger *logrus.Logger) *NameResolver {
	return &NameResolver{session: session, logger: logger}
}

// DisplayName returns the member's guild nickname, else their global name,
// else their username. Users outside the guild are looked up globally.
func (r *NameResolver) DisplayName(ctx context.Context, guildID, userID string) (string, error) {
	member, err := r.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err == nil && member != nil {
		if member.Nick != "" {
			return member.Nick, nil
		}
		if name := userName(member.User); name != "" {
			return name, nil
		}
	} else {
		r.logger.WithFields(logrus.Fields{
			"guild":   guildID,
			"user_id": userID,
		}).WithError(err).Debug("Member lookup failed, trying global user")
	}

	user, err := r.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if name := userName(user); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("user %s has no name", userID)
}

func userName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
