package api

import (
	"time"

	_ "github.com/Kamar-Folarin/commitboard/docs"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// ErrorResponse represents an error response
// @Description Error response from the API
// @swagger:model ErrorResponse
type ErrorResponse struct {
	// Human readable failure
	// @example Guild has no organization configured.
	Error string `json:"error" example:"Guild has no organization configured."`
}

// MessageResponse is the reply to a command that changes guild state
// @Description Outcome of a change command
// @swagger:model MessageResponse
type MessageResponse struct {
	// Chat ready reply
	Message string `json:"message" example:"Author \"bob\" has been added to the blacklist."`
	// Whether the stored document changed
	Changed bool `json:"changed" example:"true"`
}

// ScheduleView shows a guild's daily report setup and its job
// @Description Daily leaderboard schedule of a guild
// @swagger:model ScheduleView
type ScheduleView struct {
	Enabled   bool   `json:"enabled" example:"true"`
	Time      string `json:"time" example:"08:00"`
	TimeZone  string `json:"timeZone" example:"America/Toronto"`
	ChannelID string `json:"channelId" example:"112233445566778899"`
	// Whether a cron entry is registered for the guild
	Running bool `json:"running" example:"true"`
	// Next fire time, only set while running
	NextRun *time.Time `json:"nextRun,omitempty" example:"2024-03-21T12:00:00Z"`
	// Next fire time relative to now
	NextRunIn string `json:"nextRunIn,omitempty" example:"5 hours from now"`
	// Chat ready summary
	Content string `json:"content"`
}

// ScheduleUpdateRequest is the body of a schedule update. Omitted fields are
// left unchanged.
// @Description Partial schedule update
// @swagger:model ScheduleUpdateRequest
type ScheduleUpdateRequest struct {
	Time      *string `json:"time" example:"09:30"`
	TimeZone  *string `json:"timeZone" example:"Europe/Paris"`
	ChannelID *string `json:"channelId" example:"112233445566778899"`
	Enabled   *bool   `json:"enabled" example:"true"`
}

func (r ScheduleUpdateRequest) patch() models.SchedulePatch {
	return models.SchedulePatch{
		Time:      r.Time,
		TimeZone:  r.TimeZone,
		ChannelID: r.ChannelID,
		Enabled:   r.Enabled,
	}
}

// BlacklistRequest adds an author to the blacklist
// @Description Blacklist entry
// @swagger:model BlacklistRequest
type BlacklistRequest struct {
	// Display name as it appears on leaderboards
	Name string `json:"name" binding:"required" example:"dependabot"`
}

// BlacklistView lists the blacklisted authors of a guild
// @Description Blacklisted authors
// @swagger:model BlacklistView
type BlacklistView struct {
	Names   []string `json:"names"`
	Content string   `json:"content"`
}

// AuthMapRequest maps an author key to a chat user
// @Description Identity map entry
// @swagger:model AuthMapRequest
type AuthMapRequest struct {
	// GitHub login or commit email
	Key string `json:"key" binding:"required" example:"octocat"`
	// Chat user id
	UserID string `json:"userId" binding:"required" example:"112233445566778899"`
}

// AuthMapView lists the identity map of a guild
// @Description Identity map
// @swagger:model AuthMapView
type AuthMapView struct {
	Entries map[string]string `json:"entries"`
	Content string            `json:"content"`
}

// GuildInfoView shows the code host setup of a guild with the key redacted
// @Description Guild code host setup
// @swagger:model GuildInfoView
type GuildInfoView struct {
	Git models.GitInfo `json:"git"`
	// Whether reports can run with this setup
	Complete bool   `json:"complete" example:"true"`
	Content  string `json:"content"`
}

// GuildInfoUpdateRequest is the body of a guild info update
// @Description Partial guild info update
// @swagger:model GuildInfoUpdateRequest
type GuildInfoUpdateRequest struct {
	Platform   *string `json:"platform" example:"GitHub"`
	AuthMethod *string `json:"authMethod" example:"pat"`
	Key        *string `json:"key" example:"ghp_xxx"`
	Org        *string `json:"org" example:"acme"`
}

// HealthResponse is the liveness reply
// @swagger:model HealthResponse
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
