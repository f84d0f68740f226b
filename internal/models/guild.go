package models

const (
	PlatformGitHub = "GitHub"

	// AuthMethodApp uses the deployment-wide token.
	AuthMethodApp = "app"
	// AuthMethodPAT uses the personal access token stored for the guild.
	AuthMethodPAT = "pat"
)

// GuildScheduleConfig is the persisted daily report setup of a guild
type GuildScheduleConfig struct {
	Enabled   bool   `json:"enabled"`
	Time      string `json:"time"`
	TimeZone  string `json:"timeZone"`
	ChannelID string `json:"channelId"`
}

// SchedulePatch carries the fields of a schedule update. Nil fields are left
// untouched.
type SchedulePatch struct {
	Time      *string `json:"time,omitempty"`
	TimeZone  *string `json:"timeZone,omitempty"`
	ChannelID *string `json:"channelId,omitempty"`
	Enabled   *bool   `json:"enabled,omitempty"`
}

// GitInfo is the code host setup of a guild
type GitInfo struct {
	Platform   string `json:"platform"`
	AuthMethod string `json:"authMethod"`
	Key        string `json:"key"`
	Org        string `json:"org"`
}

// Complete reports whether reports can run with this setup.
func (g GitInfo) Complete() bool {
	if g.Platform == "" || g.AuthMethod == "" || g.Org == "" {
		return false
	}
	return g.AuthMethod != AuthMethodPAT || g.Key != ""
}

// Redacted returns a copy safe to show back to users
func (g GitInfo) Redacted() GitInfo {
	if g.Key != "" {
		g.Key = "********"
	}
	return g
}

// GuildInfo is the persisted guild info document
type GuildInfo struct {
	Git GitInfo `json:"git"`
}

// GitInfoPatch carries the fields of a guild info update
type GitInfoPatch struct {
	Platform   *string `json:"platform,omitempty"`
	AuthMethod *string `json:"authMethod,omitempty"`
	Key        *string `json:"key,omitempty"`
	Org        *string `json:"org,omitempty"`
}
