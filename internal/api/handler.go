package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/db"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/leaderboard"
	"github.com/Kamar-Folarin/commitboard/internal/models"
	"github.com/Kamar-Folarin/commitboard/internal/report"
	"github.com/Kamar-Folarin/commitboard/internal/scheduler"
	"github.com/Kamar-Folarin/commitboard/internal/timewindow"
)

// ReportService runs reports and listings for a guild
type ReportService interface {
	Report(ctx context.Context, guildID string, req report.Request) (*report.Leaderboard, error)
	ListRepos(ctx context.Context, guildID string, max int) (*report.Listing, error)
	ListBranches(ctx context.Context, guildID, repoRef string, max int) (*report.Listing, error)
	ListPeople(ctx context.Context, guildID string, max int) (*report.Listing, error)
}

// ScheduleService changes a guild's schedule and exposes its job
type ScheduleService interface {
	Apply(ctx context.Context, guildID string, patch models.SchedulePatch) (models.GuildScheduleConfig, error)
	Snapshot(guildID string) (scheduler.Snapshot, bool)
}

// ScheduleReader reads the stored schedule of a guild
type ScheduleReader interface {
	Get(ctx context.Context, guildID string) (models.GuildScheduleConfig, error)
}

// BlacklistStore manages blacklisted display names
type BlacklistStore interface {
	Get(ctx context.Context, guildID string) ([]string, error)
	Add(ctx context.Context, guildID, name string) (bool, error)
	Remove(ctx context.Context, guildID, name string) (bool, error)
}

// AuthMapStore manages the author key to user id map
type AuthMapStore interface {
	Get(ctx context.Context, guildID string) (map[string]string, error)
	Add(ctx context.Context, guildID, key, userID string) (bool, error)
	Remove(ctx context.Context, guildID, key string) (bool, error)
}

// GuildInfoStore manages a guild's code host setup
type GuildInfoStore interface {
	Get(ctx context.Context, guildID string) (models.GitInfo, error)
	Update(ctx context.Context, guildID string, patch models.GitInfoPatch) (models.GitInfo, error)
}

// Handler serves the guild command surface
type Handler struct {
	reports   ReportService
	schedules ScheduleService
	stored    ScheduleReader
	blacklist BlacklistStore
	authMap   AuthMapStore
	guilds    GuildInfoStore
	logger    *logrus.Logger
	now       func() time.Time
}

// NewHandler creates a new handler
func NewHandler(
	reports ReportService,
	schedules ScheduleService,
	stored ScheduleReader,
	blacklist BlacklistStore,
	authMap AuthMapStore,
	guilds GuildInfoStore,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		reports:   reports,
		schedules: schedules,
		stored:    stored,
		blacklist: blacklist,
		authMap:   authMap,
		guilds:    guilds,
		logger:    logger,
		now:       time.Now,
	}
}

// RequireGuild rejects malformed guild ids before any handler runs
func (h *Handler) RequireGuild(c *gin.Context) {
	if err := db.ValidateGuildID(c.Param("guildID")); err != nil {
		h.respondWithError(c, "validate guild", err)
		c.Abort()
		return
	}
	c.Next()
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// GetReport renders the leaderboard of a repository or of the whole
// organization over the requested window.
func (h *Handler) GetReport(c *gin.Context) {
	guildID := c.Param("guildID")
	req := report.Request{
		Repo: c.Query("repo"),
		Window: timewindow.Request{
			Rel:   c.Query("rel"),
			Since: c.Query("since"),
			Until: c.Query("until"),
		},
	}

	board, err := h.reports.Report(c.Request.Context(), guildID, req)
	if err != nil {
		h.respondWithError(c, "report", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// ListRepos lists the organization's repositories
func (h *Handler) ListRepos(c *gin.Context) {
	max, ok := h.maxParam(c)
	if !ok {
		return
	}
	listing, err := h.reports.ListRepos(c.Request.Context(), c.Param("guildID"), max)
	if err != nil {
		h.respondWithError(c, "list repos", err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// ListBranches lists the branches of a repository
func (h *Handler) ListBranches(c *gin.Context) {
	max, ok := h.maxParam(c)
	if !ok {
		return
	}
	listing, err := h.reports.ListBranches(c.Request.Context(), c.Param("guildID"), c.Param("repo"), max)
	if err != nil {
		h.respondWithError(c, "list branches", err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// ListPeople lists the organization's members by display name
func (h *Handler) ListPeople(c *gin.Context) {
	max, ok := h.maxParam(c)
	if !ok {
		return
	}
	listing, err := h.reports.ListPeople(c.Request.Context(), c.Param("guildID"), max)
	if err != nil {
		h.respondWithError(c, "list people", err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// GetSchedule shows the stored schedule and the state of its job
func (h *Handler) GetSchedule(c *gin.Context) {
	guildID := c.Param("guildID")
	cfg, err := h.stored.Get(c.Request.Context(), guildID)
	if err != nil {
		h.respondWithError(c, "read schedule", err)
		return
	}
	c.JSON(http.StatusOK, h.scheduleView(guildID, cfg))
}

// UpdateSchedule applies a partial schedule update and reschedules the job
func (h *Handler) UpdateSchedule(c *gin.Context) {
	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, "update schedule", apperrors.NewValidationError("Invalid schedule update body.", err))
		return
	}

	guildID := c.Param("guildID")
	cfg, err := h.schedules.Apply(c.Request.Context(), guildID, req.patch())
	if err != nil {
		h.respondWithError(c, "update schedule", err)
		return
	}
	c.JSON(http.StatusOK, h.scheduleView(guildID, cfg))
}

// ClearScheduleChannel unsets the target channel, which stops the job
func (h *Handler) ClearScheduleChannel(c *gin.Context) {
	guildID := c.Param("guildID")
	empty := ""
	cfg, err := h.schedules.Apply(c.Request.Context(), guildID, models.SchedulePatch{ChannelID: &empty})
	if err != nil {
		h.respondWithError(c, "clear schedule channel", err)
		return
	}
	c.JSON(http.StatusOK, h.scheduleView(guildID, cfg))
}

// GetBlacklist lists the blacklisted authors
func (h *Handler) GetBlacklist(c *gin.Context) {
	names, err := h.blacklist.Get(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		h.respondWithError(c, "read blacklist", err)
		return
	}

	view := BlacklistView{Names: names, Content: "The blacklist is currently empty."}
	if view.Names == nil {
		view.Names = []string{}
	}
	if len(names) > 0 {
		view.Content = leaderboard.RenderList(names, "Blacklisted Authors:")
	}
	c.JSON(http.StatusOK, view)
}

// AddBlacklist adds an author to the blacklist
func (h *Handler) AddBlacklist(c *gin.Context) {
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.respondWithError(c, "add blacklist", apperrors.NewValidationError("Author name cannot be empty.", err))
		return
	}
	name := strings.TrimSpace(req.Name)

	added, err := h.blacklist.Add(c.Request.Context(), c.Param("guildID"), name)
	if err != nil {
		h.respondWithError(c, "add blacklist", err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Author %q is already in the blacklist.", name)})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Author %q has been added to the blacklist.", name),
		Changed: true,
	})
}

// RemoveBlacklist removes an author from the blacklist
func (h *Handler) RemoveBlacklist(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	removed, err := h.blacklist.Remove(c.Request.Context(), c.Param("guildID"), name)
	if err != nil {
		h.respondWithError(c, "remove blacklist", err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("**%s** is not in the blacklist.", name)})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Removed **%s** from the blacklist.", name), Changed: true})
}

// GetAuthMap lists the identity map
func (h *Handler) GetAuthMap(c *gin.Context) {
	entries, err := h.authMap.Get(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		h.respondWithError(c, "read auth map", err)
		return
	}

	view := AuthMapView{Entries: entries, Content: "No maps are authenticated"}
	if view.Entries == nil {
		view.Entries = map[string]string{}
	}
	if len(entries) > 0 {
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s : %s", k, entries[k]))
		}
		view.Content = leaderboard.RenderList(lines, "Authenticated maps:")
	}
	c.JSON(http.StatusOK, view)
}

// AddAuthMap maps an author key to a user. An existing key is left alone.
func (h *Handler) AddAuthMap(c *gin.Context) {
	var req AuthMapRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Key) == "" || strings.TrimSpace(req.UserID) == "" {
		h.respondWithError(c, "add auth map", apperrors.NewValidationError("Both an author key and a user id are required.", err))
		return
	}
	key, userID := strings.TrimSpace(req.Key), strings.TrimSpace(req.UserID)

	added, err := h.authMap.Add(c.Request.Context(), c.Param("guildID"), key, userID)
	if err != nil {
		h.respondWithError(c, "add auth map", err)
		return
	}
	if !added {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Map with raw ID `%s` is already authenticated", key)})
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Successfully authenticated map with raw ID `%s` to <@%s>", key, userID),
		Changed: true,
	})
}

// RemoveAuthMap drops an author key from the identity map
func (h *Handler) RemoveAuthMap(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	removed, err := h.authMap.Remove(c.Request.Context(), c.Param("guildID"), key)
	if err != nil {
		h.respondWithError(c, "remove auth map", err)
		return
	}
	if !removed {
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Map with raw ID `%s` is not authenticated", key)})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Successfully removed authentication of map with raw ID `%s`", key),
		Changed: true,
	})
}

// GetGuildInfo shows the guild's code host setup with the key redacted
func (h *Handler) GetGuildInfo(c *gin.Context) {
	info, err := h.guilds.Get(c.Request.Context(), c.Param("guildID"))
	if err != nil {
		h.respondWithError(c, "read guild info", err)
		return
	}
	c.JSON(http.StatusOK, guildInfoView(info))
}

// UpdateGuildInfo applies a partial update to the guild's code host setup
func (h *Handler) UpdateGuildInfo(c *gin.Context) {
	var req GuildInfoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, "update guild info", apperrors.NewValidationError("Invalid guild info body.", err))
		return
	}
	patch, err := gitInfoPatch(req)
	if err != nil {
		h.respondWithError(c, "update guild info", err)
		return
	}

	info, err := h.guilds.Update(c.Request.Context(), c.Param("guildID"), patch)
	if err != nil {
		h.respondWithError(c, "update guild info", err)
		return
	}
	c.JSON(http.StatusOK, guildInfoView(info))
}

func (h *Handler) scheduleView(guildID string, cfg models.GuildScheduleConfig) ScheduleView {
	view := ScheduleView{
		Enabled:   cfg.Enabled,
		Time:      cfg.Time,
		TimeZone:  cfg.TimeZone,
		ChannelID: cfg.ChannelID,
	}
	if snap, ok := h.schedules.Snapshot(guildID); ok && snap.Running {
		view.Running = true
		if !snap.Next.IsZero() {
			next := snap.Next
			view.NextRun = &next
			view.NextRunIn = humanize.RelTime(next, h.now(), "ago", "from now")
		}
	}

	channel := "(unset)"
	if cfg.ChannelID != "" {
		channel = fmt.Sprintf("<#%s>", cfg.ChannelID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Current schedule:\n• enabled: `%t`\n• time: `%s`\n• timezone: `%s`\n• channel: %s",
		cfg.Enabled, orUnset(cfg.Time), orUnset(cfg.TimeZone), channel)
	if view.NextRunIn != "" {
		fmt.Fprintf(&b, "\n• next run: %s", view.NextRunIn)
	}
	view.Content = b.String()
	return view
}

func guildInfoView(info models.GitInfo) GuildInfoView {
	redacted := info.Redacted()
	lines := []string{
		fmt.Sprintf("platform: `%s`", orUnset(redacted.Platform)),
		fmt.Sprintf("authMethod: `%s`", orUnset(redacted.AuthMethod)),
		fmt.Sprintf("key: `%s`", orUnset(redacted.Key)),
		fmt.Sprintf("org: `%s`", orUnset(redacted.Org)),
	}
	return GuildInfoView{
		Git:      redacted,
		Complete: info.Complete(),
		Content:  leaderboard.RenderList(lines, "Current config:"),
	}
}

// gitInfoPatch normalizes the update and rejects unsupported values
func gitInfoPatch(req GuildInfoUpdateRequest) (models.GitInfoPatch, error) {
	var patch models.GitInfoPatch
	if req.Platform != nil {
		platform := strings.TrimSpace(*req.Platform)
		if !strings.EqualFold(platform, models.PlatformGitHub) {
			return patch, apperrors.NewValidationError(fmt.Sprintf("Unsupported platform %q; only GitHub is available.", platform), nil)
		}
		platform = models.PlatformGitHub
		patch.Platform = &platform
	}
	if req.AuthMethod != nil {
		method := strings.ToLower(strings.TrimSpace(*req.AuthMethod))
		if method != models.AuthMethodApp && method != models.AuthMethodPAT {
			return patch, apperrors.NewValidationError(fmt.Sprintf("Unsupported auth method %q; use app or pat.", method), nil)
		}
		patch.AuthMethod = &method
	}
	if req.Key != nil {
		key := strings.TrimSpace(*req.Key)
		patch.Key = &key
	}
	if req.Org != nil {
		org := strings.TrimSpace(*req.Org)
		patch.Org = &org
	}
	return patch, nil
}

// maxParam reads the optional max query parameter. A missing value is 0,
// which lets the service apply its default.
func (h *Handler) maxParam(c *gin.Context) (int, bool) {
	raw := c.Query("max")
	if raw == "" {
		return 0, true
	}
	max, err := strconv.Atoi(raw)
	if err != nil || max <= 0 {
		h.respondWithError(c, "parse max", apperrors.NewValidationError("max must be a positive integer.", err))
		return 0, false
	}
	return max, true
}

func (h *Handler) respondWithError(c *gin.Context, op string, err error) {
	status := statusFor(err)
	entry := h.logger.WithError(err).WithFields(logrus.Fields{
		"guild":  c.Param("guildID"),
		"op":     op,
		"status": status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	c.JSON(status, ErrorResponse{Error: apperrors.UserMessage(err)})
}

func statusFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrConfiguration:
		return http.StatusPreconditionFailed
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
