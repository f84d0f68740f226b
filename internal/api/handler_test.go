package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/db"
	apperrors "github.com/Kamar-Folarin/commitboard/internal/errors"
	"github.com/Kamar-Folarin/commitboard/internal/models"
	"github.com/Kamar-Folarin/commitboard/internal/report"
	"github.com/Kamar-Folarin/commitboard/internal/scheduler"
	"github.com/Kamar-Folarin/commitboard/internal/timewindow"
)

// MockReportService is a mock implementation of ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Report(ctx context.Context, guildID string, req report.Request) (*report.Leaderboard, error) {
	args := m.Called(ctx, guildID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Leaderboard), args.Error(1)
}

func (m *MockReportService) ListRepos(ctx context.Context, guildID string, max int) (*report.Listing, error) {
	args := m.Called(ctx, guildID, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Listing), args.Error(1)
}

func (m *MockReportService) ListBranches(ctx context.Context, guildID, repoRef string, max int) (*report.Listing, error) {
	args := m.Called(ctx, guildID, repoRef, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Listing), args.Error(1)
}

func (m *MockReportService) ListPeople(ctx context.Context, guildID string, max int) (*report.Listing, error) {
	args := m.Called(ctx, guildID, max)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Listing), args.Error(1)
}

// MockScheduleService is a mock implementation of ScheduleService
type MockScheduleService struct {
	mock.Mock
}

func (m *MockScheduleService) Apply(ctx context.Context, guildID string, patch models.SchedulePatch) (models.GuildScheduleConfig, error) {
	args := m.Called(ctx, guildID, patch)
	return args.Get(0).(models.GuildScheduleConfig), args.Error(1)
}

func (m *MockScheduleService) Snapshot(guildID string) (scheduler.Snapshot, bool) {
	args := m.Called(guildID)
	return args.Get(0).(scheduler.Snapshot), args.Bool(1)
}

type testEnv struct {
	router    *gin.Engine
	handler   *Handler
	reports   *MockReportService
	schedules *MockScheduleService
	blacklist *db.BlacklistStore
	authMap   *db.IdentityMapStore
	guilds    *db.GuildInfoStore
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil)) // Discard logs during tests

	files, err := db.NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)

	env := &testEnv{
		reports:   new(MockReportService),
		schedules: new(MockScheduleService),
		blacklist: db.NewBlacklistStore(files, logger),
		authMap:   db.NewIdentityMapStore(files, logger),
		guilds:    db.NewGuildInfoStore(files, logger),
	}
	stored := db.NewScheduleStore(files, config.DefaultScheduleConfig(), logger)

	env.handler = NewHandler(env.reports, env.schedules, stored, env.blacklist, env.authMap, env.guilds, logger)
	env.handler.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	env.router = SetupRouter(env.handler, logger)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetReport(t *testing.T) {
	env := setupTestEnv(t)

	want := report.Request{Repo: "api", Window: timewindow.Request{Rel: "7d"}}
	board := &report.Leaderboard{Org: "acme", Repo: "api", Title: "Repo: api · last 7d", Content: "table"}
	env.reports.On("Report", mock.Anything, "123", want).Return(board, nil)

	w := env.do(t, http.MethodGet, "/api/v1/guilds/123/report?repo=api&rel=7d", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[report.Leaderboard](t, w)
	assert.Equal(t, "Repo: api · last 7d", got.Title)
	assert.Equal(t, "table", got.Content)
	env.reports.AssertExpectations(t)
}

func TestGetReportErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", apperrors.NewValidationError("Invalid relative window.", timewindow.ErrInvalidFormat), http.StatusBadRequest, "Invalid relative window."},
		{"configuration", apperrors.NewConfigurationError("Guild has no organization configured.", nil), http.StatusPreconditionFailed, "Guild has no organization configured."},
		{"not found", apperrors.NewNotFoundError("Channel not found.", nil), http.StatusNotFound, "Channel not found."},
		{"upstream", apperrors.NewUpstreamError("list repos for acme", nil), http.StatusBadGateway, "Could not fetch data from GitHub: list repos for acme"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Something went wrong while handling the request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.reports.On("Report", mock.Anything, "123", mock.Anything).Return(nil, tt.err)

			w := env.do(t, http.MethodGet, "/api/v1/guilds/123/report", nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, decode[ErrorResponse](t, w).Error)
		})
	}
}

func TestListings(t *testing.T) {
	env := setupTestEnv(t)

	repos := &report.Listing{Title: "Repos in acme (max 50)", Items: []string{"api"}}
	env.reports.On("ListRepos", mock.Anything, "123", 0).Return(repos, nil)
	env.reports.On("ListBranches", mock.Anything, "123", "api", 2).Return(&report.Listing{Items: []string{"dev", "main"}}, nil)
	env.reports.On("ListPeople", mock.Anything, "123", 5).Return(&report.Listing{Items: []string{"Alice"}}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/guilds/123/repos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Repos in acme (max 50)", decode[report.Listing](t, w).Title)

	w = env.do(t, http.MethodGet, "/api/v1/guilds/123/repos/api/branches?max=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"dev", "main"}, decode[report.Listing](t, w).Items)

	w = env.do(t, http.MethodGet, "/api/v1/guilds/123/people?max=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/guilds/123/people?max=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/guilds/123/repos?max=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.reports.AssertExpectations(t)
}

func TestGetScheduleShowsNextRun(t *testing.T) {
	env := setupTestEnv(t)

	next := time.Date(2024, 3, 10, 17, 0, 0, 0, time.UTC)
	env.schedules.On("Snapshot", "123").Return(scheduler.Snapshot{GuildID: "123", Running: true, Next: next}, true)

	w := env.do(t, http.MethodGet, "/api/v1/guilds/123/schedule", nil)

	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ScheduleView](t, w)
	def := config.DefaultScheduleConfig()
	assert.Equal(t, def.DefaultTime, view.Time)
	assert.Equal(t, def.DefaultTimeZone, view.TimeZone)
	assert.True(t, view.Running)
	require.NotNil(t, view.NextRun)
	assert.Equal(t, "5 hours from now", view.NextRunIn)
	assert.Contains(t, view.Content, "• channel: (unset)")
	assert.Contains(t, view.Content, "• next run: 5 hours from now")
}

func TestUpdateSchedule(t *testing.T) {
	env := setupTestEnv(t)

	hhmm, channel := "9:05", "555"
	want := models.SchedulePatch{Time: &hhmm, ChannelID: &channel}
	saved := models.GuildScheduleConfig{Enabled: true, Time: "09:05", TimeZone: "UTC", ChannelID: "555"}
	env.schedules.On("Apply", mock.Anything, "123", want).Return(saved, nil)
	env.schedules.On("Snapshot", "123").Return(scheduler.Snapshot{}, false)

	w := env.do(t, http.MethodPut, "/api/v1/guilds/123/schedule", map[string]string{"time": "9:05", "channelId": "555"})

	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ScheduleView](t, w)
	assert.Equal(t, "09:05", view.Time)
	assert.False(t, view.Running)
	assert.Contains(t, view.Content, "• channel: <#555>")
	env.schedules.AssertExpectations(t)
}

func TestUpdateScheduleRejectsInvalidInput(t *testing.T) {
	env := setupTestEnv(t)

	env.schedules.On("Apply", mock.Anything, "123", mock.Anything).
		Return(models.GuildScheduleConfig{}, apperrors.NewValidationError("Invalid time \"25:00\"; use HH:mm.", nil))

	w := env.do(t, http.MethodPut, "/api/v1/guilds/123/schedule", map[string]string{"time": "25:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/guilds/123/schedule", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClearScheduleChannel(t *testing.T) {
	env := setupTestEnv(t)

	empty := ""
	env.schedules.On("Apply", mock.Anything, "123", models.SchedulePatch{ChannelID: &empty}).
		Return(models.GuildScheduleConfig{Time: "08:00", TimeZone: "UTC"}, nil)
	env.schedules.On("Snapshot", "123").Return(scheduler.Snapshot{}, false)

	w := env.do(t, http.MethodDelete, "/api/v1/guilds/123/schedule/channel", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[ScheduleView](t, w).ChannelID)
	env.schedules.AssertExpectations(t)
}

func TestBlacklistLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	base := "/api/v1/guilds/123/blacklist"

	w := env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, "The blacklist is currently empty.", decode[BlacklistView](t, w).Content)

	w = env.do(t, http.MethodPost, base, BlacklistRequest{Name: " bob "})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, `Author "bob" has been added to the blacklist.`, decode[MessageResponse](t, w).Message)

	w = env.do(t, http.MethodPost, base, BlacklistRequest{Name: "bob"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[MessageResponse](t, w).Changed)

	w = env.do(t, http.MethodPost, base, BlacklistRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Author name cannot be empty.", decode[ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodGet, base, nil)
	view := decode[BlacklistView](t, w)
	assert.Equal(t, []string{"bob"}, view.Names)
	assert.Equal(t, "Blacklisted Authors:\n```txt\n 1. bob\n```", view.Content)

	w = env.do(t, http.MethodDelete, base+"/bob", nil)
	assert.Equal(t, "Removed **bob** from the blacklist.", decode[MessageResponse](t, w).Message)

	w = env.do(t, http.MethodDelete, base+"/bob", nil)
	assert.Equal(t, "**bob** is not in the blacklist.", decode[MessageResponse](t, w).Message)
}

func TestAuthMapLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	base := "/api/v1/guilds/123/authmap"

	w := env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, "No maps are authenticated", decode[AuthMapView](t, w).Content)

	w = env.do(t, http.MethodPost, base, AuthMapRequest{Key: "alice", UserID: "U1"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Successfully authenticated map with raw ID `alice` to <@U1>", decode[MessageResponse](t, w).Message)

	w = env.do(t, http.MethodPost, base, AuthMapRequest{Key: "alice", UserID: "U2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Map with raw ID `alice` is already authenticated", decode[MessageResponse](t, w).Message)

	w = env.do(t, http.MethodPost, base, map[string]string{"key": "carol"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := env.authMap.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "U1"}, entries)

	w = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, "Authenticated maps:\n```txt\n 1. alice : U1\n```", decode[AuthMapView](t, w).Content)

	w = env.do(t, http.MethodDelete, base+"/alice", nil)
	assert.True(t, decode[MessageResponse](t, w).Changed)
	w = env.do(t, http.MethodDelete, base+"/alice", nil)
	assert.Equal(t, "Map with raw ID `alice` is not authenticated", decode[MessageResponse](t, w).Message)
}

func TestGuildInfoRedactsKey(t *testing.T) {
	env := setupTestEnv(t)
	base := "/api/v1/guilds/123/guildinfo"

	w := env.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[GuildInfoView](t, w)
	assert.Equal(t, models.PlatformGitHub, view.Git.Platform)
	assert.Equal(t, models.AuthMethodApp, view.Git.AuthMethod)
	assert.False(t, view.Complete)

	w = env.do(t, http.MethodPut, base, map[string]string{"authMethod": "PAT", "key": "ghp_secret", "org": " acme "})
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[GuildInfoView](t, w)
	assert.Equal(t, "********", view.Git.Key)
	assert.Equal(t, "acme", view.Git.Org)
	assert.True(t, view.Complete)
	assert.NotContains(t, w.Body.String(), "ghp_secret")

	stored, err := env.guilds.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "ghp_secret", stored.Key)
	assert.Equal(t, models.AuthMethodPAT, stored.AuthMethod)
}

func TestGuildInfoRejectsUnsupportedValues(t *testing.T) {
	env := setupTestEnv(t)
	base := "/api/v1/guilds/123/guildinfo"

	w := env.do(t, http.MethodPut, base, map[string]string{"platform": "GitLab"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, base, map[string]string{"authMethod": "oauth"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored, err := env.guilds.Get(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, models.AuthMethodApp, stored.AuthMethod)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(apperrors.NewPersistenceError("disk full", nil)))
	assert.Equal(t, http.StatusBadRequest, statusFor(apperrors.NewValidationError("bad", nil)))
}
