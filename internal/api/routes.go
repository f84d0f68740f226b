package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Commitboard API
// @version 1.0
// @description Guild commands for GitHub contribution leaderboards and their daily schedule
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes
func SetupRouter(h *Handler, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	guild := v1.Group("/guilds/:guildID", h.RequireGuild)
	{
		// @Summary Contribution leaderboard
		// @Description Ranks authors by lines changed in one repository, or across the organization when repo is empty
		// @Tags report
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param repo query string false "Repository name, owner/repo or URL"
		// @Param rel query string false "Relative window such as 1d or 12h" example("7d")
		// @Param since query string false "Window start (YYYY-MM-DDTHH:mm:ss.sssZ)" example("2024-03-20T00:00:00.000Z")
		// @Param until query string false "Window end (YYYY-MM-DDTHH:mm:ss.sssZ)" example("2024-03-21T00:00:00.000Z")
		// @Success 200 {object} report.Leaderboard
		// @Failure 400 {object} ErrorResponse
		// @Failure 412 {object} ErrorResponse
		// @Failure 502 {object} ErrorResponse
		// @Router /guilds/{guildID}/report [get]
		guild.GET("/report", h.GetReport)

		// @Summary List repositories
		// @Tags listing
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param max query int false "Maximum entries" default(50)
		// @Success 200 {object} report.Listing
		// @Failure 400 {object} ErrorResponse
		// @Failure 412 {object} ErrorResponse
		// @Failure 502 {object} ErrorResponse
		// @Router /guilds/{guildID}/repos [get]
		guild.GET("/repos", h.ListRepos)

		// @Summary List branches of a repository
		// @Tags listing
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param repo path string true "Repository name"
		// @Param max query int false "Maximum entries" default(20)
		// @Success 200 {object} report.Listing
		// @Failure 400 {object} ErrorResponse
		// @Failure 412 {object} ErrorResponse
		// @Failure 502 {object} ErrorResponse
		// @Router /guilds/{guildID}/repos/{repo}/branches [get]
		guild.GET("/repos/:repo/branches", h.ListBranches)

		// @Summary List organization members
		// @Tags listing
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param max query int false "Maximum entries" default(20)
		// @Success 200 {object} report.Listing
		// @Failure 400 {object} ErrorResponse
		// @Failure 412 {object} ErrorResponse
		// @Failure 502 {object} ErrorResponse
		// @Router /guilds/{guildID}/people [get]
		guild.GET("/people", h.ListPeople)

		// @Summary Show the daily schedule
		// @Tags schedule
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Success 200 {object} ScheduleView
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/schedule [get]
		guild.GET("/schedule", h.GetSchedule)

		// @Summary Update the daily schedule
		// @Description Every given field is validated before anything is saved
		// @Tags schedule
		// @Accept json
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param request body ScheduleUpdateRequest true "Schedule fields"
		// @Success 200 {object} ScheduleView
		// @Failure 400 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/schedule [put]
		guild.PUT("/schedule", h.UpdateSchedule)

		// @Summary Unset the schedule channel
		// @Tags schedule
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Success 200 {object} ScheduleView
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/schedule/channel [delete]
		guild.DELETE("/schedule/channel", h.ClearScheduleChannel)

		// @Summary Show the blacklist
		// @Tags identity
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Success 200 {object} BlacklistView
		// @Router /guilds/{guildID}/blacklist [get]
		guild.GET("/blacklist", h.GetBlacklist)

		// @Summary Blacklist an author
		// @Tags identity
		// @Accept json
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param request body BlacklistRequest true "Author"
		// @Success 201 {object} MessageResponse
		// @Success 200 {object} MessageResponse "Already blacklisted"
		// @Failure 400 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/blacklist [post]
		guild.POST("/blacklist", h.AddBlacklist)

		// @Summary Remove an author from the blacklist
		// @Tags identity
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param name path string true "Author"
		// @Success 200 {object} MessageResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/blacklist/{name} [delete]
		guild.DELETE("/blacklist/:name", h.RemoveBlacklist)

		// @Summary Show the identity map
		// @Tags identity
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Success 200 {object} AuthMapView
		// @Router /guilds/{guildID}/authmap [get]
		guild.GET("/authmap", h.GetAuthMap)

		// @Summary Map an author key to a user
		// @Tags identity
		// @Accept json
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param request body AuthMapRequest true "Mapping"
		// @Success 201 {object} MessageResponse
		// @Success 200 {object} MessageResponse "Key already mapped"
		// @Failure 400 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/authmap [post]
		guild.POST("/authmap", h.AddAuthMap)

		// @Summary Remove an author key mapping
		// @Tags identity
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param key path string true "Author key"
		// @Success 200 {object} MessageResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/authmap/{key} [delete]
		guild.DELETE("/authmap/:key", h.RemoveAuthMap)

		// @Summary Show the code host setup
		// @Tags guild
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Success 200 {object} GuildInfoView
		// @Router /guilds/{guildID}/guildinfo [get]
		guild.GET("/guildinfo", h.GetGuildInfo)

		// @Summary Update the code host setup
		// @Tags guild
		// @Accept json
		// @Produce json
		// @Param guildID path string true "Guild ID"
		// @Param request body GuildInfoUpdateRequest true "Setup fields"
		// @Success 200 {object} GuildInfoView
		// @Failure 400 {object} ErrorResponse
		// @Failure 500 {object} ErrorResponse
		// @Router /guilds/{guildID}/guildinfo [put]
		guild.PUT("/guildinfo", h.UpdateGuildInfo)
	}

	return r
}

// requestLogger logs one line per request through logrus
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
			"guild":  c.Param("guildID"),
		}).Debug("Handled request")
	}
}
