package github

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/commitboard/internal/config"
	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// Factory hands out clients per guild. Guilds set up with a personal
// access token get their own client; everyone else shares the deployment
// token. Clients are cached by token.
type Factory struct {
	config  *config.GitHubConfig
	perPage int
	logger  *logrus.Logger

	mu      sync.Mutex
	clients map[string]*Client
}

// NewFactory creates a new client factory
func NewFactory(cfg *config.GitHubConfig, perPage int, logger *logrus.Logger) *Factory {
	return &Factory{
		config:  cfg,
		perPage: perPage,
		logger:  logger,
		clients: make(map[string]*Client),
	}
}

// ForGuild returns the client matching the guild's auth setup
func (f *Factory) ForGuild(info models.GitInfo) (*Client, error) {
	token := f.config.Token
	if info.AuthMethod == models.AuthMethodPAT && info.Key != "" {
		token = info.Key
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[token]; ok {
		return c, nil
	}

	c, err := NewClient(token, f.logger,
		WithBaseURL(f.config.APIBaseURL),
		WithPerPage(f.perPage),
		WithTimeout(f.config.Timeout),
	)
	if err != nil {
		return nil, err
	}
	f.clients[token] = c
	return c, nil
}
