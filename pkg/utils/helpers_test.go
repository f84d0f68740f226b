package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{"bare name", " api ", "", "api", false},
		{"owner and name", "acme/api", "acme", "api", false},
		{"url", "https://github.com/acme/api", "acme", "api", false},
		{"url with .git", "https://github.com/acme/api.git", "acme", "api", false},
		{"empty", "", "", "", true},
		{"nested path", "acme/api/extra", "", "", true},
		{"spaces", "my repo", "", "", true},
		{"short url", "https://github.com/acme", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}
