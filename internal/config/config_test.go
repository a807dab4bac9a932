package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.GitHub.RateLimit)
	assert.NotEmpty(t, cfg.Cache.Path)
	assert.NotEmpty(t, cfg.Output.Path)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "acme/widgets")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_RATE_LIMIT", "3")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, "acme/widgets", cfg.Repository)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, 3, cfg.GitHub.RateLimit)
}

func TestApplyEnvOverrides_BadRateLimitIgnored(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_RATE_LIMIT", "not-a-number")

	cfg := Default()
	applyEnvOverrides(cfg)

	assert.Equal(t, 10, cfg.GitHub.RateLimit)
}

func TestRepoSplit(t *testing.T) {
	cfg := Default()
	cfg.Repository = "acme/widgets"

	owner, name, err := cfg.Repo()
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "widgets", name)
}

func TestRepoSplit_Invalid(t *testing.T) {
	for _, repo := range []string{"", "acme", "/widgets", "acme/"} {
		cfg := Default()
		cfg.Repository = repo
		_, _, err := cfg.Repo()
		assert.Error(t, err, "repository %q should be rejected", repo)
	}
}
