package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const issuesJSON = `[
  {"number": 5, "title": "REQ-F-001: export matrix", "body": "**Traces to**: #2",
   "state": "open", "html_url": "https://example.test/5",
   "labels": [{"name": "type:requirement:functional"}]},
  {"number": 2, "title": "ADR-001: cache snapshots", "state": "closed",
   "html_url": "https://example.test/2", "labels": []},
  {"number": 7, "title": "Fix CI flake", "state": "open",
   "html_url": "https://example.test/7", "labels": []},
  {"number": 8, "title": "REQ-NF-001: fast reports", "state": "open",
   "html_url": "https://example.test/8", "labels": [],
   "pull_request": {"url": "https://example.test/pulls/8"}}
]`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := gh.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	api.BaseURL = base

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Client{
		client:      api,
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
		log:         log,
	}
}

func TestFetchRequirementIssues_ByLabel(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("labels") == "type:requirement:functional" {
			fmt.Fprint(w, issuesJSON)
			return
		}
		fmt.Fprint(w, `[]`)
	}))

	issues, err := c.FetchRequirementIssues(context.Background(), "acme", "widgets")
	require.NoError(t, err)

	// Sorted by number, pull request #8 excluded.
	require.Len(t, issues, 3)
	assert.Equal(t, 2, issues[0].Number)
	assert.Equal(t, 5, issues[1].Number)
	assert.Equal(t, 7, issues[2].Number)
	assert.Equal(t, []string{"type:requirement:functional"}, issues[1].Labels)
	assert.Equal(t, "**Traces to**: #2", issues[1].Body)
}

func TestFetchRequirementIssues_TitleFallback(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("labels") != "" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, issuesJSON)
	}))

	issues, err := c.FetchRequirementIssues(context.Background(), "acme", "widgets")
	require.NoError(t, err)

	// Only issues with a recognized title prefix survive the fallback:
	// the chore #7 and the pull request #8 are dropped.
	require.Len(t, issues, 2)
	assert.Equal(t, 2, issues[0].Number)
	assert.Equal(t, 5, issues[1].Number)
}

func TestFetchRequirementIssues_PartialFailureTolerated(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("labels") != "" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, issuesJSON)
	}))

	issues, err := c.FetchRequirementIssues(context.Background(), "acme", "widgets")

	// Label queries all failed but the fallback produced issues: the
	// partial result comes back together with the collected error.
	assert.Error(t, err)
	assert.NotEmpty(t, issues)
}

func TestFetchRequirementIssues_TotalFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	issues, err := c.FetchRequirementIssues(context.Background(), "acme", "widgets")
	assert.Error(t, err)
	assert.Empty(t, issues)
}
