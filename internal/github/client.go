// Package github fetches requirement issues from the GitHub API. It owns
// pagination, rate limiting, and partial-failure handling; the trace core
// only ever sees a fully materialized issue list.
package github

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/reqtrace/reqtrace/internal/models"
	"github.com/reqtrace/reqtrace/internal/taxonomy"
)

// phaseLabels catch issues tagged by lifecycle phase rather than by type.
var phaseLabels = []string{
	"phase:01-stakeholder-requirements",
	"phase:02-requirements",
	"phase:03-architecture",
	"phase:07-verification-validation",
}

// Client wraps the GitHub API client with rate limiting.
type Client struct {
	client      *github.Client
	rateLimiter *rate.Limiter
	log         *logrus.Logger
}

// NewClient creates a GitHub client limited to rateLimit requests per
// second. An empty token yields an unauthenticated client.
func NewClient(token string, rateLimit int, log *logrus.Logger) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		log:         log,
	}
}

// FetchRequirementIssues retrieves every issue carrying a recognized
// requirement or phase label, deduplicated by number and sorted ascending.
// When no labeled issues exist it falls back to listing all issues and
// keeping those with a recognized title prefix.
//
// Per-label failures are tolerated: the call fails only when nothing at
// all could be fetched. A partial result is returned together with the
// collected error so the caller can report it and proceed.
func (c *Client) FetchRequirementIssues(ctx context.Context, owner, name string) ([]models.Issue, error) {
	labels := append(taxonomy.Labels(), phaseLabels...)

	var (
		mu    sync.Mutex
		byNum = make(map[int]models.Issue)
		errs  []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, label := range labels {
		label := label
		g.Go(func() error {
			issues, err := c.listByLabel(gctx, owner, name, label)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.log.WithError(err).WithField("label", label).Warn("could not fetch label")
				errs = append(errs, fmt.Errorf("label %s: %w", label, err))
				return nil
			}
			for _, issue := range issues {
				if _, ok := byNum[issue.Number]; !ok {
					byNum[issue.Number] = issue
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}

	if len(byNum) == 0 {
		c.log.Warn("no issues found with requirement labels, trying title-based detection")
		issues, err := c.listAll(ctx, owner, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("list all issues: %w", err))
		}
		for _, issue := range issues {
			if _, ok := taxonomy.FromTitle(issue.Title); !ok {
				continue
			}
			if _, dup := byNum[issue.Number]; !dup {
				byNum[issue.Number] = issue
			}
		}
	}

	out := make([]models.Issue, 0, len(byNum))
	for _, issue := range byNum {
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	err := errors.Join(errs...)
	if len(out) == 0 && err != nil {
		return nil, fmt.Errorf("fetch issues from %s/%s: %w", owner, name, err)
	}
	return out, err
}

// listByLabel pages through all issues carrying one label.
func (c *Client) listByLabel(ctx context.Context, owner, name, label string) ([]models.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		Labels: []string{label},
		State:  "all",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	return c.list(ctx, owner, name, opts)
}

// listAll pages through every issue in the repository.
func (c *Client) listAll(ctx context.Context, owner, name string) ([]models.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	return c.list(ctx, owner, name, opts)
}

func (c *Client) list(ctx context.Context, owner, name string, opts *github.IssueListByRepoOptions) ([]models.Issue, error) {
	var out []models.Issue
	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return out, fmt.Errorf("rate limiter: %w", err)
		}

		issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, name, opts)
		if err != nil {
			return out, fmt.Errorf("list issues: %w", err)
		}

		for _, issue := range issues {
			// Pull requests share the issues API but are not
			// requirement artifacts.
			if issue.IsPullRequest() {
				continue
			}
			out = append(out, convert(issue))
		}

		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

func convert(issue *github.Issue) models.Issue {
	m := models.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Body:   issue.GetBody(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}
	for _, label := range issue.Labels {
		m.Labels = append(m.Labels, label.GetName())
	}
	return m
}
