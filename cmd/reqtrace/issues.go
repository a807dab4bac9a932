package main

import (
	"context"
	"fmt"

	"github.com/reqtrace/reqtrace/internal/cache"
	"github.com/reqtrace/reqtrace/internal/github"
	"github.com/reqtrace/reqtrace/internal/models"
)

// loadIssues obtains the issue list for the configured repository, either
// from the GitHub API or, with offline set, from the local cache. Online
// fetches refresh the cache on success; a partial fetch is used as-is with
// a warning, matching the run's failure-tolerance contract.
func loadIssues(ctx context.Context, offline bool) ([]models.Issue, error) {
	if _, _, err := cfg.Repo(); err != nil {
		return nil, err
	}

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		logger.WithError(err).Warn("Could not open issue cache")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if offline {
		if store == nil {
			return nil, fmt.Errorf("offline mode requires a readable cache at %s", cfg.Cache.Path)
		}
		snap, err := store.Get(cfg.Repository)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return nil, fmt.Errorf("no cached issues for %s; run without --offline first", cfg.Repository)
		}
		logger.WithField("fetched_at", snap.FetchedAt).Infof("Using %d cached issues", len(snap.Issues))
		return snap.Issues, nil
	}

	owner, name, _ := cfg.Repo()
	client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.RateLimit, logger)

	logger.Infof("Fetching issues from %s...", cfg.Repository)
	issues, err := client.FetchRequirementIssues(ctx, owner, name)
	if err != nil {
		if len(issues) == 0 {
			return nil, err
		}
		logger.WithError(err).Warnf("Partial fetch: proceeding with %d issues", len(issues))
	}
	logger.Infof("Found %d requirement issues", len(issues))

	if store != nil && len(issues) > 0 {
		if err := store.Put(cfg.Repository, issues); err != nil {
			logger.WithError(err).Warn("Could not update issue cache")
		}
	}
	return issues, nil
}
