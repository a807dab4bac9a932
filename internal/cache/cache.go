// Package cache persists fetched issue snapshots in a local bbolt file so
// that reports can be regenerated offline without refetching.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/reqtrace/reqtrace/internal/models"
)

const bucketName = "issue_snapshots"

// Snapshot is one cached fetch result for a repository.
type Snapshot struct {
	Repository string         `json:"repository"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Issues     []models.Issue `json:"issues"`
}

// Store is a bbolt-backed snapshot store keyed by "owner/repo".
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache file, creating parent directories as
// needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores the issue list for a repository, stamping the fetch time.
func (s *Store) Put(repo string, issues []models.Issue) error {
	snap := Snapshot{
		Repository: repo,
		FetchedAt:  time.Now().UTC(),
		Issues:     issues,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(repo), data)
	})
}

// Get retrieves the cached snapshot for a repository. A missing entry
// returns (nil, nil).
func (s *Store) Get(repo string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get([]byte(repo))
		if data == nil {
			return nil
		}
		snap = &Snapshot{}
		return json.Unmarshal(data, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("read snapshot for %s: %w", repo, err)
	}
	return snap, nil
}
