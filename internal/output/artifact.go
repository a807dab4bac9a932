// Package output renders the assembled graph and metrics into the
// traceability.json artifact consumed by downstream tooling.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/reqtrace/reqtrace/internal/models"
	"github.com/reqtrace/reqtrace/internal/trace"
)

// Item is one issue entry in the artifact.
type Item struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Title      string   `json:"title"`
	State      string   `json:"state"`
	URL        string   `json:"url"`
	Labels     []string `json:"labels"`
	References []string `json:"references"`
	// LinkDetails breaks references down by category for debugging.
	LinkDetails map[string][]string `json:"link_details,omitempty"`
}

// Artifact is the full traceability.json document. Identifier strings are
// always "#" followed by the decimal issue number; references are sorted
// ascending by numeric value.
type Artifact struct {
	Source        string              `json:"source"`
	Repository    string              `json:"repository"`
	RunID         string              `json:"run_id"`
	GeneratedAt   time.Time           `json:"generated_at"`
	Metrics       trace.Metrics       `json:"metrics"`
	Items         []Item              `json:"items"`
	ForwardLinks  map[string][]string `json:"forward_links"`
	BackwardLinks map[string][]string `json:"backward_links"`
}

// NewArtifact converts a graph and its metrics into the artifact form,
// stamping a fresh run id and generation time.
func NewArtifact(repository string, g *trace.Graph, m trace.Metrics) *Artifact {
	a := &Artifact{
		Source:        "github-issues",
		Repository:    repository,
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		Metrics:       m,
		ForwardLinks:  make(map[string][]string),
		BackwardLinks: make(map[string][]string),
	}

	for _, node := range g.Nodes {
		labels := node.Issue.Labels
		if labels == nil {
			labels = []string{}
		}
		item := Item{
			ID:         node.Issue.ID(),
			Type:       string(node.Type),
			Title:      node.Issue.Title,
			State:      node.Issue.State,
			URL:        node.Issue.URL,
			Labels:     labels,
			References: refStrings(node.Refs),
		}
		for _, cat := range trace.Categories {
			if nums := node.Links[cat]; len(nums) > 0 {
				if item.LinkDetails == nil {
					item.LinkDetails = make(map[string][]string)
				}
				item.LinkDetails[string(cat)] = refStrings(nums)
			}
		}
		a.Items = append(a.Items, item)
		a.ForwardLinks[item.ID] = item.References
	}

	for target, sources := range g.Backward {
		a.BackwardLinks[models.Ref(target)] = refStrings(sources)
	}

	return a
}

// WriteJSON writes the artifact as indented JSON.
func (a *Artifact) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// WriteFile writes the artifact to a file, creating parent directories.
func (a *Artifact) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := a.WriteJSON(f); err != nil {
		return err
	}
	return f.Close()
}

func refStrings(nums []int) []string {
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = models.Ref(n)
	}
	return out
}
