package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqtrace/reqtrace/internal/models"
	"github.com/reqtrace/reqtrace/internal/trace"
)

func buildFixture(t *testing.T) (*trace.Graph, trace.Metrics) {
	t.Helper()
	issues := []models.Issue{
		{Number: 2, Title: "ADR-001: cache locally", State: "closed", URL: "https://github.com/acme/widgets/issues/2"},
		{
			Number: 5,
			Title:  "REQ-F-001: export matrix",
			Body:   "**Traces to**: #2\n**Verified by**: #9",
			State:  "open",
			URL:    "https://github.com/acme/widgets/issues/5",
			Labels: []string{"type:requirement:functional"},
		},
		{Number: 9, Title: "TEST-001: export round trip", Body: "Verifies Requirements: #5", State: "open", URL: "https://github.com/acme/widgets/issues/9"},
	}
	g := trace.BuildGraph(issues)
	return g, trace.ComputeMetrics(g)
}

func TestNewArtifact_Shape(t *testing.T) {
	g, m := buildFixture(t)
	a := NewArtifact("acme/widgets", g, m)

	assert.Equal(t, "github-issues", a.Source)
	assert.Equal(t, "acme/widgets", a.Repository)
	assert.NotEmpty(t, a.RunID)
	assert.False(t, a.GeneratedAt.IsZero())

	require.Len(t, a.Items, 3)
	item := a.Items[1]
	assert.Equal(t, "#5", item.ID)
	assert.Equal(t, "REQ-F", item.Type)
	assert.Equal(t, "open", item.State)
	assert.Equal(t, []string{"#2", "#9"}, item.References)
	assert.Equal(t, map[string][]string{
		"traces_to":   {"#2"},
		"verified_by": {"#9"},
	}, item.LinkDetails)

	assert.Equal(t, []string{"#2", "#9"}, a.ForwardLinks["#5"])
	assert.Equal(t, []string{"#5"}, a.BackwardLinks["#2"])
	assert.Equal(t, []string{"#9"}, a.BackwardLinks["#5"])
}

func TestNewArtifact_MetricsCarriedThrough(t *testing.T) {
	g, m := buildFixture(t)
	a := NewArtifact("acme/widgets", g, m)

	assert.Equal(t, 1, a.Metrics.Requirement.Total)
	assert.Equal(t, 1, a.Metrics.RequirementToADR.Linked)
	assert.Equal(t, 1, a.Metrics.RequirementToTest.Linked)
	assert.InDelta(t, 100.0, a.Metrics.Requirement.CoveragePct, 1e-9)
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	g, m := buildFixture(t)
	a := NewArtifact("acme/widgets", g, m)

	var buf bytes.Buffer
	require.NoError(t, a.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"source", "repository", "run_id", "generated_at", "metrics", "items", "forward_links", "backward_links"} {
		assert.Contains(t, decoded, key)
	}

	metrics, ok := decoded["metrics"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"requirement", "requirement_to_ADR", "requirement_to_scenario", "requirement_to_test"} {
		assert.Contains(t, metrics, key)
	}
	req, ok := metrics["requirement"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, req, "coverage_pct")
	assert.Contains(t, req, "total")
	assert.Contains(t, req, "linked")
}

func TestWriteFile_CreatesParentDirectories(t *testing.T) {
	g, m := buildFixture(t)
	a := NewArtifact("acme/widgets", g, m)

	path := filepath.Join(t.TempDir(), "build", "traceability.json")
	require.NoError(t, a.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"#5"`)
}
