// Package report renders the traceability matrix as Markdown, in the
// layout downstream review tooling expects.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/reqtrace/reqtrace/internal/models"
	"github.com/reqtrace/reqtrace/internal/taxonomy"
	"github.com/reqtrace/reqtrace/internal/trace"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

// Renderer writes the Markdown traceability matrix. With Badges enabled
// issue states render as emoji; otherwise as plain text, which keeps
// redirected output grep-friendly.
type Renderer struct {
	Badges bool
	Now    func() time.Time
}

// NewRenderer returns a renderer with badges as requested and wall-clock
// time.
func NewRenderer(badges bool) *Renderer {
	return &Renderer{Badges: badges, Now: time.Now}
}

// Render writes the full report: summary, coverage, matrix, orphaned
// requirements, unverified requirements, and legend.
func (r *Renderer) Render(w io.Writer, repository string, g *trace.Graph, m trace.Metrics) error {
	var b strings.Builder

	b.WriteString("# Requirements Traceability Matrix\n\n")
	fmt.Fprintf(&b, "**Repository**: %s\n", repository)
	fmt.Fprintf(&b, "**Generated**: %s\n", r.Now().UTC().Format(timeLayout))
	b.WriteString("**Standard**: ISO/IEC/IEEE 29148:2018\n\n")

	r.summary(&b, g)
	r.coverage(&b, m)
	r.matrix(&b, g)
	r.orphans(&b, g)
	r.unverified(&b, g)
	r.legend(&b)

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) summary(b *strings.Builder, g *trace.Graph) {
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "Total requirements: **%d**\n\n", len(g.Nodes))

	typeCounts := make(map[taxonomy.Type]int)
	stateCounts := make(map[string]int)
	for _, node := range g.Nodes {
		typeCounts[node.Type]++
		stateCounts[node.Issue.State]++
	}

	b.WriteString("### By Type\n\n")
	types := make([]string, 0, len(typeCounts))
	for t := range typeCounts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(b, "- **%s**: %d\n", t, typeCounts[taxonomy.Type(t)])
	}

	b.WriteString("\n### By State\n\n")
	fmt.Fprintf(b, "- **Open**: %d\n", stateCounts["open"])
	fmt.Fprintf(b, "- **Closed**: %d\n\n", stateCounts["closed"])
}

func (r *Renderer) coverage(b *strings.Builder, m trace.Metrics) {
	b.WriteString("## Coverage\n\n")
	b.WriteString("| Relationship | Linked | Total | Coverage |\n")
	b.WriteString("|--------------|--------|-------|----------|\n")
	rows := []struct {
		name string
		c    trace.Coverage
	}{
		{"Requirements linked", m.Requirement},
		{"Requirements → ADR", m.RequirementToADR},
		{"Requirements → Quality Scenario", m.RequirementToScenario},
		{"Requirements → Test", m.RequirementToTest},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %d | %d | %.1f%% |\n", row.name, row.c.Linked, row.c.Total, row.c.CoveragePct)
	}
	b.WriteString("\n")
}

func (r *Renderer) matrix(b *strings.Builder, g *trace.Graph) {
	b.WriteString("## Traceability Matrix\n\n")
	b.WriteString("| Issue | Type | Title | State | Traces To | Depends On | Verified By | Implemented By |\n")
	b.WriteString("|-------|------|-------|-------|-----------|------------|-------------|----------------|\n")

	nodes := sortedByNumber(g.Nodes)
	for _, node := range nodes {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			node.Issue.ID(),
			node.Type,
			truncate(node.Issue.Title, 50),
			r.stateBadge(node.Issue.State),
			refCell(node.Links[trace.TracesTo]),
			refCell(node.Links[trace.DependsOn]),
			refCell(node.Links[trace.VerifiedBy]),
			refCell(node.Links[trace.ImplementedBy]),
		)
	}
	b.WriteString("\n")
}

// orphans lists every non-StR node without an upward traces_to link. StR
// issues are top-level and carry no parent by design of the taxonomy.
func (r *Renderer) orphans(b *strings.Builder, g *trace.Graph) {
	b.WriteString("## Orphaned Requirements\n\n")
	b.WriteString("Requirements without parent links (excluding StR which are top-level):\n\n")

	var rows []*trace.Node
	for _, node := range sortedByNumber(g.Nodes) {
		if node.Type == taxonomy.StR {
			continue
		}
		if !node.Links.Has(trace.TracesTo) {
			rows = append(rows, node)
		}
	}

	if len(rows) == 0 {
		b.WriteString("No orphaned requirements found. All requirements properly linked.\n\n")
		return
	}
	b.WriteString("| Issue | Type | Title |\n")
	b.WriteString("|-------|------|-------|\n")
	for _, node := range rows {
		fmt.Fprintf(b, "| %s | %s | %s |\n", node.Issue.ID(), node.Type, truncate(node.Issue.Title, 60))
	}
	b.WriteString("\n")
}

// unverified lists requirements that neither declare a verified_by link
// nor are referenced by any TEST issue.
func (r *Renderer) unverified(b *strings.Builder, g *trace.Graph) {
	b.WriteString("## Requirements Without Tests\n\n")
	b.WriteString("Functional and non-functional requirements without verification:\n\n")

	verified := make(map[int]bool)
	for _, node := range g.Nodes {
		if node.Type == taxonomy.Test {
			for _, ref := range node.Refs {
				verified[ref] = true
			}
		}
		for _, ref := range node.Links[trace.VerifiedBy] {
			verified[ref] = true
		}
	}

	var rows []*trace.Node
	for _, node := range sortedByNumber(g.Nodes) {
		if !node.Type.Requirement() {
			continue
		}
		if node.Links.Has(trace.VerifiedBy) || verified[node.Issue.Number] {
			continue
		}
		rows = append(rows, node)
	}

	if len(rows) == 0 {
		b.WriteString("All requirements have test coverage.\n\n")
		return
	}
	b.WriteString("| Issue | Type | Title |\n")
	b.WriteString("|-------|------|-------|\n")
	for _, node := range rows {
		fmt.Fprintf(b, "| %s | %s | %s |\n", node.Issue.ID(), node.Type, truncate(node.Issue.Title, 60))
	}
	b.WriteString("\n")
}

func (r *Renderer) legend(b *strings.Builder) {
	b.WriteString("## Legend\n\n")
	for _, t := range []taxonomy.Type{
		taxonomy.StR, taxonomy.ReqF, taxonomy.ReqNF,
		taxonomy.ADR, taxonomy.ArcC, taxonomy.QASc, taxonomy.Test,
	} {
		fmt.Fprintf(b, "- **%s**: %s\n", t, t.Description())
	}
	if r.Badges {
		b.WriteString("- 🔵: Open issue\n")
		b.WriteString("- ✅: Closed issue\n")
	}
	b.WriteString("\n---\n\n*Generated by reqtrace*\n")
}

func (r *Renderer) stateBadge(state string) string {
	if !r.Badges {
		return state
	}
	if state == "closed" {
		return "✅"
	}
	return "🔵"
}

func refCell(nums []int) string {
	if len(nums) == 0 {
		return "-"
	}
	refs := make([]string, len(nums))
	for i, n := range nums {
		refs[i] = models.Ref(n)
	}
	return strings.Join(refs, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func sortedByNumber(nodes []*trace.Node) []*trace.Node {
	out := make([]*trace.Node, len(nodes))
	copy(out, nodes)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Issue.Number < out[j].Issue.Number
	})
	return out
}
