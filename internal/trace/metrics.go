package trace

import "github.com/reqtrace/reqtrace/internal/taxonomy"

// Coverage is one linked/total count pair with its derived percentage.
// The percentage keeps full float64 precision; display rounding is the
// renderer's concern.
type Coverage struct {
	CoveragePct float64 `json:"coverage_pct"`
	Total       int     `json:"total"`
	Linked      int     `json:"linked"`
}

// Metrics aggregates requirement coverage over the graph. The requirement
// population is the REQ-F and REQ-NF nodes; every relation reports against
// that same total.
type Metrics struct {
	Requirement           Coverage `json:"requirement"`
	RequirementToADR      Coverage `json:"requirement_to_ADR"`
	RequirementToScenario Coverage `json:"requirement_to_scenario"`
	RequirementToTest     Coverage `json:"requirement_to_test"`
}

// ComputeMetrics walks the graph and computes all four coverage
// relations. ADR and scenario linkage accept any link category but require
// the target to resolve to a node of the matching type inside the graph;
// dangling references never satisfy them. Test linkage is stricter: only
// verified_by edges count, whether the requirement declares one itself or
// a test issue declares it against the requirement.
func ComputeMetrics(g *Graph) Metrics {
	var total, linked, toADR, toScenario, toTest int

	// Requirements named in anyone's verified_by category.
	verifiedTargets := make(map[int]bool)
	for _, node := range g.Nodes {
		for _, n := range node.Links[VerifiedBy] {
			verifiedTargets[n] = true
		}
	}

	for _, node := range g.Nodes {
		if !node.Type.Requirement() {
			continue
		}
		total++

		if len(node.Refs) > 0 {
			linked++
		}
		var hasADR, hasScenario bool
		for _, ref := range node.Refs {
			switch g.TypeOf(ref) {
			case taxonomy.ADR:
				hasADR = true
			case taxonomy.QASc:
				hasScenario = true
			}
		}
		if hasADR {
			toADR++
		}
		if hasScenario {
			toScenario++
		}
		if node.Links.Has(VerifiedBy) || verifiedTargets[node.Issue.Number] {
			toTest++
		}
	}

	return Metrics{
		Requirement:           coverage(linked, total),
		RequirementToADR:      coverage(toADR, total),
		RequirementToScenario: coverage(toScenario, total),
		RequirementToTest:     coverage(toTest, total),
	}
}

func coverage(linked, total int) Coverage {
	c := Coverage{Total: total, Linked: linked}
	if total > 0 {
		c.CoveragePct = float64(linked) / float64(total) * 100
	}
	return c
}
