// Package taxonomy defines the requirements-engineering artifact types and
// resolves an issue's type from its title and labels.
package taxonomy

import "strings"

// Type is a requirements-engineering artifact type.
type Type string

const (
	StR     Type = "StR"
	ReqF    Type = "REQ-F"
	ReqNF   Type = "REQ-NF"
	ADR     Type = "ADR"
	ArcC    Type = "ARC-C"
	QASc    Type = "QA-SC"
	Test    Type = "TEST"
	Unknown Type = "UNKNOWN"
)

// typeSpec ties a Type to the authoring signals that identify it: the
// canonical title prefix, the exact label names (both the colon-separated
// and the legacy hyphen-separated conventions), and a looser label
// substring heuristic used as a last resort.
type typeSpec struct {
	typ       Type
	prefix    string
	labels    []string
	heuristic func(label string) bool
}

// typeSpecs is evaluated strictly in order. The order doubles as the
// priority order of the substring heuristics, so REQ-F must precede
// REQ-NF and both must precede the architecture types.
var typeSpecs = []typeSpec{
	{
		typ:       StR,
		prefix:    "StR",
		labels:    []string{"type:stakeholder-requirement", "stakeholder-requirement"},
		heuristic: func(l string) bool { return strings.Contains(l, "stakeholder") },
	},
	{
		typ:    ReqF,
		prefix: "REQ-F",
		labels: []string{"type:requirement:functional", "functional-requirement"},
		heuristic: func(l string) bool {
			return strings.Contains(l, "functional") && !strings.Contains(l, "non")
		},
	},
	{
		typ:       ReqNF,
		prefix:    "REQ-NF",
		labels:    []string{"type:requirement:non-functional", "non-functional"},
		heuristic: func(l string) bool { return strings.Contains(l, "non-functional") },
	},
	{
		typ:       ADR,
		prefix:    "ADR",
		labels:    []string{"type:architecture:decision", "architecture-decision"},
		heuristic: func(l string) bool { return strings.Contains(l, "decision") },
	},
	{
		typ:       ArcC,
		prefix:    "ARC-C",
		labels:    []string{"type:architecture:component", "architecture-component"},
		heuristic: func(l string) bool { return strings.Contains(l, "component") },
	},
	{
		typ:    QASc,
		prefix: "QA-SC",
		labels: []string{"type:architecture:quality-scenario", "quality-scenario"},
		heuristic: func(l string) bool {
			return strings.Contains(l, "quality") || strings.Contains(l, "scenario")
		},
	},
	{
		typ:       Test,
		prefix:    "TEST",
		labels:    []string{"type:test-case", "type:test-plan", "test-case", "test-plan"},
		heuristic: func(l string) bool { return strings.Contains(l, "test") },
	},
}

// Classify resolves an issue's type with a first-match-wins fallback chain:
// title prefix, then exact label match, then label substring heuristic.
// Explicit authoring signals dominate the looser heuristics; anything
// unrecognized is Unknown, never an error.
func Classify(title string, labels []string) Type {
	if t, ok := FromTitle(title); ok {
		return t
	}

	for _, spec := range typeSpecs {
		for _, label := range labels {
			for _, name := range spec.labels {
				if label == name {
					return spec.typ
				}
			}
		}
	}

	for _, spec := range typeSpecs {
		for _, label := range labels {
			if spec.heuristic(strings.ToLower(label)) {
				return spec.typ
			}
		}
	}

	return Unknown
}

// FromTitle matches a recognized type prefix at the start of a title,
// case-insensitively, and returns the canonical type.
func FromTitle(title string) (Type, bool) {
	upper := strings.ToUpper(title)
	// REQ-NF shares the REQ- stem with REQ-F, so the longer prefix is
	// checked first.
	if strings.HasPrefix(upper, "REQ-NF") {
		return ReqNF, true
	}
	for _, spec := range typeSpecs {
		if strings.HasPrefix(upper, strings.ToUpper(spec.prefix)) {
			return spec.typ, true
		}
	}
	return Unknown, false
}

// Requirement reports whether the type counts toward requirement coverage.
func (t Type) Requirement() bool {
	return t == ReqF || t == ReqNF
}

// Description returns the human-readable legend entry for the type.
func (t Type) Description() string {
	switch t {
	case StR:
		return "Stakeholder Requirement (top-level business need)"
	case ReqF:
		return "Functional Requirement (system SHALL behavior)"
	case ReqNF:
		return "Non-Functional Requirement (quality attribute)"
	case ADR:
		return "Architecture Decision Record"
	case ArcC:
		return "Architecture Component"
	case QASc:
		return "Quality Attribute Scenario (ATAM)"
	case Test:
		return "Test Case"
	default:
		return "Unclassified"
	}
}

// Labels returns every exact label name recognized for any type. The
// fetcher uses this set to query issues by label.
func Labels() []string {
	var out []string
	for _, spec := range typeSpecs {
		out = append(out, spec.labels...)
	}
	return out
}
