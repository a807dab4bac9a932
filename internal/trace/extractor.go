package trace

import "strings"

// Links maps a link category to the referenced issue numbers, deduplicated
// within the category in first-seen order. Categories with no matches are
// absent from the map.
type Links map[Category][]int

// Has reports whether the category captured at least one reference.
func (l Links) Has(c Category) bool {
	return len(l[c]) > 0
}

// Merged returns every referenced number across all categories,
// deduplicated, in first-seen order across the category evaluation order.
func (l Links) Merged() []int {
	var out []int
	seen := make(map[int]bool)
	for _, cat := range Categories {
		for _, n := range l[cat] {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Extract runs every rule of the library against an issue body and
// collects the typed references. Malformed or unmatched text contributes
// nothing; an empty body yields an empty mapping. Self-references pass
// through unfiltered.
func (lib *Library) Extract(body string) Links {
	links := make(Links)
	if strings.TrimSpace(body) == "" {
		return links
	}

	seen := make(map[Category]map[int]bool)
	add := func(cat Category, n int) {
		if seen[cat] == nil {
			seen[cat] = make(map[int]bool)
		}
		if seen[cat][n] {
			return
		}
		seen[cat][n] = true
		links[cat] = append(links[cat], n)
	}

	for _, cat := range Categories {
		for _, rule := range lib.rules[cat] {
			for _, n := range rule.Find(body) {
				add(cat, n)
			}
		}
	}

	// Free-form traceability sections act as a fallback: every marker in
	// them lands in traces_to unless a more specific rule already claimed
	// that target.
	claimed := make(map[int]bool)
	for _, nums := range links {
		for _, n := range nums {
			claimed[n] = true
		}
	}
	for _, rule := range lib.fallback {
		for _, n := range rule.Find(body) {
			if !claimed[n] {
				add(TracesTo, n)
			}
		}
	}

	return links
}

var defaultLibrary = NewLibrary()

// ExtractLinks extracts typed references from an issue body using the
// default pattern library.
func ExtractLinks(body string) Links {
	return defaultLibrary.Extract(body)
}
