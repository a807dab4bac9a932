// Package trace implements the traceability core: extracting typed links
// from issue bodies, assembling the issue graph, and computing coverage
// metrics over it.
package trace

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is the kind of traceability relationship a link expresses.
type Category string

const (
	TracesTo      Category = "traces_to"
	DependsOn     Category = "depends_on"
	VerifiedBy    Category = "verified_by"
	ImplementedBy Category = "implemented_by"
	RefinedBy     Category = "refined_by"
)

// Categories lists every category in evaluation order.
var Categories = []Category{TracesTo, DependsOn, VerifiedBy, ImplementedBy, RefinedBy}

// Rule matches one annotation style against an issue body and returns the
// referenced issue numbers in order of appearance. Rules tolerate arbitrary
// text: an unmatched body simply yields nothing.
type Rule interface {
	Find(body string) []int
}

// refMarker matches a single "#N" issue reference.
var refMarker = regexp.MustCompile(`#(\d+)`)

// refRun matches one or more "#N" markers separated by commas, as in
// "Verified by: #45, #67".
const refRun = `#\d+(?:\s*,\s*#\d+)*`

// refNumbers extracts every issue number from a fragment of matched text.
func refNumbers(s string) []int {
	var out []int
	for _, m := range refMarker.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// inlineRule matches a label phrase followed by a colon and a run of issue
// references, either bold anywhere on a line ("**Traces to**: #1") or bare
// at the start of a line ("Traces to: #1, #2").
type inlineRule struct {
	re *regexp.Regexp
}

func newInlineRule(labels string) inlineRule {
	return inlineRule{
		re: regexp.MustCompile(`(?im)(?:\*\*(?:` + labels + `)\*\*|^(?:` + labels + `)):\s*(` + refRun + `)`),
	}
}

func (r inlineRule) Find(body string) []int {
	var out []int
	for _, m := range r.re.FindAllStringSubmatch(body, -1) {
		out = append(out, refNumbers(m[1])...)
	}
	return out
}

// sectionRule matches an emphasized multi-word label followed by a colon,
// then collects reference markers from the remainder of the label line and
// from bulleted lines below it. Text between the label and the first
// reference is skipped; the block ends at the first non-reference line
// after references have started, at the next emphasized label, or at the
// next heading.
type sectionRule struct {
	header *regexp.Regexp
}

var (
	boldLabelLine = regexp.MustCompile(`\*\*[^*]+\*\*\s*:`)
	headingLine   = regexp.MustCompile(`^#{1,6}\s`)
	refLine       = regexp.MustCompile(`^\s*[-*]?\s*#\d+`)
)

func newSectionRule(labels string) sectionRule {
	return sectionRule{
		header: regexp.MustCompile(`(?i)\*\*(?:` + labels + `)\*\*\s*:`),
	}
}

func (r sectionRule) Find(body string) []int {
	var out []int
	for _, loc := range r.header.FindAllStringIndex(body, -1) {
		rest := body[loc[1]:]

		head, tail, _ := strings.Cut(rest, "\n")
		out = append(out, refNumbers(head)...)

		started := false
		for _, line := range strings.Split(tail, "\n") {
			if headingLine.MatchString(line) || boldLabelLine.MatchString(line) {
				break
			}
			if refLine.MatchString(line) {
				out = append(out, refNumbers(line)...)
				started = true
				continue
			}
			if started {
				break
			}
		}
	}
	return out
}

// headingScanRule matches a whole markdown section whose heading text is
// one of the given phrases and collects every reference marker in it. The
// section runs until the next heading or end of body.
type headingScanRule struct {
	heading *regexp.Regexp
}

func newHeadingScanRule(titles string) headingScanRule {
	return headingScanRule{
		heading: regexp.MustCompile(`(?im)^#{1,6}\s*(?:` + titles + `)\s*$`),
	}
}

func (r headingScanRule) Find(body string) []int {
	var out []int
	for _, loc := range r.heading.FindAllStringIndex(body, -1) {
		section := body[loc[1]:]
		end := len(section)
		offset := 0
		for _, line := range strings.SplitAfter(section, "\n") {
			if headingLine.MatchString(line) {
				end = offset
				break
			}
			offset += len(line)
		}
		out = append(out, refNumbers(section[:end])...)
	}
	return out
}

// Library holds the ordered pattern rules per category. Rules within a
// category overlap deliberately: the same annotation may be matched by
// more than one rule and duplicates collapse during extraction. The
// heading-scan fallback runs last and only contributes references nothing
// else has claimed.
type Library struct {
	rules    map[Category][]Rule
	fallback []Rule
}

// NewLibrary returns the pattern library covering the known authoring
// conventions for requirement issues.
func NewLibrary() *Library {
	return &Library{
		rules: map[Category][]Rule{
			TracesTo: {
				newInlineRule(`Traces?\s+to|Parent|Traces-to`),
				newSectionRule(`(?:Traces?\s+to|Parent|Satisfies|Addresses)(?:\s+Requirements?)?`),
			},
			DependsOn: {
				newInlineRule(`Depends?\s+on|Depends-on`),
				newSectionRule(`Depends?\s+on|Dependencies|Required`),
			},
			VerifiedBy: {
				newInlineRule(`Verified\s+by|Test|Verified-by|Verifies\s+Requirements?`),
				newSectionRule(`(?:Verified\s+by|Test|Validates?|Verifies)(?:\s+Requirements?)?`),
				newSectionRule(`Quality\s+Scenarios?|Requirements?\s+Verified`),
			},
			ImplementedBy: {
				newInlineRule(`Implemented\s+by|Implements?|Implemented-by`),
				newSectionRule(`(?:Implemented\s+by|Implements?)(?:\s+Requirements?)?`),
				newSectionRule(`Components?\s+Affected|Architecture\s+Decisions?`),
			},
			RefinedBy: {
				newInlineRule(`Refined\s+by|Refined-by`),
			},
		},
		fallback: []Rule{
			newHeadingScanRule(`Traceability|Traces\s+To`),
		},
	}
}
