package trace

import (
	"sort"

	"github.com/reqtrace/reqtrace/internal/models"
	"github.com/reqtrace/reqtrace/internal/taxonomy"
)

// Node wraps one issue with its resolved type and extracted links. The
// type is computed once at construction and never revisited; it does not
// depend on graph structure.
type Node struct {
	Issue models.Issue
	Type  taxonomy.Type
	Links Links
	// Refs is the merged reference set across all categories, sorted
	// ascending by issue number.
	Refs []int
}

// Graph is the assembled traceability graph: all nodes in input order plus
// forward and backward adjacency over issue numbers. Referenced numbers
// without a matching node stay in the adjacency as bare identifiers;
// consumers must tolerate dangling references.
type Graph struct {
	Nodes []*Node

	// Forward maps an issue number to its merged, sorted reference set.
	// Backward is the inversion; a number nobody references has no entry.
	Forward  map[int][]int
	Backward map[int][]int

	byNumber map[int]*Node
}

// BuildGraph assembles the full graph from an issue list. It is a pure
// function of its input: running it twice on the same list yields
// identical results.
func BuildGraph(issues []models.Issue) *Graph {
	g := &Graph{
		Forward:  make(map[int][]int),
		Backward: make(map[int][]int),
		byNumber: make(map[int]*Node),
	}

	for _, issue := range issues {
		node := &Node{
			Issue: issue,
			Type:  taxonomy.Classify(issue.Title, issue.Labels),
			Links: ExtractLinks(issue.Body),
		}
		node.Refs = node.Links.Merged()
		sort.Ints(node.Refs)

		g.Nodes = append(g.Nodes, node)
		g.byNumber[issue.Number] = node
		g.Forward[issue.Number] = node.Refs
	}

	for _, node := range g.Nodes {
		for _, ref := range node.Refs {
			g.Backward[ref] = append(g.Backward[ref], node.Issue.Number)
		}
	}

	return g
}

// Node looks up the node for an issue number. The second return is false
// for dangling references.
func (g *Graph) Node(number int) (*Node, bool) {
	n, ok := g.byNumber[number]
	return n, ok
}

// TypeOf resolves the type of a referenced issue number. Dangling
// references resolve to Unknown.
func (g *Graph) TypeOf(number int) taxonomy.Type {
	if n, ok := g.byNumber[number]; ok {
		return n.Type
	}
	return taxonomy.Unknown
}
