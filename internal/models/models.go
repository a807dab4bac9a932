package models

import "fmt"

// Issue represents one requirement issue as fetched from GitHub.
// Records are immutable for the duration of a run; the graph builder
// never writes back into them.
type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Body   string   `json:"body,omitempty"`
	State  string   `json:"state"`
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

// ID returns the "#<n>" identifier used throughout the artifact.
func (i Issue) ID() string {
	return Ref(i.Number)
}

// Ref formats an issue number as a "#<n>" reference string.
func Ref(number int) string {
	return fmt.Sprintf("#%d", number)
}
