// pkg/core/status.go
package core

import "strings"

// Lifecycle tags carried inside waypoint names. Matching is case-sensitive.
const (
	TagUnvisited = "Unvisited"
	TagVisited   = "Visited"
)

// Status is the lifecycle state of a waypoint
type Status int

const (
	StatusUntagged Status = iota
	StatusUnvisited
	StatusVisited
)

func (s Status) String() string {
	switch s {
	case StatusUnvisited:
		return TagUnvisited
	case StatusVisited:
		return TagVisited
	default:
		return "Untagged"
	}
}

// StatusOf derives the status from a waypoint name.
// "Unvisited" does not contain "Visited" (lowercase v), so the checks are independent.
func StatusOf(name string) Status {
	switch {
	case strings.Contains(name, TagUnvisited):
		return StatusUnvisited
	case strings.Contains(name, TagVisited):
		return StatusVisited
	default:
		return StatusUntagged
	}
}

// TaggedName renders base with the lifecycle suffix for s.
func TaggedName(base string, s Status) string {
	if s == StatusUntagged {
		return base
	}
	return base + " (" + s.String() + ")"
}
