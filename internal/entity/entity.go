// Package entity provides the process-unique identifiers shared by the
// job model, the compiled nets, and the planner, plus the side table
// that maps identifiers to display names for rendering.
package entity

import "github.com/google/uuid"

// ID identifies a job entity (agent, target, task, primitive, POI) or a
// net element. IDs are opaque to callers; equality and hashing are the
// only supported operations besides rendering through a Names table.
type ID = uuid.UUID

// Nil is the zero ID.
var Nil ID

// NewID returns a fresh process-unique identifier.
func NewID() ID {
	return uuid.New()
}

// Names maps identifiers to human-readable labels. It exists purely for
// rendering; no behaviour may branch on a name.
type Names map[ID]string

// Set records the display name for id.
func (n Names) Set(id ID, name string) {
	n[id] = name
}

// Get returns the display name for id, falling back to a shortened form
// of the identifier itself.
func (n Names) Get(id ID) string {
	if name, ok := n[id]; ok {
		return name
	}
	s := id.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// Clone returns an independent copy.
func (n Names) Clone() Names {
	out := make(Names, len(n))
	for id, name := range n {
		out[id] = name
	}
	return out
}

// Merge copies every entry of other into n, overwriting duplicates.
func (n Names) Merge(other Names) {
	for id, name := range other {
		n[id] = name
	}
}
