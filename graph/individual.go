// Package graph provides the individual store: concrete entities, their
// attribute values, and the relation edges connecting them.
//
// The store exclusively owns all entities and edges. Ingestion populates it
// row by row; the classification engine then mutates it in place — adding
// inverse and transitive edges and recording category membership — treating
// it as an immutable snapshot for the duration of one run.
package graph

import (
	"sort"
	"strings"

	"github.com/c360/semtransit/schema"
)

// Individual is a concrete entity instantiated from one input row. It is
// identified by a stable key derived from its source identifier, belongs to
// exactly one base category at creation, and accumulates further category
// memberships as computed by the classification engine.
type Individual struct {
	// ID is the stable store key, e.g. "stop_1324".
	ID string `json:"id"`
	// SourceID is the raw identifier from the input row, e.g. "1324".
	SourceID string `json:"source_id"`
	// Category is the base category assigned at creation.
	Category string `json:"category"`
	// Attributes holds the functional data values, at most one per name.
	Attributes map[string]schema.Literal `json:"attributes,omitempty"`

	memberships map[string]struct{}
}

// KeyFor derives the stable store key for a source identifier:
// the lowercased category name joined to the identifier with an underscore.
//
// Example: KeyFor("Stop", "1324") == "stop_1324".
func KeyFor(category, sourceID string) string {
	return strings.ToLower(category) + "_" + sourceID
}

// Attribute returns the named attribute value, if set.
func (ind *Individual) Attribute(name string) (schema.Literal, bool) {
	v, ok := ind.Attributes[name]
	return v, ok
}

// Memberships returns the categories the individual belongs to, sorted.
// The base category is always included.
func (ind *Individual) Memberships() []string {
	out := make([]string, 0, len(ind.memberships))
	for name := range ind.memberships {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (ind *Individual) hasMembership(category string) bool {
	_, ok := ind.memberships[category]
	return ok
}

func (ind *Individual) addMembership(category string) bool {
	if _, ok := ind.memberships[category]; ok {
		return false
	}
	ind.memberships[category] = struct{}{}
	return true
}
