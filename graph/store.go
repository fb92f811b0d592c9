package graph

import (
	"fmt"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/schema"
)

// Store holds individuals and the relation edges connecting them.
// Adjacency is a mapping from (source id, relation name) to an ordered set
// of target ids.
//
// Two relation contracts are enforced at the store boundary because they
// must never be observable in a half-applied state:
//
//   - functional overwrite: asserting a second target for a functional
//     relation replaces the first (last-write-wins), retracting the old
//     edge's inverse mirror along with it
//   - inverse mirroring: asserting an edge of an inverse-paired relation
//     asserts the mirrored edge atomically
//
// Transitive closure and sub-relation projection live in the classification
// engine; they are batch computations, not per-assertion invariants.
type Store struct {
	registry    *schema.Registry
	individuals map[string]*Individual
	order       []string
	edges       map[string]map[string][]string
}

// NewStore creates an empty store bound to a schema registry.
func NewStore(registry *schema.Registry) *Store {
	return &Store{
		registry:    registry,
		individuals: make(map[string]*Individual),
		edges:       make(map[string]map[string][]string),
	}
}

// Registry returns the schema registry the store was built against.
func (s *Store) Registry() *schema.Registry {
	return s.registry
}

// Ensure returns the individual for (category, sourceID), creating it on
// first use. The category must be a declared base category; composites gain
// members only through classification. The created flag reports whether this
// call instantiated the individual.
func (s *Store) Ensure(category, sourceID string) (*Individual, bool, error) {
	if _, ok := s.registry.Category(category); !ok {
		return nil, false, errors.WrapInvalid(
			fmt.Errorf("base category %q: %w", category, errors.ErrUnknownCategory),
			"graph", "Ensure", "resolve category")
	}
	if sourceID == "" {
		return nil, false, errors.WrapRecoverable(errors.ErrMissingKey, "graph", "Ensure", "derive key")
	}

	id := KeyFor(category, sourceID)
	if ind, ok := s.individuals[id]; ok {
		return ind, false, nil
	}

	ind := &Individual{
		ID:          id,
		SourceID:    sourceID,
		Category:    category,
		Attributes:  make(map[string]schema.Literal),
		memberships: map[string]struct{}{category: {}},
	}
	s.individuals[id] = ind
	s.order = append(s.order, id)
	return ind, true, nil
}

// Get returns the individual with the given store key.
func (s *Store) Get(id string) (*Individual, bool) {
	ind, ok := s.individuals[id]
	return ind, ok
}

// Len returns the number of individuals.
func (s *Store) Len() int {
	return len(s.individuals)
}

// Individuals returns all individuals in insertion order.
func (s *Store) Individuals() []*Individual {
	out := make([]*Individual, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.individuals[id])
	}
	return out
}

// SetAttribute records a literal value for a declared attribute. Attributes
// are functional: a second assignment overwrites the first. The literal type
// must match the attribute declaration exactly.
func (s *Store) SetAttribute(id, name string, value schema.Literal) error {
	attr, ok := s.registry.Attribute(name)
	if !ok {
		return errors.WrapInvalid(
			fmt.Errorf("attribute %q: %w", name, errors.ErrUnknownAttribute),
			"graph", "SetAttribute", "resolve attribute")
	}
	ind, ok := s.individuals[id]
	if !ok {
		return errors.WrapInvalid(
			fmt.Errorf("individual %q: %w", id, errors.ErrUnknownIndividual),
			"graph", "SetAttribute", "resolve individual")
	}
	if value.Type != attr.Type {
		return errors.WrapInvalid(
			fmt.Errorf("attribute %q declared %s, got %s: %w", name, attr.Type, value.Type, errors.ErrTypeMismatch),
			"graph", "SetAttribute", "validate literal")
	}

	ind.Attributes[name] = value
	return nil
}

// AddEdge asserts an edge from src to dst under the named relation. It
// reports whether a new edge was added; re-asserting an existing edge is a
// no-op. Functional overwrite and inverse mirroring apply as documented on
// Store.
func (s *Store) AddEdge(src, relation, dst string) (bool, error) {
	rel, ok := s.registry.Relation(relation)
	if !ok {
		return false, errors.WrapInvalid(
			fmt.Errorf("relation %q: %w", relation, errors.ErrUnknownRelation),
			"graph", "AddEdge", "resolve relation")
	}
	if _, ok := s.individuals[src]; !ok {
		return false, errors.WrapInvalid(
			fmt.Errorf("source %q: %w", src, errors.ErrUnknownIndividual),
			"graph", "AddEdge", "resolve source")
	}
	if _, ok := s.individuals[dst]; !ok {
		return false, errors.WrapInvalid(
			fmt.Errorf("target %q: %w", dst, errors.ErrUnknownIndividual),
			"graph", "AddEdge", "resolve target")
	}
	return s.assert(rel, src, dst), nil
}

// assert applies one edge assertion with all store-level contracts.
func (s *Store) assert(rel schema.Relation, src, dst string) bool {
	if s.hasEdge(src, rel.Name, dst) {
		return false
	}

	if rel.Functional {
		for _, old := range append([]string(nil), s.edges[src][rel.Name]...) {
			s.retract(rel, src, old)
		}
	}
	if rel.InverseOf != "" {
		if inv, ok := s.registry.Relation(rel.InverseOf); ok && inv.Functional {
			// The mirrored edge would give dst a second inverse target.
			for _, old := range append([]string(nil), s.edges[dst][inv.Name]...) {
				s.retract(inv, dst, old)
			}
		}
	}

	s.addDirected(src, rel.Name, dst)
	if rel.InverseOf != "" {
		s.addDirected(dst, rel.InverseOf, src)
	}
	return true
}

// retract removes an edge together with its inverse mirror.
func (s *Store) retract(rel schema.Relation, src, dst string) {
	s.removeDirected(src, rel.Name, dst)
	if rel.InverseOf != "" {
		s.removeDirected(dst, rel.InverseOf, src)
	}
}

func (s *Store) addDirected(src, relation, dst string) {
	byRel, ok := s.edges[src]
	if !ok {
		byRel = make(map[string][]string)
		s.edges[src] = byRel
	}
	for _, t := range byRel[relation] {
		if t == dst {
			return
		}
	}
	byRel[relation] = append(byRel[relation], dst)
}

func (s *Store) removeDirected(src, relation, dst string) {
	targets := s.edges[src][relation]
	for i, t := range targets {
		if t == dst {
			s.edges[src][relation] = append(targets[:i], targets[i+1:]...)
			return
		}
	}
}

// HasEdge reports whether the exact directed edge exists.
func (s *Store) HasEdge(src, relation, dst string) bool {
	return s.hasEdge(src, relation, dst)
}

func (s *Store) hasEdge(src, relation, dst string) bool {
	for _, t := range s.edges[src][relation] {
		if t == dst {
			return true
		}
	}
	return false
}

// Edges returns the ordered targets of (src, relation). The returned slice
// is a copy.
func (s *Store) Edges(src, relation string) []string {
	targets := s.edges[src][relation]
	if len(targets) == 0 {
		return nil
	}
	return append([]string(nil), targets...)
}

// EachEdge visits every edge in deterministic order: individuals in
// insertion order, relations in declaration order, targets in assertion
// order.
func (s *Store) EachEdge(visit func(src, relation, dst string)) {
	for _, src := range s.order {
		byRel := s.edges[src]
		if byRel == nil {
			continue
		}
		for _, rel := range s.registry.Relations() {
			for _, dst := range byRel[rel.Name] {
				visit(src, rel.Name, dst)
			}
		}
	}
}

// AddMembership records that the individual belongs to the named category.
// It reports whether the membership was new.
func (s *Store) AddMembership(id, category string) (bool, error) {
	if !s.registry.IsCategory(category) {
		return false, errors.WrapInvalid(
			fmt.Errorf("category %q: %w", category, errors.ErrUnknownCategory),
			"graph", "AddMembership", "resolve category")
	}
	ind, ok := s.individuals[id]
	if !ok {
		return false, errors.WrapInvalid(
			fmt.Errorf("individual %q: %w", id, errors.ErrUnknownIndividual),
			"graph", "AddMembership", "resolve individual")
	}
	return ind.addMembership(category), nil
}

// IsMember reports whether the individual belongs to the category, either
// by direct membership or through the specialization tree (a member of
// MetroStop is a member of Stop).
func (s *Store) IsMember(id, category string) bool {
	ind, ok := s.individuals[id]
	if !ok {
		return false
	}
	if ind.hasMembership(category) {
		return true
	}
	for m := range ind.memberships {
		if m != category && s.registry.SubsumedBy(m, category) {
			return true
		}
	}
	return false
}

// Members returns the ids of all members of a category, in insertion order.
func (s *Store) Members(category string) []string {
	var out []string
	for _, id := range s.order {
		if s.IsMember(id, category) {
			out = append(out, id)
		}
	}
	return out
}
