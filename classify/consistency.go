package classify

import (
	"fmt"
)

// ViolationKind names the category of a consistency violation.
type ViolationKind string

const (
	// ViolationDomain is an edge whose source is not a member of the
	// relation's declared domain category.
	ViolationDomain ViolationKind = "domain"
	// ViolationRange is an edge whose target is not a member of the
	// relation's declared range category.
	ViolationRange ViolationKind = "range"
	// ViolationFunctional is a functional relation holding two concurrent
	// targets for one source. The store's overwrite policy makes this
	// structurally impossible; it is checked regardless.
	ViolationFunctional ViolationKind = "functional"
	// ViolationInverse is an edge of an inverse-paired relation whose
	// mirror is missing.
	ViolationInverse ViolationKind = "inverse"
)

// Violation is one named consistency violation. Violations are aggregated
// and reported to the caller; they never abort a run.
type Violation struct {
	Kind     ViolationKind `json:"kind"`
	SourceID string        `json:"source_id"`
	TargetID string        `json:"target_id,omitempty"`
	Relation string        `json:"relation"`
	// Expected is the declared category (domain/range checks) or the
	// violated contract.
	Expected string `json:"expected"`
	// Actual is the offending individual's base category or the observed
	// state.
	Actual string `json:"actual"`
}

// String renders the violation for reports and logs.
func (v Violation) String() string {
	return fmt.Sprintf("%s violation: %s -[%s]-> %s: expected %s, got %s",
		v.Kind, v.SourceID, v.Relation, v.TargetID, v.Expected, v.Actual)
}

// checkConsistency validates the closed store. Every violation is reported
// individually rather than aborting on the first.
func (e *Engine) checkConsistency() []Violation {
	var violations []Violation

	report := func(v Violation) {
		violations = append(violations, v)
		e.metrics.ConsistencyViolations.WithLabelValues(string(v.Kind)).Inc()
	}

	e.store.EachEdge(func(src, relation, dst string) {
		rel, ok := e.registry.Relation(relation)
		if !ok {
			return
		}
		if !e.store.IsMember(src, rel.Domain) {
			report(Violation{
				Kind:     ViolationDomain,
				SourceID: src,
				TargetID: dst,
				Relation: relation,
				Expected: rel.Domain,
				Actual:   e.baseCategory(src),
			})
		}
		if !e.store.IsMember(dst, rel.Range) {
			report(Violation{
				Kind:     ViolationRange,
				SourceID: src,
				TargetID: dst,
				Relation: relation,
				Expected: rel.Range,
				Actual:   e.baseCategory(dst),
			})
		}
		if rel.InverseOf != "" && !e.store.HasEdge(dst, rel.InverseOf, src) {
			report(Violation{
				Kind:     ViolationInverse,
				SourceID: src,
				TargetID: dst,
				Relation: relation,
				Expected: fmt.Sprintf("mirrored edge under %s", rel.InverseOf),
				Actual:   "missing",
			})
		}
	})

	for _, rel := range e.registry.Relations() {
		if !rel.Functional {
			continue
		}
		for _, ind := range e.store.Individuals() {
			targets := e.store.Edges(ind.ID, rel.Name)
			if len(targets) > 1 {
				report(Violation{
					Kind:     ViolationFunctional,
					SourceID: ind.ID,
					Relation: rel.Name,
					Expected: "at most one target",
					Actual:   fmt.Sprintf("%d targets", len(targets)),
				})
			}
		}
	}

	return violations
}

func (e *Engine) baseCategory(id string) string {
	ind, ok := e.store.Get(id)
	if !ok {
		return ""
	}
	return ind.Category
}
