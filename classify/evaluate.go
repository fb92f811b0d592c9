package classify

import (
	"fmt"
	"strings"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/schema"
)

// evaluateComposites computes composite category membership to a fixed
// point. Each pass evaluates every formula against the current membership
// sets and relation edges; because formulas may reference other composites,
// a membership gained in one pass can satisfy another formula in the next.
// The loop stops when a full pass changes nothing, or fails when the
// configured pass bound is exceeded — in which case the error names the
// composites that were still changing.
func (e *Engine) evaluateComposites() (int, error) {
	composites := e.registry.Composites()
	if len(composites) == 0 {
		return 0, nil
	}

	var lastChanged []string
	for pass := 1; pass <= e.maxPasses; pass++ {
		lastChanged = lastChanged[:0]
		for _, comp := range composites {
			changed := false
			for _, ind := range e.store.Individuals() {
				if e.store.IsMember(ind.ID, comp.Name) {
					continue
				}
				if !e.satisfies(comp.Formula, ind) {
					continue
				}
				if _, err := e.store.AddMembership(ind.ID, comp.Name); err != nil {
					return pass, err
				}
				changed = true
			}
			if changed {
				lastChanged = append(lastChanged, comp.Name)
			}
		}
		if len(lastChanged) == 0 {
			return pass, nil
		}
	}

	return e.maxPasses, errors.WrapFatal(
		fmt.Errorf("no fixed point after %d passes, still changing: %s: %w",
			e.maxPasses, strings.Join(lastChanged, ", "), errors.ErrNonConvergence),
		"classify", "evaluateComposites", "reach fixed point")
}

// satisfies decides whether the individual satisfies the formula against
// the current state of the store.
func (e *Engine) satisfies(f schema.Formula, ind *graph.Individual) bool {
	switch f := f.(type) {
	case schema.Union:
		for _, cat := range f.Of {
			if e.store.IsMember(ind.ID, cat) {
				return true
			}
		}
		return false

	case schema.ValueEquals:
		if !e.store.IsMember(ind.ID, f.Category) {
			return false
		}
		v, ok := ind.Attribute(f.Attribute)
		return ok && v.Equal(f.Value)

	case schema.ValueAtMost:
		// An individual without the attribute set belongs to neither
		// side of a bound pair.
		if !e.store.IsMember(ind.ID, f.Category) {
			return false
		}
		v, ok := ind.Attribute(f.Attribute)
		if !ok {
			return false
		}
		n, ok := v.Numeric()
		return ok && n <= f.Bound

	case schema.ValueAbove:
		if !e.store.IsMember(ind.ID, f.Category) {
			return false
		}
		v, ok := ind.Attribute(f.Attribute)
		if !ok {
			return false
		}
		n, ok := v.Numeric()
		return ok && n > f.Bound

	case schema.Exists:
		if !e.store.IsMember(ind.ID, f.Category) {
			return false
		}
		for _, dst := range e.store.Edges(ind.ID, f.Relation) {
			if e.store.IsMember(dst, f.Target) {
				return true
			}
		}
		return false

	case schema.Only:
		if !e.store.IsMember(ind.ID, f.Category) {
			return false
		}
		// Zero outgoing edges vacuously satisfy the restriction.
		for _, dst := range e.store.Edges(ind.ID, f.Relation) {
			if !e.store.IsMember(dst, f.Target) {
				return false
			}
		}
		return true

	default:
		return false
	}
}
