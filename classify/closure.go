package classify

import (
	"github.com/c360/semtransit/schema"
)

// closeRelations enforces the sub-relation, inverse, and transitive
// contracts over the accumulated edge set. The three passes feed each other
// (a projected edge can extend a transitive chain, an inferred transitive
// edge needs its inverse mirror), so the outer loop repeats until a full
// round adds nothing. Termination is guaranteed: the individual set is
// finite and edges are only added.
//
// Running closure on an already-closed edge set adds zero edges.
func (e *Engine) closeRelations() (int, error) {
	total := 0
	for {
		added := 0

		for _, rel := range e.registry.Relations() {
			if rel.SubRelationOf == "" {
				continue
			}
			n, err := e.projectSubRelation(rel)
			if err != nil {
				return total, err
			}
			added += n
		}

		for _, rel := range e.registry.Relations() {
			if rel.InverseOf == "" {
				continue
			}
			n, err := e.completeInverse(rel)
			if err != nil {
				return total, err
			}
			added += n
		}

		for _, rel := range e.registry.Relations() {
			if !rel.Transitive {
				continue
			}
			n, err := e.closeTransitive(rel)
			if err != nil {
				return total, err
			}
			added += n
		}

		if added == 0 {
			return total, nil
		}
		total += added
	}
}

// projectSubRelation makes every edge of a sub-relation visible under its
// declared parent, so formulas quantifying over the parent see them.
func (e *Engine) projectSubRelation(rel schema.Relation) (int, error) {
	added := 0
	for _, ind := range e.store.Individuals() {
		for _, dst := range e.store.Edges(ind.ID, rel.Name) {
			ok, err := e.store.AddEdge(ind.ID, rel.SubRelationOf, dst)
			if err != nil {
				return added, err
			}
			if ok {
				added++
				e.metrics.EdgesInferred.WithLabelValues(rel.SubRelationOf).Inc()
			}
		}
	}
	return added, nil
}

// completeInverse ensures every edge (s, R, t) has its mirror (t, R⁻, s).
// The store mirrors on assertion, so this normally finds nothing; it exists
// to repair edge sets produced by any other path and to make closure
// self-contained.
func (e *Engine) completeInverse(rel schema.Relation) (int, error) {
	added := 0
	for _, ind := range e.store.Individuals() {
		for _, dst := range e.store.Edges(ind.ID, rel.Name) {
			if e.store.HasEdge(dst, rel.InverseOf, ind.ID) {
				continue
			}
			ok, err := e.store.AddEdge(dst, rel.InverseOf, ind.ID)
			if err != nil {
				return added, err
			}
			if ok {
				added++
				e.metrics.EdgesInferred.WithLabelValues(rel.InverseOf).Inc()
			}
		}
	}
	return added, nil
}

// closeTransitive repeatedly adds (a, R, c) wherever (a, R, b) and
// (b, R, c) exist, until no further edges can be added.
func (e *Engine) closeTransitive(rel schema.Relation) (int, error) {
	added := 0
	for {
		n := 0
		for _, ind := range e.store.Individuals() {
			for _, mid := range e.store.Edges(ind.ID, rel.Name) {
				for _, dst := range e.store.Edges(mid, rel.Name) {
					if e.store.HasEdge(ind.ID, rel.Name, dst) {
						continue
					}
					ok, err := e.store.AddEdge(ind.ID, rel.Name, dst)
					if err != nil {
						return added, err
					}
					if ok {
						n++
						e.metrics.EdgesInferred.WithLabelValues(rel.Name).Inc()
					}
				}
			}
		}
		if n == 0 {
			return added, nil
		}
		added += n
	}
}
