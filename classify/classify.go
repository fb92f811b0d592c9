// Package classify implements the classification engine: relation closure,
// fixed-point evaluation of composite category formulas, and the final
// consistency check.
//
// The engine consumes a populated individual store and mutates it in place.
// A run has three stages, in order:
//
//  1. Relation closure — sub-relation edges are projected into their parent
//     relation, inverse pairs are completed, and transitive relations are
//     closed under composition, repeated until the edge set stops growing.
//  2. Composite evaluation — every composite formula is evaluated against
//     the current membership sets and edges, repeatedly, until a full pass
//     changes nothing. Formulas may reference other composites, so
//     convergence can take several passes; the pass count is bounded and
//     exceeding the bound is a fatal, named error.
//  3. Consistency check — domain/range conformance, functional cardinality,
//     and inverse mirroring are verified. Violations are collected and
//     reported individually, never aborting the run.
//
// The fixed operator vocabulary is negation-free and therefore monotone:
// memberships and edges only grow, which is what guarantees the fixed point
// exists. The engine still never assumes a fixed iteration count.
package classify

import (
	"log/slog"

	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/metric"
	"github.com/c360/semtransit/schema"
)

// DefaultMaxPasses bounds the composite fixed-point iteration. Convergence
// is expected within the nesting depth of composite references, so the
// default leaves generous headroom.
const DefaultMaxPasses = 32

// Engine computes the classification closure over an individual store.
type Engine struct {
	store    *graph.Store
	registry *schema.Registry
	log      *slog.Logger
	metrics  *metric.Metrics

	maxPasses int
}

// Option is a functional option for configuring the engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithMetrics sets the metrics sink. Defaults to a private, unregistered
// metrics instance.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithMaxPasses overrides the composite fixed-point pass bound.
func WithMaxPasses(n int) Option {
	return func(e *Engine) {
		e.maxPasses = n
	}
}

// NewEngine creates an engine over the given store.
func NewEngine(store *graph.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		registry:  store.Registry(),
		log:       slog.Default(),
		metrics:   metric.NewMetrics(),
		maxPasses: DefaultMaxPasses,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes one classification run.
type Report struct {
	// InferredEdges counts edges added by relation closure.
	InferredEdges int `json:"inferred_edges"`
	// Passes counts the fixed-point passes composite evaluation took,
	// including the final pass that observed no change.
	Passes int `json:"passes"`
	// Violations lists every consistency violation found after closure.
	Violations []Violation `json:"violations,omitempty"`
}

// Run executes the full closure-and-classify computation. Structural
// failures and non-convergence abort with an error; consistency violations
// do not — they are returned in the report, leaving the decision to treat
// them as fatal to the caller.
func (e *Engine) Run() (*Report, error) {
	inferred, err := e.closeRelations()
	if err != nil {
		return nil, err
	}
	e.log.Debug("relation closure complete", "inferred_edges", inferred)

	passes, err := e.evaluateComposites()
	if err != nil {
		return nil, err
	}
	e.log.Debug("composite evaluation converged", "passes", passes)

	violations := e.checkConsistency()
	for _, v := range violations {
		e.log.Warn("consistency violation", "kind", v.Kind, "source", v.SourceID,
			"relation", v.Relation, "expected", v.Expected, "actual", v.Actual)
	}

	e.metrics.ClassificationPasses.Set(float64(passes))
	for _, comp := range e.registry.Composites() {
		e.metrics.CompositeMembers.WithLabelValues(comp.Name).
			Set(float64(len(e.store.Members(comp.Name))))
	}

	return &Report{
		InferredEdges: inferred,
		Passes:        passes,
		Violations:    violations,
	}, nil
}
