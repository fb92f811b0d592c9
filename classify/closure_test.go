package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/schema"
)

func newClosureRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()
	require.NoError(t, reg.DeclareCategory("Stop", ""))
	require.NoError(t, reg.DeclareCategory("Pathway", ""))
	require.NoError(t, reg.DeclareRelation("connectedTo", "Stop", "Stop", schema.Transitive()))
	require.NoError(t, reg.DeclareRelation("connectsElement", "Pathway", "Stop"))
	require.NoError(t, reg.DeclareRelation("connectsStop", "Pathway", "Stop", schema.SubRelationOf("connectsElement")))
	require.NoError(t, reg.DeclareRelation("linkedPathway", "Stop", "Pathway", schema.InverseOf("connectsStop")))
	return reg
}

func addEdge(t *testing.T, s *graph.Store, src, rel, dst string) {
	t.Helper()
	_, err := s.AddEdge(src, rel, dst)
	require.NoError(t, err)
}

func ensure(t *testing.T, s *graph.Store, category, sourceID string) string {
	t.Helper()
	ind, _, err := s.Ensure(category, sourceID)
	require.NoError(t, err)
	return ind.ID
}

func TestTransitiveClosure(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))
	s1 := ensure(t, store, "Stop", "1")
	s2 := ensure(t, store, "Stop", "2")
	s3 := ensure(t, store, "Stop", "3")
	addEdge(t, store, s1, "connectedTo", s2)
	addEdge(t, store, s2, "connectedTo", s3)

	engine := NewEngine(store)
	inferred, err := engine.closeRelations()
	require.NoError(t, err)

	assert.Equal(t, 1, inferred)
	assert.True(t, store.HasEdge(s1, "connectedTo", s3))
	// Closure never invents a direction that was not implied.
	assert.False(t, store.HasEdge(s3, "connectedTo", s1))
}

func TestTransitiveClosureLongChain(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = ensure(t, store, "Stop", string(rune('a'+i)))
	}
	for i := 0; i+1 < len(ids); i++ {
		addEdge(t, store, ids[i], "connectedTo", ids[i+1])
	}

	engine := NewEngine(store)
	_, err := engine.closeRelations()
	require.NoError(t, err)

	// Every later stop is reachable from every earlier one.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			assert.True(t, store.HasEdge(ids[i], "connectedTo", ids[j]),
				"missing %s -> %s", ids[i], ids[j])
		}
	}
}

func TestTransitiveClosureCycle(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))
	s1 := ensure(t, store, "Stop", "1")
	s2 := ensure(t, store, "Stop", "2")
	addEdge(t, store, s1, "connectedTo", s2)
	addEdge(t, store, s2, "connectedTo", s1)

	engine := NewEngine(store)
	_, err := engine.closeRelations()
	require.NoError(t, err)

	// Terminates, and both self-loops are implied by the cycle.
	assert.True(t, store.HasEdge(s1, "connectedTo", s1))
	assert.True(t, store.HasEdge(s2, "connectedTo", s2))
}

func TestClosureIdempotent(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))
	s1 := ensure(t, store, "Stop", "1")
	s2 := ensure(t, store, "Stop", "2")
	s3 := ensure(t, store, "Stop", "3")
	p := ensure(t, store, "Pathway", "p1")
	addEdge(t, store, s1, "connectedTo", s2)
	addEdge(t, store, s2, "connectedTo", s3)
	addEdge(t, store, p, "connectsStop", s1)

	engine := NewEngine(store)
	first, err := engine.closeRelations()
	require.NoError(t, err)
	assert.Positive(t, first)

	// Running closure on an already-closed edge set changes nothing.
	second, err := engine.closeRelations()
	require.NoError(t, err)
	assert.Zero(t, second)
}

func TestSubRelationProjection(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))
	p := ensure(t, store, "Pathway", "p1")
	s1 := ensure(t, store, "Stop", "1")
	addEdge(t, store, p, "connectsStop", s1)

	engine := NewEngine(store)
	_, err := engine.closeRelations()
	require.NoError(t, err)

	// The child edge is visible under the parent relation for formulas
	// that quantify over it.
	assert.True(t, store.HasEdge(p, "connectsElement", s1))
	// Projection does not leak back into the child.
	assert.Equal(t, []string{s1}, store.Edges(p, "connectsStop"))
}

func TestInverseMirrorsSurviveClosure(t *testing.T) {
	store := graph.NewStore(newClosureRegistry(t))
	p := ensure(t, store, "Pathway", "p1")
	s1 := ensure(t, store, "Stop", "1")
	addEdge(t, store, p, "connectsStop", s1)

	engine := NewEngine(store)
	_, err := engine.closeRelations()
	require.NoError(t, err)

	// Bijective mirroring: every edge has its mirror and nothing else.
	assert.True(t, store.HasEdge(s1, "linkedPathway", p))
	assert.Len(t, store.Edges(s1, "linkedPathway"), 1)
}
