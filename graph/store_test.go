package graph

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/schema"
)

func newTestRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg := schema.NewRegistry()
	require.NoError(t, reg.DeclareCategory("Stop", ""))
	require.NoError(t, reg.DeclareCategory("Route", ""))
	require.NoError(t, reg.DeclareCategory("MetroStop", "Stop"))
	require.NoError(t, reg.DeclareRelation("serves", "Route", "Stop"))
	require.NoError(t, reg.DeclareRelation("servedBy", "Stop", "Route", schema.InverseOf("serves")))
	require.NoError(t, reg.DeclareRelation("parentStation", "Stop", "Stop", schema.Functional()))
	require.NoError(t, reg.DeclareRelation("connectedTo", "Stop", "Stop", schema.Transitive()))
	require.NoError(t, reg.DeclareAttribute("stopName", "Stop", schema.TypeString))
	require.NoError(t, reg.DeclareAttribute("locationType", "Stop", schema.TypeInt))
	require.NoError(t, reg.DeclareComposite("ServedStop",
		schema.Exists{Category: "Stop", Relation: "servedBy", Target: "Route"}))
	return reg
}

func mustEnsure(t *testing.T, s *Store, category, sourceID string) *Individual {
	t.Helper()
	ind, _, err := s.Ensure(category, sourceID)
	require.NoError(t, err)
	return ind
}

func TestEnsure(t *testing.T) {
	s := NewStore(newTestRegistry(t))

	t.Run("creates once", func(t *testing.T) {
		ind, created, err := s.Ensure("Stop", "100")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "stop_100", ind.ID)
		assert.Equal(t, "100", ind.SourceID)
		assert.Equal(t, "Stop", ind.Category)
		assert.Equal(t, []string{"Stop"}, ind.Memberships())

		again, created, err := s.Ensure("Stop", "100")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Same(t, ind, again)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, _, err := s.Ensure("Ghost", "1")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownCategory))
	})

	t.Run("composite cannot be instantiated", func(t *testing.T) {
		_, _, err := s.Ensure("ServedStop", "1")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownCategory))
	})

	t.Run("empty source id is recoverable", func(t *testing.T) {
		_, _, err := s.Ensure("Stop", "")
		require.Error(t, err)
		assert.True(t, errors.IsRecoverable(err))
	})
}

func TestSetAttribute(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	ind := mustEnsure(t, s, "Stop", "100")

	t.Run("set and read back", func(t *testing.T) {
		require.NoError(t, s.SetAttribute(ind.ID, "stopName", schema.String("Central")))
		v, ok := ind.Attribute("stopName")
		require.True(t, ok)
		assert.Equal(t, schema.String("Central"), v)
	})

	t.Run("functional overwrite is last-write-wins", func(t *testing.T) {
		require.NoError(t, s.SetAttribute(ind.ID, "stopName", schema.String("Central Station")))
		v, _ := ind.Attribute("stopName")
		assert.Equal(t, schema.String("Central Station"), v)
		assert.Len(t, ind.Attributes, 1)
	})

	t.Run("type mismatch rejected", func(t *testing.T) {
		err := s.SetAttribute(ind.ID, "locationType", schema.String("1"))
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrTypeMismatch))
	})

	t.Run("unknown attribute rejected", func(t *testing.T) {
		err := s.SetAttribute(ind.ID, "ghost", schema.Int(1))
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownAttribute))
	})

	t.Run("unknown individual rejected", func(t *testing.T) {
		err := s.SetAttribute("stop_999", "stopName", schema.String("x"))
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownIndividual))
	})
}

func TestAddEdgeInverseMirroring(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	route := mustEnsure(t, s, "Route", "M1")
	stop := mustEnsure(t, s, "Stop", "100")

	added, err := s.AddEdge(route.ID, "serves", stop.ID)
	require.NoError(t, err)
	assert.True(t, added)

	// Both directions are visible immediately; there is no state where
	// only one is.
	assert.True(t, s.HasEdge(route.ID, "serves", stop.ID))
	assert.True(t, s.HasEdge(stop.ID, "servedBy", route.ID))

	// Re-asserting is a no-op in both directions.
	added, err = s.AddEdge(route.ID, "serves", stop.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, s.Edges(stop.ID, "servedBy"), 1)

	// Asserting the mirror of an existing pair adds nothing.
	added, err = s.AddEdge(stop.ID, "servedBy", route.ID)
	require.NoError(t, err)
	assert.False(t, added)
}

func TestAddEdgeFunctionalOverwrite(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	child := mustEnsure(t, s, "Stop", "100")
	first := mustEnsure(t, s, "Stop", "200")
	second := mustEnsure(t, s, "Stop", "300")

	added, err := s.AddEdge(child.ID, "parentStation", first.ID)
	require.NoError(t, err)
	assert.True(t, added)

	// Second assignment replaces, never appends.
	added, err = s.AddEdge(child.ID, "parentStation", second.ID)
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, []string{second.ID}, s.Edges(child.ID, "parentStation"))
	assert.False(t, s.HasEdge(child.ID, "parentStation", first.ID))
}

func TestAddEdgeValidation(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	stop := mustEnsure(t, s, "Stop", "100")

	_, err := s.AddEdge(stop.ID, "ghostRel", stop.ID)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownRelation))

	_, err = s.AddEdge("stop_999", "connectedTo", stop.ID)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownIndividual))

	_, err = s.AddEdge(stop.ID, "connectedTo", "stop_999")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownIndividual))
}

func TestMembership(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	stop := mustEnsure(t, s, "Stop", "100")

	t.Run("base membership at creation", func(t *testing.T) {
		assert.True(t, s.IsMember(stop.ID, "Stop"))
		assert.False(t, s.IsMember(stop.ID, "Route"))
	})

	t.Run("specialization implies parent", func(t *testing.T) {
		metro := mustEnsure(t, s, "MetroStop", "200")
		assert.True(t, s.IsMember(metro.ID, "MetroStop"))
		assert.True(t, s.IsMember(metro.ID, "Stop"))
	})

	t.Run("composite membership is exact", func(t *testing.T) {
		added, err := s.AddMembership(stop.ID, "ServedStop")
		require.NoError(t, err)
		assert.True(t, added)
		assert.True(t, s.IsMember(stop.ID, "ServedStop"))

		// Idempotent.
		added, err = s.AddMembership(stop.ID, "ServedStop")
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		_, err := s.AddMembership(stop.ID, "Ghost")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrUnknownCategory))
	})

	t.Run("members in insertion order", func(t *testing.T) {
		assert.Equal(t, []string{"stop_100", "metrostop_200"}, s.Members("Stop"))
	})
}

func TestEachEdgeDeterministicOrder(t *testing.T) {
	s := NewStore(newTestRegistry(t))
	a := mustEnsure(t, s, "Stop", "a")
	b := mustEnsure(t, s, "Stop", "b")
	c := mustEnsure(t, s, "Stop", "c")
	r := mustEnsure(t, s, "Route", "r")

	_, err := s.AddEdge(a.ID, "connectedTo", b.ID)
	require.NoError(t, err)
	_, err = s.AddEdge(a.ID, "connectedTo", c.ID)
	require.NoError(t, err)
	_, err = s.AddEdge(r.ID, "serves", a.ID)
	require.NoError(t, err)

	type edge struct{ src, rel, dst string }
	var got []edge
	s.EachEdge(func(src, rel, dst string) {
		got = append(got, edge{src, rel, dst})
	})

	assert.Equal(t, []edge{
		{a.ID, "servedBy", r.ID},
		{a.ID, "connectedTo", b.ID},
		{a.ID, "connectedTo", c.ID},
		{r.ID, "serves", a.ID},
	}, got)
}
