package classify

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/metric"
	"github.com/c360/semtransit/schema"
	"github.com/c360/semtransit/vocabulary"
)

func newTransitStore(t *testing.T) *graph.Store {
	t.Helper()
	reg, err := vocabulary.NewRegistry()
	require.NoError(t, err)
	return graph.NewStore(reg)
}

// TestAccessibleStopScenario builds a small station complex: an elevator
// pathway reaching one stop, a stairs pathway reaching another. Only the
// elevator-reachable stop classifies as accessible.
func TestAccessibleStopScenario(t *testing.T) {
	store := newTransitStore(t)

	s1 := ensure(t, store, vocabulary.CategoryStop, "1")
	s2 := ensure(t, store, vocabulary.CategoryStop, "2")
	s3 := ensure(t, store, vocabulary.CategoryStop, "3")

	elevator := ensure(t, store, vocabulary.CategoryPathway, "p1")
	setAttr(t, store, elevator, vocabulary.AttrPathwayMode, schema.Int(vocabulary.PathwayModeElevator))
	stairs := ensure(t, store, vocabulary.CategoryPathway, "p2")
	setAttr(t, store, stairs, vocabulary.AttrPathwayMode, schema.Int(vocabulary.PathwayModeStairs))

	addEdge(t, store, elevator, vocabulary.RelationConnectsStop, s1)
	addEdge(t, store, stairs, vocabulary.RelationConnectsStop, s3)

	engine := NewEngine(store, WithLogger(slog.Default()))
	report, err := engine.Run()
	require.NoError(t, err)
	assert.Empty(t, report.Violations)

	assert.True(t, store.IsMember(elevator, vocabulary.CompositeElevatorPathway))
	assert.True(t, store.IsMember(stairs, vocabulary.CompositeStairsPathway))

	// linkedPathway mirrors feed the accessibility restriction.
	assert.Equal(t, []string{s1}, store.Members(vocabulary.CompositeAccessibleStop))
	assert.False(t, store.IsMember(s2, vocabulary.CompositeAccessibleStop))
	assert.False(t, store.IsMember(s3, vocabulary.CompositeAccessibleStop))

	// Sub-relation projection keeps the broad relation populated too.
	assert.True(t, store.HasEdge(elevator, vocabulary.RelationConnectsElement, s1))
}

// TestMetroLineScenario checks exact composite membership across a mixed
// network: route composites, the stop composites derived from them, and the
// union built on top — two derivation levels in one run.
func TestMetroLineScenario(t *testing.T) {
	store := newTransitStore(t)

	metro := ensure(t, store, vocabulary.CategoryRoute, "m1")
	setAttr(t, store, metro, vocabulary.AttrRouteType, schema.Int(vocabulary.RouteTypeMetro))
	tram := ensure(t, store, vocabulary.CategoryRoute, "t1")
	setAttr(t, store, tram, vocabulary.AttrRouteType, schema.Int(vocabulary.RouteTypeTram))
	bus := ensure(t, store, vocabulary.CategoryRoute, "b1")
	setAttr(t, store, bus, vocabulary.AttrRouteType, schema.Int(vocabulary.RouteTypeBus))

	hub := ensure(t, store, vocabulary.CategoryStop, "hub")
	metroOnly := ensure(t, store, vocabulary.CategoryStop, "deep")
	isolated := ensure(t, store, vocabulary.CategoryStop, "ghost")

	addEdge(t, store, hub, vocabulary.RelationServedBy, metro)
	addEdge(t, store, hub, vocabulary.RelationServedBy, tram)
	addEdge(t, store, hub, vocabulary.RelationServedBy, bus)
	addEdge(t, store, metroOnly, vocabulary.RelationServedBy, metro)

	engine := NewEngine(store)
	report, err := engine.Run()
	require.NoError(t, err)
	assert.Empty(t, report.Violations)

	assert.Equal(t, []string{metro}, store.Members(vocabulary.CompositeMetroLine))
	assert.Equal(t, []string{metro}, store.Members(vocabulary.CompositeMetroRoute))

	assert.Equal(t, []string{hub, metroOnly}, store.Members(vocabulary.CompositeServedStop))
	assert.Equal(t, []string{hub, metroOnly}, store.Members(vocabulary.CompositeMetroStop))
	assert.Equal(t, []string{hub}, store.Members(vocabulary.CompositeTramStop))
	assert.Equal(t, []string{hub}, store.Members(vocabulary.CompositeBusStop))
	// SurfaceStop is derived from composites derived in the same run.
	assert.Equal(t, []string{hub}, store.Members(vocabulary.CompositeSurfaceStop))

	// The universal restriction: the isolated stop qualifies vacuously, the
	// mixed hub does not, the metro-only stop does.
	assert.ElementsMatch(t, []string{metroOnly, isolated},
		store.Members(vocabulary.CompositeMetroOnlyStop))

	// The inverse mirrors were asserted with the edges.
	assert.True(t, store.HasEdge(metro, vocabulary.RelationServes, hub))
	assert.True(t, store.HasEdge(tram, vocabulary.RelationServes, hub))
}

// TestConnectedNetworkScenario asserts the transfer pattern: connectedTo
// chains close transitively and transfer bound composites partition.
func TestConnectedNetworkScenario(t *testing.T) {
	store := newTransitStore(t)

	a := ensure(t, store, vocabulary.CategoryStop, "a")
	b := ensure(t, store, vocabulary.CategoryStop, "b")
	c := ensure(t, store, vocabulary.CategoryStop, "c")
	addEdge(t, store, a, vocabulary.RelationConnectedTo, b)
	addEdge(t, store, b, vocabulary.RelationConnectedTo, c)

	quick := ensure(t, store, vocabulary.CategoryTransfer, "a_b_0")
	setAttr(t, store, quick, vocabulary.AttrMinTransferTime, schema.Int(90))
	addEdge(t, store, quick, vocabulary.RelationFromStop, a)
	addEdge(t, store, quick, vocabulary.RelationToStop, b)

	long := ensure(t, store, vocabulary.CategoryTransfer, "b_c_1")
	setAttr(t, store, long, vocabulary.AttrMinTransferTime, schema.Int(600))
	addEdge(t, store, long, vocabulary.RelationFromStop, b)
	addEdge(t, store, long, vocabulary.RelationToStop, c)

	engine := NewEngine(store)
	report, err := engine.Run()
	require.NoError(t, err)
	assert.Empty(t, report.Violations)

	assert.True(t, store.HasEdge(a, vocabulary.RelationConnectedTo, c))
	assert.Positive(t, report.InferredEdges)

	assert.Equal(t, []string{quick}, store.Members(vocabulary.CompositeFastTransfer))
	assert.Equal(t, []string{long}, store.Members(vocabulary.CompositeSlowTransfer))
}

// TestAssertedSpecializationScenario: assertion-only categories participate
// in subsumption but are never derived.
func TestAssertedSpecializationScenario(t *testing.T) {
	store := newTransitStore(t)

	trip := ensure(t, store, vocabulary.CategoryTrip, "t1")
	other := ensure(t, store, vocabulary.CategoryTrip, "t2")
	_, err := store.AddMembership(trip, vocabulary.CategoryLongTrip)
	require.NoError(t, err)

	engine := NewEngine(store)
	_, err = engine.Run()
	require.NoError(t, err)

	assert.True(t, store.IsMember(trip, vocabulary.CategoryLongTrip))
	assert.True(t, store.IsMember(trip, vocabulary.CategoryTrip))
	assert.False(t, store.IsMember(other, vocabulary.CategoryLongTrip))
}

// TestRunRecordsMetrics wires a registered metrics instance through a full
// run and checks the gauges land where the report says.
func TestRunRecordsMetrics(t *testing.T) {
	store := newTransitStore(t)
	metro := ensure(t, store, vocabulary.CategoryRoute, "m1")
	setAttr(t, store, metro, vocabulary.AttrRouteType, schema.Int(vocabulary.RouteTypeMetro))
	stop := ensure(t, store, vocabulary.CategoryStop, "s1")
	addEdge(t, store, stop, vocabulary.RelationServedBy, metro)

	m := metric.NewMetrics()
	engine := NewEngine(store, WithMetrics(m))
	report, err := engine.Run()
	require.NoError(t, err)

	assert.Equal(t, float64(report.Passes), testutil.ToFloat64(m.ClassificationPasses))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.CompositeMembers.WithLabelValues(vocabulary.CompositeMetroStop)))
}
