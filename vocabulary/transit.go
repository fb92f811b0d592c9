// Package vocabulary defines the transit ontology: the category, relation,
// and attribute names of the schema, the composite category definitions,
// and the IRI mappings used at the export boundary.
//
// Names follow the GTFS-derived vocabulary of the source tables: categories
// are PascalCase, relations and attributes camelCase. Internal code always
// uses these names; IRIs exist for RDF export only.
package vocabulary

import (
	"github.com/c360/semtransit/schema"
)

// Base category names.
const (
	CategoryStop     = "Stop"
	CategoryRoute    = "Route"
	CategoryTrip     = "Trip"
	CategoryTransfer = "Transfer"
	CategoryPathway  = "Pathway"
	CategoryLevel    = "Level"
	CategoryFare     = "Fare"
	CategoryAgency   = "Agency"

	// Assertion-only specializations: declared in the tree, populated
	// only by direct assignment, never derived.
	CategoryLongTrip  = "LongTrip"
	CategoryShortTrip = "ShortTrip"
)

// Composite category names.
const (
	CompositeMetroRoute = "MetroRoute"
	CompositeTramRoute  = "TramRoute"
	CompositeBusRoute   = "BusRoute"
	CompositeMetroLine  = "MetroLine"

	CompositeElevatorPathway  = "ElevatorPathway"
	CompositeStairsPathway    = "StairsPathway"
	CompositeEscalatorPathway = "EscalatorPathway"
	CompositeWalkway          = "Walkway"

	CompositeServedStop     = "ServedStop"
	CompositeMetroOnlyStop  = "MetroOnlyStop"
	CompositeMetroStop      = "MetroStop"
	CompositeTramStop       = "TramStop"
	CompositeBusStop        = "BusStop"
	CompositeSurfaceStop    = "SurfaceStop"
	CompositeAccessibleStop = "AccessibleStop"

	CompositeWheelchairFriendlyTrip = "WheelchairFriendlyTrip"
	CompositeFastTransfer           = "FastTransfer"
	CompositeSlowTransfer           = "SlowTransfer"
)

// Relation names.
const (
	RelationServes   = "serves"   // Route → Stop
	RelationServedBy = "servedBy" // Stop → Route, inverse of serves

	RelationHasTrip = "hasTrip" // Route → Trip
	RelationOnRoute = "onRoute" // Trip → Route, inverse of hasTrip

	RelationFromStop  = "fromStop"  // Transfer → Stop
	RelationToStop    = "toStop"    // Transfer → Stop
	RelationFromRoute = "fromRoute" // Transfer → Route
	RelationToRoute   = "toRoute"   // Transfer → Route
	RelationFromTrip  = "fromTrip"  // Transfer → Trip
	RelationToTrip    = "toTrip"    // Transfer → Trip

	RelationHasLevel      = "hasLevel"      // Stop → Level
	RelationParentStation = "parentStation" // Stop → Stop, functional

	RelationProvidesFare = "providesFare" // Agency → Fare
	RelationFareProvider = "fareProvider" // Fare → Agency, inverse of providesFare

	RelationConnectsElement = "connectsElement" // Pathway → Stop, broad parent
	RelationConnectsStop    = "connectsStop"    // Pathway → Stop, sub-relation of connectsElement
	RelationLinkedPathway   = "linkedPathway"   // Stop → Pathway, inverse of connectsStop

	RelationConnectedTo = "connectedTo" // Stop → Stop, transitive
)

// Attribute names.
const (
	AttrStopName     = "stopName"
	AttrStopLat      = "stopLat"
	AttrStopLon      = "stopLon"
	AttrLocationType = "locationType"

	AttrRouteType      = "routeType"
	AttrRouteShortName = "routeShortName"

	AttrTripHeadsign         = "tripHeadsign"
	AttrWheelchairAccessible = "wheelchairAccessible"

	AttrMinTransferTime = "minTransferTime"

	AttrPathwayMode     = "pathwayMode"
	AttrIsBidirectional = "isBidirectional"

	AttrLevelIndex = "levelIndex"
	AttrLevelName  = "levelName"

	AttrFarePrice        = "farePrice"
	AttrPaymentMethod    = "paymentMethod"
	AttrTransferDuration = "transferDuration"
)

// GTFS code values referenced by composite definitions.
const (
	// route_type codes
	RouteTypeTram  = 0
	RouteTypeMetro = 1
	RouteTypeBus   = 3

	// pathway_mode codes
	PathwayModeWalkway   = 1
	PathwayModeStairs    = 2
	PathwayModeEscalator = 4
	PathwayModeElevator  = 5
)

// DefaultFastTransferBound is the boundary, in seconds, between FastTransfer
// and SlowTransfer. The source material is ambiguous about the canonical
// value, so it is a parameter; this default matches the most common variant.
const DefaultFastTransferBound = 300

// Option is a functional option for configuring the transit schema.
type Option func(*options)

type options struct {
	fastTransferBound float64
}

// WithFastTransferBound overrides the FastTransfer/SlowTransfer boundary in
// seconds: FastTransfer ≤ bound < SlowTransfer.
func WithFastTransferBound(seconds float64) Option {
	return func(o *options) {
		o.fastTransferBound = seconds
	}
}

// NewRegistry builds the complete transit schema: base categories,
// relations with their functional/transitive/inverse/sub-relation markers,
// typed attributes, and the composite category definitions. Composites that
// reference other composites are declared innermost first.
func NewRegistry(opts ...Option) (*schema.Registry, error) {
	o := options{fastTransferBound: DefaultFastTransferBound}
	for _, opt := range opts {
		opt(&o)
	}

	reg := schema.NewRegistry()
	var err error

	category := func(name, parent string) {
		if err == nil {
			err = reg.DeclareCategory(name, parent)
		}
	}
	relation := func(name, domain, rng string, ropts ...schema.RelationOption) {
		if err == nil {
			err = reg.DeclareRelation(name, domain, rng, ropts...)
		}
	}
	attribute := func(name, domain string, typ schema.LiteralType) {
		if err == nil {
			err = reg.DeclareAttribute(name, domain, typ)
		}
	}
	composite := func(name string, f schema.Formula) {
		if err == nil {
			err = reg.DeclareComposite(name, f)
		}
	}

	category(CategoryStop, "")
	category(CategoryRoute, "")
	category(CategoryTrip, "")
	category(CategoryTransfer, "")
	category(CategoryPathway, "")
	category(CategoryLevel, "")
	category(CategoryFare, "")
	category(CategoryAgency, "")
	category(CategoryLongTrip, CategoryTrip)
	category(CategoryShortTrip, CategoryTrip)

	relation(RelationServes, CategoryRoute, CategoryStop)
	relation(RelationServedBy, CategoryStop, CategoryRoute, schema.InverseOf(RelationServes))
	relation(RelationHasTrip, CategoryRoute, CategoryTrip)
	relation(RelationOnRoute, CategoryTrip, CategoryRoute, schema.InverseOf(RelationHasTrip))
	relation(RelationFromStop, CategoryTransfer, CategoryStop)
	relation(RelationToStop, CategoryTransfer, CategoryStop)
	relation(RelationFromRoute, CategoryTransfer, CategoryRoute)
	relation(RelationToRoute, CategoryTransfer, CategoryRoute)
	relation(RelationFromTrip, CategoryTransfer, CategoryTrip)
	relation(RelationToTrip, CategoryTransfer, CategoryTrip)
	relation(RelationHasLevel, CategoryStop, CategoryLevel)
	relation(RelationParentStation, CategoryStop, CategoryStop, schema.Functional())
	relation(RelationProvidesFare, CategoryAgency, CategoryFare)
	relation(RelationFareProvider, CategoryFare, CategoryAgency, schema.InverseOf(RelationProvidesFare))
	relation(RelationConnectsElement, CategoryPathway, CategoryStop)
	relation(RelationConnectsStop, CategoryPathway, CategoryStop, schema.SubRelationOf(RelationConnectsElement))
	relation(RelationLinkedPathway, CategoryStop, CategoryPathway, schema.InverseOf(RelationConnectsStop))
	relation(RelationConnectedTo, CategoryStop, CategoryStop, schema.Transitive())

	attribute(AttrStopName, CategoryStop, schema.TypeString)
	attribute(AttrStopLat, CategoryStop, schema.TypeFloat)
	attribute(AttrStopLon, CategoryStop, schema.TypeFloat)
	attribute(AttrLocationType, CategoryStop, schema.TypeInt)
	attribute(AttrRouteType, CategoryRoute, schema.TypeInt)
	attribute(AttrRouteShortName, CategoryRoute, schema.TypeString)
	attribute(AttrTripHeadsign, CategoryTrip, schema.TypeString)
	attribute(AttrWheelchairAccessible, CategoryTrip, schema.TypeInt)
	attribute(AttrMinTransferTime, CategoryTransfer, schema.TypeInt)
	attribute(AttrPathwayMode, CategoryPathway, schema.TypeInt)
	attribute(AttrIsBidirectional, CategoryPathway, schema.TypeInt)
	attribute(AttrLevelIndex, CategoryLevel, schema.TypeFloat)
	attribute(AttrLevelName, CategoryLevel, schema.TypeString)
	attribute(AttrFarePrice, CategoryFare, schema.TypeFloat)
	attribute(AttrPaymentMethod, CategoryFare, schema.TypeInt)
	attribute(AttrTransferDuration, CategoryFare, schema.TypeInt)

	// Route specializations by type code.
	composite(CompositeMetroRoute, schema.ValueEquals{
		Category: CategoryRoute, Attribute: AttrRouteType, Value: schema.Int(RouteTypeMetro)})
	composite(CompositeTramRoute, schema.ValueEquals{
		Category: CategoryRoute, Attribute: AttrRouteType, Value: schema.Int(RouteTypeTram)})
	composite(CompositeBusRoute, schema.ValueEquals{
		Category: CategoryRoute, Attribute: AttrRouteType, Value: schema.Int(RouteTypeBus)})
	composite(CompositeMetroLine, schema.ValueEquals{
		Category: CategoryRoute, Attribute: AttrRouteType, Value: schema.Int(RouteTypeMetro)})

	// Pathway specializations by mode code.
	composite(CompositeElevatorPathway, schema.ValueEquals{
		Category: CategoryPathway, Attribute: AttrPathwayMode, Value: schema.Int(PathwayModeElevator)})
	composite(CompositeStairsPathway, schema.ValueEquals{
		Category: CategoryPathway, Attribute: AttrPathwayMode, Value: schema.Int(PathwayModeStairs)})
	composite(CompositeEscalatorPathway, schema.ValueEquals{
		Category: CategoryPathway, Attribute: AttrPathwayMode, Value: schema.Int(PathwayModeEscalator)})
	composite(CompositeWalkway, schema.ValueEquals{
		Category: CategoryPathway, Attribute: AttrPathwayMode, Value: schema.Int(PathwayModeWalkway)})

	// Stop classification. MetroStop/TramStop/BusStop reference the route
	// composites above, and SurfaceStop references those stop composites
	// in turn — two derivation levels for the fixed-point loop.
	composite(CompositeServedStop, schema.Exists{
		Category: CategoryStop, Relation: RelationServedBy, Target: CategoryRoute})
	composite(CompositeMetroOnlyStop, schema.Only{
		Category: CategoryStop, Relation: RelationServedBy, Target: CompositeMetroRoute})
	composite(CompositeMetroStop, schema.Exists{
		Category: CategoryStop, Relation: RelationServedBy, Target: CompositeMetroRoute})
	composite(CompositeTramStop, schema.Exists{
		Category: CategoryStop, Relation: RelationServedBy, Target: CompositeTramRoute})
	composite(CompositeBusStop, schema.Exists{
		Category: CategoryStop, Relation: RelationServedBy, Target: CompositeBusRoute})
	composite(CompositeSurfaceStop, schema.Union{
		Of: []string{CompositeBusStop, CompositeTramStop}})
	composite(CompositeAccessibleStop, schema.Exists{
		Category: CategoryStop, Relation: RelationLinkedPathway, Target: CompositeElevatorPathway})

	composite(CompositeWheelchairFriendlyTrip, schema.ValueEquals{
		Category: CategoryTrip, Attribute: AttrWheelchairAccessible, Value: schema.Int(1)})

	// The bound pair partitions the transfers that carry the attribute.
	composite(CompositeFastTransfer, schema.ValueAtMost{
		Category: CategoryTransfer, Attribute: AttrMinTransferTime, Bound: o.fastTransferBound})
	composite(CompositeSlowTransfer, schema.ValueAbove{
		Category: CategoryTransfer, Attribute: AttrMinTransferTime, Bound: o.fastTransferBound})

	if err != nil {
		return nil, err
	}
	return reg, nil
}
