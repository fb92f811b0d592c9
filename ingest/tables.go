package ingest

// Table names the source tables of a transit feed.
type Table string

// Known feed tables.
const (
	TableStops     Table = "stops"
	TableRoutes    Table = "routes"
	TableTrips     Table = "trips"
	TableTransfers Table = "transfers"
	TablePathways  Table = "pathways"
	TableLevels    Table = "levels"
	TableFares     Table = "fares"
)

// Row structs are decoded straight from the feed CSVs. Every field is a
// string: the feeds are hand-maintained and numeric columns routinely carry
// blanks or stray text, so coercion is deferred to the loader where a failed
// parse leaves the attribute unset instead of failing the row.

// StopRow is one row of stops.csv.
type StopRow struct {
	StopID        string `csv:"stop_id"`
	StopName      string `csv:"stop_name"`
	StopLat       string `csv:"stop_lat"`
	StopLon       string `csv:"stop_lon"`
	LocationType  string `csv:"location_type"`
	LevelID       string `csv:"level_id"`
	ParentStation string `csv:"parent_station"`
}

// RouteRow is one row of routes.csv.
type RouteRow struct {
	RouteID        string `csv:"route_id"`
	AgencyID       string `csv:"agency_id"`
	RouteShortName string `csv:"route_short_name"`
	RouteType      string `csv:"route_type"`
}

// TripRow is one row of trips.csv.
type TripRow struct {
	TripID               string `csv:"trip_id"`
	RouteID              string `csv:"route_id"`
	TripHeadsign         string `csv:"trip_headsign"`
	WheelchairAccessible string `csv:"wheelchair_accessible"`
}

// TransferRow is one row of transfers.csv.
type TransferRow struct {
	FromStopID      string `csv:"from_stop_id"`
	ToStopID        string `csv:"to_stop_id"`
	FromRouteID     string `csv:"from_route_id"`
	ToRouteID       string `csv:"to_route_id"`
	FromTripID      string `csv:"from_trip_id"`
	ToTripID        string `csv:"to_trip_id"`
	MinTransferTime string `csv:"min_transfer_time"`
}

// PathwayRow is one row of pathways.csv.
type PathwayRow struct {
	PathwayID       string `csv:"pathway_id"`
	FromStopID      string `csv:"from_stop_id"`
	ToStopID        string `csv:"to_stop_id"`
	PathwayMode     string `csv:"pathway_mode"`
	IsBidirectional string `csv:"is_bidirectional"`
}

// LevelRow is one row of levels.csv.
type LevelRow struct {
	LevelID    string `csv:"level_id"`
	LevelIndex string `csv:"level_index"`
	LevelName  string `csv:"level_name"`
}

// FareRow is one row of fare_attributes.csv.
type FareRow struct {
	FareID           string `csv:"fare_id"`
	Price            string `csv:"price"`
	PaymentMethod    string `csv:"payment_method"`
	TransferDuration string `csv:"transfer_duration"`
	AgencyID         string `csv:"agency_id"`
}
