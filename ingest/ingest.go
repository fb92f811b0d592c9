// Package ingest loads GTFS-style CSV tables into the individual store.
//
// Loading is deliberately lenient: feeds are hand-maintained and partial.
// Rows without a primary key are skipped, numeric values that fail to parse
// leave the attribute unset, and foreign keys whose target was not loaded
// (sampling caps, truncated feeds) are dropped without failing the row. Only
// structural problems — an unreadable file, a malformed CSV — abort a load.
package ingest

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/metric"
	"github.com/c360/semtransit/schema"
	"github.com/c360/semtransit/vocabulary"
)

// Source locates one feed table. A zero MaxRows loads the whole table; an
// empty Path skips it.
type Source struct {
	Path    string `json:"path"`
	MaxRows int    `json:"max_rows"`
}

// Sources locates the feed tables of one load. Any table may be absent.
type Sources struct {
	Stops     Source `json:"stops"`
	Routes    Source `json:"routes"`
	Trips     Source `json:"trips"`
	Transfers Source `json:"transfers"`
	Pathways  Source `json:"pathways"`
	Levels    Source `json:"levels"`
	Fares     Source `json:"fares"`
}

// Summary reports how many individuals one load produced per category.
type Summary struct {
	Levels    int `json:"levels"`
	Stops     int `json:"stops"`
	Routes    int `json:"routes"`
	Agencies  int `json:"agencies"`
	Trips     int `json:"trips"`
	Transfers int `json:"transfers"`
	Pathways  int `json:"pathways"`
	Fares     int `json:"fares"`
}

// Loader populates an individual store from feed tables.
type Loader struct {
	store   *graph.Store
	log     *slog.Logger
	metrics *metric.Metrics
}

// Option is a functional option for configuring the loader.
type Option func(*Loader)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// WithMetrics sets the metrics sink. Defaults to a private, unregistered
// metrics instance.
func WithMetrics(m *metric.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// NewLoader creates a loader over the given store. The store's registry must
// carry the transit vocabulary.
func NewLoader(store *graph.Store, opts ...Option) *Loader {
	l := &Loader{
		store:   store,
		log:     slog.Default(),
		metrics: metric.NewMetrics(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every configured table and assembles individuals, attributes,
// and edges. Tables load in dependency order so foreign keys can resolve
// against what is already in the store: levels before stops, stops and routes
// before trips, transfers, and pathways.
func (l *Loader) Load(src Sources) (*Summary, error) {
	sum := &Summary{}

	if err := l.loadLevels(src.Levels, sum); err != nil {
		return nil, err
	}
	if err := l.loadStops(src.Stops, sum); err != nil {
		return nil, err
	}
	if err := l.loadRoutes(src.Routes, sum); err != nil {
		return nil, err
	}
	if err := l.loadTrips(src.Trips, sum); err != nil {
		return nil, err
	}
	if err := l.loadTransfers(src.Transfers, sum); err != nil {
		return nil, err
	}
	if err := l.loadPathways(src.Pathways, sum); err != nil {
		return nil, err
	}
	if err := l.loadFares(src.Fares, sum); err != nil {
		return nil, err
	}

	l.log.Info("feed loaded",
		"stops", sum.Stops, "routes", sum.Routes, "trips", sum.Trips,
		"transfers", sum.Transfers, "pathways", sum.Pathways,
		"levels", sum.Levels, "fares", sum.Fares, "agencies", sum.Agencies)
	return sum, nil
}

func (l *Loader) loadLevels(src Source, sum *Summary) error {
	rows, err := readRows[LevelRow](TableLevels, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		lid := clean(row.LevelID)
		if lid == "" {
			l.skip(TableLevels, "missing_key")
			continue
		}
		id, err := l.ensure(vocabulary.CategoryLevel, lid)
		if err != nil {
			return err
		}
		sum.Levels++
		l.metrics.RowsIngested.WithLabelValues(string(TableLevels)).Inc()

		l.setFloat(id, vocabulary.AttrLevelIndex, row.LevelIndex)
		l.setString(id, vocabulary.AttrLevelName, row.LevelName)
	}
	return nil
}

func (l *Loader) loadStops(src Source, sum *Summary) error {
	rows, err := readRows[StopRow](TableStops, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		sid := clean(row.StopID)
		if sid == "" {
			l.skip(TableStops, "missing_key")
			continue
		}
		id, err := l.ensure(vocabulary.CategoryStop, sid)
		if err != nil {
			return err
		}
		sum.Stops++
		l.metrics.RowsIngested.WithLabelValues(string(TableStops)).Inc()

		l.setString(id, vocabulary.AttrStopName, row.StopName)
		l.setFloat(id, vocabulary.AttrStopLat, row.StopLat)
		l.setFloat(id, vocabulary.AttrStopLon, row.StopLon)
		l.setInt(id, vocabulary.AttrLocationType, row.LocationType)

		if lid := clean(row.LevelID); lid != "" {
			if level, ok := l.loaded(vocabulary.CategoryLevel, lid); ok {
				if err := l.edge(id, vocabulary.RelationHasLevel, level); err != nil {
					return err
				}
			} else {
				l.drop(TableStops, "level_id", lid)
			}
		}

		// Parent links resolve only within the loaded sample; feeds list
		// stations after their children often enough that this is lossy by
		// nature, not an error.
		if parent := clean(row.ParentStation); parent != "" {
			if parentID, ok := l.loaded(vocabulary.CategoryStop, parent); ok {
				if err := l.edge(id, vocabulary.RelationParentStation, parentID); err != nil {
					return err
				}
			} else {
				l.drop(TableStops, "parent_station", parent)
			}
		}
	}
	return nil
}

func (l *Loader) loadRoutes(src Source, sum *Summary) error {
	rows, err := readRows[RouteRow](TableRoutes, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		rid := clean(row.RouteID)
		if rid == "" {
			l.skip(TableRoutes, "missing_key")
			continue
		}
		id, err := l.ensure(vocabulary.CategoryRoute, rid)
		if err != nil {
			return err
		}
		sum.Routes++
		l.metrics.RowsIngested.WithLabelValues(string(TableRoutes)).Inc()

		l.setString(id, vocabulary.AttrRouteShortName, row.RouteShortName)
		l.setInt(id, vocabulary.AttrRouteType, row.RouteType)

		if aid := clean(row.AgencyID); aid != "" {
			if _, err := l.ensureAgency(aid, sum); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) loadTrips(src Source, sum *Summary) error {
	rows, err := readRows[TripRow](TableTrips, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		tid := clean(row.TripID)
		if tid == "" {
			l.skip(TableTrips, "missing_key")
			continue
		}
		route, ok := l.loaded(vocabulary.CategoryRoute, clean(row.RouteID))
		if !ok {
			l.skip(TableTrips, "missing_route")
			continue
		}

		id, err := l.ensure(vocabulary.CategoryTrip, tid)
		if err != nil {
			return err
		}
		sum.Trips++
		l.metrics.RowsIngested.WithLabelValues(string(TableTrips)).Inc()

		if err := l.edge(id, vocabulary.RelationOnRoute, route); err != nil {
			return err
		}
		l.setString(id, vocabulary.AttrTripHeadsign, row.TripHeadsign)
		l.setInt(id, vocabulary.AttrWheelchairAccessible, row.WheelchairAccessible)
	}
	return nil
}

func (l *Loader) loadTransfers(src Source, sum *Summary) error {
	rows, err := readRows[TransferRow](TableTransfers, src)
	if err != nil {
		return err
	}
	for i, row := range rows {
		fs := clean(row.FromStopID)
		ts := clean(row.ToStopID)
		if fs == "" || ts == "" {
			l.skip(TableTransfers, "missing_key")
			continue
		}
		from, okFrom := l.loaded(vocabulary.CategoryStop, fs)
		to, okTo := l.loaded(vocabulary.CategoryStop, ts)
		if !okFrom || !okTo {
			l.skip(TableTransfers, "missing_stop")
			continue
		}

		// Transfers carry no feed key; the row index disambiguates repeated
		// stop pairs.
		id, err := l.ensure(vocabulary.CategoryTransfer, fmt.Sprintf("%s_%s_%d", fs, ts, i))
		if err != nil {
			return err
		}
		sum.Transfers++
		l.metrics.RowsIngested.WithLabelValues(string(TableTransfers)).Inc()

		if err := l.edge(id, vocabulary.RelationFromStop, from); err != nil {
			return err
		}
		if err := l.edge(id, vocabulary.RelationToStop, to); err != nil {
			return err
		}
		l.setInt(id, vocabulary.AttrMinTransferTime, row.MinTransferTime)

		// Route and trip references are weak signals; when they resolve they
		// also imply service at the involved stop.
		if fr, ok := l.resolveRef(TableTransfers, vocabulary.CategoryRoute, row.FromRouteID); ok {
			if err := l.edge(id, vocabulary.RelationFromRoute, fr); err != nil {
				return err
			}
			if err := l.edge(fr, vocabulary.RelationServes, from); err != nil {
				return err
			}
		}
		if tr, ok := l.resolveRef(TableTransfers, vocabulary.CategoryRoute, row.ToRouteID); ok {
			if err := l.edge(id, vocabulary.RelationToRoute, tr); err != nil {
				return err
			}
			if err := l.edge(tr, vocabulary.RelationServes, to); err != nil {
				return err
			}
		}
		if ft, ok := l.resolveRef(TableTransfers, vocabulary.CategoryTrip, row.FromTripID); ok {
			if err := l.edge(id, vocabulary.RelationFromTrip, ft); err != nil {
				return err
			}
		}
		if tt, ok := l.resolveRef(TableTransfers, vocabulary.CategoryTrip, row.ToTripID); ok {
			if err := l.edge(id, vocabulary.RelationToTrip, tt); err != nil {
				return err
			}
		}

		if err := l.edge(from, vocabulary.RelationConnectedTo, to); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadPathways(src Source, sum *Summary) error {
	rows, err := readRows[PathwayRow](TablePathways, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		pid := clean(row.PathwayID)
		fs := clean(row.FromStopID)
		ts := clean(row.ToStopID)
		if pid == "" || fs == "" || ts == "" {
			l.skip(TablePathways, "missing_key")
			continue
		}
		from, okFrom := l.loaded(vocabulary.CategoryStop, fs)
		to, okTo := l.loaded(vocabulary.CategoryStop, ts)
		if !okFrom || !okTo {
			l.skip(TablePathways, "missing_stop")
			continue
		}

		id, err := l.ensure(vocabulary.CategoryPathway, pid)
		if err != nil {
			return err
		}
		sum.Pathways++
		l.metrics.RowsIngested.WithLabelValues(string(TablePathways)).Inc()

		if err := l.edge(id, vocabulary.RelationConnectsStop, from); err != nil {
			return err
		}
		if err := l.edge(id, vocabulary.RelationConnectsStop, to); err != nil {
			return err
		}
		l.setInt(id, vocabulary.AttrPathwayMode, row.PathwayMode)
		l.setInt(id, vocabulary.AttrIsBidirectional, row.IsBidirectional)

		if err := l.edge(from, vocabulary.RelationConnectedTo, to); err != nil {
			return err
		}
		if bi, ok := safeInt(row.IsBidirectional); ok && bi == 1 {
			if err := l.edge(to, vocabulary.RelationConnectedTo, from); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loader) loadFares(src Source, sum *Summary) error {
	rows, err := readRows[FareRow](TableFares, src)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fid := clean(row.FareID)
		if fid == "" {
			l.skip(TableFares, "missing_key")
			continue
		}
		id, err := l.ensure(vocabulary.CategoryFare, fid)
		if err != nil {
			return err
		}
		sum.Fares++
		l.metrics.RowsIngested.WithLabelValues(string(TableFares)).Inc()

		l.setFloat(id, vocabulary.AttrFarePrice, row.Price)
		l.setInt(id, vocabulary.AttrPaymentMethod, row.PaymentMethod)
		l.setInt(id, vocabulary.AttrTransferDuration, row.TransferDuration)

		if aid := clean(row.AgencyID); aid != "" {
			agency, err := l.ensureAgency(aid, sum)
			if err != nil {
				return err
			}
			if err := l.edge(agency, vocabulary.RelationProvidesFare, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// readRows decodes one table. An empty path skips the table; MaxRows > 0
// truncates after decode, matching head-of-table sampling.
func readRows[T any](table Table, src Source) ([]*T, error) {
	if src.Path == "" {
		return nil, nil
	}
	f, err := os.Open(src.Path)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("table %s: %w", table, err),
			"ingest", "readRows", "open table")
	}
	defer f.Close()

	var rows []*T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("table %s: %w", table, err),
			"ingest", "readRows", "decode table")
	}
	if src.MaxRows > 0 && len(rows) > src.MaxRows {
		rows = rows[:src.MaxRows]
	}
	return rows, nil
}

func (l *Loader) ensure(category, sourceID string) (string, error) {
	ind, _, err := l.store.Ensure(category, sourceID)
	if err != nil {
		return "", err
	}
	return ind.ID, nil
}

// ensureAgency creates agencies on first reference; agency rows are not a
// loaded table, the id appears only on routes and fares.
func (l *Loader) ensureAgency(sourceID string, sum *Summary) (string, error) {
	ind, created, err := l.store.Ensure(vocabulary.CategoryAgency, sourceID)
	if err != nil {
		return "", err
	}
	if created {
		sum.Agencies++
	}
	return ind.ID, nil
}

// loaded reports whether the individual for (category, sourceID) exists.
func (l *Loader) loaded(category, sourceID string) (string, bool) {
	if sourceID == "" {
		return "", false
	}
	id := graph.KeyFor(category, sourceID)
	_, ok := l.store.Get(id)
	return id, ok
}

// resolveRef resolves an optional foreign key, counting the drop when the
// target is absent from the loaded sample.
func (l *Loader) resolveRef(table Table, category, raw string) (string, bool) {
	ref := clean(raw)
	if ref == "" {
		return "", false
	}
	id, ok := l.loaded(category, ref)
	if !ok {
		l.drop(table, strings.ToLower(category)+"_id", ref)
		return "", false
	}
	return id, true
}

func (l *Loader) edge(src, relation, dst string) error {
	added, err := l.store.AddEdge(src, relation, dst)
	if err != nil {
		return err
	}
	if added {
		l.metrics.EdgesAsserted.WithLabelValues(relation).Inc()
	}
	return nil
}

func (l *Loader) skip(table Table, reason string) {
	l.metrics.RowsSkipped.WithLabelValues(string(table), reason).Inc()
	l.log.Debug("row skipped", "table", table, "reason", reason)
}

func (l *Loader) drop(table Table, field, ref string) {
	l.metrics.DroppedReferences.WithLabelValues(string(table)).Inc()
	l.log.Debug("dangling reference dropped", "table", table, "field", field, "ref", ref)
}

func (l *Loader) setString(id, attr, raw string) {
	v := clean(raw)
	if v == "" {
		return
	}
	if err := l.store.SetAttribute(id, attr, schema.String(v)); err != nil {
		l.coercionFailure(id, attr, raw, err)
	}
}

func (l *Loader) setInt(id, attr, raw string) {
	if clean(raw) == "" {
		return
	}
	v, ok := safeInt(raw)
	if !ok {
		l.coercionFailure(id, attr, raw, errors.ErrCoercionFailed)
		return
	}
	if err := l.store.SetAttribute(id, attr, schema.Int(v)); err != nil {
		l.coercionFailure(id, attr, raw, err)
	}
}

func (l *Loader) setFloat(id, attr, raw string) {
	if clean(raw) == "" {
		return
	}
	v, ok := safeFloat(raw)
	if !ok {
		l.coercionFailure(id, attr, raw, errors.ErrCoercionFailed)
		return
	}
	if err := l.store.SetAttribute(id, attr, schema.Float(v)); err != nil {
		l.coercionFailure(id, attr, raw, err)
	}
}

func (l *Loader) coercionFailure(id, attr, raw string, err error) {
	l.metrics.CoercionFailures.WithLabelValues(attr).Inc()
	l.log.Debug("attribute left unset", "individual", id, "attribute", attr,
		"value", raw, "error", err)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

// safeInt parses an integer, accepting the "1.0"-style values feeds produce
// when a spreadsheet round-trips an integer column through floats.
func safeInt(raw string) (int64, bool) {
	s := clean(raw)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func safeFloat(raw string) (float64, bool) {
	s := clean(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
