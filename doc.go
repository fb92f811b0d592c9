// Package semtransit builds a typed knowledge base from GTFS-style transit
// tables and classifies it.
//
// # Architecture
//
// The pipeline is a single-shot batch run with four stages:
//
//	┌─────────────────────────────────────┐
//	│          Ingestion                  │  CSV tables → individuals,
//	│  (ingest, per-table row caps)       │  attributes, relation edges
//	└─────────────────────────────────────┘
//	           ↓ populates
//	┌─────────────────────────────────────┐
//	│        Individual Store             │  entities, typed literals,
//	│  (graph, schema-checked adjacency)  │  inverse-mirrored edges
//	└─────────────────────────────────────┘
//	           ↓ consumed by
//	┌─────────────────────────────────────┐
//	│      Classification Engine          │  relation closure + composite
//	│  (classify, fixed-point passes)     │  membership + consistency check
//	└─────────────────────────────────────┘
//	           ↓ serialized by
//	┌─────────────────────────────────────┐
//	│           Export                    │  rdf:type / literal / edge quads
//	│  (export, N-Quads via quad)         │  written to disk
//	└─────────────────────────────────────┘
//
// The schema package declares the static vocabulary: base categories in a
// single-parent tree, relations with functional/transitive/inverse/sub-relation
// markers, typed functional attributes, and composite categories defined as
// equivalence formulas (union, value restriction, value bound, existential,
// universal). The vocabulary package holds the concrete transit ontology and
// the IRI mappings used at the export boundary.
//
// Classification treats the store as an immutable snapshot: it mutates edges
// and membership in place, but no rows are ingested once a run starts and no
// incremental re-classification exists. Ingestion tolerates sampled input —
// foreign keys pointing outside the loaded sample drop the edge, never the row.
//
// # Package Layout
//
//   - schema: category/relation/attribute registry, composite formulas
//   - graph: individuals, attribute values, relation adjacency
//   - classify: relation closure, fixed-point evaluation, consistency check
//   - ingest: CSV loading, coercion, edge assembly
//   - vocabulary: transit ontology content and IRI constants
//   - export: RDF quad serialization
//   - config, errors, metric: run configuration, error classification, metrics
package semtransit
