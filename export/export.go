// Package export serializes the closed knowledge base as RDF quads.
//
// The output carries both levels of the knowledge base: the schema
// (categories as OWL classes, relations as object properties with their
// functional/transitive/inverse/sub-property axioms, attributes as datatype
// properties) and the individuals (memberships as rdf:type, attribute values
// as typed literals, edges as IRI-predicate triples). Composite categories
// are exported as plain classes whose definition is attached as an
// rdfs:label; the formula vocabulary has no lossless OWL rendering without
// class expressions, which the writer does not model.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/c360/semtransit/errors"
	"github.com/c360/semtransit/graph"
	"github.com/c360/semtransit/schema"
	"github.com/c360/semtransit/vocabulary"
)

// The voc constants are prefixed CURIEs; Full expands them against the
// registered namespaces so the N-Quads output carries absolute IRIs.
var (
	rdfType         = quad.IRI(rdf.Type).Full()
	rdfsSubClassOf  = quad.IRI(rdfs.SubClassOf).Full()
	rdfsSubProperty = quad.IRI(rdfs.SubPropertyOf).Full()
	rdfsLabel       = quad.IRI(rdfs.Label).Full()
	rdfsDomain      = quad.IRI(rdfs.Domain).Full()
	rdfsRange       = quad.IRI(rdfs.Range).Full()
)

// Quads renders the store and its schema as a flat quad list, schema first,
// then individuals in insertion order. Deterministic output: declaration
// order for the schema, store order for individuals.
func Quads(store *graph.Store, base string) []quad.Quad {
	var out []quad.Quad
	reg := store.Registry()

	add := func(s string, p quad.IRI, o quad.Value) {
		out = append(out, quad.Quad{
			Subject:   quad.IRI(s),
			Predicate: p,
			Object:    o,
		})
	}

	for _, cat := range reg.Categories() {
		iri := vocabulary.CategoryIRI(base, cat.Name)
		add(iri, rdfType, quad.IRI(vocabulary.OwlClass))
		if cat.Parent != "" {
			add(iri, rdfsSubClassOf, quad.IRI(vocabulary.CategoryIRI(base, cat.Parent)))
		}
	}

	for _, comp := range reg.Composites() {
		iri := vocabulary.CategoryIRI(base, comp.Name)
		add(iri, rdfType, quad.IRI(vocabulary.OwlClass))
		add(iri, rdfsLabel, quad.String(comp.Formula.String()))
	}

	for _, rel := range reg.Relations() {
		iri := vocabulary.RelationIRI(base, rel.Name)
		add(iri, rdfType, quad.IRI(vocabulary.OwlObjectProperty))
		add(iri, rdfsDomain, quad.IRI(vocabulary.CategoryIRI(base, rel.Domain)))
		add(iri, rdfsRange, quad.IRI(vocabulary.CategoryIRI(base, rel.Range)))
		if rel.Functional {
			add(iri, rdfType, quad.IRI(vocabulary.OwlFunctionalProperty))
		}
		if rel.Transitive {
			add(iri, rdfType, quad.IRI(vocabulary.OwlTransitiveProperty))
		}
		if rel.InverseOf != "" {
			add(iri, quad.IRI(vocabulary.OwlInverseOf), quad.IRI(vocabulary.RelationIRI(base, rel.InverseOf)))
		}
		if rel.SubRelationOf != "" {
			add(iri, rdfsSubProperty, quad.IRI(vocabulary.RelationIRI(base, rel.SubRelationOf)))
		}
	}

	for _, attr := range reg.Attributes() {
		iri := vocabulary.AttributeIRI(base, attr.Name)
		add(iri, rdfType, quad.IRI(vocabulary.OwlDatatypeProperty))
		add(iri, rdfsDomain, quad.IRI(vocabulary.CategoryIRI(base, attr.Domain)))
	}

	for _, ind := range store.Individuals() {
		iri := vocabulary.IndividualIRI(base, ind.ID)
		for _, cat := range ind.Memberships() {
			add(iri, rdfType, quad.IRI(vocabulary.CategoryIRI(base, cat)))
		}
		for _, attr := range reg.Attributes() {
			v, ok := ind.Attribute(attr.Name)
			if !ok {
				continue
			}
			add(iri, quad.IRI(vocabulary.AttributeIRI(base, attr.Name)), literal(v))
		}
	}

	store.EachEdge(func(src, relation, dst string) {
		add(vocabulary.IndividualIRI(base, src),
			quad.IRI(vocabulary.RelationIRI(base, relation)),
			quad.IRI(vocabulary.IndividualIRI(base, dst)))
	})

	return out
}

// literal converts a tagged attribute value to its typed RDF literal.
func literal(v schema.Literal) quad.Value {
	switch v.Type {
	case schema.TypeInt:
		return quad.Int(v.Int)
	case schema.TypeFloat:
		return quad.Float(v.Float)
	default:
		return quad.String(v.Str)
	}
}

// Write streams quads as N-Quads.
func Write(w io.Writer, quads []quad.Quad) error {
	qw := nquads.NewWriter(w)
	for _, q := range quads {
		if err := qw.WriteQuad(q); err != nil {
			return errors.Wrap(err, "export", "Write", "write quad")
		}
	}
	if err := qw.Close(); err != nil {
		return errors.Wrap(err, "export", "Write", "flush output")
	}
	return nil
}

// WriteFile serializes the store to path as N-Quads.
func WriteFile(path string, store *graph.Store, base string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(fmt.Errorf("output %s: %w", path, err),
			"export", "WriteFile", "create output")
	}
	defer f.Close()

	if err := Write(f, Quads(store, base)); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "export", "WriteFile", "close output")
	}
	return nil
}
