package vocabulary

// OWL (Web Ontology Language) Standard IRIs
//
// These constants provide the W3C OWL IRIs used when the closed knowledge
// base is exported as RDF; the RDF/RDFS terms come from the quad voc
// packages. Internal code always uses the plain schema names from
// transit.go; IRIs appear only at the export boundary.
//
// Reference: https://www.w3.org/TR/owl2-overview/
const (
	// OwlClass types a resource as an OWL class.
	OwlClass = "http://www.w3.org/2002/07/owl#Class"

	// OwlObjectProperty types a relation between individuals.
	OwlObjectProperty = "http://www.w3.org/2002/07/owl#ObjectProperty"

	// OwlDatatypeProperty types a data-valued attribute.
	OwlDatatypeProperty = "http://www.w3.org/2002/07/owl#DatatypeProperty"

	// OwlFunctionalProperty marks a property as holding at most one value
	// per subject.
	OwlFunctionalProperty = "http://www.w3.org/2002/07/owl#FunctionalProperty"

	// OwlTransitiveProperty marks a property as closed under composition.
	OwlTransitiveProperty = "http://www.w3.org/2002/07/owl#TransitiveProperty"

	// OwlInverseOf pairs a property with its inverse.
	OwlInverseOf = "http://www.w3.org/2002/07/owl#inverseOf"

	// OwlEquivalentClass links a composite category to its definition.
	OwlEquivalentClass = "http://www.w3.org/2002/07/owl#equivalentClass"
)
