package vocabulary

import (
	"fmt"
	"strings"
)

// DefaultBaseIRI is the default ontology namespace. Configurable because
// federated deployments publish under their own authority.
const DefaultBaseIRI = "https://semtransit.c360.io/transport"

// CategoryIRI converts a category name to an IRI for RDF export.
//
// Input format: PascalCase category name (e.g. "MetroOnlyStop")
// Output format: "<base>#MetroOnlyStop"
//
// This function is intended for RDF export at API boundaries only.
// Internal code should always use the plain category names.
//
// Returns empty string for invalid input.
func CategoryIRI(base, name string) string {
	base = strings.TrimSpace(base)
	name = strings.TrimSpace(name)
	if base == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("%s#%s", base, name)
}

// RelationIRI converts a relation name to an IRI for RDF export.
//
// Example: RelationIRI(DefaultBaseIRI, "servedBy") ==
// "https://semtransit.c360.io/transport#servedBy"
//
// Returns empty string for invalid input.
func RelationIRI(base, name string) string {
	base = strings.TrimSpace(base)
	name = strings.TrimSpace(name)
	if base == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("%s#%s", base, name)
}

// AttributeIRI converts an attribute name to an IRI for RDF export.
//
// Returns empty string for invalid input.
func AttributeIRI(base, name string) string {
	return RelationIRI(base, name)
}

// IndividualIRI generates the IRI for a specific individual for RDF export.
//
// Input is the individual's stable store key (e.g. "stop_1324").
// Output format: "<base>/entities/stop_1324"
//
// Returns empty string for invalid input.
func IndividualIRI(base, id string) string {
	base = strings.TrimSpace(base)
	id = strings.TrimSpace(id)
	if base == "" || id == "" {
		return ""
	}
	return fmt.Sprintf("%s/entities/%s", base, id)
}
