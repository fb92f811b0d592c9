// Package schema declares the static vocabulary of the knowledge base:
// categories, relations, attributes, and composite category definitions.
//
// A Registry is an explicit value constructed once and passed to ingestion
// and classification. Declarations are validated eagerly: a relation whose
// domain, range, or inverse is incoherent is rejected at declaration time,
// before any individual is processed.
package schema

import (
	"fmt"

	"github.com/c360/semtransit/errors"
)

// LiteralType identifies the declared type of an attribute value.
type LiteralType string

const (
	// TypeString is a plain string literal.
	TypeString LiteralType = "string"
	// TypeInt is a signed integer literal.
	TypeInt LiteralType = "integer"
	// TypeFloat is a real-number literal.
	TypeFloat LiteralType = "real"
)

// IsValid checks if the LiteralType is one of the defined constants.
func (lt LiteralType) IsValid() bool {
	switch lt {
	case TypeString, TypeInt, TypeFloat:
		return true
	default:
		return false
	}
}

// Category is a named class of entity. Categories form a single-parent tree
// of specializations; Parent is empty for roots.
type Category struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
}

// Relation is a named, directed association between two categories.
type Relation struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Range  string `json:"range"`

	// Functional relations hold at most one target per source; a second
	// assignment overwrites the first.
	Functional bool `json:"functional,omitempty"`

	// Transitive relations are closed under composition by the
	// classification engine.
	Transitive bool `json:"transitive,omitempty"`

	// InverseOf names the paired relation: every edge of this relation
	// implies the mirrored edge of the inverse, and vice versa.
	InverseOf string `json:"inverse_of,omitempty"`

	// SubRelationOf names a broader relation under which every edge of
	// this relation is also visible.
	SubRelationOf string `json:"sub_relation_of,omitempty"`
}

// Attribute is a named, functional, typed mapping from an entity to a
// literal value. At most one value per entity.
type Attribute struct {
	Name   string      `json:"name"`
	Domain string      `json:"domain"`
	Type   LiteralType `json:"type"`
}

// Composite is a derived category whose membership is logically equivalent
// to its formula: an individual belongs IF AND ONLY IF the formula holds.
type Composite struct {
	Name    string  `json:"name"`
	Formula Formula `json:"formula"`
}

// Registry holds the declared schema. It is purely structural: the only
// behavior is declaration-time validation.
type Registry struct {
	categories map[string]Category
	relations  map[string]Relation
	attributes map[string]Attribute
	composites map[string]Composite

	// Declaration order, kept for deterministic iteration.
	categoryOrder  []string
	relationOrder  []string
	attributeOrder []string
	compositeOrder []string
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		categories: make(map[string]Category),
		relations:  make(map[string]Relation),
		attributes: make(map[string]Attribute),
		composites: make(map[string]Composite),
	}
}

// RelationOption is a functional option for configuring a relation declaration.
type RelationOption func(*Relation)

// Functional marks the relation as holding at most one target per source.
func Functional() RelationOption {
	return func(r *Relation) {
		r.Functional = true
	}
}

// Transitive marks the relation as closed under composition.
func Transitive() RelationOption {
	return func(r *Relation) {
		r.Transitive = true
	}
}

// InverseOf pairs the relation with a previously declared inverse. The
// inverse's domain and range must be the swapped domain/range of the
// declaring relation.
func InverseOf(name string) RelationOption {
	return func(r *Relation) {
		r.InverseOf = name
	}
}

// SubRelationOf declares the relation a specialization of a broader,
// previously declared relation.
func SubRelationOf(name string) RelationOption {
	return func(r *Relation) {
		r.SubRelationOf = name
	}
}

// DeclareCategory declares a category. parent may be empty for a root
// category, otherwise it must reference an already-declared category.
func (r *Registry) DeclareCategory(name, parent string) error {
	if name == "" {
		return errors.WrapFatal(fmt.Errorf("category name is empty: %w", errors.ErrInvalidConfig),
			"schema", "DeclareCategory", "validate name")
	}
	if r.isKnownCategory(name) {
		return errors.WrapFatal(fmt.Errorf("category %q: %w", name, errors.ErrDuplicateDeclaration),
			"schema", "DeclareCategory", "register category")
	}
	if parent != "" && !r.isKnownCategory(parent) {
		return errors.WrapFatal(fmt.Errorf("parent %q of category %q: %w", parent, name, errors.ErrUnknownCategory),
			"schema", "DeclareCategory", "resolve parent")
	}

	r.categories[name] = Category{Name: name, Parent: parent}
	r.categoryOrder = append(r.categoryOrder, name)
	return nil
}

// DeclareRelation declares a relation from domain to range. Both must
// reference already-declared categories. Inverse and sub-relation references
// are validated eagerly; a mismatched inverse is a schema error here, not a
// latent inconsistency discovered during classification.
func (r *Registry) DeclareRelation(name, domain, rng string, opts ...RelationOption) error {
	if name == "" {
		return errors.WrapFatal(fmt.Errorf("relation name is empty: %w", errors.ErrInvalidConfig),
			"schema", "DeclareRelation", "validate name")
	}
	if _, dup := r.relations[name]; dup {
		return errors.WrapFatal(fmt.Errorf("relation %q: %w", name, errors.ErrDuplicateDeclaration),
			"schema", "DeclareRelation", "register relation")
	}
	if !r.isKnownCategory(domain) {
		return errors.WrapFatal(fmt.Errorf("domain %q of relation %q: %w", domain, name, errors.ErrUnknownCategory),
			"schema", "DeclareRelation", "resolve domain")
	}
	if !r.isKnownCategory(rng) {
		return errors.WrapFatal(fmt.Errorf("range %q of relation %q: %w", rng, name, errors.ErrUnknownCategory),
			"schema", "DeclareRelation", "resolve range")
	}

	rel := Relation{Name: name, Domain: domain, Range: rng}
	for _, opt := range opts {
		opt(&rel)
	}

	if rel.InverseOf != "" {
		inv, ok := r.relations[rel.InverseOf]
		if !ok {
			return errors.WrapFatal(fmt.Errorf("inverse %q of relation %q: %w", rel.InverseOf, name, errors.ErrUnknownRelation),
				"schema", "DeclareRelation", "resolve inverse")
		}
		if inv.Domain != rel.Range || inv.Range != rel.Domain {
			return errors.WrapFatal(
				fmt.Errorf("relation %q (%s→%s) vs inverse %q (%s→%s): %w",
					name, rel.Domain, rel.Range, inv.Name, inv.Domain, inv.Range, errors.ErrInverseMismatch),
				"schema", "DeclareRelation", "validate inverse")
		}
		if inv.InverseOf != "" && inv.InverseOf != name {
			return errors.WrapFatal(
				fmt.Errorf("relation %q already paired with %q: %w", inv.Name, inv.InverseOf, errors.ErrInverseMismatch),
				"schema", "DeclareRelation", "validate inverse")
		}
		// Record the pairing on both sides.
		inv.InverseOf = name
		r.relations[inv.Name] = inv
	}

	if rel.SubRelationOf != "" {
		parent, ok := r.relations[rel.SubRelationOf]
		if !ok {
			return errors.WrapFatal(
				fmt.Errorf("parent relation %q of %q: %w", rel.SubRelationOf, name, errors.ErrUnknownRelation),
				"schema", "DeclareRelation", "resolve parent relation")
		}
		if !r.SubsumedBy(rel.Domain, parent.Domain) || !r.SubsumedBy(rel.Range, parent.Range) {
			return errors.WrapFatal(
				fmt.Errorf("relation %q (%s→%s) does not specialize %q (%s→%s): %w",
					name, rel.Domain, rel.Range, parent.Name, parent.Domain, parent.Range, errors.ErrInverseMismatch),
				"schema", "DeclareRelation", "validate parent relation")
		}
	}

	r.relations[name] = rel
	r.relationOrder = append(r.relationOrder, name)
	return nil
}

// DeclareAttribute declares a typed, functional data attribute on a domain
// category.
func (r *Registry) DeclareAttribute(name, domain string, typ LiteralType) error {
	if name == "" {
		return errors.WrapFatal(fmt.Errorf("attribute name is empty: %w", errors.ErrInvalidConfig),
			"schema", "DeclareAttribute", "validate name")
	}
	if _, dup := r.attributes[name]; dup {
		return errors.WrapFatal(fmt.Errorf("attribute %q: %w", name, errors.ErrDuplicateDeclaration),
			"schema", "DeclareAttribute", "register attribute")
	}
	if !r.isKnownCategory(domain) {
		return errors.WrapFatal(fmt.Errorf("domain %q of attribute %q: %w", domain, name, errors.ErrUnknownCategory),
			"schema", "DeclareAttribute", "resolve domain")
	}
	if !typ.IsValid() {
		return errors.WrapFatal(fmt.Errorf("attribute %q has unknown type %q: %w", name, typ, errors.ErrInvalidConfig),
			"schema", "DeclareAttribute", "validate type")
	}

	r.attributes[name] = Attribute{Name: name, Domain: domain, Type: typ}
	r.attributeOrder = append(r.attributeOrder, name)
	return nil
}

// DeclareComposite declares a derived category defined by an equivalence
// formula. Every category, relation, and attribute the formula references
// must already be declared; referenced categories may themselves be
// composites, so mutually nested definitions are declared innermost first.
func (r *Registry) DeclareComposite(name string, f Formula) error {
	if name == "" {
		return errors.WrapFatal(fmt.Errorf("composite name is empty: %w", errors.ErrInvalidConfig),
			"schema", "DeclareComposite", "validate name")
	}
	if r.isKnownCategory(name) {
		return errors.WrapFatal(fmt.Errorf("composite %q: %w", name, errors.ErrDuplicateDeclaration),
			"schema", "DeclareComposite", "register composite")
	}
	if f == nil {
		return errors.WrapFatal(fmt.Errorf("composite %q has no formula: %w", name, errors.ErrInvalidConfig),
			"schema", "DeclareComposite", "validate formula")
	}
	if err := r.validateFormula(name, f); err != nil {
		return err
	}

	r.composites[name] = Composite{Name: name, Formula: f}
	r.compositeOrder = append(r.compositeOrder, name)
	return nil
}

func (r *Registry) validateFormula(composite string, f Formula) error {
	for _, cat := range f.ReferencedCategories() {
		if !r.isKnownCategory(cat) {
			return errors.WrapFatal(
				fmt.Errorf("composite %q references category %q: %w", composite, cat, errors.ErrUnknownCategory),
				"schema", "DeclareComposite", "resolve category")
		}
	}
	if rel := f.ReferencedRelation(); rel != "" {
		if _, ok := r.relations[rel]; !ok {
			return errors.WrapFatal(
				fmt.Errorf("composite %q references relation %q: %w", composite, rel, errors.ErrUnknownRelation),
				"schema", "DeclareComposite", "resolve relation")
		}
	}
	if attr := f.ReferencedAttribute(); attr != "" {
		decl, ok := r.attributes[attr]
		if !ok {
			return errors.WrapFatal(
				fmt.Errorf("composite %q references attribute %q: %w", composite, attr, errors.ErrUnknownAttribute),
				"schema", "DeclareComposite", "resolve attribute")
		}
		if veq, ok := f.(ValueEquals); ok && veq.Value.Type != decl.Type {
			return errors.WrapFatal(
				fmt.Errorf("composite %q compares %s attribute %q against %s literal: %w",
					composite, decl.Type, attr, veq.Value.Type, errors.ErrTypeMismatch),
				"schema", "DeclareComposite", "validate literal type")
		}
		if _, bound := f.(ValueAtMost); bound && decl.Type == TypeString {
			return errors.WrapFatal(
				fmt.Errorf("composite %q bounds non-numeric attribute %q: %w", composite, attr, errors.ErrTypeMismatch),
				"schema", "DeclareComposite", "validate bound type")
		}
		if _, bound := f.(ValueAbove); bound && decl.Type == TypeString {
			return errors.WrapFatal(
				fmt.Errorf("composite %q bounds non-numeric attribute %q: %w", composite, attr, errors.ErrTypeMismatch),
				"schema", "DeclareComposite", "validate bound type")
		}
	}
	return nil
}

func (r *Registry) isKnownCategory(name string) bool {
	if _, ok := r.categories[name]; ok {
		return true
	}
	_, ok := r.composites[name]
	return ok
}

// Category returns the declared category by name.
func (r *Registry) Category(name string) (Category, bool) {
	c, ok := r.categories[name]
	return c, ok
}

// Relation returns the declared relation by name.
func (r *Registry) Relation(name string) (Relation, bool) {
	rel, ok := r.relations[name]
	return rel, ok
}

// Attribute returns the declared attribute by name.
func (r *Registry) Attribute(name string) (Attribute, bool) {
	a, ok := r.attributes[name]
	return a, ok
}

// Composite returns the declared composite by name.
func (r *Registry) Composite(name string) (Composite, bool) {
	c, ok := r.composites[name]
	return c, ok
}

// IsCategory reports whether name is a declared base or composite category.
func (r *Registry) IsCategory(name string) bool {
	return r.isKnownCategory(name)
}

// Categories returns base categories in declaration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, len(r.categoryOrder))
	for _, name := range r.categoryOrder {
		out = append(out, r.categories[name])
	}
	return out
}

// Relations returns relations in declaration order.
func (r *Registry) Relations() []Relation {
	out := make([]Relation, 0, len(r.relationOrder))
	for _, name := range r.relationOrder {
		out = append(out, r.relations[name])
	}
	return out
}

// Attributes returns attributes in declaration order.
func (r *Registry) Attributes() []Attribute {
	out := make([]Attribute, 0, len(r.attributeOrder))
	for _, name := range r.attributeOrder {
		out = append(out, r.attributes[name])
	}
	return out
}

// Composites returns composite definitions in declaration order.
func (r *Registry) Composites() []Composite {
	out := make([]Composite, 0, len(r.compositeOrder))
	for _, name := range r.compositeOrder {
		out = append(out, r.composites[name])
	}
	return out
}

// SubsumedBy reports whether category child equals parent or sits below it
// in the specialization tree. Composites have no tree position; they subsume
// only themselves.
func (r *Registry) SubsumedBy(child, parent string) bool {
	for name := child; name != ""; {
		if name == parent {
			return true
		}
		cat, ok := r.categories[name]
		if !ok {
			return false
		}
		name = cat.Parent
	}
	return false
}
