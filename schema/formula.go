package schema

import (
	"fmt"
	"strings"
)

// Literal is a tagged attribute value. Exactly one of the value fields is
// meaningful, selected by Type.
type Literal struct {
	Type  LiteralType `json:"type"`
	Str   string      `json:"str,omitempty"`
	Int   int64       `json:"int,omitempty"`
	Float float64     `json:"float,omitempty"`
}

// String creates a string literal.
func String(s string) Literal {
	return Literal{Type: TypeString, Str: s}
}

// Int creates an integer literal.
func Int(i int64) Literal {
	return Literal{Type: TypeInt, Int: i}
}

// Float creates a real-number literal.
func Float(f float64) Literal {
	return Literal{Type: TypeFloat, Float: f}
}

// Equal reports exact equality: same declared type, same value. There is no
// cross-type coercion; an integer 1 never equals a real 1.0.
func (l Literal) Equal(o Literal) bool {
	if l.Type != o.Type {
		return false
	}
	switch l.Type {
	case TypeString:
		return l.Str == o.Str
	case TypeInt:
		return l.Int == o.Int
	case TypeFloat:
		return l.Float == o.Float
	default:
		return false
	}
}

// Numeric returns the value as float64 for bound comparisons. String
// literals are not numeric.
func (l Literal) Numeric() (float64, bool) {
	switch l.Type {
	case TypeInt:
		return float64(l.Int), true
	case TypeFloat:
		return l.Float, true
	default:
		return 0, false
	}
}

// String returns a display form of the literal.
func (l Literal) String() string {
	switch l.Type {
	case TypeString:
		return fmt.Sprintf("%q", l.Str)
	case TypeInt:
		return fmt.Sprintf("%d", l.Int)
	case TypeFloat:
		return fmt.Sprintf("%g", l.Float)
	default:
		return "<invalid>"
	}
}

// Formula is a composite category definition. The vocabulary is fixed and
// small: union, value restriction (equality and the two bound directions),
// existential restriction, universal restriction. All forms are monotone —
// there is no negation — so fixed-point evaluation converges.
//
// Implementations report the names they reference so the registry can
// validate definitions eagerly.
type Formula interface {
	// ReferencedCategories lists every category name the formula mentions.
	ReferencedCategories() []string
	// ReferencedRelation names the quantified relation, or "" for none.
	ReferencedRelation() string
	// ReferencedAttribute names the restricted attribute, or "" for none.
	ReferencedAttribute() string
	// String renders the formula for diagnostics.
	String() string
}

// Union is membership in any of the named categories: A ∪ B ∪ …
type Union struct {
	Of []string `json:"of"`
}

// ReferencedCategories implements Formula.
func (u Union) ReferencedCategories() []string { return append([]string(nil), u.Of...) }

// ReferencedRelation implements Formula.
func (u Union) ReferencedRelation() string { return "" }

// ReferencedAttribute implements Formula.
func (u Union) ReferencedAttribute() string { return "" }

func (u Union) String() string {
	return strings.Join(u.Of, " or ")
}

// ValueEquals is membership in Category with Attribute exactly equal to
// Value. An individual without the attribute set is not a member.
type ValueEquals struct {
	Category  string  `json:"category"`
	Attribute string  `json:"attribute"`
	Value     Literal `json:"value"`
}

// ReferencedCategories implements Formula.
func (v ValueEquals) ReferencedCategories() []string { return []string{v.Category} }

// ReferencedRelation implements Formula.
func (v ValueEquals) ReferencedRelation() string { return "" }

// ReferencedAttribute implements Formula.
func (v ValueEquals) ReferencedAttribute() string { return v.Attribute }

func (v ValueEquals) String() string {
	return fmt.Sprintf("%s and (%s = %s)", v.Category, v.Attribute, v.Value)
}

// ValueAtMost is membership in Category with numeric Attribute ≤ Bound.
// Together with a ValueAbove over the same bound it partitions the
// attribute-bearing members of Category; an individual without the attribute
// set belongs to neither side.
type ValueAtMost struct {
	Category  string  `json:"category"`
	Attribute string  `json:"attribute"`
	Bound     float64 `json:"bound"`
}

// ReferencedCategories implements Formula.
func (v ValueAtMost) ReferencedCategories() []string { return []string{v.Category} }

// ReferencedRelation implements Formula.
func (v ValueAtMost) ReferencedRelation() string { return "" }

// ReferencedAttribute implements Formula.
func (v ValueAtMost) ReferencedAttribute() string { return v.Attribute }

func (v ValueAtMost) String() string {
	return fmt.Sprintf("%s and (%s <= %g)", v.Category, v.Attribute, v.Bound)
}

// ValueAbove is membership in Category with numeric Attribute > Bound.
type ValueAbove struct {
	Category  string  `json:"category"`
	Attribute string  `json:"attribute"`
	Bound     float64 `json:"bound"`
}

// ReferencedCategories implements Formula.
func (v ValueAbove) ReferencedCategories() []string { return []string{v.Category} }

// ReferencedRelation implements Formula.
func (v ValueAbove) ReferencedRelation() string { return "" }

// ReferencedAttribute implements Formula.
func (v ValueAbove) ReferencedAttribute() string { return v.Attribute }

func (v ValueAbove) String() string {
	return fmt.Sprintf("%s and (%s > %g)", v.Category, v.Attribute, v.Bound)
}

// Exists is membership in Category with at least one outgoing Relation edge
// whose target is a member of Target.
type Exists struct {
	Category string `json:"category"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// ReferencedCategories implements Formula.
func (e Exists) ReferencedCategories() []string { return []string{e.Category, e.Target} }

// ReferencedRelation implements Formula.
func (e Exists) ReferencedRelation() string { return e.Relation }

// ReferencedAttribute implements Formula.
func (e Exists) ReferencedAttribute() string { return "" }

func (e Exists) String() string {
	return fmt.Sprintf("%s and (exists %s.%s)", e.Category, e.Relation, e.Target)
}

// Only is membership in Category where every outgoing Relation edge, if any,
// targets a member of Target. An individual with zero outgoing edges of the
// relation vacuously satisfies the restriction. This is the standard
// universal-restriction semantics and is preserved exactly.
type Only struct {
	Category string `json:"category"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// ReferencedCategories implements Formula.
func (o Only) ReferencedCategories() []string { return []string{o.Category, o.Target} }

// ReferencedRelation implements Formula.
func (o Only) ReferencedRelation() string { return o.Relation }

// ReferencedAttribute implements Formula.
func (o Only) ReferencedAttribute() string { return "" }

func (o Only) String() string {
	return fmt.Sprintf("%s and (only %s.%s)", o.Category, o.Relation, o.Target)
}
