package parser

import (
	"regexp"
	"slices"
)

// SchemaKind identifies which concrete Schema type a node is.
type SchemaKind int

const (
	KindNull SchemaKind = iota
	KindBoolean
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
	KindUnion
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBoolean: "boolean",
	KindInteger: "integer",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
	KindUnion:   "union",
}

// String returns the OpenAPI type name for the kind.
func (k SchemaKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Schema is one resolved validation rule. The set of implementations is
// closed: NullSchema, BooleanSchema, IntegerSchema, NumberSchema,
// StringSchema, ArraySchema, ObjectSchema and UnionSchema.
//
// Schemas are immutable once a Document has been returned, and the same
// Schema value may be shared by every $ref that points at it.
type Schema interface {
	Kind() SchemaKind
	sealed()
}

// Bound is an inclusive or exclusive numeric limit.
type Bound struct {
	Value     float64
	Exclusive bool
}

// NullSchema accepts only null.
type NullSchema struct{}

// BooleanSchema accepts true or false.
type BooleanSchema struct {
	// Enum is nil when unrestricted. A non-nil empty slice accepts nothing.
	Enum []any
}

// IntegerSchema accepts integral numbers.
type IntegerSchema struct {
	Minimum *Bound
	Maximum *Bound
	// Format is "int32", "int64" or empty.
	Format string
	Enum   []any
}

// NumberSchema accepts any numeric value.
type NumberSchema struct {
	Minimum *Bound
	Maximum *Bound
	Format  string
	Enum    []any
}

// StringSchema accepts strings.
type StringSchema struct {
	MinLength *int
	MaxLength *int
	// Pattern is the source expression as written in the document.
	Pattern string
	Format  string
	Enum    []any

	re *regexp.Regexp
}

// PatternRegexp returns the compiled, fully anchored form of Pattern,
// or nil when no pattern is declared.
func (s *StringSchema) PatternRegexp() *regexp.Regexp { return s.re }

// ArraySchema accepts arrays whose elements all satisfy Items.
type ArraySchema struct {
	Items    Schema
	MinItems *int
	MaxItems *int
}

// Property is one declared member of an ObjectSchema.
type Property struct {
	Name   string
	Schema Schema
}

// ObjectSchema accepts objects.
type ObjectSchema struct {
	// Properties keeps declaration order.
	Properties []Property
	// Required is a subset of the Properties names.
	Required []string
	// AdditionalProperties is nil when the document does not say.
	AdditionalProperties *bool
	// AdditionalSchema validates undeclared members when
	// additionalProperties is itself a schema.
	AdditionalSchema Schema

	index map[string]int
}

// Property returns the schema declared for name.
func (o *ObjectSchema) Property(name string) (Schema, bool) {
	if o.index == nil {
		for _, p := range o.Properties {
			if p.Name == name {
				return p.Schema, true
			}
		}
		return nil, false
	}
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.Properties[i].Schema, true
}

// IsRequired reports whether name is listed in Required.
func (o *ObjectSchema) IsRequired(name string) bool {
	return slices.Contains(o.Required, name)
}

// AllowsAdditional reports whether undeclared members are accepted.
func (o *ObjectSchema) AllowsAdditional() bool {
	return o.AdditionalProperties == nil || *o.AdditionalProperties
}

func (o *ObjectSchema) reindex() {
	o.index = make(map[string]int, len(o.Properties))
	for i, p := range o.Properties {
		o.index[p.Name] = i
	}
}

// UnionSchema accepts a value matching at least one of its Variants.
// It always has two or more variants.
type UnionSchema struct {
	Variants []Schema
}

func (*NullSchema) Kind() SchemaKind    { return KindNull }
func (*BooleanSchema) Kind() SchemaKind { return KindBoolean }
func (*IntegerSchema) Kind() SchemaKind { return KindInteger }
func (*NumberSchema) Kind() SchemaKind  { return KindNumber }
func (*StringSchema) Kind() SchemaKind  { return KindString }
func (*ArraySchema) Kind() SchemaKind   { return KindArray }
func (*ObjectSchema) Kind() SchemaKind  { return KindObject }
func (*UnionSchema) Kind() SchemaKind   { return KindUnion }

func (*NullSchema) sealed()    {}
func (*BooleanSchema) sealed() {}
func (*IntegerSchema) sealed() {}
func (*NumberSchema) sealed()  {}
func (*StringSchema) sealed()  {}
func (*ArraySchema) sealed()   {}
func (*ObjectSchema) sealed()  {}
func (*UnionSchema) sealed()   {}

// TypeName describes a schema for diagnostics, e.g. "integer" or
// "string | null".
func TypeName(s Schema) string {
	u, ok := s.(*UnionSchema)
	if !ok {
		if s == nil {
			return "any"
		}
		return s.Kind().String()
	}
	name := ""
	for i, v := range u.Variants {
		if i > 0 {
			name += " | "
		}
		name += TypeName(v)
	}
	return name
}

// NewObjectSchema builds an ObjectSchema with a property index.
// It is intended for tests and programmatic construction.
func NewObjectSchema(props []Property, required ...string) *ObjectSchema {
	o := &ObjectSchema{Properties: props, Required: required}
	o.reindex()
	return o
}

// NewStringSchema builds a StringSchema, compiling pattern as a full match.
func NewStringSchema(pattern, format string) (*StringSchema, error) {
	s := &StringSchema{Pattern: pattern, Format: format}
	if pattern != "" {
		re, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		s.re = re
	}
	return s, nil
}

func compilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + p + `)$`)
}
