package httpvalidator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baerwang/openapi-rs/parser"
)

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func inclusive(v float64) *parser.Bound { return &parser.Bound{Value: v} }

func mustString(t *testing.T, pattern, format string) *parser.StringSchema {
	t.Helper()
	s, err := parser.NewStringSchema(pattern, format)
	require.NoError(t, err)
	return s
}

func userSchema(t *testing.T) *parser.ObjectSchema {
	t.Helper()
	return parser.NewObjectSchema([]parser.Property{
		{Name: "name", Schema: &parser.StringSchema{MinLength: intPtr(1)}},
		{Name: "email", Schema: mustString(t, "", "email")},
		{Name: "age", Schema: &parser.IntegerSchema{Minimum: inclusive(0), Maximum: inclusive(150)}},
	}, "name", "email", "age")
}

func kinds(errs []ValidationError) []ErrorKind {
	out := make([]ErrorKind, len(errs))
	for i, e := range errs {
		out[i] = e.Kind
	}
	return out
}

func paths(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Path()
	}
	return out
}

var bodyLoc = []string{LocationBody}

// =============================================================================
// Scalars
// =============================================================================

func TestSchemaValidator_NilSchemaAcceptsAnything(t *testing.T) {
	v := NewSchemaValidator()
	for _, value := range []any{nil, true, "x", 1.5, []any{1}, map[string]any{"a": 1}} {
		assert.Empty(t, v.Validate(value, nil, bodyLoc))
	}
}

func TestSchemaValidator_Integer(t *testing.T) {
	schema := &parser.IntegerSchema{Minimum: inclusive(0), Maximum: inclusive(150)}
	v := NewSchemaValidator()

	tests := []struct {
		name       string
		value      any
		kind       ErrorKind
		constraint Constraint
	}{
		{name: "float64 in range", value: float64(30)},
		{name: "int in range", value: 30},
		{name: "int64 at minimum", value: int64(0)},
		{name: "json number at maximum", value: json.Number("150")},
		{name: "json number with zero fraction", value: json.Number("1.0")},
		{name: "above maximum", value: 200, kind: ConstraintViolation, constraint: ConstraintMaximum},
		{name: "json number above maximum", value: json.Number("200"), kind: ConstraintViolation, constraint: ConstraintMaximum},
		{name: "below minimum", value: -1, kind: ConstraintViolation, constraint: ConstraintMinimum},
		{name: "fraction", value: 1.5, kind: TypeMismatch},
		{name: "json number fraction", value: json.Number("1.5"), kind: TypeMismatch},
		{name: "string", value: "30", kind: TypeMismatch},
		{name: "null", value: nil, kind: TypeMismatch},
		{name: "boolean", value: true, kind: TypeMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.value, schema, bodyLoc)
			if tt.kind == 0 {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.kind, errs[0].Kind)
			assert.Equal(t, tt.constraint, errs[0].Constraint)
			assert.Equal(t, SeverityError, errs[0].Severity)
			assert.Equal(t, []string{"body"}, errs[0].Location)
		})
	}
}

func TestSchemaValidator_TypeMismatchDetails(t *testing.T) {
	errs := NewSchemaValidator().Validate(1.5, &parser.IntegerSchema{}, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, "integer", errs[0].Expected)
	assert.Equal(t, "number", errs[0].Actual)
	assert.Equal(t, "expected integer, got number", errs[0].Message)
}

func TestSchemaValidator_ExclusiveBounds(t *testing.T) {
	schema := &parser.NumberSchema{
		Minimum: &parser.Bound{Value: 0, Exclusive: true},
		Maximum: &parser.Bound{Value: 1, Exclusive: true},
	}
	v := NewSchemaValidator()

	assert.Empty(t, v.Validate(0.5, schema, bodyLoc))

	errs := v.Validate(0, schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintMinimum, errs[0].Constraint)

	errs = v.Validate(json.Number("1"), schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintMaximum, errs[0].Constraint)
}

func TestSchemaValidator_IntegerFormats(t *testing.T) {
	v := NewSchemaValidator()
	int32Schema := &parser.IntegerSchema{Format: "int32"}
	int64Schema := &parser.IntegerSchema{Format: "int64"}

	assert.Empty(t, v.Validate(int64(2147483647), int32Schema, bodyLoc))

	errs := v.Validate(int64(2147483648), int32Schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, FormatViolation, errs[0].Kind)
	assert.Equal(t, "int32", errs[0].Format)

	assert.Empty(t, v.Validate(json.Number("9223372036854775807"), int64Schema, bodyLoc))
	errs = v.Validate(json.Number("9223372036854775808"), int64Schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, FormatViolation, errs[0].Kind)
}

func TestSchemaValidator_NullAndBoolean(t *testing.T) {
	v := NewSchemaValidator()

	assert.Empty(t, v.Validate(nil, &parser.NullSchema{}, bodyLoc))
	assert.Equal(t, []ErrorKind{TypeMismatch}, kinds(v.Validate("null", &parser.NullSchema{}, bodyLoc)))

	assert.Empty(t, v.Validate(false, &parser.BooleanSchema{}, bodyLoc))
	assert.Equal(t, []ErrorKind{TypeMismatch}, kinds(v.Validate("true", &parser.BooleanSchema{}, bodyLoc)))

	onlyTrue := &parser.BooleanSchema{Enum: []any{true}}
	errs := v.Validate(false, onlyTrue, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintEnum, errs[0].Constraint)
}

// =============================================================================
// Strings
// =============================================================================

func TestSchemaValidator_StringLengthBoundaries(t *testing.T) {
	schema := &parser.StringSchema{MinLength: intPtr(2), MaxLength: intPtr(4)}
	v := NewSchemaValidator()

	tests := []struct {
		value      string
		constraint Constraint
	}{
		{value: "ab"},
		{value: "abcd"},
		{value: "ééé"},
		{value: "a", constraint: ConstraintMinLength},
		{value: "abcde", constraint: ConstraintMaxLength},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			errs := v.Validate(tt.value, schema, bodyLoc)
			if tt.constraint == ConstraintNone {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, ConstraintViolation, errs[0].Kind)
			assert.Equal(t, tt.constraint, errs[0].Constraint)
		})
	}
}

func TestSchemaValidator_StringChecksAreIndependent(t *testing.T) {
	schema := mustString(t, "[a-z]+", "email")
	schema.MinLength = intPtr(5)

	errs := NewSchemaValidator().Validate("AB1", schema, bodyLoc)
	require.Len(t, errs, 3)
	assert.Equal(t, ConstraintMinLength, errs[0].Constraint)
	assert.Equal(t, ConstraintPattern, errs[1].Constraint)
	assert.Equal(t, FormatViolation, errs[2].Kind)
	assert.Equal(t, "email", errs[2].Format)
}

func TestSchemaValidator_PatternIsFullMatch(t *testing.T) {
	schema := mustString(t, "[0-9]{3}", "")
	v := NewSchemaValidator()

	assert.Empty(t, v.Validate("123", schema, bodyLoc))
	assert.Len(t, v.Validate("1234", schema, bodyLoc), 1)
	assert.Len(t, v.Validate("x123", schema, bodyLoc), 1)
}

func TestSchemaValidator_Formats(t *testing.T) {
	tests := []struct {
		format string
		valid  string
		bad    string
	}{
		{"email", "john.doe@example.com", "bad-email"},
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", "123e4567"},
		{"date", "2024-02-29", "2023-02-29"},
		{"time", "08:30:00Z", "8:30"},
		{"date-time", "2024-01-15T13:45:30+02:00", "2024-01-15"},
		{"ipv4", "10.0.0.1", "10.0.0.256"},
		{"ipv6", "fe80::1", "fe80:::1"},
		{"base64", "aGVsbG8=", "aGVsbG8"},
	}
	v := NewSchemaValidator()
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			schema := mustString(t, "", tt.format)
			assert.Empty(t, v.Validate(tt.valid, schema, bodyLoc))

			errs := v.Validate(tt.bad, schema, bodyLoc)
			require.Len(t, errs, 1)
			assert.Equal(t, FormatViolation, errs[0].Kind)
			assert.Equal(t, tt.format, errs[0].Format)
		})
	}

	t.Run("binary accepts anything", func(t *testing.T) {
		assert.Empty(t, v.Validate("\x00\xff not text", mustString(t, "", "binary"), bodyLoc))
	})
	t.Run("unknown format is ignored", func(t *testing.T) {
		assert.Empty(t, v.Validate("whatever", mustString(t, "", "hostname-ish"), bodyLoc))
	})
}

func TestSchemaValidator_Enum(t *testing.T) {
	v := NewSchemaValidator()

	color := &parser.StringSchema{Enum: []any{"red", "green"}}
	assert.Empty(t, v.Validate("red", color, bodyLoc))
	errs := v.Validate("blue", color, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintEnum, errs[0].Constraint)
	assert.Contains(t, errs[0].Message, `"blue"`)

	t.Run("numbers compare by value", func(t *testing.T) {
		n := &parser.IntegerSchema{Enum: []any{float64(1), float64(2)}}
		assert.Empty(t, v.Validate(json.Number("2"), n, bodyLoc))
		assert.Empty(t, v.Validate(int64(1), n, bodyLoc))
		assert.Len(t, v.Validate(3, n, bodyLoc), 1)
	})

	t.Run("empty enum accepts nothing", func(t *testing.T) {
		none := &parser.StringSchema{Enum: []any{}}
		assert.Len(t, v.Validate("x", none, bodyLoc), 1)
	})
}

// =============================================================================
// Arrays and objects
// =============================================================================

func TestSchemaValidator_Array(t *testing.T) {
	schema := &parser.ArraySchema{Items: &parser.IntegerSchema{}, MinItems: intPtr(1), MaxItems: intPtr(3)}
	v := NewSchemaValidator()

	assert.Empty(t, v.Validate([]any{1, 2, 3}, schema, bodyLoc))

	errs := v.Validate([]any{}, schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintMinItems, errs[0].Constraint)

	errs = v.Validate([]any{1, "x", 3, "y"}, schema, bodyLoc)
	assert.Equal(t, []string{"body", "body[1]", "body[3]"}, paths(errs))
	assert.Equal(t, ConstraintMaxItems, errs[0].Constraint)
	assert.Equal(t, []ErrorKind{ConstraintViolation, TypeMismatch, TypeMismatch}, kinds(errs))

	assert.Equal(t, []ErrorKind{TypeMismatch}, kinds(v.Validate(map[string]any{}, schema, bodyLoc)))
}

func TestSchemaValidator_ObjectScenarios(t *testing.T) {
	v := NewSchemaValidator()
	schema := userSchema(t)

	t.Run("valid body", func(t *testing.T) {
		body := map[string]any{"name": "John Doe", "email": "john.doe@example.com", "age": float64(30)}
		assert.Empty(t, v.Validate(body, schema, bodyLoc))
	})

	t.Run("missing name and bad email", func(t *testing.T) {
		body := map[string]any{"email": "bad-email", "age": float64(30)}
		errs := v.Validate(body, schema, bodyLoc)
		require.Len(t, errs, 2)
		assert.Equal(t, MissingRequiredProperty, errs[0].Kind)
		assert.Equal(t, "body.name", errs[0].Path())
		assert.Equal(t, FormatViolation, errs[1].Kind)
		assert.Equal(t, "email", errs[1].Format)
		assert.Equal(t, "body.email", errs[1].Path())
	})

	t.Run("every violating property is reported", func(t *testing.T) {
		body := map[string]any{"name": "", "email": "nope", "age": float64(200)}
		errs := v.Validate(body, schema, bodyLoc)
		assert.Equal(t, []string{"body.name", "body.email", "body.age"}, paths(errs))
	})

	t.Run("undeclared properties are ignored by default", func(t *testing.T) {
		body := map[string]any{"name": "a", "email": "a@b.co", "age": 1, "extra": []any{}}
		assert.Empty(t, v.Validate(body, schema, bodyLoc))
	})

	t.Run("not an object", func(t *testing.T) {
		assert.Equal(t, []ErrorKind{TypeMismatch}, kinds(v.Validate([]any{}, schema, bodyLoc)))
	})
}

func TestSchemaValidator_AdditionalProperties(t *testing.T) {
	v := NewSchemaValidator()

	closed := parser.NewObjectSchema([]parser.Property{{Name: "id", Schema: &parser.IntegerSchema{}}})
	closed.AdditionalProperties = boolPtr(false)

	errs := v.Validate(map[string]any{"id": 1, "z": 1, "a": 2}, closed, bodyLoc)
	assert.Equal(t, []string{"body.a", "body.z"}, paths(errs))
	for _, e := range errs {
		assert.Equal(t, ConstraintAdditionalProperties, e.Constraint)
	}

	typed := parser.NewObjectSchema(nil)
	typed.AdditionalSchema = &parser.IntegerSchema{}
	errs = v.Validate(map[string]any{"ok": 1, "bad": "x"}, typed, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, "body.bad", errs[0].Path())
	assert.Equal(t, TypeMismatch, errs[0].Kind)
}

func TestSchemaValidator_NestedLocations(t *testing.T) {
	item := parser.NewObjectSchema([]parser.Property{{Name: "name", Schema: &parser.StringSchema{}}}, "name")
	schema := parser.NewObjectSchema([]parser.Property{{Name: "items", Schema: &parser.ArraySchema{Items: item}}})

	body := map[string]any{"items": []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
		map[string]any{"name": 3},
	}}
	errs := NewSchemaValidator().Validate(body, schema, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, "body.items[2].name", errs[0].Path())
	assert.Equal(t, []string{"body", "items", "[2]", "name"}, errs[0].Location)
}

func TestSchemaValidator_LocationIsNotMutated(t *testing.T) {
	loc := make([]string, 1, 8)
	loc[0] = "body"
	schema := parser.NewObjectSchema([]parser.Property{
		{Name: "a", Schema: &parser.IntegerSchema{}},
		{Name: "b", Schema: &parser.IntegerSchema{}},
	})

	errs := NewSchemaValidator().Validate(map[string]any{"a": "x", "b": "y"}, schema, loc)
	assert.Equal(t, []string{"body.a", "body.b"}, paths(errs))
	assert.Equal(t, []string{"body"}, loc)
}

// =============================================================================
// Unions
// =============================================================================

func TestSchemaValidator_Union(t *testing.T) {
	v := NewSchemaValidator()
	nullableString := &parser.UnionSchema{Variants: []parser.Schema{&parser.StringSchema{}, &parser.NullSchema{}}}

	assert.Empty(t, v.Validate("x", nullableString, bodyLoc))
	assert.Empty(t, v.Validate(nil, nullableString, bodyLoc))

	errs := v.Validate(5, nullableString, bodyLoc)
	require.Len(t, errs, 1)
	e := errs[0]
	assert.Equal(t, ConstraintViolation, e.Kind)
	assert.Equal(t, ConstraintNoVariantMatched, e.Constraint)
	assert.Equal(t, "string | null", e.Expected)
	assert.Equal(t, "integer", e.Actual)
	require.Len(t, e.Variants, 2)
	assert.Equal(t, TypeMismatch, e.Variants[0][0].Kind)
	assert.Equal(t, TypeMismatch, e.Variants[1][0].Kind)
}

func TestSchemaValidator_UnionFirstMatchWins(t *testing.T) {
	v := NewSchemaValidator()
	small := &parser.IntegerSchema{Maximum: inclusive(10)}
	even := &parser.IntegerSchema{Enum: []any{float64(2), float64(20)}}
	union := &parser.UnionSchema{Variants: []parser.Schema{small, even}}

	assert.Empty(t, v.Validate(5, union, bodyLoc), "first variant")
	assert.Empty(t, v.Validate(20, union, bodyLoc), "second variant despite first failing")

	errs := v.Validate(21, union, bodyLoc)
	require.Len(t, errs, 1)
	assert.Equal(t, ConstraintNoVariantMatched, errs[0].Constraint)
	assert.Equal(t, ConstraintMaximum, errs[0].Variants[0][0].Constraint)
	assert.Equal(t, ConstraintEnum, errs[0].Variants[1][0].Constraint)
}

func TestSchemaValidator_Redacting(t *testing.T) {
	schema := mustString(t, "[a-z]+", "email")
	errs := NewRedactingSchemaValidator().Validate("SECRET", schema, bodyLoc)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.NotContains(t, e.Message, "SECRET")
	}

	errs = NewSchemaValidator().Validate("SECRET", schema, bodyLoc)
	assert.Contains(t, errs[0].Message, "SECRET")
}

func TestSchemaValidator_Idempotent(t *testing.T) {
	v := NewSchemaValidator()
	schema := userSchema(t)
	body := map[string]any{"email": "bad-email", "age": float64(-3)}

	first := v.Validate(body, schema, bodyLoc)
	second := v.Validate(body, schema, bodyLoc)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestKnownFormats(t *testing.T) {
	assert.Equal(t, []string{"base64", "binary", "date", "date-time", "email", "ipv4", "ipv6", "time", "uuid"}, KnownFormats())
	assert.True(t, CheckFormat("not-a-format", ""))
	assert.False(t, CheckFormat("uuid", ""))
}
