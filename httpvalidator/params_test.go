package httpvalidator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baerwang/openapi-rs/parser"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema parser.Schema
		want   any
	}{
		{"integer literal", "42", &parser.IntegerSchema{}, int64(42)},
		{"negative integer", "-7", &parser.IntegerSchema{}, int64(-7)},
		{"fraction for integer kept as text", "1.5", &parser.IntegerSchema{}, "1.5"},
		{"integral fraction for integer kept as text", "1.0", &parser.IntegerSchema{}, "1.0"},
		{"exponent for integer kept as text", "1e2", &parser.IntegerSchema{}, "1e2"},
		{"plus sign for integer kept as text", "+7", &parser.IntegerSchema{}, "+7"},
		{"lone minus for integer kept as text", "-", &parser.IntegerSchema{}, "-"},
		{"integer overflow kept as text", "99999999999999999999", &parser.IntegerSchema{}, "99999999999999999999"},
		{"integer literal for number", "3", &parser.NumberSchema{}, int64(3)},
		{"non-literal integer kept as text", "abc", &parser.IntegerSchema{}, "abc"},
		{"number literal", "2.25", &parser.NumberSchema{}, 2.25},
		{"exponent", "1e3", &parser.NumberSchema{}, float64(1000)},
		{"infinity rejected", "Inf", &parser.NumberSchema{}, "Inf"},
		{"hex float rejected", "0x1p-2", &parser.NumberSchema{}, "0x1p-2"},
		{"underscore rejected", "1_000", &parser.IntegerSchema{}, "1_000"},
		{"true", "true", &parser.BooleanSchema{}, true},
		{"TRUE any case", "TRUE", &parser.BooleanSchema{}, true},
		{"False any case", "False", &parser.BooleanSchema{}, false},
		{"yes is not a boolean", "yes", &parser.BooleanSchema{}, "yes"},
		{"null", "null", &parser.NullSchema{}, nil},
		{"string untouched", "42", &parser.StringSchema{}, "42"},
		{"no schema", "42", nil, "42"},
		{"comma array", "1,2,x", &parser.ArraySchema{Items: &parser.IntegerSchema{}}, []any{int64(1), int64(2), "x"}},
		{"empty array", "", &parser.ArraySchema{Items: &parser.IntegerSchema{}}, []any{}},
		{
			"comma object",
			"role,admin,age,42,extra,x",
			&parser.ObjectSchema{Properties: []parser.Property{
				{Name: "role", Schema: &parser.StringSchema{}},
				{Name: "age", Schema: &parser.IntegerSchema{}},
			}},
			map[string]any{"role": "admin", "age": int64(42), "extra": "x"},
		},
		{
			"odd comma object kept as text",
			"role,admin,age",
			&parser.ObjectSchema{Properties: []parser.Property{{Name: "role", Schema: &parser.StringSchema{}}}},
			"role,admin,age",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, coerceValue(tt.raw, tt.schema))
		})
	}
}

func TestCoerceValues(t *testing.T) {
	ints := &parser.ArraySchema{Items: &parser.IntegerSchema{}}

	assert.Equal(t, []any{int64(1), int64(2)}, coerceValues([]string{"1", "2"}, true, ints), "repeated keys")
	assert.Equal(t, []any{int64(1), int64(2)}, coerceValues([]string{"1,2"}, false, ints), "comma separated")
	assert.Equal(t, []any{int64(1), int64(2)}, coerceValues([]string{"1,2"}, true, ints), "single exploded value is split")
	assert.Equal(t, int64(3), coerceValues([]string{"3", "4"}, true, &parser.IntegerSchema{}), "scalars take the first value")
}

func TestExplodedObject(t *testing.T) {
	obj := &parser.ObjectSchema{Properties: []parser.Property{
		{Name: "role", Schema: &parser.StringSchema{}},
		{Name: "age", Schema: &parser.IntegerSchema{}},
		{Name: "tags", Schema: &parser.ArraySchema{Items: &parser.StringSchema{}}},
	}}

	value, used := explodedObject(map[string][]string{
		"age":   {"30"},
		"tags":  {"a", "b"},
		"other": {"x"},
	}, obj)
	assert.Equal(t, map[string]any{"age": int64(30), "tags": []any{"a", "b"}}, value)
	assert.Equal(t, []string{"age", "tags"}, used)

	value, used = explodedObject(map[string][]string{"other": {"x"}}, obj)
	assert.Empty(t, value)
	assert.Empty(t, used)
}

func TestValidateParamValue_Union(t *testing.T) {
	v, err := New(parser.NewDocument())
	if !assert.NoError(t, err) {
		return
	}
	union := &parser.UnionSchema{Variants: []parser.Schema{
		&parser.IntegerSchema{Minimum: inclusive(1)},
		&parser.BooleanSchema{},
	}}
	loc := []string{LocationQuery, "flag"}

	value, errs := v.validateParamValue([]string{"5"}, true, union, loc)
	assert.Empty(t, errs)
	assert.Equal(t, int64(5), value)

	value, errs = v.validateParamValue([]string{"TRUE"}, true, union, loc)
	assert.Empty(t, errs)
	assert.Equal(t, true, value)

	value, errs = v.validateParamValue([]string{"0"}, true, union, loc)
	assert.Equal(t, "0", value)
	if assert.Len(t, errs, 1) {
		assert.Equal(t, ConstraintNoVariantMatched, errs[0].Constraint)
		assert.Equal(t, "query.flag", errs[0].Path())
		assert.Len(t, errs[0].Variants, 2)
	}
}
