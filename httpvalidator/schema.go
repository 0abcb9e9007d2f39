package httpvalidator

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/baerwang/openapi-rs/parser"
)

// SchemaValidator validates decoded values against resolved schemas.
// It holds no mutable state and is safe for concurrent use.
type SchemaValidator struct {
	// redactValues controls whether actual values appear in error messages.
	// When true, error messages describe the violation without exposing the value.
	redactValues bool
}

// NewSchemaValidator creates a new SchemaValidator.
func NewSchemaValidator() *SchemaValidator {
	return &SchemaValidator{}
}

// NewRedactingSchemaValidator creates a SchemaValidator that omits actual values
// from error messages. Use this when request data may carry credentials.
func NewRedactingSchemaValidator() *SchemaValidator {
	return &SchemaValidator{
		redactValues: true,
	}
}

// Validate checks data against schema and returns every violation found.
// location is the path of data within the request and is never mutated.
// A nil schema accepts anything.
//
// data is expected in decoded form: nil, bool, string, a Go number or
// json.Number, []any and map[string]any.
func (v *SchemaValidator) Validate(data any, schema parser.Schema, location []string) []ValidationError {
	switch s := schema.(type) {
	case nil:
		return nil
	case *parser.NullSchema:
		if data != nil {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		return nil
	case *parser.BooleanSchema:
		if _, ok := data.(bool); !ok {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		return v.validateEnum(data, s.Enum, location)
	case *parser.IntegerSchema:
		n, ok := asNumber(data)
		if !ok || !n.integral {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		errs := v.validateBounds(n, s.Minimum, s.Maximum, location)
		errs = append(errs, v.validateIntegerFormat(n, s.Format, location)...)
		return append(errs, v.validateEnum(data, s.Enum, location)...)
	case *parser.NumberSchema:
		n, ok := asNumber(data)
		if !ok {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		errs := v.validateBounds(n, s.Minimum, s.Maximum, location)
		return append(errs, v.validateEnum(data, s.Enum, location)...)
	case *parser.StringSchema:
		str, ok := data.(string)
		if !ok {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		return v.validateString(str, s, location)
	case *parser.ArraySchema:
		arr, ok := data.([]any)
		if !ok {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		return v.validateArray(arr, s, location)
	case *parser.ObjectSchema:
		obj, ok := data.(map[string]any)
		if !ok {
			return []ValidationError{v.mismatch(location, schema, data)}
		}
		return v.validateObject(obj, s, location)
	case *parser.UnionSchema:
		return v.validateUnion(data, s, location)
	default:
		panic(fmt.Sprintf("httpvalidator: unhandled schema type %T", schema))
	}
}

func (v *SchemaValidator) validateString(s string, schema *parser.StringSchema, location []string) []ValidationError {
	var errs []ValidationError

	length := utf8.RuneCountInString(s)
	if schema.MinLength != nil && length < *schema.MinLength {
		errs = append(errs, v.constraint(location, ConstraintMinLength,
			fmt.Sprintf("string length %d is less than minLength %d", length, *schema.MinLength)))
	}
	if schema.MaxLength != nil && length > *schema.MaxLength {
		errs = append(errs, v.constraint(location, ConstraintMaxLength,
			fmt.Sprintf("string length %d exceeds maxLength %d", length, *schema.MaxLength)))
	}

	if re := schema.PatternRegexp(); re != nil && !re.MatchString(s) {
		msg := fmt.Sprintf("string does not match pattern %q", schema.Pattern)
		if !v.redactValues {
			msg = fmt.Sprintf("string %q does not match pattern %q", s, schema.Pattern)
		}
		errs = append(errs, v.constraint(location, ConstraintPattern, msg))
	}

	errs = append(errs, v.validateEnum(s, schema.Enum, location)...)

	if schema.Format != "" && !CheckFormat(schema.Format, s) {
		msg := fmt.Sprintf("string is not a valid %s", schema.Format)
		if !v.redactValues {
			msg = fmt.Sprintf("string %q is not a valid %s", s, schema.Format)
		}
		errs = append(errs, ValidationError{
			Location: location,
			Kind:     FormatViolation,
			Format:   schema.Format,
			Message:  msg,
			Severity: SeverityError,
		})
	}

	return errs
}

func (v *SchemaValidator) validateBounds(n number, minimum, maximum *parser.Bound, location []string) []ValidationError {
	var errs []ValidationError
	if minimum != nil {
		if minimum.Exclusive && n.f <= minimum.Value {
			errs = append(errs, v.constraint(location, ConstraintMinimum,
				v.boundMessage(n, "must be greater than", minimum.Value)))
		} else if !minimum.Exclusive && n.f < minimum.Value {
			errs = append(errs, v.constraint(location, ConstraintMinimum,
				v.boundMessage(n, "is less than minimum", minimum.Value)))
		}
	}
	if maximum != nil {
		if maximum.Exclusive && n.f >= maximum.Value {
			errs = append(errs, v.constraint(location, ConstraintMaximum,
				v.boundMessage(n, "must be less than", maximum.Value)))
		} else if !maximum.Exclusive && n.f > maximum.Value {
			errs = append(errs, v.constraint(location, ConstraintMaximum,
				v.boundMessage(n, "exceeds maximum", maximum.Value)))
		}
	}
	return errs
}

func (v *SchemaValidator) boundMessage(n number, relation string, limit float64) string {
	if v.redactValues {
		return fmt.Sprintf("value %s %s", relation, formatFloat(limit))
	}
	return fmt.Sprintf("value %s %s %s", n.text(), relation, formatFloat(limit))
}

func (v *SchemaValidator) validateIntegerFormat(n number, format string, location []string) []ValidationError {
	var inRange bool
	switch format {
	case "int32":
		inRange = n.exact && n.i >= math.MinInt32 && n.i <= math.MaxInt32
	case "int64":
		inRange = n.exact
	default:
		return nil
	}
	if inRange {
		return nil
	}
	msg := fmt.Sprintf("value is out of range for %s", format)
	if !v.redactValues {
		msg = fmt.Sprintf("value %s is out of range for %s", n.text(), format)
	}
	return []ValidationError{{
		Location: location,
		Kind:     FormatViolation,
		Format:   format,
		Message:  msg,
		Severity: SeverityError,
	}}
}

func (v *SchemaValidator) validateArray(arr []any, schema *parser.ArraySchema, location []string) []ValidationError {
	var errs []ValidationError

	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		errs = append(errs, v.constraint(location, ConstraintMinItems,
			fmt.Sprintf("array has %d items, fewer than minItems %d", len(arr), *schema.MinItems)))
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		errs = append(errs, v.constraint(location, ConstraintMaxItems,
			fmt.Sprintf("array has %d items, more than maxItems %d", len(arr), *schema.MaxItems)))
	}

	for i, item := range arr {
		errs = append(errs, v.Validate(item, schema.Items, appendLocation(location, "["+strconv.Itoa(i)+"]"))...)
	}
	return errs
}

func (v *SchemaValidator) validateObject(obj map[string]any, schema *parser.ObjectSchema, location []string) []ValidationError {
	var errs []ValidationError

	for _, name := range schema.Required {
		if _, ok := obj[name]; !ok {
			errs = append(errs, ValidationError{
				Location: appendLocation(location, name),
				Kind:     MissingRequiredProperty,
				Message:  fmt.Sprintf("missing required property %q", name),
				Severity: SeverityError,
			})
		}
	}

	for _, prop := range schema.Properties {
		if value, ok := obj[prop.Name]; ok {
			errs = append(errs, v.Validate(value, prop.Schema, appendLocation(location, prop.Name))...)
		}
	}

	if schema.AdditionalSchema == nil && schema.AllowsAdditional() {
		return errs
	}

	var extras []string
	for name := range obj {
		if _, declared := schema.Property(name); !declared {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		loc := appendLocation(location, name)
		if schema.AdditionalSchema != nil {
			errs = append(errs, v.Validate(obj[name], schema.AdditionalSchema, loc)...)
			continue
		}
		errs = append(errs, v.constraint(loc, ConstraintAdditionalProperties,
			fmt.Sprintf("additional property %q is not allowed", name)))
	}
	return errs
}

// validateUnion passes on the first variant that yields no errors.
// Otherwise it reports exactly one NoVariantMatched carrying every
// variant's errors.
func (v *SchemaValidator) validateUnion(data any, schema *parser.UnionSchema, location []string) []ValidationError {
	variants := make([][]ValidationError, 0, len(schema.Variants))
	for _, variant := range schema.Variants {
		errs := v.Validate(data, variant, location)
		if len(errs) == 0 {
			return nil
		}
		variants = append(variants, errs)
	}
	return []ValidationError{v.noVariantMatched(location, schema, data, variants)}
}

func (v *SchemaValidator) noVariantMatched(location []string, schema *parser.UnionSchema, data any, variants [][]ValidationError) ValidationError {
	return ValidationError{
		Location:   location,
		Kind:       ConstraintViolation,
		Constraint: ConstraintNoVariantMatched,
		Expected:   parser.TypeName(schema),
		Actual:     typeOf(data),
		Message:    fmt.Sprintf("value matches none of %s", parser.TypeName(schema)),
		Severity:   SeverityError,
		Variants:   variants,
	}
}

// validateEnum treats a nil enum as unrestricted and an empty one as
// accepting nothing.
func (v *SchemaValidator) validateEnum(data any, enum []any, location []string) []ValidationError {
	if enum == nil {
		return nil
	}
	for _, allowed := range enum {
		if enumEqual(data, allowed) {
			return nil
		}
	}
	msg := "value is not one of the allowed values"
	if !v.redactValues {
		msg = fmt.Sprintf("value %v is not one of %v", display(data), enum)
	}
	return []ValidationError{v.constraint(location, ConstraintEnum, msg)}
}

func (v *SchemaValidator) mismatch(location []string, schema parser.Schema, data any) ValidationError {
	expected, actual := parser.TypeName(schema), typeOf(data)
	return ValidationError{
		Location: location,
		Kind:     TypeMismatch,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("expected %s, got %s", expected, actual),
		Severity: SeverityError,
	}
}

func (v *SchemaValidator) constraint(location []string, c Constraint, msg string) ValidationError {
	return ValidationError{
		Location:   location,
		Kind:       ConstraintViolation,
		Constraint: c,
		Message:    msg,
		Severity:   SeverityError,
	}
}

// appendLocation never writes into location's backing array.
func appendLocation(location []string, seg string) []string {
	return append(slices.Clip(location), seg)
}

// jsonNumber matches json.Number from both encoding/json and goccy/go-json.
type jsonNumber interface {
	Float64() (float64, error)
	Int64() (int64, error)
	String() string
}

// number is a numeric value in every form the validator needs.
type number struct {
	f float64
	// i is valid when exact is set.
	i        int64
	exact    bool
	integral bool
	raw      string
}

func (n number) text() string {
	if n.raw != "" {
		return n.raw
	}
	if n.exact {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func asNumber(data any) (number, bool) {
	switch d := data.(type) {
	case float64:
		return floatNumber(d), true
	case float32:
		return floatNumber(float64(d)), true
	case int:
		return intNumber(int64(d)), true
	case int8:
		return intNumber(int64(d)), true
	case int16:
		return intNumber(int64(d)), true
	case int32:
		return intNumber(int64(d)), true
	case int64:
		return intNumber(d), true
	case uint:
		return uintNumber(uint64(d)), true
	case uint8:
		return intNumber(int64(d)), true
	case uint16:
		return intNumber(int64(d)), true
	case uint32:
		return intNumber(int64(d)), true
	case uint64:
		return uintNumber(d), true
	case jsonNumber:
		if i, err := d.Int64(); err == nil {
			n := intNumber(i)
			n.raw = d.String()
			return n, true
		}
		f, err := d.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return number{}, false
		}
		n := floatNumber(f)
		n.raw = d.String()
		return n, true
	}
	return number{}, false
}

func intNumber(i int64) number {
	return number{f: float64(i), i: i, exact: true, integral: true}
}

func uintNumber(u uint64) number {
	if u > math.MaxInt64 {
		return number{f: float64(u), integral: true}
	}
	return intNumber(int64(u))
}

func floatNumber(f float64) number {
	n := number{f: f, integral: !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)}
	if n.integral && f >= math.MinInt64 && f < math.MaxInt64 {
		n.i, n.exact = int64(f), true
	}
	return n
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// typeOf names the JSON type of a decoded value.
func typeOf(data any) string {
	switch data.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if n, ok := asNumber(data); ok {
		if n.integral {
			return "integer"
		}
		return "number"
	}
	return fmt.Sprintf("%T", data)
}

// enumEqual compares numbers by value so 1, 1.0 and json.Number("1") agree.
func enumEqual(data, allowed any) bool {
	a, aok := asNumber(data)
	b, bok := asNumber(allowed)
	if aok || bok {
		return aok && bok && a.f == b.f
	}
	return reflect.DeepEqual(data, allowed)
}

func display(data any) any {
	if s, ok := data.(string); ok {
		return strconv.Quote(s)
	}
	if n, ok := asNumber(data); ok {
		return n.text()
	}
	return data
}
