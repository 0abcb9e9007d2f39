package httpvalidator

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/baerwang/openapi-rs/parser"
)

// validatePathParams coerces and validates each declared path parameter
// against its capture.
func (v *Validator) validatePathParams(captures map[string]string, op *parser.Operation, result *RequestValidationResult) {
	for name, raw := range captures {
		result.PathParams[name] = raw
	}

	for _, p := range op.ParametersIn(parser.ParameterInPath) {
		loc := []string{LocationPath, p.Name}
		raw, ok := captures[p.Name]
		if !ok {
			result.addErrors(ValidationError{
				Location: loc,
				Kind:     MissingRequiredParameter,
				Message:  "path parameter " + strconv.Quote(p.Name) + " is not captured by template " + strconv.Quote(op.Path),
				Severity: SeverityError,
			})
			continue
		}
		value, errs := v.validateParamValue([]string{raw}, false, p.Schema, loc)
		result.PathParams[p.Name] = value
		result.addErrors(errs...)
	}
}

// validateQueryParams checks the declared query parameters against
// rawQuery. Absent optional parameters take their default unvalidated.
func (v *Validator) validateQueryParams(rawQuery string, op *parser.Operation, result *RequestValidationResult) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil && v.IncludeWarnings {
		result.addWarning([]string{LocationQuery}, "malformed query string: "+err.Error())
	}

	declared := make(map[string]bool)
	for _, p := range op.ParametersIn(parser.ParameterInQuery) {
		declared[p.Name] = true
		loc := []string{LocationQuery, p.Name}

		// form-exploded objects spread their members over one key each
		if obj, ok := p.Schema.(*parser.ObjectSchema); ok && p.Explode {
			value, used := explodedObject(values, obj)
			for _, key := range used {
				declared[key] = true
			}
			if len(used) == 0 {
				missingQueryParam(p, loc, result)
				continue
			}
			result.QueryParams[p.Name] = value
			result.addErrors(v.schemaValidator.Validate(value, obj, loc)...)
			continue
		}

		raw, present := values[p.Name]
		if !present {
			missingQueryParam(p, loc, result)
			continue
		}

		value, errs := v.validateParamValue(raw, p.Explode, p.Schema, loc)
		result.QueryParams[p.Name] = value
		result.addErrors(errs...)
	}

	if !v.StrictMode {
		return
	}
	var unknown []string
	for name := range values {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		result.addErrors(ValidationError{
			Location: []string{LocationQuery, name},
			Kind:     UnknownParameter,
			Message:  "unknown query parameter " + strconv.Quote(name),
			Severity: SeverityError,
		})
	}
}

// missingQueryParam reports an absent required parameter or applies the
// default of an optional one.
func missingQueryParam(p *parser.Parameter, loc []string, result *RequestValidationResult) {
	switch {
	case p.Required:
		result.addErrors(ValidationError{
			Location: loc,
			Kind:     MissingRequiredParameter,
			Message:  "missing required query parameter " + strconv.Quote(p.Name),
			Severity: SeverityError,
		})
	case p.HasDefault:
		result.QueryParams[p.Name] = p.Default
	}
}

// explodedObject collects the declared members of an object parameter sent
// as separate query keys (?role=admin&first=Alex). used lists the keys found.
func explodedObject(values url.Values, obj *parser.ObjectSchema) (map[string]any, []string) {
	out := make(map[string]any)
	var used []string
	for _, prop := range obj.Properties {
		raw, ok := values[prop.Name]
		if !ok {
			continue
		}
		out[prop.Name] = coerceValues(raw, true, prop.Schema)
		used = append(used, prop.Name)
	}
	return out, used
}

// validateParamValue coerces raw parameter text for schema and validates
// the result. values holds one entry per occurrence of the parameter;
// explode selects repeated keys over comma separation for arrays.
// Union variants are tried in order, each with its own coercion.
func (v *Validator) validateParamValue(values []string, explode bool, schema parser.Schema, loc []string) (any, []ValidationError) {
	u, ok := schema.(*parser.UnionSchema)
	if !ok {
		value := coerceValues(values, explode, schema)
		return value, v.schemaValidator.Validate(value, schema, loc)
	}

	variants := make([][]ValidationError, 0, len(u.Variants))
	for _, variant := range u.Variants {
		value, errs := v.validateParamValue(values, explode, variant, loc)
		if len(errs) == 0 {
			return value, nil
		}
		variants = append(variants, errs)
	}
	raw := firstValue(values)
	return raw, []ValidationError{v.schemaValidator.noVariantMatched(loc, u, raw, variants)}
}

// coerceValues shapes the occurrences of one parameter for schema.
func coerceValues(values []string, explode bool, schema parser.Schema) any {
	arr, ok := schema.(*parser.ArraySchema)
	if !ok {
		return coerceValue(firstValue(values), schema)
	}
	items := values
	if !explode || len(values) == 1 {
		items = splitList(firstValue(values))
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = coerceValue(item, arr.Items)
	}
	return out
}

// coerceValue converts raw parameter text into the form schema expects.
// Text that cannot be converted is returned unchanged so that the schema
// validator reports a TypeMismatch rather than silently defaulting.
func coerceValue(raw string, schema parser.Schema) any {
	switch s := schema.(type) {
	case *parser.IntegerSchema:
		if isIntegerLiteral(raw) {
			if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return i
			}
		}
	case *parser.NumberSchema:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil && isIntegerLiteral(raw) {
			return i
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && !isSpecialFloat(raw) {
			return f
		}
	case *parser.BooleanSchema:
		switch {
		case strings.EqualFold(raw, "true"):
			return true
		case strings.EqualFold(raw, "false"):
			return false
		}
	case *parser.NullSchema:
		if raw == "null" {
			return nil
		}
	case *parser.ArraySchema:
		return coerceValues([]string{raw}, false, s)
	case *parser.ObjectSchema:
		return coerceObject(raw, s)
	}
	return raw
}

// isIntegerLiteral reports whether raw is an optional '-' followed by
// decimal digits only.
func isIntegerLiteral(raw string) bool {
	digits := strings.TrimPrefix(raw, "-")
	if digits == "" {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// coerceObject reads the comma form of an object ("role,admin,first,Alex").
// An odd number of items is returned as text so it fails as a TypeMismatch.
func coerceObject(raw string, obj *parser.ObjectSchema) any {
	items := splitList(raw)
	if len(items)%2 != 0 {
		return raw
	}
	out := make(map[string]any, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		key, text := items[i], items[i+1]
		switch member, ok := obj.Property(key); {
		case ok:
			out[key] = coerceValue(text, member)
		case obj.AdditionalSchema != nil:
			out[key] = coerceValue(text, obj.AdditionalSchema)
		default:
			out[key] = text
		}
	}
	return out
}

// isSpecialFloat rejects literals ParseFloat accepts but JSON does not,
// such as hex floats and "Inf".
func isSpecialFloat(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "x") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(raw, "_")
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
