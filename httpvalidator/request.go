package httpvalidator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/baerwang/openapi-rs/internal/httputil"
	"github.com/baerwang/openapi-rs/parser"
)

// RequestView is the framework-neutral request the validator consumes.
// It is owned by the caller and never retained past one Validate call.
type RequestView struct {
	Method string
	// Path is the request path without query string, e.g. "/users/42".
	Path string
	// Query is the raw query string without the leading "?".
	Query string
	// Body is nil or empty when the request carries no body.
	Body        []byte
	ContentType string
}

// validateRequestBody checks presence, media type and content of the body.
// Each failure here is terminal for body checks only.
func (v *Validator) validateRequestBody(req RequestView, op *parser.Operation, result *RequestValidationResult) {
	rb := op.RequestBody
	if rb == nil {
		if len(req.Body) > 0 && v.IncludeWarnings {
			result.addWarning([]string{LocationBody}, "operation declares no request body; body ignored")
		}
		return
	}

	loc := []string{LocationBody}
	if len(req.Body) == 0 {
		if rb.Required {
			result.addErrors(ValidationError{
				Location: loc,
				Kind:     MissingRequiredBody,
				Message:  "request body is required",
				Severity: SeverityError,
			})
		}
		return
	}

	if limit := v.MaxBodySize(); int64(len(req.Body)) > limit {
		result.addErrors(ValidationError{
			Location: loc,
			Kind:     InvalidBody,
			Message:  fmt.Sprintf("request body size %d exceeds limit %d", len(req.Body), limit),
			Severity: SeverityError,
		})
		return
	}

	mt, mediaType := matchContent(rb, req.ContentType)
	if mt == nil {
		actual := req.ContentType
		if actual == "" {
			actual = "(none)"
		}
		result.addErrors(ValidationError{
			Location: loc,
			Kind:     UnsupportedContentType,
			Expected: strings.Join(rb.ContentTypes(), ", "),
			Actual:   actual,
			Message:  fmt.Sprintf("content type %s is not accepted; expected one of %s", actual, strings.Join(rb.ContentTypes(), ", ")),
			Severity: SeverityError,
		})
		return
	}

	value, err := decodeBody(req.Body, mediaType, mt.Schema)
	if err != nil {
		result.addErrors(ValidationError{
			Location: loc,
			Kind:     InvalidBody,
			Message:  fmt.Sprintf("failed to parse %s body: %v", mediaType, err),
			Severity: SeverityError,
		})
		return
	}
	result.Body = value
	result.addErrors(v.schemaValidator.Validate(value, mt.Schema, loc)...)
}

// matchContent picks the declared media type for contentType: an exact
// match first, then "type/*", then "*/*". It also returns the parsed,
// lower-cased request media type.
func matchContent(rb *parser.RequestBody, contentType string) (*parser.MediaType, string) {
	if strings.TrimSpace(contentType) == "" {
		return nil, ""
	}
	mediaType := httputil.ParseMediaType(contentType)
	major, _, _ := strings.Cut(mediaType, "/")

	var wildcard, catchAll *parser.MediaType
	for _, mt := range rb.Content {
		declared := httputil.ParseMediaType(mt.ContentType)
		switch declared {
		case mediaType:
			return mt, mediaType
		case major + "/*":
			if wildcard == nil {
				wildcard = mt
			}
		case "*/*":
			if catchAll == nil {
				catchAll = mt
			}
		}
	}
	if wildcard != nil {
		return wildcard, mediaType
	}
	return catchAll, mediaType
}

// decodeBody turns raw bytes into a value the schema validator understands.
func decodeBody(body []byte, mediaType string, schema parser.Schema) (any, error) {
	switch {
	case httputil.IsJSONMediaType(mediaType):
		return decodeJSON(body)
	case httputil.IsYAMLMediaType(mediaType):
		var value any
		if err := yaml.Unmarshal(body, &value); err != nil {
			return nil, err
		}
		return normalizeYAML(value), nil
	case mediaType == httputil.MediaTypeForm:
		return decodeForm(body, schema)
	default:
		return string(body), nil
	}
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return value, nil
}

// normalizeYAML converts map[any]any, which YAML produces for non-string
// keys, into map[string]any.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = normalizeYAML(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	}
	return value
}

// decodeForm maps form fields onto the object schema's properties,
// coercing each value the same way query parameters are coerced.
func decodeForm(body []byte, schema parser.Schema) (any, error) {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, err
	}
	obj, _ := schema.(*parser.ObjectSchema)
	out := make(map[string]any, len(values))
	for name, vals := range values {
		var propSchema parser.Schema
		if obj != nil {
			propSchema, _ = obj.Property(name)
		}
		out[name] = coerceValues(vals, true, propSchema)
	}
	return out, nil
}
