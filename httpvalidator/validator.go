package httpvalidator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baerwang/openapi-rs/parser"
)

// DefaultMaxBodySize bounds request bodies unless WithMaxBodySize says otherwise.
const DefaultMaxBodySize int64 = 10 << 20

// Validator validates HTTP requests against a loaded OpenAPI document.
//
// Create a Validator using the New function:
//
//	doc, _ := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	v, err := httpvalidator.New(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := v.Validate(httpvalidator.RequestView{Method: "GET", Path: "/users/42"})
//	if !result.Valid {
//	    // Handle validation errors
//	}
//
// A Validator is immutable after New returns and is safe for concurrent use.
type Validator struct {
	// doc holds the loaded document; never mutated
	doc *parser.Document

	// pathMatcherSet handles path template matching
	pathMatcherSet *PathMatcherSet

	// schemaValidator checks parameter and body values
	schemaValidator *SchemaValidator

	sink        Sink
	clock       func() time.Time
	maxBodySize int64

	// IncludeWarnings determines whether tolerated findings (deprecated
	// operations, malformed query strings) are reported. Default is true.
	IncludeWarnings bool

	// StrictMode rejects undeclared query parameters.
	StrictMode bool
}

// New creates a Validator for doc. The path matchers are compiled up front.
//
// Returns an error if doc is nil, contains invalid path templates, or an
// option is invalid. Source options (WithFilePath, WithDocument) belong to
// ValidateRequestWithOptions and are rejected here.
func New(doc *parser.Document, opts ...Option) (*Validator, error) {
	if doc == nil {
		return nil, fmt.Errorf("httpvalidator: document cannot be nil")
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if cfg.filePath != "" || cfg.doc != nil {
		return nil, fmt.Errorf("httpvalidator: New does not accept source options")
	}
	return newValidator(doc, cfg)
}

func newValidator(doc *parser.Document, cfg *config) (*Validator, error) {
	v := &Validator{
		doc:             doc,
		schemaValidator: NewSchemaValidator(),
		sink:            cfg.sink,
		clock:           cfg.clock,
		maxBodySize:     cfg.maxBodySize,
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
	}
	if cfg.redactValues {
		v.schemaValidator = NewRedactingSchemaValidator()
	}
	if v.sink == nil {
		v.sink = NopSink{}
	}
	if v.clock == nil {
		v.clock = time.Now
	}

	if err := v.initPathMatchers(); err != nil {
		return nil, err
	}
	return v, nil
}

// initPathMatchers compiles matchers for every path that declares at least
// one operation. A path with no operations can never be routed to.
func (v *Validator) initPathMatchers() error {
	templates := make([]string, 0, len(v.doc.Paths))
	for _, item := range v.doc.Paths {
		if len(item.Operations) > 0 {
			templates = append(templates, item.Template)
		}
	}

	matcherSet, err := NewPathMatcherSet(templates)
	if err != nil {
		return fmt.Errorf("httpvalidator: %w", err)
	}
	v.pathMatcherSet = matcherSet
	return nil
}

// Document returns the document the validator was built from.
func (v *Validator) Document() *parser.Document {
	return v.doc
}

// MaxBodySize returns the body size limit adapters should read up to.
func (v *Validator) MaxBodySize() int64 {
	if v.maxBodySize > 0 {
		return v.maxBodySize
	}
	return DefaultMaxBodySize
}


// Validate checks req against the document and reports every violation.
// The outcome is handed to the configured Sink before returning.
//
// Calling Validate on a nil Validator is a programming error and panics.
func (v *Validator) Validate(req RequestView) *RequestValidationResult {
	if v == nil {
		panic("httpvalidator: Validate called on nil *Validator")
	}
	start := v.clock()
	result := v.validate(req)
	v.record(req, result, start)
	return result
}

func (v *Validator) validate(req RequestView) *RequestValidationResult {
	result := newRequestResult(req.Method)

	template, captures, found := v.pathMatcherSet.Match(req.Path)
	if !found {
		result.addErrors(ValidationError{
			Location: []string{LocationPath},
			Kind:     RouteNotFound,
			Actual:   req.Path,
			Message:  "no path template matches " + strconv.Quote(req.Path),
			Severity: SeverityError,
		})
		return result
	}
	result.MatchedPath = template

	item, _ := v.doc.PathItem(template)
	op, ok := item.Operation(req.Method)
	if !ok {
		result.addErrors(ValidationError{
			Location: []string{LocationPath},
			Kind:     MethodNotAllowed,
			Expected: strings.Join(item.Methods(), ", "),
			Actual:   result.MatchedMethod,
			Message:  fmt.Sprintf("method %s is not allowed on %s", result.MatchedMethod, template),
			Severity: SeverityError,
		})
		return result
	}
	result.OperationID = op.OperationID

	if op.Deprecated && v.IncludeWarnings {
		result.addWarning([]string{LocationPath}, fmt.Sprintf("operation %s %s is deprecated", op.Method, template))
	}

	v.validatePathParams(captures, op, result)
	v.validateQueryParams(req.Query, op, result)
	v.validateRequestBody(req, op, result)

	if !v.IncludeWarnings {
		result.Warnings = nil
	}
	return result
}

func (v *Validator) record(req RequestView, result *RequestValidationResult, start time.Time) {
	path := result.MatchedPath
	if path == "" {
		path = req.Path
	}
	outcome := Outcome{
		Method:    result.MatchedMethod,
		Path:      path,
		Success:   result.Valid,
		Duration:  v.clock().Sub(start),
		Errors:    result.Errors,
		Timestamp: start,
	}
	if !result.Valid {
		outcome.Error = result.Summary()
	}
	v.sink.Record(outcome)
}
