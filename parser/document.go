package parser

import (
	"strings"
	"time"
)

// ParameterLocation is where a parameter is carried in the request.
type ParameterLocation string

const (
	ParameterInPath  ParameterLocation = "path"
	ParameterInQuery ParameterLocation = "query"
)

// Document is a fully resolved OpenAPI contract.
//
// # Immutability
//
// A Document is read-only once returned by the parser and may be shared by
// any number of concurrent validators without synchronization.
type Document struct {
	// OpenAPI is the declared version string, e.g. "3.1.0".
	OpenAPI string
	Info    Info
	// Paths keeps document declaration order.
	Paths []*PathItem

	// SourcePath is the file the document was read from, or a synthetic
	// name such as "ParseBytes.yaml".
	SourcePath   string
	SourceFormat SourceFormat
	SourceSize   int64
	LoadTime     time.Duration
	Stats        DocumentStats

	byTemplate map[string]*PathItem
}

// Info is the document's info object.
type Info struct {
	Title       string
	Version     string
	Description string
}

// PathTemplates returns the declared templates in declaration order.
func (d *Document) PathTemplates() []string {
	out := make([]string, len(d.Paths))
	for i, p := range d.Paths {
		out[i] = p.Template
	}
	return out
}

// PathItem returns the path item declared for template.
func (d *Document) PathItem(template string) (*PathItem, bool) {
	if d.byTemplate == nil {
		for _, p := range d.Paths {
			if p.Template == template {
				return p, true
			}
		}
		return nil, false
	}
	p, ok := d.byTemplate[template]
	return p, ok
}

// PathItem groups the operations declared under one path template.
type PathItem struct {
	Template   string
	Operations map[string]*Operation

	methods []string
}

// Operation returns the operation for method, matched case-insensitively.
func (p *PathItem) Operation(method string) (*Operation, bool) {
	op, ok := p.Operations[strings.ToUpper(method)]
	return op, ok
}

// Methods returns the declared methods, upper-cased, in declaration order.
func (p *PathItem) Methods() []string {
	return p.methods
}

// NewPathItem builds a PathItem from operations in the given order.
func NewPathItem(template string, ops ...*Operation) *PathItem {
	p := &PathItem{Template: template, Operations: make(map[string]*Operation, len(ops))}
	for _, op := range ops {
		m := strings.ToUpper(op.Method)
		op.Method = m
		op.Path = template
		p.Operations[m] = op
		p.methods = append(p.methods, m)
	}
	return p
}

// NewDocument assembles a Document from path items, mainly for tests and
// programmatic construction. Declaration order is the argument order.
func NewDocument(paths ...*PathItem) *Document {
	d := &Document{OpenAPI: "3.1.0", Paths: paths}
	d.index()
	d.Stats = computeStats(d, 0)
	return d
}

func (d *Document) index() {
	d.byTemplate = make(map[string]*PathItem, len(d.Paths))
	for _, p := range d.Paths {
		if _, dup := d.byTemplate[p.Template]; !dup {
			d.byTemplate[p.Template] = p
		}
	}
}

// Operation is one method on one path template.
type Operation struct {
	// Method is upper-case, e.g. "GET".
	Method      string
	Path        string
	OperationID string
	Summary     string
	Deprecated  bool
	// Parameters holds path and query parameters, path-item level ones merged in.
	Parameters  []*Parameter
	RequestBody *RequestBody
}

// ParametersIn returns the parameters carried in loc.
func (o *Operation) ParametersIn(loc ParameterLocation) []*Parameter {
	var out []*Parameter
	for _, p := range o.Parameters {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// Parameter describes one path or query parameter.
type Parameter struct {
	Name string
	In   ParameterLocation
	// Required is always true for path parameters.
	Required bool
	Schema   Schema
	// Default holds the schema default when HasDefault is set.
	Default    any
	HasDefault bool
	// Style is the serialization style ("form", "simple", ...).
	Style   string
	Explode bool
}

// RequestBody describes the accepted request payloads.
type RequestBody struct {
	Required bool
	// Content keeps declaration order.
	Content []*MediaType
}

// MediaType pairs a content type (possibly a wildcard such as
// "application/*") with the schema its payload must satisfy.
// Schema is nil when the document declares none.
type MediaType struct {
	ContentType string
	Schema      Schema
}

// ContentTypes returns the declared media type names in order.
func (rb *RequestBody) ContentTypes() []string {
	out := make([]string, len(rb.Content))
	for i, mt := range rb.Content {
		out[i] = mt.ContentType
	}
	return out
}
