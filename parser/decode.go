package parser

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/baerwang/openapi-rs/internal/httputil"
	"github.com/baerwang/openapi-rs/oaserrors"
)

// builder turns the raw node tree into a Document.
type builder struct {
	log  Logger
	refs *refResolver

	// built memoizes schemas by node so YAML aliases are built once
	built map[*yaml.Node]Schema
	// building is the stack of schema nodes currently being built
	building []*yaml.Node
}

func newBuilder(root *yaml.Node, log Logger) *builder {
	return &builder{log: log, refs: newRefResolver(deref(root)), built: make(map[*yaml.Node]Schema)}
}

func parseErrAt(node *yaml.Node, kind oaserrors.ParseErrorKind, ptr, format string, args ...any) error {
	e := &oaserrors.ParseError{Kind: kind, Pointer: ptr, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		e.Line, e.Column = node.Line, node.Column
	}
	return e
}

func (b *builder) document() (*Document, error) {
	root := b.refs.root
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, parseErrAt(root, oaserrors.KindMalformedSyntax, "#", "document root must be a mapping")
	}

	doc := &Document{}
	if mappingValue(root, "swagger") != nil {
		return nil, parseErrAt(root, oaserrors.KindMalformedSyntax, "#/swagger", "OpenAPI 2.0 documents are not supported")
	}
	version := mappingValue(root, "openapi")
	if version == nil || version.Value == "" {
		return nil, parseErrAt(root, oaserrors.KindMissingField, "#/openapi", "openapi version is required")
	}
	if !strings.HasPrefix(version.Value, "3.") {
		return nil, parseErrAt(version, oaserrors.KindMalformedSyntax, "#/openapi", "unsupported OpenAPI version %q", version.Value)
	}
	doc.OpenAPI = version.Value

	info := mappingValue(root, "info")
	if info == nil {
		return nil, parseErrAt(root, oaserrors.KindMissingField, "#/info", "info is required")
	}
	doc.Info = Info{
		Title:       scalarValue(info, "title"),
		Version:     scalarValue(info, "version"),
		Description: scalarValue(info, "description"),
	}
	if doc.Info.Title == "" {
		return nil, parseErrAt(info, oaserrors.KindMissingField, "#/info/title", "info.title is required")
	}
	if doc.Info.Version == "" {
		return nil, parseErrAt(info, oaserrors.KindMissingField, "#/info/version", "info.version is required")
	}

	paths := mappingValue(root, "paths")
	if paths == nil {
		return nil, parseErrAt(root, oaserrors.KindMissingField, "#/paths", "paths is required")
	}
	if paths.Kind != yaml.MappingNode {
		return nil, parseErrAt(paths, oaserrors.KindMalformedSyntax, "#/paths", "paths must be a mapping")
	}

	err := mappingEach(paths, func(template string, node *yaml.Node) error {
		ptr := "#/paths/" + escapeJSONPointer(template)
		if !strings.HasPrefix(template, "/") {
			return parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "path template %q must begin with /", template)
		}
		item, err := b.pathItem(template, node, ptr)
		if err != nil {
			return err
		}
		doc.Paths = append(doc.Paths, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc.index()
	doc.Stats = computeStats(doc, len(b.refs.schemas))
	return doc, nil
}

func (b *builder) pathItem(template string, node *yaml.Node, ptr string) (*PathItem, error) {
	node, err := b.refs.follow(node)
	if err != nil {
		return nil, err
	}
	item := &PathItem{Template: template, Operations: make(map[string]*Operation)}

	common, err := b.parameters(mappingValue(node, "parameters"), ptr+"/parameters")
	if err != nil {
		return nil, err
	}

	err = mappingEach(node, func(key string, opNode *yaml.Node) error {
		if !httputil.IsMethod(key) {
			return nil
		}
		method := strings.ToLower(key)
		op, err := b.operation(opNode, ptr+"/"+method, common)
		if err != nil {
			return err
		}
		op.Method = strings.ToUpper(method)
		op.Path = template
		if _, dup := item.Operations[op.Method]; !dup {
			item.methods = append(item.methods, op.Method)
		}
		item.Operations[op.Method] = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (b *builder) operation(node *yaml.Node, ptr string, common []*Parameter) (*Operation, error) {
	if node.Kind != yaml.MappingNode {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "operation must be a mapping")
	}
	op := &Operation{
		OperationID: scalarValue(node, "operationId"),
		Summary:     scalarValue(node, "summary"),
	}
	if dep, ok, err := boolField(node, "deprecated", ptr); err != nil {
		return nil, err
	} else if ok {
		op.Deprecated = dep
	}

	own, err := b.parameters(mappingValue(node, "parameters"), ptr+"/parameters")
	if err != nil {
		return nil, err
	}
	op.Parameters = mergeParameters(common, own)

	if rb := mappingValue(node, "requestBody"); rb != nil {
		op.RequestBody, err = b.requestBody(rb, ptr+"/requestBody")
		if err != nil {
			return nil, err
		}
	}
	return op, nil
}

// mergeParameters overlays operation parameters onto path-item parameters,
// keyed by location and name.
func mergeParameters(common, own []*Parameter) []*Parameter {
	out := slices.Clone(common)
	for _, p := range own {
		idx := slices.IndexFunc(out, func(c *Parameter) bool { return c.In == p.In && c.Name == p.Name })
		if idx >= 0 {
			out[idx] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func (b *builder) parameters(node *yaml.Node, ptr string) ([]*Parameter, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "parameters must be a list")
	}
	var out []*Parameter
	for i, raw := range node.Content {
		p, err := b.parameter(raw, fmt.Sprintf("%s/%d", ptr, i))
		if err != nil {
			return nil, err
		}
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (b *builder) parameter(raw *yaml.Node, ptr string) (*Parameter, error) {
	node, err := b.refs.follow(raw)
	if err != nil {
		return nil, err
	}
	if node.Kind != yaml.MappingNode {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "parameter must be a mapping")
	}

	name := scalarValue(node, "name")
	if name == "" {
		return nil, parseErrAt(node, oaserrors.KindMissingField, ptr+"/name", "parameter name is required")
	}
	in := scalarValue(node, "in")
	switch in {
	case "":
		return nil, parseErrAt(node, oaserrors.KindMissingField, ptr+"/in", "parameter %q requires in", name)
	case "header", "cookie":
		b.log.Debug("skipping parameter", "name", name, "in", in)
		return nil, nil
	case string(ParameterInPath), string(ParameterInQuery):
	default:
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr+"/in", "parameter %q has unknown location %q", name, in)
	}

	p := &Parameter{Name: name, In: ParameterLocation(in)}
	if p.In == ParameterInPath {
		p.Required = true
		p.Style = "simple"
	} else {
		p.Style = "form"
		req, _, err := boolField(node, "required", ptr)
		if err != nil {
			return nil, err
		}
		p.Required = req
	}
	if style := scalarValue(node, "style"); style != "" {
		p.Style = style
	}
	p.Explode = p.Style == "form"
	if explode, ok, err := boolField(node, "explode", ptr); err != nil {
		return nil, err
	} else if ok {
		p.Explode = explode
	}

	schemaNode := mappingValue(node, "schema")
	schemaPtr := ptr + "/schema"
	if schemaNode == nil {
		// content-encoded parameters carry exactly one media type
		if content := mappingValue(node, "content"); content != nil && len(content.Content) >= 2 {
			schemaNode = mappingValue(deref(content.Content[1]), "schema")
			schemaPtr = ptr + "/content/" + escapeJSONPointer(content.Content[0].Value) + "/schema"
		}
	}
	if schemaNode == nil {
		return nil, parseErrAt(node, oaserrors.KindMissingField, schemaPtr, "parameter %q requires a schema", name)
	}
	p.Schema, err = b.schema(schemaNode, schemaPtr)
	if err != nil {
		return nil, err
	}
	p.Default, p.HasDefault, err = b.defaultOf(schemaNode)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (b *builder) requestBody(raw *yaml.Node, ptr string) (*RequestBody, error) {
	node, err := b.refs.follow(raw)
	if err != nil {
		return nil, err
	}
	rb := &RequestBody{}
	if rb.Required, _, err = boolField(node, "required", ptr); err != nil {
		return nil, err
	}
	content := mappingValue(node, "content")
	if content == nil {
		return nil, parseErrAt(node, oaserrors.KindMissingField, ptr+"/content", "request body requires content")
	}
	err = mappingEach(content, func(ct string, mt *yaml.Node) error {
		if !httputil.IsValidMediaType(ct) {
			return parseErrAt(mt, oaserrors.KindMalformedSyntax, ptr+"/content/"+escapeJSONPointer(ct), "invalid media type %q", ct)
		}
		media := &MediaType{ContentType: ct}
		if sn := mappingValue(mt, "schema"); sn != nil {
			s, err := b.schema(sn, ptr+"/content/"+escapeJSONPointer(ct)+"/schema")
			if err != nil {
				return err
			}
			media.Schema = s
		}
		rb.Content = append(rb.Content, media)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rb, nil
}

// defaultOf returns the default declared on a schema, following $refs.
func (b *builder) defaultOf(node *yaml.Node) (any, bool, error) {
	node, err := b.refs.follow(node)
	if err != nil {
		return nil, false, err
	}
	d := mappingValue(node, "default")
	if d == nil {
		return nil, false, nil
	}
	var v any
	if err := d.Decode(&v); err != nil {
		return nil, false, parseErrAt(d, oaserrors.KindMalformedSyntax, "", "invalid default: %v", err)
	}
	return normalizeValue(v), true, nil
}

// schema builds the Schema for node. Refs are shared through the resolver.
func (b *builder) schema(node *yaml.Node, ptr string) (Schema, error) {
	node = deref(node)
	if node == nil {
		return nil, parseErrAt(nil, oaserrors.KindMissingField, ptr, "schema is required")
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!bool" {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "boolean schemas are not supported")
	}
	if node.Kind != yaml.MappingNode {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "schema must be a mapping")
	}
	if ref, ok := refOf(node); ok {
		return b.refs.schema(ref, b.schema)
	}

	if s, ok := b.built[node]; ok {
		return s, nil
	}
	if slices.Contains(b.building, node) {
		return nil, &oaserrors.ParseError{
			Kind:    oaserrors.KindCircularReference,
			Pointer: ptr,
			Line:    node.Line,
			Column:  node.Column,
			Message: "schema contains itself through a YAML alias",
			Cause:   &oaserrors.ReferenceError{Ref: ptr, RefType: "alias", IsCircular: true},
		}
	}
	b.building = append(b.building, node)
	s, err := b.buildSchema(node, ptr)
	b.building = b.building[:len(b.building)-1]
	if err != nil {
		return nil, err
	}
	b.built[node] = s
	return s, nil
}

// buildSchema decodes a schema mapping that is not a $ref.
func (b *builder) buildSchema(node *yaml.Node, ptr string) (Schema, error) {
	if allOf := mappingValue(node, "allOf"); allOf != nil {
		s, err := b.allOf(node, allOf, ptr)
		if err != nil {
			return nil, err
		}
		return b.withNullable(node, s, ptr)
	}

	oneOf, anyOf := mappingValue(node, "oneOf"), mappingValue(node, "anyOf")
	if oneOf != nil && anyOf != nil {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "oneOf and anyOf cannot be combined")
	}
	if oneOf != nil {
		return b.union(node, oneOf, ptr+"/oneOf")
	}
	if anyOf != nil {
		return b.union(node, anyOf, ptr+"/anyOf")
	}

	types, err := b.types(node, ptr)
	if err != nil {
		return nil, err
	}
	if len(types) == 1 {
		return b.single(types[0], node, ptr)
	}
	u := &UnionSchema{}
	for _, t := range types {
		s, err := b.single(t, node, ptr)
		if err != nil {
			return nil, err
		}
		u.Variants = append(u.Variants, s)
	}
	return u, nil
}

// union builds oneOf/anyOf. Both accept a value matching any variant.
func (b *builder) union(node, list *yaml.Node, ptr string) (Schema, error) {
	if list.Kind != yaml.SequenceNode || len(list.Content) == 0 {
		return nil, parseErrAt(list, oaserrors.KindMalformedSyntax, ptr, "must be a non-empty list")
	}
	variants := make([]Schema, 0, len(list.Content))
	for i, item := range list.Content {
		s, err := b.schema(item, fmt.Sprintf("%s/%d", ptr, i))
		if err != nil {
			return nil, err
		}
		variants = append(variants, s)
	}
	if len(variants) == 1 {
		return b.withNullable(node, variants[0], ptr)
	}
	return b.withNullable(node, &UnionSchema{Variants: variants}, ptr)
}

// withNullable adds a Null variant when the node sets nullable: true.
func (b *builder) withNullable(node *yaml.Node, s Schema, ptr string) (Schema, error) {
	nullable, _, err := boolField(node, "nullable", ptr)
	if err != nil || !nullable {
		return s, err
	}
	switch v := s.(type) {
	case *NullSchema:
		return s, nil
	case *UnionSchema:
		if slices.ContainsFunc(v.Variants, func(s Schema) bool { return s.Kind() == KindNull }) {
			return s, nil
		}
		return &UnionSchema{Variants: append(slices.Clone(v.Variants), &NullSchema{})}, nil
	}
	return &UnionSchema{Variants: []Schema{s, &NullSchema{}}}, nil
}

// allOf merges object members into one ObjectSchema.
func (b *builder) allOf(node, list *yaml.Node, ptr string) (Schema, error) {
	if list.Kind != yaml.SequenceNode || len(list.Content) == 0 {
		return nil, parseErrAt(list, oaserrors.KindMalformedSyntax, ptr+"/allOf", "must be a non-empty list")
	}
	var members []Schema
	for i, item := range list.Content {
		itemPtr := fmt.Sprintf("%s/allOf/%d", ptr, i)
		item = deref(item)
		var (
			s   Schema
			err error
		)
		if isLooseObject(item) {
			s, err = b.object(item, itemPtr, false)
		} else {
			s, err = b.schema(item, itemPtr)
		}
		if err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	if hasAny(node, "properties", "required", "additionalProperties") {
		s, err := b.object(node, ptr, false)
		if err != nil {
			return nil, err
		}
		members = append(members, s)
	}
	if len(members) == 1 {
		if o, ok := members[0].(*ObjectSchema); ok {
			return o, checkRequired(node, o, ptr)
		}
		return members[0], nil
	}

	merged := &ObjectSchema{}
	for i, m := range members {
		o, ok := m.(*ObjectSchema)
		if !ok {
			return nil, parseErrAt(list, oaserrors.KindMalformedSyntax, fmt.Sprintf("%s/allOf/%d", ptr, i),
				"allOf member must be an object schema, got %s", TypeName(m))
		}
		for _, p := range o.Properties {
			if idx := slices.IndexFunc(merged.Properties, func(x Property) bool { return x.Name == p.Name }); idx >= 0 {
				merged.Properties[idx] = p
			} else {
				merged.Properties = append(merged.Properties, p)
			}
		}
		for _, r := range o.Required {
			if !slices.Contains(merged.Required, r) {
				merged.Required = append(merged.Required, r)
			}
		}
		if o.AdditionalProperties != nil && !*o.AdditionalProperties {
			merged.AdditionalProperties = o.AdditionalProperties
		}
		if o.AdditionalSchema != nil && merged.AdditionalSchema == nil {
			merged.AdditionalSchema = o.AdditionalSchema
		}
	}
	merged.reindex()
	return merged, checkRequired(node, merged, ptr)
}

// isLooseObject reports whether an inline allOf member only carries object
// keywords and may therefore list required names declared by a sibling.
func isLooseObject(node *yaml.Node) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	if _, ok := refOf(node); ok || hasAny(node, "allOf", "oneOf", "anyOf", "nullable") {
		return false
	}
	t := mappingValue(node, "type")
	if t != nil {
		return t.Kind == yaml.ScalarNode && t.Value == "object"
	}
	return hasAny(node, "properties", "required", "additionalProperties")
}

func checkRequired(node *yaml.Node, o *ObjectSchema, ptr string) error {
	for _, r := range o.Required {
		if _, ok := o.Property(r); !ok {
			return parseErrAt(node, oaserrors.KindMalformedSyntax, ptr+"/required",
				"required property %q is not declared in properties", r)
		}
	}
	return nil
}

// types returns the single-type names a node declares or implies.
func (b *builder) types(node *yaml.Node, ptr string) ([]string, error) {
	var names []string
	t := mappingValue(node, "type")
	switch {
	case t == nil:
		inferred, err := inferType(node, ptr)
		if err != nil {
			return nil, err
		}
		names = inferred
	case t.Kind == yaml.ScalarNode:
		names = []string{t.Value}
	case t.Kind == yaml.SequenceNode:
		for _, item := range t.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, parseErrAt(item, oaserrors.KindMalformedSyntax, ptr+"/type", "type list entries must be strings")
			}
			if !slices.Contains(names, item.Value) {
				names = append(names, item.Value)
			}
		}
		if len(names) == 0 {
			return nil, parseErrAt(t, oaserrors.KindMalformedSyntax, ptr+"/type", "type list is empty")
		}
	default:
		return nil, parseErrAt(t, oaserrors.KindMalformedSyntax, ptr+"/type", "type must be a string or a list")
	}

	nullable, _, err := boolField(node, "nullable", ptr)
	if err != nil {
		return nil, err
	}
	if nullable && !slices.Contains(names, "null") {
		names = append(names, "null")
	}
	return names, nil
}

func inferType(node *yaml.Node, ptr string) ([]string, error) {
	switch {
	case hasAny(node, "properties", "additionalProperties", "required"):
		return []string{"object"}, nil
	case hasAny(node, "items", "minItems", "maxItems"):
		return []string{"array"}, nil
	case hasAny(node, "minLength", "maxLength", "pattern"):
		return []string{"string"}, nil
	case hasAny(node, "minimum", "maximum", "exclusiveMinimum", "exclusiveMaximum"):
		return []string{"number"}, nil
	}
	values, ok, err := enumValues(node, ptr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, parseErrAt(node, oaserrors.KindMissingField, ptr,
			"schema declares none of type, properties, items, enum, $ref, oneOf, anyOf or allOf")
	}
	var names []string
	for _, v := range values {
		name := valueTypeName(v)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr+"/enum", "enum is empty")
	}
	return names, nil
}

func valueTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return "object"
	}
}

// single builds a node of exactly one type from the keywords on node.
func (b *builder) single(name string, node *yaml.Node, ptr string) (Schema, error) {
	switch name {
	case "null":
		return &NullSchema{}, nil
	case "boolean":
		enum, err := filteredEnum(node, ptr, func(v any) bool { _, ok := v.(bool); return ok })
		if err != nil {
			return nil, err
		}
		return &BooleanSchema{Enum: enum}, nil
	case "integer":
		lo, hi, err := bounds(node, ptr)
		if err != nil {
			return nil, err
		}
		enum, err := filteredEnum(node, ptr, func(v any) bool {
			f, ok := v.(float64)
			return ok && f == math.Trunc(f)
		})
		if err != nil {
			return nil, err
		}
		return &IntegerSchema{Minimum: lo, Maximum: hi, Format: scalarValue(node, "format"), Enum: enum}, nil
	case "number":
		lo, hi, err := bounds(node, ptr)
		if err != nil {
			return nil, err
		}
		enum, err := filteredEnum(node, ptr, func(v any) bool { _, ok := v.(float64); return ok })
		if err != nil {
			return nil, err
		}
		return &NumberSchema{Minimum: lo, Maximum: hi, Format: scalarValue(node, "format"), Enum: enum}, nil
	case "string", "base64", "binary":
		return b.str(name, node, ptr)
	case "array":
		return b.array(node, ptr)
	case "object":
		return b.object(node, ptr, true)
	default:
		return nil, parseErrAt(mappingValue(node, "type"), oaserrors.KindMalformedSyntax, ptr+"/type", "unknown type %q", name)
	}
}

func (b *builder) str(name string, node *yaml.Node, ptr string) (Schema, error) {
	s := &StringSchema{Format: scalarValue(node, "format"), Pattern: scalarValue(node, "pattern")}
	if name != "string" && s.Format == "" {
		// type: base64 / type: binary are shorthand for a string format
		s.Format = name
	}
	var err error
	if s.MinLength, err = intField(node, "minLength", ptr); err != nil {
		return nil, err
	}
	if s.MaxLength, err = intField(node, "maxLength", ptr); err != nil {
		return nil, err
	}
	if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "minLength %d exceeds maxLength %d", *s.MinLength, *s.MaxLength)
	}
	if s.Pattern != "" {
		if s.re, err = compilePattern(s.Pattern); err != nil {
			return nil, parseErrAt(mappingValue(node, "pattern"), oaserrors.KindMalformedSyntax, ptr+"/pattern", "invalid pattern: %v", err)
		}
	}
	s.Enum, err = filteredEnum(node, ptr, func(v any) bool { _, ok := v.(string); return ok })
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (b *builder) array(node *yaml.Node, ptr string) (Schema, error) {
	items := mappingValue(node, "items")
	if items == nil {
		return nil, parseErrAt(node, oaserrors.KindMissingField, ptr+"/items", "array schema requires items")
	}
	a := &ArraySchema{}
	var err error
	if a.Items, err = b.schema(items, ptr+"/items"); err != nil {
		return nil, err
	}
	if a.MinItems, err = intField(node, "minItems", ptr); err != nil {
		return nil, err
	}
	if a.MaxItems, err = intField(node, "maxItems", ptr); err != nil {
		return nil, err
	}
	if a.MinItems != nil && a.MaxItems != nil && *a.MinItems > *a.MaxItems {
		return nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "minItems %d exceeds maxItems %d", *a.MinItems, *a.MaxItems)
	}
	return a, nil
}

func (b *builder) object(node *yaml.Node, ptr string, strict bool) (*ObjectSchema, error) {
	o := &ObjectSchema{}
	props := mappingValue(node, "properties")
	if props != nil && props.Kind != yaml.MappingNode {
		return nil, parseErrAt(props, oaserrors.KindMalformedSyntax, ptr+"/properties", "properties must be a mapping")
	}
	err := mappingEach(props, func(name string, v *yaml.Node) error {
		s, err := b.schema(v, ptr+"/properties/"+escapeJSONPointer(name))
		if err != nil {
			return err
		}
		o.Properties = append(o.Properties, Property{Name: name, Schema: s})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req := mappingValue(node, "required"); req != nil {
		if req.Kind != yaml.SequenceNode {
			return nil, parseErrAt(req, oaserrors.KindMalformedSyntax, ptr+"/required", "required must be a list")
		}
		for _, r := range req.Content {
			if !slices.Contains(o.Required, r.Value) {
				o.Required = append(o.Required, r.Value)
			}
		}
	}

	if ap := mappingValue(node, "additionalProperties"); ap != nil {
		switch {
		case ap.Kind == yaml.ScalarNode:
			allowed, err := strconv.ParseBool(ap.Value)
			if err != nil {
				return nil, parseErrAt(ap, oaserrors.KindMalformedSyntax, ptr+"/additionalProperties", "must be a boolean or a schema")
			}
			o.AdditionalProperties = &allowed
		case ap.Kind == yaml.MappingNode && len(ap.Content) == 0:
			allowed := true
			o.AdditionalProperties = &allowed
		default:
			if o.AdditionalSchema, err = b.schema(ap, ptr+"/additionalProperties"); err != nil {
				return nil, err
			}
		}
	}

	o.reindex()
	if strict {
		if err := checkRequired(node, o, ptr); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// bounds reads minimum/maximum and their exclusive forms. Both the 3.1
// numeric form and the 3.0 boolean form of exclusiveMinimum are accepted.
func bounds(node *yaml.Node, ptr string) (lo, hi *Bound, err error) {
	if lo, err = bound(node, "minimum", ptr); err != nil {
		return nil, nil, err
	}
	if hi, err = bound(node, "maximum", ptr); err != nil {
		return nil, nil, err
	}
	if lo, err = exclusive(node, "exclusiveMinimum", ptr, lo, func(ex, cur float64) bool { return ex >= cur }); err != nil {
		return nil, nil, err
	}
	if hi, err = exclusive(node, "exclusiveMaximum", ptr, hi, func(ex, cur float64) bool { return ex <= cur }); err != nil {
		return nil, nil, err
	}
	if lo != nil && hi != nil && lo.Value > hi.Value {
		return nil, nil, parseErrAt(node, oaserrors.KindMalformedSyntax, ptr, "minimum %v exceeds maximum %v", lo.Value, hi.Value)
	}
	return lo, hi, nil
}

func bound(node *yaml.Node, key, ptr string) (*Bound, error) {
	v := mappingValue(node, key)
	if v == nil {
		return nil, nil
	}
	f, err := numberValue(v)
	if err != nil {
		return nil, parseErrAt(v, oaserrors.KindMalformedSyntax, ptr+"/"+key, "%s must be a number", key)
	}
	return &Bound{Value: f}, nil
}

func exclusive(node *yaml.Node, key, ptr string, cur *Bound, tighter func(ex, cur float64) bool) (*Bound, error) {
	v := mappingValue(node, key)
	if v == nil {
		return cur, nil
	}
	if v.Tag == "!!bool" {
		flag, _ := strconv.ParseBool(v.Value)
		if flag && cur != nil {
			return &Bound{Value: cur.Value, Exclusive: true}, nil
		}
		return cur, nil
	}
	f, err := numberValue(v)
	if err != nil {
		return nil, parseErrAt(v, oaserrors.KindMalformedSyntax, ptr+"/"+key, "%s must be a number or a boolean", key)
	}
	if cur == nil || tighter(f, cur.Value) {
		return &Bound{Value: f, Exclusive: true}, nil
	}
	return cur, nil
}

func numberValue(v *yaml.Node) (float64, error) {
	if v.Kind != yaml.ScalarNode || (v.Tag != "!!int" && v.Tag != "!!float") {
		return 0, fmt.Errorf("not a number: %q", v.Value)
	}
	var f float64
	if err := v.Decode(&f); err != nil {
		return 0, err
	}
	return f, nil
}

func intField(node *yaml.Node, key, ptr string) (*int, error) {
	v := mappingValue(node, key)
	if v == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil || n < 0 || v.Kind != yaml.ScalarNode {
		return nil, parseErrAt(v, oaserrors.KindMalformedSyntax, ptr+"/"+key, "%s must be a non-negative integer", key)
	}
	return &n, nil
}

func boolField(node *yaml.Node, key, ptr string) (value, present bool, err error) {
	v := mappingValue(node, key)
	if v == nil {
		return false, false, nil
	}
	if v.Kind != yaml.ScalarNode || v.Tag != "!!bool" {
		return false, true, parseErrAt(v, oaserrors.KindMalformedSyntax, ptr+"/"+key, "%s must be a boolean", key)
	}
	value, _ = strconv.ParseBool(v.Value)
	return value, true, nil
}

func scalarValue(node *yaml.Node, key string) string {
	v := mappingValue(node, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return ""
	}
	return v.Value
}

func hasAny(node *yaml.Node, keys ...string) bool {
	for _, k := range keys {
		if mappingValue(node, k) != nil {
			return true
		}
	}
	return false
}

// enumValues returns the enum (or const) values of node, normalized.
func enumValues(node *yaml.Node, ptr string) ([]any, bool, error) {
	if c := mappingValue(node, "const"); c != nil {
		var v any
		if err := c.Decode(&v); err != nil {
			return nil, false, parseErrAt(c, oaserrors.KindMalformedSyntax, ptr+"/const", "invalid const: %v", err)
		}
		return []any{normalizeValue(v)}, true, nil
	}
	e := mappingValue(node, "enum")
	if e == nil {
		return nil, false, nil
	}
	if e.Kind != yaml.SequenceNode {
		return nil, false, parseErrAt(e, oaserrors.KindMalformedSyntax, ptr+"/enum", "enum must be a list")
	}
	values := make([]any, 0, len(e.Content))
	for _, item := range e.Content {
		var v any
		if err := item.Decode(&v); err != nil {
			return nil, false, parseErrAt(item, oaserrors.KindMalformedSyntax, ptr+"/enum", "invalid enum value: %v", err)
		}
		values = append(values, normalizeValue(v))
	}
	return values, true, nil
}

// filteredEnum keeps the enum values a single-type node can hold. The
// result is nil when no enum is declared and non-nil (possibly empty)
// otherwise.
func filteredEnum(node *yaml.Node, ptr string, keep func(any) bool) ([]any, error) {
	values, ok, err := enumValues(node, ptr)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]any, 0, len(values))
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// normalizeValue converts decoded YAML numbers to float64 so enum and
// default values compare uniformly.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalizeValue(e)
		}
		return out
	}
	return v
}
