package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/baerwang/openapi-rs/oaserrors"
)

// refResolver resolves local JSON-pointer references against the raw node
// tree. Schemas reached through a $ref are built once and shared; the
// resolving stack detects cycles.
type refResolver struct {
	root *yaml.Node

	// schemas memoizes built schemas by ref string
	schemas map[string]Schema
	// resolving is the stack of refs currently being built
	resolving []string
}

func newRefResolver(root *yaml.Node) *refResolver {
	return &refResolver{
		root:    root,
		schemas: make(map[string]Schema),
	}
}

// lookup returns the node a local ref designates.
func (r *refResolver) lookup(ref string) (*yaml.Node, error) {
	if !strings.HasPrefix(ref, "#") {
		refType := "file"
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			refType = "http"
		}
		return nil, &oaserrors.ParseError{
			Kind:    oaserrors.KindUnresolvedReference,
			Pointer: ref,
			Cause: &oaserrors.ReferenceError{
				Ref:     ref,
				RefType: refType,
				Message: "only references within the document are supported",
			},
		}
	}

	pointer := strings.TrimPrefix(ref, "#")
	current := r.root
	if pointer == "" || pointer == "/" {
		return current, nil
	}

	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, part := range parts {
		part = unescapeJSONPointer(part)
		current = deref(current)

		var next *yaml.Node
		switch current.Kind {
		case yaml.MappingNode:
			next = mappingValue(current, part)
		case yaml.SequenceNode:
			// RFC 6901 array indexing
			index, err := strconv.Atoi(part)
			if err == nil && index >= 0 && index < len(current.Content) {
				next = current.Content[index]
			}
		}
		if next == nil {
			return nil, unresolved(ref, fmt.Sprintf("reference not found: #/%s", strings.Join(parts[:i+1], "/")))
		}
		current = next
	}
	return deref(current), nil
}

// schema resolves ref to a built Schema, building it on first use.
func (r *refResolver) schema(ref string, build func(*yaml.Node, string) (Schema, error)) (Schema, error) {
	if s, ok := r.schemas[ref]; ok {
		return s, nil
	}
	if idx := slices.Index(r.resolving, ref); idx >= 0 {
		chain := append(slices.Clone(r.resolving[idx:]), ref)
		return nil, &oaserrors.ParseError{
			Kind:    oaserrors.KindCircularReference,
			Pointer: ref,
			Cause: &oaserrors.ReferenceError{
				Ref:        ref,
				RefType:    "local",
				IsCircular: true,
				Chain:      chain,
			},
		}
	}

	target, err := r.lookup(ref)
	if err != nil {
		return nil, err
	}

	r.resolving = append(r.resolving, ref)
	s, err := build(target, ref)
	r.resolving = r.resolving[:len(r.resolving)-1]
	if err != nil {
		return nil, err
	}
	r.schemas[ref] = s
	return s, nil
}

// follow resolves a chain of non-schema refs (parameters, request bodies,
// path items) to the final node.
func (r *refResolver) follow(node *yaml.Node) (*yaml.Node, error) {
	var seen []string
	for {
		node = deref(node)
		ref, ok := refOf(node)
		if !ok {
			return node, nil
		}
		if slices.Contains(seen, ref) {
			return nil, &oaserrors.ParseError{
				Kind:    oaserrors.KindCircularReference,
				Pointer: ref,
				Cause: &oaserrors.ReferenceError{
					Ref: ref, RefType: "local", IsCircular: true, Chain: append(seen, ref),
				},
			}
		}
		seen = append(seen, ref)
		next, err := r.lookup(ref)
		if err != nil {
			return nil, err
		}
		node = next
	}
}

func unresolved(ref, msg string) error {
	return &oaserrors.ParseError{
		Kind:    oaserrors.KindUnresolvedReference,
		Pointer: ref,
		Cause:   &oaserrors.ReferenceError{Ref: ref, RefType: "local", Message: msg},
	}
}

// unescapeJSONPointer unescapes JSON Pointer tokens
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// escapeJSONPointer is the inverse of unescapeJSONPointer.
func escapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// refOf returns the $ref value of a mapping node.
func refOf(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	v := mappingValue(node, "$ref")
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// deref unwraps document and alias nodes.
func deref(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return node
}

// mappingValue returns the value node for key, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return deref(node.Content[i+1])
		}
	}
	return nil
}

// mappingEach calls fn for each key/value pair in declaration order.
func mappingEach(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, deref(node.Content[i+1])); err != nil {
			return err
		}
	}
	return nil
}
