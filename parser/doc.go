// Package parser loads OpenAPI 3.x contracts into an immutable, fully
// resolved Document.
//
// The document text (YAML or JSON) is decoded into a node tree with
// go.yaml.in/yaml/v4 so that declaration order survives: path templates,
// object properties and request-body media types all keep the order in
// which the contract lists them.
//
// # Quick Start
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, item := range doc.Paths {
//		fmt.Println(item.Template, item.Methods())
//	}
//
// # Schemas
//
// Every schema is one of a closed set of types: [NullSchema],
// [BooleanSchema], [IntegerSchema], [NumberSchema], [StringSchema],
// [ArraySchema], [ObjectSchema] and [UnionSchema]. Composition keywords are
// normalized at load time:
//
//   - oneOf and anyOf become a UnionSchema
//   - a type list such as [string, "null"] becomes a UnionSchema of single types
//   - nullable: true adds a NullSchema variant
//   - allOf over object schemas is merged into one ObjectSchema
//
// # References
//
// Local references ("#/components/schemas/Pet") are resolved once. Every
// $ref to the same target shares a single Schema value. References to other
// files or URLs fail with [oaserrors.ErrUnresolvedReference], and a schema
// that reaches itself through references fails with
// [oaserrors.ErrCircularReference]; the validator's recursion is therefore
// always finite.
//
// Loading either returns a complete Document or an error; no partial
// document is ever exposed.
package parser
