// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/baerwang/openapi-rs/parser"
)

// UsersSpec is a contract exercising every schema kind, both parameter
// locations, $ref sharing and several body media types.
const UsersSpec = `openapi: 3.1.0
info:
  title: Users API
  version: 1.0.0
components:
  schemas:
    User:
      type: object
      required: [name, email, age]
      properties:
        name:
          type: string
          minLength: 1
          maxLength: 64
        email:
          type: string
          format: email
        age:
          type: integer
          minimum: 0
          maximum: 150
        tags:
          type: array
          maxItems: 3
          items:
            type: string
        nickname:
          type: [string, "null"]
  parameters:
    Page:
      name: page
      in: query
      required: true
      schema:
        type: integer
        minimum: 1
paths:
  /users/{user_id}:
    parameters:
      - name: user_id
        in: path
        schema:
          type: string
          format: uuid
    get:
      operationId: getUser
    delete:
      operationId: deleteUser
      deprecated: true
  /users/active:
    get:
      operationId: listActiveUsers
  /users:
    get:
      operationId: listUsers
      parameters:
        - $ref: '#/components/parameters/Page'
        - name: limit
          in: query
          schema:
            type: integer
            minimum: 1
            maximum: 100
            default: 20
        - name: ids
          in: query
          explode: false
          schema:
            type: array
            items:
              type: integer
        - name: active
          in: query
          schema:
            type: boolean
    post:
      operationId: createUser
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/User'
          application/yaml:
            schema:
              $ref: '#/components/schemas/User'
          application/x-www-form-urlencoded:
            schema:
              $ref: '#/components/schemas/User'
  /example/{uuid}:
    get:
      operationId: getExample
      parameters:
        - name: uuid
          in: path
          schema:
            type: string
            format: uuid
  /orders/{order_id}:
    put:
      operationId: updateOrder
      parameters:
        - name: order_id
          in: path
          schema:
            type: integer
            minimum: 1
      requestBody:
        content:
          application/*:
            schema:
              oneOf:
                - type: object
                  required: [quantity]
                  properties:
                    quantity:
                      type: integer
                      minimum: 1
                - type: string
                  format: uuid
          text/plain:
            schema:
              type: string
              maxLength: 10
`

// LoadUsersSpec parses UsersSpec, failing the test on error.
func LoadUsersSpec(t *testing.T) *parser.Document {
	t.Helper()
	return MustParse(t, UsersSpec)
}

// MustParse parses spec, failing the test on error.
func MustParse(t *testing.T, spec string) *parser.Document {
	t.Helper()
	doc, err := parser.New().ParseBytes([]byte(spec))
	if err != nil {
		t.Fatalf("Failed to parse spec: %v", err)
	}
	return doc
}

// WriteSpec writes content to name inside a fresh temporary directory and
// returns the file path.
func WriteSpec(t *testing.T, name, content string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary spec file: %v", err)
	}
	return tmpFile
}

// WriteTempYAML marshals doc to YAML in a temporary file and returns its path.
func WriteTempYAML(t *testing.T, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteSpec(t, "test.yaml", string(data))
}

// WriteTempJSON marshals doc to JSON in a temporary file and returns its path.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteSpec(t, "test.json", string(data))
}
