package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/baerwang/openapi-rs/oaserrors"
)

// DefaultMaxFileSize bounds the size of a contract read from disk or a reader.
const DefaultMaxFileSize int64 = 10 << 20

// Parser loads OpenAPI contracts into immutable Documents.
type Parser struct {
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
	// MaxFileSize is the maximum contract size in bytes (0 means DefaultMaxFileSize).
	MaxFileSize int64
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

// SourceFormat represents the format of the source OpenAPI specification file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Parse loads the contract stored at specPath.
func (p *Parser) Parse(specPath string) (*Document, error) {
	loadStart := time.Now()
	info, err := os.Stat(specPath)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}
	if info.Size() > p.maxFileSize() {
		return nil, &oaserrors.ResourceLimitError{ResourceType: "document_size", Limit: p.maxFileSize(), Actual: info.Size()}
	}
	data, err := os.ReadFile(specPath)
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}

	doc, err := p.parse(data, specPath, false)
	if err != nil {
		return nil, err
	}
	doc.LoadTime = loadTime
	if f := detectFormatFromPath(specPath); f != SourceFormatUnknown {
		doc.SourceFormat = f
	}
	return doc, nil
}

// ParseReader loads a contract from r.
// Note: SourcePath is set to ParseReader.yaml or ParseReader.json
func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	loadStart := time.Now()
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	loadTime := time.Since(loadStart)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &oaserrors.ResourceLimitError{ResourceType: "document_size", Limit: limit}
	}
	doc, err := p.parse(data, "ParseReader", true)
	if err != nil {
		return nil, err
	}
	doc.LoadTime = loadTime
	return doc, nil
}

// ParseBytes loads a contract from data.
// Note: SourcePath is set to ParseBytes.yaml or ParseBytes.json
func (p *Parser) ParseBytes(data []byte) (*Document, error) {
	return p.parse(data, "ParseBytes", true)
}

// parse builds a Document; synthetic sources get the detected format as extension.
func (p *Parser) parse(data []byte, source string, synthetic bool) (*Document, error) {
	format := detectFormatFromContent(data)
	if synthetic {
		source += "." + string(format)
	}
	log := p.log().With("source", source)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, withSource(&oaserrors.ParseError{
			Kind:    oaserrors.KindMalformedSyntax,
			Message: "failed to parse YAML/JSON",
			Cause:   err,
		}, source)
	}
	if root.Kind == 0 {
		return nil, withSource(&oaserrors.ParseError{Kind: oaserrors.KindMissingField, Pointer: "#", Message: "document is empty"}, source)
	}

	doc, err := newBuilder(&root, log).document()
	if err != nil {
		return nil, withSource(err, source)
	}
	doc.SourcePath = source
	doc.SourceFormat = format
	doc.SourceSize = int64(len(data))

	log.Debug("contract loaded",
		"paths", doc.Stats.PathCount,
		"operations", doc.Stats.OperationCount,
		"schemas", doc.Stats.SchemaCount)
	return doc, nil
}

// withSource stamps the source name on a ParseError.
func withSource(err error, source string) error {
	var pe *oaserrors.ParseError
	if errors.As(err, &pe) && pe.Path == "" {
		pe.Path = source
	}
	return err
}

func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}

func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
