package httpvalidator

import (
	"time"

	"github.com/baerwang/openapi-rs/internal/options"
	"github.com/baerwang/openapi-rs/parser"
)

// Option is a functional option for configuring validation.
type Option func(*config) error

// config holds the configuration for validation operations.
type config struct {
	// Spec source (one of these must be set for ValidateRequestWithOptions)
	filePath string
	doc      *parser.Document
	logger   parser.Logger

	// Validation behavior
	includeWarnings bool
	strictMode      bool
	redactValues    bool

	// Resource limits
	maxBodySize int64 // max request body size (0 = DefaultMaxBodySize)

	sink  Sink
	clock func() time.Time
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		includeWarnings: true,
		strictMode:      false,
	}
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithFilePath sets the path to the OpenAPI document.
// The file will be parsed automatically.
func WithFilePath(path string) Option {
	return func(c *config) error {
		c.filePath = path
		return nil
	}
}

// WithDocument uses an already loaded document.
// This is more efficient when validating multiple requests.
func WithDocument(doc *parser.Document) Option {
	return func(c *config) error {
		if doc == nil {
			return options.InvalidOption("document", nil, "document cannot be nil")
		}
		c.doc = doc
		return nil
	}
}

// WithLogger sets the logger used while loading a document from WithFilePath.
func WithLogger(l parser.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithIncludeWarnings sets whether to report tolerated findings.
// Default is true.
func WithIncludeWarnings(include bool) Option {
	return func(c *config) error {
		c.includeWarnings = include
		return nil
	}
}

// WithStrictMode rejects requests with undeclared query parameters.
//
// Default is false.
func WithStrictMode(strict bool) Option {
	return func(c *config) error {
		c.strictMode = strict
		return nil
	}
}

// WithRedactValues keeps request values out of error messages.
func WithRedactValues(redact bool) Option {
	return func(c *config) error {
		c.redactValues = redact
		return nil
	}
}

// WithMaxBodySize sets the maximum request body size in bytes.
// Bodies exceeding this limit produce an InvalidBody error.
// Default: 10 MiB.
func WithMaxBodySize(n int64) Option {
	return func(c *config) error {
		if n < 0 {
			return options.InvalidOption("maxBodySize", n, "cannot be negative")
		}
		c.maxBodySize = n
		return nil
	}
}

// WithSink sets the observability sink that receives one Outcome per call.
func WithSink(s Sink) Option {
	return func(c *config) error {
		c.sink = s
		return nil
	}
}

// WithClock replaces time.Now for measuring durations and timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return options.InvalidOption("clock", nil, "clock cannot be nil")
		}
		c.clock = now
		return nil
	}
}

// ValidateRequestWithOptions validates one request using functional options.
//
// This is a convenience function for one-off validations. For validating multiple
// requests, use New() to create a reusable Validator instance.
//
// Example:
//
//	result, err := httpvalidator.ValidateRequestWithOptions(
//	    httpvalidator.RequestView{Method: "GET", Path: "/users"},
//	    httpvalidator.WithFilePath("openapi.yaml"),
//	    httpvalidator.WithStrictMode(true),
//	)
func ValidateRequestWithOptions(req RequestView, opts ...Option) (*RequestValidationResult, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	doc, err := getDocument(cfg)
	if err != nil {
		return nil, err
	}

	v, err := newValidator(doc, cfg)
	if err != nil {
		return nil, err
	}
	return v.Validate(req), nil
}

// getDocument loads the document named by the config's source options.
func getDocument(cfg *config) (*parser.Document, error) {
	if err := options.ValidateSingleInputSource(
		"httpvalidator: must specify an input source (WithFilePath or WithDocument)",
		"httpvalidator: must specify exactly one input source",
		cfg.filePath != "", cfg.doc != nil,
	); err != nil {
		return nil, err
	}
	if cfg.doc != nil {
		return cfg.doc, nil
	}

	parseOpts := []parser.Option{parser.WithFilePath(cfg.filePath)}
	if cfg.logger != nil {
		parseOpts = append(parseOpts, parser.WithLogger(cfg.logger))
	}
	return parser.ParseWithOptions(parseOpts...)
}
