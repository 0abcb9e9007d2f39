package httpvalidator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baerwang/openapi-rs/internal/testutil"
	"github.com/baerwang/openapi-rs/oaserrors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.True(t, cfg.includeWarnings)
	assert.False(t, cfg.strictMode)
	assert.False(t, cfg.redactValues)
	assert.Zero(t, cfg.maxBodySize)
	assert.Nil(t, cfg.sink)
}

func TestOptions(t *testing.T) {
	doc := testutil.LoadUsersSpec(t)
	sink := SinkFunc(func(Outcome) {})
	clock := func() time.Time { return time.Time{} }

	cfg, err := applyOptions([]Option{
		WithFilePath("openapi.yaml"),
		WithDocument(doc),
		WithStrictMode(true),
		WithIncludeWarnings(false),
		WithRedactValues(true),
		WithMaxBodySize(1024),
		WithSink(sink),
		WithClock(clock),
	})
	require.NoError(t, err)
	assert.Equal(t, "openapi.yaml", cfg.filePath)
	assert.Same(t, doc, cfg.doc)
	assert.True(t, cfg.strictMode)
	assert.False(t, cfg.includeWarnings)
	assert.True(t, cfg.redactValues)
	assert.Equal(t, int64(1024), cfg.maxBodySize)
	assert.NotNil(t, cfg.sink)
	assert.NotNil(t, cfg.clock)
}

func TestOptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"nil document", WithDocument(nil)},
		{"negative body size", WithMaxBodySize(-1)},
		{"nil clock", WithClock(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := applyOptions([]Option{tt.opt})
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

func TestValidateRequestWithOptions(t *testing.T) {
	req := RequestView{Method: "GET", Path: "/users", Query: "page=1"}

	t.Run("with document", func(t *testing.T) {
		result, err := ValidateRequestWithOptions(req, WithDocument(testutil.LoadUsersSpec(t)))
		require.NoError(t, err)
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("with file path", func(t *testing.T) {
		path := testutil.WriteSpec(t, "users.yaml", testutil.UsersSpec)
		result, err := ValidateRequestWithOptions(req, WithFilePath(path), WithStrictMode(true))
		require.NoError(t, err)
		assert.True(t, result.Valid, result.Summary())
	})

	t.Run("strict mode applies", func(t *testing.T) {
		result, err := ValidateRequestWithOptions(
			RequestView{Method: "GET", Path: "/users", Query: "page=1&x=1"},
			WithDocument(testutil.LoadUsersSpec(t)),
			WithStrictMode(true),
		)
		require.NoError(t, err)
		assert.True(t, result.HasKind(UnknownParameter))
	})

	t.Run("no source", func(t *testing.T) {
		_, err := ValidateRequestWithOptions(req)
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("two sources", func(t *testing.T) {
		_, err := ValidateRequestWithOptions(req, WithFilePath("a.yaml"), WithDocument(testutil.LoadUsersSpec(t)))
		assert.ErrorIs(t, err, oaserrors.ErrConfig)
	})

	t.Run("unparseable file", func(t *testing.T) {
		path := testutil.WriteSpec(t, "broken.yaml", "openapi: 3.1.0\n")
		_, err := ValidateRequestWithOptions(req, WithFilePath(path))
		assert.ErrorIs(t, err, oaserrors.ErrMissingField)
	})
}
