package httpvalidator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// FromHTTPRequest builds a RequestView from r. At most maxBody+1 bytes of
// the body are read so that oversized bodies are still reported; r.Body is
// restored so later handlers see the full body.
func FromHTTPRequest(r *http.Request, maxBody int64) (RequestView, error) {
	view := RequestView{
		Method:      r.Method,
		Path:        r.URL.EscapedPath(),
		Query:       r.URL.RawQuery,
		ContentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil || r.Body == http.NoBody {
		return view, nil
	}

	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return view, fmt.Errorf("httpvalidator: failed to read request body: %w", err)
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), r.Body), r.Body}
	view.Body = body
	return view, nil
}

// ErrorItem is one entry of the error response body.
type ErrorItem struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body the middlewares send on failure.
type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

// ErrorPayload converts a failed result into the response body.
func ErrorPayload(result *RequestValidationResult) ErrorResponse {
	items := make([]ErrorItem, len(result.Errors))
	for i, e := range result.Errors {
		items[i] = ErrorItem{Path: e.Path(), Kind: e.Label(), Message: e.Message}
	}
	return ErrorResponse{Errors: items}
}

// StatusCode maps a failed result to an HTTP status: 404 for an unknown
// route, 405 for an undeclared method and 400 otherwise.
func StatusCode(result *RequestValidationResult) int {
	switch {
	case result.Valid:
		return http.StatusOK
	case result.HasKind(RouteNotFound):
		return http.StatusNotFound
	case result.HasKind(MethodNotAllowed):
		return http.StatusMethodNotAllowed
	}
	return http.StatusBadRequest
}

type resultKey struct{}

// ContextWithResult stores result in ctx.
func ContextWithResult(ctx context.Context, result *RequestValidationResult) context.Context {
	return context.WithValue(ctx, resultKey{}, result)
}

// ResultFromContext fetches the result stored by a validation middleware.
func ResultFromContext(ctx context.Context) (*RequestValidationResult, bool) {
	r, ok := ctx.Value(resultKey{}).(*RequestValidationResult)
	return r, ok
}

// Middleware validates every request before passing it on. Invalid
// requests are answered with StatusCode and an ErrorResponse body; valid
// ones reach next with the result stored in the request context.
func Middleware(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view, err := FromHTTPRequest(r, v.MaxBodySize())
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Errors: []ErrorItem{{
					Path: LocationBody, Kind: InvalidBody.String(), Message: err.Error(),
				}}})
				return
			}
			result := v.Validate(view)
			if !result.Valid {
				writeJSON(w, StatusCode(result), ErrorPayload(result))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithResult(r.Context(), result)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
