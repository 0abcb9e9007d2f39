package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/baerwang/openapi-rs/httpvalidator"
)

// RequestView builds the validator's view of the request in c, reading at
// most maxBody+1 bytes of the body. The body stays readable for handlers.
func RequestView(c echo.Context, maxBody int64) (httpvalidator.RequestView, error) {
	return httpvalidator.FromHTTPRequest(c.Request(), maxBody)
}

// Validate checks each request against v, replying with the mapped status
// and an ErrorResponse body when it is invalid.
func Validate(v *httpvalidator.Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			view, err := RequestView(c, v.MaxBodySize())
			if err != nil {
				return c.JSON(http.StatusBadRequest, httpvalidator.ErrorResponse{Errors: []httpvalidator.ErrorItem{{
					Path:    httpvalidator.LocationBody,
					Kind:    httpvalidator.InvalidBody.String(),
					Message: err.Error(),
				}}})
			}
			result := v.Validate(view)
			if !result.Valid {
				return c.JSON(httpvalidator.StatusCode(result), httpvalidator.ErrorPayload(result))
			}
			ctx := httpvalidator.ContextWithResult(c.Request().Context(), result)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetResult fetches the validation result stored by Validate.
func GetResult(c echo.Context) (*httpvalidator.RequestValidationResult, bool) {
	return httpvalidator.ResultFromContext(c.Request().Context())
}
