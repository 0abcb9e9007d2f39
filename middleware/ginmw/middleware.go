package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baerwang/openapi-rs/httpvalidator"
)

// RequestView builds the validator's view of the request in c, reading at
// most maxBody+1 bytes of the body. The body stays readable for handlers.
func RequestView(c *gin.Context, maxBody int64) (httpvalidator.RequestView, error) {
	return httpvalidator.FromHTTPRequest(c.Request, maxBody)
}

// Validate checks each request against v. Invalid requests are aborted with
// the mapped status and an ErrorResponse body.
func Validate(v *httpvalidator.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := RequestView(c, v.MaxBodySize())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, httpvalidator.ErrorResponse{Errors: []httpvalidator.ErrorItem{{
				Path:    httpvalidator.LocationBody,
				Kind:    httpvalidator.InvalidBody.String(),
				Message: err.Error(),
			}}})
			return
		}
		result := v.Validate(view)
		if !result.Valid {
			c.AbortWithStatusJSON(httpvalidator.StatusCode(result), httpvalidator.ErrorPayload(result))
			return
		}
		c.Request = c.Request.WithContext(httpvalidator.ContextWithResult(c.Request.Context(), result))
		c.Next()
	}
}

// GetResult fetches the validation result stored by Validate.
func GetResult(c *gin.Context) (*httpvalidator.RequestValidationResult, bool) {
	return httpvalidator.ResultFromContext(c.Request.Context())
}
