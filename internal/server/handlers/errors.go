package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/validation"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeInvalidPage        = "INVALID_PAGE"
	CodeInvalidRowsPerPage = "INVALID_ROWS_PER_PAGE"
	CodeSuperseded         = "SUPERSEDED"
	CodeServerError        = "SERVER_ERROR"
	CodeNoResponse         = "NO_RESPONSE"
	CodeUnknownError       = "UNKNOWN_ERROR"
)

// fetchErrorStatus maps a fetch error kind to the status returned to our
// own clients.
func fetchErrorStatus(fe *weather.FetchError) (int, string) {
	switch fe.Kind {
	case weather.ServerError:
		return http.StatusBadGateway, CodeServerError
	case weather.NoResponse:
		return http.StatusGatewayTimeout, CodeNoResponse
	default:
		return http.StatusInternalServerError, CodeUnknownError
	}
}

func fetchErrorResponse(fe *weather.FetchError) ErrorResponse {
	_, code := fetchErrorStatus(fe)
	resp := ErrorResponse{
		Error: fe.Error(),
		Code:  code,
	}
	if fe.Err != nil {
		resp.Details = fe.Err.Error()
	}
	return resp
}

// writeValidationError reports whether err was a validation error and, if
// so, has written the response.
func writeValidationError(c *gin.Context, err error) bool {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return false
	}

	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:  "Invalid query",
		Code:   CodeValidation,
		Fields: verr.Fields,
	})
	return true
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request parameters",
		Code:    CodeInvalidParams,
		Details: err.Error(),
	})
}
