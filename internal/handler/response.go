// Package handler contains the HTTP layer: thin echo handlers that
// validate input, call the service and shape its results into the uniform
// response envelope. No business rules live here.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/starbase-io/roster/internal/service"
)

// BaseResponse is the envelope every endpoint returns. ResponseCode
// duplicates the HTTP status so clients reading only the body still see
// the outcome.
type BaseResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	ResponseCode int    `json:"response_code"`
}

func okBase() BaseResponse {
	return BaseResponse{Success: true, ResponseCode: http.StatusOK}
}

// statusOf maps the service error taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondErr writes a failure envelope whose HTTP status matches the
// error kind. Used by mutations, where a missing person is a real 404.
func respondErr(c echo.Context, err error) error {
	code := statusOf(err)
	return c.JSON(code, BaseResponse{Message: err.Error(), ResponseCode: code})
}

// respondQueryErr is the read-endpoint variant: a not-found is shaped as
// a 200 with success=false and a message, because an empty lookup result
// is an answer, not a failure.
func respondQueryErr(c echo.Context, err error) error {
	if service.KindOf(err) == service.KindNotFound {
		return c.JSON(http.StatusOK, BaseResponse{
			Message:      err.Error(),
			ResponseCode: http.StatusOK,
		})
	}
	return respondErr(c, err)
}
