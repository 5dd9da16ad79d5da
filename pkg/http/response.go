package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// OK writes the success acknowledgement.
func OK(c echo.Context) error {
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}

// OKDeduped writes the success acknowledgement with the deduped flag.
func OKDeduped(c echo.Context) error {
	return c.JSON(http.StatusOK, OKResponse{OK: true, Deduped: true})
}

// FailResponse writes an error body with the given HTTP status.
func FailResponse(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrResponse{OK: false, Error: msg})
}

// AppErrorResponse maps an AppError to its HTTP status; anything else is a 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return FailResponse(c, appErr.Status, appErr.Message)
	}
	return FailResponse(c, http.StatusInternalServerError, "internal error")
}
