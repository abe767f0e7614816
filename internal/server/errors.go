package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abelbrown/newsfeed/internal/logging"
)

// ValidationError is a client mistake reported as 400.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

type errorBody struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

// GlobalErrorHandler renders every handler error as JSON.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, errorBody{Error: ve.Error(), Title: "validation error"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, errorBody{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		logging.Error("unhandled error", "path", c.Path(), "err", err)
		_ = c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
