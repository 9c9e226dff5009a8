package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SourceUnavailableError signals that a backend fetch failed. Engines surface
// it as an Error state only when no prior successful data exists; otherwise
// the last good view is retained and the failure is logged.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// NotFoundError signals that a car or booking id is absent from the backend.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// TimeoutError signals that a bounded source call exceeded its deadline.
type TimeoutError struct {
	Source string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("source %s timed out", e.Source)
}

// SubmissionResult records the outcome of one cart line submission.
type SubmissionResult struct {
	CarID     string `json:"carId"`
	BookingID string `json:"bookingId,omitempty"`
	Err       error  `json:"-"`
	ErrDetail string `json:"error,omitempty"`
}

// PartialSubmissionError reports a cart processing run where at least one
// booking submission failed. It carries every line outcome so callers can
// tell succeeded lines from failed ones; succeeded lines must never be
// re-submitted and failed lines must not be dropped silently.
type PartialSubmissionError struct {
	Results []SubmissionResult
}

func (e *PartialSubmissionError) Error() string {
	failed := 0
	for _, r := range e.Results {
		if r.Err != nil {
			failed++
		}
	}
	return fmt.Sprintf("%d of %d cart submissions failed", failed, len(e.Results))
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFor maps engine errors onto HTTP status codes for the delivery layer.
func StatusFor(err error) int {
	var nf *NotFoundError
	var to *TimeoutError
	var su *SourceUnavailableError
	var ps *PartialSubmissionError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &to):
		return http.StatusGatewayTimeout
	case errors.As(err, &su):
		return http.StatusBadGateway
	case errors.As(err, &ps):
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}
