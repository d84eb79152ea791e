package common

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	SessionKey contextKey = "session"
)

// DateLayout is the calendar-date format accepted on query strings.
const DateLayout = "2006-01-02"

// Session is the authenticated user of a request.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email,omitempty"`
}

// DisplayName is the name stamped on exports.
func (s Session) DisplayName() string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	if s.Email != "" {
		return s.Email
	}
	return s.UserID.String()
}

// WithSession stores the session and its user id in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, s.UserID)
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFromContext extracts the session set by the JWT middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendValidationError sends a validation error response
func SendValidationError(c echo.Context, field, message string) error {
	details := map[string]string{
		field: message,
	}
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", "Validation failed", details))
}

// SendClientError sends a client error response
func SendClientError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, CreateErrorResponse("CLIENT_ERROR", message, nil))
}

// SendServerError sends a server error response
func SendServerError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", message, nil))
}

// SendNotFoundError sends a not found error response
func SendNotFoundError(c echo.Context, resource string) error {
	return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", fmt.Sprintf("%s not found", resource), nil))
}

// SendUnauthorizedError sends an unauthorized error response
func SendUnauthorizedError(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, CreateErrorResponse("UNAUTHORIZED", "Unauthorized access", nil))
}

// SendNoMatchesError reports an export whose criteria selected nothing.
func SendNoMatchesError(c echo.Context, message string) error {
	return c.JSON(http.StatusUnprocessableEntity, CreateErrorResponse("NO_MATCHES", message, nil))
}

// SendConflictError reports an export that is already running for the session.
func SendConflictError(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, CreateErrorResponse("EXPORT_IN_PROGRESS", message, nil))
}

// ParseDate parses an optional YYYY-MM-DD value in loc. Empty input yields nil.
func ParseDate(value, fieldName string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return nil, fmt.Errorf("%s must be in YYYY-MM-DD format", fieldName)
	}
	return &t, nil
}
