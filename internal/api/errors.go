package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrNotFound is matched by errors.Is for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is matched by errors.Is for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrServer is matched by errors.Is for 5xx responses.
	ErrServer = errors.New("server error")
	// ErrCircuitOpen is returned when the breaker rejects a request.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when the half-open breaker is saturated.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Error is a non-2xx response from the backend.
type Error struct {
	Endpoint string
	Status   int
	Code     string
	Message  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s returned %d (%s): %s", e.Endpoint, e.Status, e.Code, msg)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Endpoint, e.Status, msg)
}

// Is maps status classes onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrServer:
		return e.Status >= 500
	}
	return false
}

// errorBody covers the two error shapes the backend emits.
type errorBody struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseError reads and closes the body of a non-2xx response.
func parseError(resp *http.Response, endpoint string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &Error{Endpoint: endpoint, Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	apiErr := &Error{Endpoint: endpoint, Status: resp.StatusCode}
	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Error != nil:
			apiErr.Code = parsed.Error.Code
			apiErr.Message = parsed.Error.Message
		case parsed.Message != "":
			apiErr.Message = parsed.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// countsAsSuccess tells the breaker which errors do not indicate an unhealthy backend.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status < 500
	}
	return false
}

// Describe renders err as a short operator-facing sentence, or "" when err is
// not an API error.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrTooManyRequests):
		return "backend unavailable, requests paused after repeated failures"
	case errors.Is(err, ErrUnauthorized):
		return "backend rejected the credentials; check api_token"
	case errors.Is(err, ErrNotFound):
		return "order not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "backend did not answer in time"
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return ""
}
