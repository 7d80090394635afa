// Package errors routes user-facing messages to the console or the TUI.
package errors

import (
	"context"
	stderrors "errors"
	"sync"
)

// ErrorHandler is the interface for error handling.
// Different implementations can handle errors differently based on context.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console sink used by CLIHandler.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// Describer turns an error into a user-facing sentence.
// Returning "" falls back to err.Error().
type Describer func(err error) string

// CLIHandler handles errors by printing to stdout/stderr using the colors package.
type CLIHandler struct {
	colors    ColorOutput
	describe  Describer
	mu        sync.Mutex
	lastError string
}

func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

// WithDescriber sets the function used by Report to phrase errors.
func (h *CLIHandler) WithDescriber(d Describer) *CLIHandler {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.describe = d
	return h
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	h.lastError = msg
	h.mu.Unlock()
	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) { h.colors.Warning(msg) }
func (h *CLIHandler) Info(msg string)    { h.colors.Info(msg) }
func (h *CLIHandler) Success(msg string) { h.colors.Success(msg) }

// Report prints err as an error. Cancellation is silent and nil is ignored.
func (h *CLIHandler) Report(err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}
	h.Error(Describe(err, h.describer()))
}

// LastError returns the most recent error message printed by the handler.
func (h *CLIHandler) LastError() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastError
}

func (h *CLIHandler) describer() Describer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.describe
}

// Describe phrases err with d, falling back to err.Error().
func Describe(err error, d Describer) string {
	if d != nil {
		if msg := d(err); msg != "" {
			return msg
		}
	}
	return err.Error()
}
