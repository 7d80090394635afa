// Package state provides the bubbletea model of the order console.
package state

import (
	"time"

	"github.com/cristianoliveira/orderdesk/internal/domain"
	"github.com/cristianoliveira/orderdesk/internal/orders"
	"github.com/cristianoliveira/orderdesk/internal/settings"
)

// pageLoadedMsg carries a page produced by a list load.
type pageLoadedMsg struct {
	Tab  settings.Tab
	Page orders.Page
}

// pageLoadFailedMsg is sent when a list load fails.
type pageLoadFailedMsg struct {
	Tab settings.Tab
	Err error
}

// detailLoadedMsg carries the result of a detail fetch.
type detailLoadedMsg struct {
	ID    string
	Order domain.Order
	Err   error
}

// mutationDoneMsg is sent when the backend answers a status change.
// Prev and Patch undo the optimistic change when Err is set.
type mutationDoneMsg struct {
	ID       string
	Action   string
	Patch    domain.Patch
	Prev     domain.Order
	Previous domain.OrderStatus
	Listed   bool
	Err      error
}

// toastTickMsg refreshes the live notifications.
type toastTickMsg time.Time

type saveSettingsFailedMsg struct {
	err error
}
