// Package orders keeps the order list, order details and new-order
// notifications in sync with the backend.
package orders

import (
	"context"
	"errors"

	"github.com/cristianoliveira/orderdesk/internal/api"
	"github.com/cristianoliveira/orderdesk/internal/domain"
)

var (
	// ErrSuperseded is returned by a load whose result was overtaken by a newer load.
	ErrSuperseded = errors.New("load superseded by a newer request")
	// ErrDetailUnavailable is returned when a concurrent detail fetch produced nothing in time.
	ErrDetailUnavailable = errors.New("order detail unavailable")
)

// ListSource pages through the list projection.
type ListSource interface {
	ListOrders(ctx context.Context, p api.ListParams) (*api.ListResponse, error)
}

// StatusSource changes order status on the backend.
type StatusSource interface {
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Complete(ctx context.Context, id string) error
}

// Backend is everything the list controller needs.
type Backend interface {
	ListSource
	StatusSource
}

// DetailSource fetches the detail projection of one order.
type DetailSource interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// MutationListener is told about every local patch applied by the list controller.
type MutationListener interface {
	OrderPatched(id string, patch domain.Patch)
}

// PageSizeStore persists the page size preference of a namespace.
type PageSizeStore interface {
	SavePageSize(namespace string, size int) error
}

var _ Backend = (*api.Client)(nil)
var _ DetailSource = (*api.Client)(nil)
