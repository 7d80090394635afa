package api

import "github.com/cristianoliveira/orderdesk/internal/domain"

// ListParams selects one page of orders. An empty Status omits the filter.
type ListParams struct {
	Page   int
	Limit  int
	Status string
}

// ListResponse is one page of the list projection.
type ListResponse struct {
	Data       []domain.Order `json:"data"`
	Total      int            `json:"total"`
	TotalPages int            `json:"totalPages"`
}

type detailResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    *domain.Order `json:"data"`
}

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}
