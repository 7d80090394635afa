package domain

// PaginationState tracks the visible page of a list.
type PaginationState struct {
	CurrentPage int
	PageSize    int
	TotalCount  int
}

// NewPaginationState returns a state on page 1.
func NewPaginationState(pageSize int) PaginationState {
	if pageSize <= 0 {
		pageSize = 10
	}
	return PaginationState{CurrentPage: 1, PageSize: pageSize}
}

// SetPageSize changes the page size and always resets to page 1.
func (p *PaginationState) SetPageSize(n int) {
	if n > 0 {
		p.PageSize = n
	}
	p.CurrentPage = 1
}

// TotalPages returns the number of pages, at least 1.
func (p PaginationState) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 1
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// Bounds returns the [start, end) slice indexes of the current page over n records.
func (p PaginationState) Bounds(n int) (start, end int) {
	return PageBounds(p.CurrentPage, p.PageSize, n)
}

// PageBounds returns the [start, end) indexes of page over n records. Pages start at 1.
func PageBounds(page, pageSize, n int) (start, end int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return 0, n
	}
	start = (page - 1) * pageSize
	if start > n {
		start = n
	}
	end = start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
