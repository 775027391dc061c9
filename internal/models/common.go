package models

// Pagination carries list paging metadata.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NewPagination builds paging metadata for a list response.
func NewPagination(page, pageSize, total int) *Pagination {
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}

// DateLayout is the canonical calendar-day format used across stores.
const DateLayout = "2006-01-02"
