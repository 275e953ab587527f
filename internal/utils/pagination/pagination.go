// Package pagination turns page/page_size query parameters into bounded
// database windows.
package pagination

import "gorm.io/gorm"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is a 1-based page request, bound from the query string.
type Pagination struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

// New returns the first page at the default size.
func New() *Pagination {
	return &Pagination{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Limit is the page size clamped to [1, MaxPageSize].
func (p Pagination) Limit() int {
	switch {
	case p.PageSize < 1:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return p.PageSize
}

// Offset is the number of rows before the page. Pages below 1 read as the first page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Scope applies the window to a gorm query.
func (p Pagination) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit())
	}
}

// TotalPages is the number of pages needed for total rows.
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	size := int64(p.Limit())
	return int((total + size - 1) / size)
}
