package shared

const (
	// DefaultPerPage is applied by adapters when the client omits per_page
	DefaultPerPage = 20

	// MaxPerPage is the hard ceiling on page size regardless of what the
	// client requested
	MaxPerPage = 100
)

// Pagination holds the derived limit/offset for a list query
type Pagination struct {
	Limit  int64
	Offset int64
}

// NewPagination derives bounds-checked limit/offset from a 1-indexed page
// number and a per-page count. Page 0 and page 1 yield the same offset;
// negative inputs saturate to zero rather than erroring.
func NewPagination(page, perPage int) Pagination {
	if perPage < 0 {
		perPage = 0
	}
	limit := int64(perPage)
	if limit > MaxPerPage {
		limit = MaxPerPage
	}

	if page < 1 {
		page = 1
	}

	return Pagination{
		Limit:  limit,
		Offset: int64(page-1) * limit,
	}
}
