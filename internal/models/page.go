package models

// Sort directions accepted by list endpoints
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Listing defaults applied when the query string omits a parameter
const (
	DefaultSortBy = "created_at"
	DefaultOrder  = OrderDesc
	DefaultLimit  = 10
	DefaultPage   = 1
)

// Page holds the sort and pagination part of a list query
type Page struct {
	SortBy string
	Order  string
	Limit  int
	Offset int
}

// DefaultPageOptions returns the page used when no parameters are supplied
func DefaultPageOptions() Page {
	return Page{
		SortBy: DefaultSortBy,
		Order:  DefaultOrder,
		Limit:  DefaultLimit,
		Offset: 0,
	}
}
