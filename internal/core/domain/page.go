package domain

// Order is the sort direction of a message history page.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// PageRequest selects one page of an ordered message history.
// Limit must be in [1, 100] and Offset must be >= 0; both are
// validated before any request is issued.
type PageRequest struct {
	ProductID int64
	SessionID string
	Limit     int
	Offset    int
	Order     Order
}

// Pagination locates a page within the full result set.
type Pagination struct {
	TotalCount  int  `json:"total_count"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasMore     bool `json:"has_more"`
	HasPrevious bool `json:"has_previous"`
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
}

// MessagePage is a well-formed page of messages. Pagination fields
// always satisfy:
//
//	HasMore     == Offset+Limit < TotalCount
//	CurrentPage == Offset/Limit + 1
//	TotalPages  == ceil(TotalCount/Limit)
type MessagePage struct {
	Items       []Message  `json:"items"`
	Pagination  Pagination `json:"pagination"`
	UnreadCount int        `json:"unread_count"`
	Session     *Session   `json:"session,omitempty"`
}
