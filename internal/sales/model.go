package sales

import "time"

// Sale is a write-once record of a completed checkout. Analytics reads
// it; nothing updates it after insert.
type Sale struct {
	ID         int64      `json:"id"`
	UserID     *int64     `json:"userId,omitempty"`
	SessionID  string     `json:"-"`
	Total      float64    `json:"total"`
	OccurredAt time.Time  `json:"occurredAt"`
	Items      []SaleItem `json:"items"`
}

// SaleItem snapshots one sold line. ProductName and UnitPrice are
// denormalized so later catalog edits do not rewrite history.
type SaleItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}
