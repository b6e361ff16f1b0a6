// model/borrowing.go
package model

import "time"

// Borrowing is one outstanding copy held by a borrower. The JSON field names
// match what the frontend has always consumed.
type Borrowing struct {
	ID        int64     `json:"id"`
	BookID    int64     `json:"book_id,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Date      time.Time `json:"date"`
	HandledBy string    `json:"handledBy"`
}
