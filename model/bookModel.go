// model/book.go
package model

type BookStatus string

const (
	StatusAvailable BookStatus = "Available"
	StatusBorrowed  BookStatus = "Borrowed"
)

type Book struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Author      *string    `json:"author"`
	Publisher   *string    `json:"publisher"`
	Year        *int       `json:"year"`
	Category    *string    `json:"category"`
	Cover       *string    `json:"cover"`
	Description *string    `json:"description"`
	Stock       int        `json:"stock"`
	Status      BookStatus `json:"status"`
	AddedBy     *string    `json:"added_by_admin"`

	// Active borrowings merged in for list/detail responses.
	Borrowers []Borrowing `json:"borrowers"`
}
