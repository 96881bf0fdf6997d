// model/book.go
package model

type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	Publisher       string `json:"publisher"`
	TotalCopies     int64  `json:"total_copies"`
	AvailableCopies int64  `json:"available_copies"`
}

// BookAvailability is the inventory snapshot for a single book.
type BookAvailability struct {
	BookID          int64 `json:"book_id"`
	TotalCopies     int64 `json:"total_copies"`
	AvailableCopies int64 `json:"available_copies"`
}
