package checkout

import "time"

// BorrowReq is the optional borrow body. The due date is always
// computed server-side; a client-supplied value is ignored.
type BorrowReq struct {
	DueDate *time.Time `json:"due_date,omitempty"`
}

type CheckoutItem struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"book_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date"`
	IsReturned   bool       `json:"is_returned"`
	IsLate       bool       `json:"is_late"`
}
