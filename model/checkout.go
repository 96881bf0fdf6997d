// model/checkout.go
package model

import "time"

// LoanPeriod is the fixed interval from checkout to due date.
const LoanPeriod = 7 * 24 * time.Hour

// CheckoutRecord is one loan instance. A user holds at most one open
// (unreturned) record per book; the checkout service is the sole writer.
type CheckoutRecord struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	BookID       int64      `json:"book_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
	IsReturned   bool       `json:"is_returned"`
	IsLate       bool       `json:"is_late"`
}

// Open reports whether the loan is still outstanding.
func (r *CheckoutRecord) Open() bool { return !r.IsReturned }

// LateAt derives lateness for an open record. Once returned, IsLate is
// frozen in the store and this must not be consulted again.
func (r *CheckoutRecord) LateAt(now time.Time) bool {
	if r.IsReturned {
		return r.IsLate
	}
	return now.After(r.DueDate)
}
