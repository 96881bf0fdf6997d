// Package report holds the read-only aggregate queries behind staff
// reporting. It is never granted a write path; everything here scans
// committed state with sqlx.
package report

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type MostBorrowedRow struct {
	BookID  int64  `db:"book_id" json:"book_id"`
	Title   string `db:"title" json:"title"`
	Borrows int64  `db:"borrows" json:"borrows"`
}

type AvailabilityRow struct {
	BookID          int64   `db:"book_id" json:"book_id"`
	Title           string  `db:"title" json:"title"`
	TotalCopies     int64   `db:"total_copies" json:"total_copies"`
	AvailableCopies int64   `db:"available_copies" json:"available_copies"`
	AvailablePct    float64 `db:"available_pct" json:"available_pct"`
}

type Repo interface {
	MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedRow, error)
	OverdueOpenCount(ctx context.Context) (int64, error)
	AvailabilitySnapshot(ctx context.Context) ([]AvailabilityRow, error)
}

type repo struct{ db *sqlx.DB }

func New(db *sqlx.DB) Repo { return &repo{db: db} }

func (r *repo) MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedRow, error) {
	const q = `
		SELECT b.id AS book_id, b.title, COUNT(c.*) AS borrows
		FROM books b
		JOIN checkouts c ON c.book_id = b.id
		GROUP BY b.id, b.title
		ORDER BY borrows DESC, b.id
		LIMIT $1`
	var out []MostBorrowedRow
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repo) OverdueOpenCount(ctx context.Context) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM checkouts
		WHERE NOT is_returned
		AND now() > due_date`
	var n int64
	err := r.db.GetContext(ctx, &n, q)
	return n, err
}

func (r *repo) AvailabilitySnapshot(ctx context.Context) ([]AvailabilityRow, error) {
	const q = `
		SELECT b.id AS book_id, b.title, i.total_copies, i.available_copies,
		       CASE WHEN i.total_copies = 0 THEN 0
		            ELSE ROUND(i.available_copies * 100.0 / i.total_copies, 1)
		       END AS available_pct
		FROM books b
		JOIN book_inventory i ON i.book_id = b.id
		ORDER BY b.id`
	var out []AvailabilityRow
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}
