// Package checkout is the durable store for checkout records. It also
// exposes the unit of work the checkout service runs borrow/return in:
// record writes and inventory mutations commit or roll back together.
package checkout

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/model"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/repository/inventory"
)

// Tx is the transactional view handed to the checkout service. Every
// mutation made through it becomes visible only when the surrounding
// WithinTx call commits.
type Tx interface {
	// FindOpen returns the open record for (userID, bookID), locked for
	// the rest of the transaction, or nil when none exists.
	FindOpen(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error)
	Reserve(ctx context.Context, bookID int64) error
	Release(ctx context.Context, bookID int64) error
	InsertCheckout(ctx context.Context, rec *model.CheckoutRecord) error
	MarkReturned(ctx context.Context, id int64, returnedAt time.Time, late bool) error
}

// LedgerDriftRow is a book whose counter disagrees with its open-loan
// count, observed in a single consistent read.
type LedgerDriftRow struct {
	BookID          int64
	TotalCopies     int64
	AvailableCopies int64
	OpenLoans       int64
}

type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// ListByUser derives open-record lateness from the caller's now so
	// list reads and return freezes share one clock.
	ListByUser(ctx context.Context, userID int64, now time.Time) ([]model.CheckoutRecord, error)
	CountOpenByBook(ctx context.Context, bookID int64) (int64, error)
	Availability(ctx context.Context, bookID int64) (model.BookAvailability, error)
	LedgerDrift(ctx context.Context) ([]LedgerDriftRow, error)
}

type store struct {
	db  *sql.DB
	led inventory.Ledger
}

func NewStore(db *sql.DB, led inventory.Ledger) Store {
	return &store{db: db, led: led}
}

func (s *store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &pgTx{tx: tx, led: s.led}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTx struct {
	tx  *sql.Tx
	led inventory.Ledger
}

func (t *pgTx) FindOpen(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error) {
	const q = `
		SELECT id, user_id, book_id, checkout_date, due_date, return_date, is_returned, is_late
		FROM checkouts
		WHERE user_id = $1
		AND book_id = $2
		AND NOT is_returned
		FOR UPDATE`
	rec := &model.CheckoutRecord{}
	err := t.tx.QueryRowContext(ctx, q, userID, bookID).Scan(
		&rec.ID, &rec.UserID, &rec.BookID,
		&rec.CheckoutDate, &rec.DueDate, &rec.ReturnDate,
		&rec.IsReturned, &rec.IsLate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (t *pgTx) Reserve(ctx context.Context, bookID int64) error {
	return t.led.TryReserve(ctx, t.tx, bookID)
}

func (t *pgTx) Release(ctx context.Context, bookID int64) error {
	return t.led.Release(ctx, t.tx, bookID)
}

func (t *pgTx) InsertCheckout(ctx context.Context, rec *model.CheckoutRecord) error {
	const q = `
		INSERT INTO checkouts (user_id, book_id, checkout_date, due_date, is_returned, is_late)
		VALUES ($1, $2, $3, $4, FALSE, FALSE)
		RETURNING id`
	return t.tx.QueryRowContext(ctx, q,
		rec.UserID, rec.BookID, rec.CheckoutDate, rec.DueDate,
	).Scan(&rec.ID)
}

func (t *pgTx) MarkReturned(ctx context.Context, id int64, returnedAt time.Time, late bool) error {
	const q = `
		UPDATE checkouts
		SET is_returned = TRUE,
		    return_date = $2,
		    is_late     = $3
		WHERE id = $1
		AND NOT is_returned`
	res, err := t.tx.ExecContext(ctx, q, id, returnedAt, late)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByUser returns every record for the user, newest checkout first,
// id as the tie-break. Lateness of open records is derived live against
// the given instant; once returned the stored flag is final.
func (s *store) ListByUser(ctx context.Context, userID int64, now time.Time) ([]model.CheckoutRecord, error) {
	const q = `
		SELECT id, user_id, book_id, checkout_date, due_date, return_date, is_returned,
		       CASE WHEN is_returned THEN is_late ELSE $2 > due_date END AS is_late
		FROM checkouts
		WHERE user_id = $1
		ORDER BY checkout_date DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CheckoutRecord
	for rows.Next() {
		var rec model.CheckoutRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.BookID,
			&rec.CheckoutDate, &rec.DueDate, &rec.ReturnDate,
			&rec.IsReturned, &rec.IsLate,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *store) CountOpenByBook(ctx context.Context, bookID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM checkouts
		WHERE book_id = $1
		AND NOT is_returned`
	var n int64
	err := s.db.QueryRowContext(ctx, q, bookID).Scan(&n)
	return n, err
}

func (s *store) Availability(ctx context.Context, bookID int64) (model.BookAvailability, error) {
	total, available, err := s.led.Availability(ctx, bookID)
	if err != nil {
		return model.BookAvailability{}, err
	}
	return model.BookAvailability{BookID: bookID, TotalCopies: total, AvailableCopies: available}, nil
}

// LedgerDrift compares every counter against its open-loan count in one
// statement, so a borrow or return committing mid-scan cannot fake a
// mismatch. Used by the integrity reconciler, never by borrow/return.
func (s *store) LedgerDrift(ctx context.Context) ([]LedgerDriftRow, error) {
	const q = `
		SELECT i.book_id, i.total_copies, i.available_copies,
		       COUNT(c.id) FILTER (WHERE NOT c.is_returned) AS open_loans
		FROM book_inventory i
		LEFT JOIN checkouts c ON c.book_id = i.book_id
		GROUP BY i.book_id
		HAVING i.available_copies <> i.total_copies - COUNT(c.id) FILTER (WHERE NOT c.is_returned)`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerDriftRow
	for rows.Next() {
		var r LedgerDriftRow
		if err := rows.Scan(&r.BookID, &r.TotalCopies, &r.AvailableCopies, &r.OpenLoans); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
