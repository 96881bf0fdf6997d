// Package inventory owns the per-book copy counters. It is the only
// package allowed to mutate available_copies, and every mutation is a
// single conditional UPDATE so the row lock serializes concurrent
// callers on the same book without blocking other books.
package inventory

import (
	"context"
	"database/sql"
	"errors"
)

var (
	// ErrNotFound means the book has no inventory row.
	ErrNotFound = errors.New("inventory row not found")

	// ErrOutOfStock means available_copies was already 0.
	ErrOutOfStock = errors.New("no copies available")

	// ErrIntegrityViolation means a release would push available_copies
	// past total_copies (double return / orphaned reservation).
	ErrIntegrityViolation = errors.New("inventory integrity violation")
)

type Ledger interface {
	Create(ctx context.Context, tx *sql.Tx, bookID, totalCopies int64) error
	AddCopies(ctx context.Context, tx *sql.Tx, bookID int64, n int64) error
	TryReserve(ctx context.Context, tx *sql.Tx, bookID int64) error
	Release(ctx context.Context, tx *sql.Tx, bookID int64) error
	Availability(ctx context.Context, bookID int64) (total, available int64, err error)
}

type ledger struct{ db *sql.DB }

func New(db *sql.DB) Ledger { return &ledger{db: db} }

func (l *ledger) Create(ctx context.Context, tx *sql.Tx, bookID, totalCopies int64) error {
	const q = `
		INSERT INTO book_inventory (book_id, total_copies, available_copies)
		VALUES ($1, $2, $2)`
	_, err := tx.ExecContext(ctx, q, bookID, totalCopies)
	return err
}

// AddCopies raises total and available together so the ledger equation
// (available = total - open loans) keeps holding.
func (l *ledger) AddCopies(ctx context.Context, tx *sql.Tx, bookID int64, n int64) error {
	const q = `
		UPDATE book_inventory
		SET total_copies     = total_copies + $2,
		    available_copies = available_copies + $2
		WHERE book_id = $1`
	res, err := tx.ExecContext(ctx, q, bookID, n)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}

// TryReserve decrements available_copies if any copy is left. The guard
// in the WHERE clause makes test-and-decrement one atomic statement:
// two concurrent callers seeing available_copies == 1 cannot both win.
func (l *ledger) TryReserve(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE book_inventory
		SET available_copies = available_copies - 1
		WHERE book_id = $1
		AND available_copies > 0`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 1 {
		return nil
	}
	return l.missReason(ctx, tx, bookID, ErrOutOfStock)
}

// Release increments available_copies, clamped at total_copies. Hitting
// the clamp means a double release; the row is left untouched.
func (l *ledger) Release(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE book_inventory
		SET available_copies = available_copies + 1
		WHERE book_id = $1
		AND available_copies < total_copies`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 1 {
		return nil
	}
	return l.missReason(ctx, tx, bookID, ErrIntegrityViolation)
}

// missReason tells a guarded-update miss apart from a missing row.
func (l *ledger) missReason(ctx context.Context, tx *sql.Tx, bookID int64, guardErr error) error {
	const q = `SELECT 1 FROM book_inventory WHERE book_id = $1`
	var one int
	err := tx.QueryRowContext(ctx, q, bookID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return guardErr
}

func (l *ledger) Availability(ctx context.Context, bookID int64) (int64, int64, error) {
	const q = `
		SELECT total_copies, available_copies
		FROM book_inventory
		WHERE book_id = $1`
	var total, available int64
	err := l.db.QueryRowContext(ctx, q, bookID).Scan(&total, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return total, available, nil
}
