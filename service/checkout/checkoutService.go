package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/model"
	crepo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/checkout"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/repository/inventory"
)

// errors used by controllers

type ErrCode string

const (
	ErrOutOfStock    ErrCode = "OUT_OF_STOCK"
	ErrDuplicateLoan ErrCode = "DUPLICATE_LOAN"
	ErrNoActiveLoan  ErrCode = "NO_ACTIVE_LOAN"
	ErrBookNotFound  ErrCode = "BOOK_NOT_FOUND"
	ErrIntegrity     ErrCode = "INTEGRITY_VIOLATION"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// Borrow reserves a copy and creates the open record, as one
	// transaction: if either half fails nothing is visible afterwards.
	Borrow(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error)

	// Return closes the user's open record for the book and releases
	// the copy, again as one transaction.
	Return(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error)

	// ListForUser returns all records, newest checkout first.
	ListForUser(ctx context.Context, userID int64) ([]model.CheckoutRecord, error)

	Availability(ctx context.Context, bookID int64) (model.BookAvailability, error)
}

type service struct {
	store crepo.Store
	log   *slog.Logger
	now   func() time.Time
}

func New(store crepo.Store, log *slog.Logger) Service {
	return &service{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Borrow(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error) {
	var rec *model.CheckoutRecord
	err := s.withRetry(ctx, "borrow", func(ctx context.Context) error {
		rec = nil
		return s.store.WithinTx(ctx, func(ctx context.Context, tx crepo.Tx) error {
			open, err := tx.FindOpen(ctx, userID, bookID)
			if err != nil {
				return err
			}
			if open != nil {
				return makeErr(ErrDuplicateLoan)
			}

			if err := tx.Reserve(ctx, bookID); err != nil {
				switch {
				case errors.Is(err, inventory.ErrOutOfStock):
					return makeErr(ErrOutOfStock)
				case errors.Is(err, inventory.ErrNotFound):
					return makeErr(ErrBookNotFound)
				}
				return err
			}

			now := s.now()
			r := &model.CheckoutRecord{
				UserID:       userID,
				BookID:       bookID,
				CheckoutDate: now,
				DueDate:      now.Add(model.LoanPeriod),
			}
			// A rollback here undoes the reservation as well, so a
			// failed insert never leaks a missing copy.
			if err := tx.InsertCheckout(ctx, r); err != nil {
				if isUniqueViolation(err) {
					return makeErr(ErrDuplicateLoan)
				}
				return err
			}
			rec = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Return(ctx context.Context, userID, bookID int64) (*model.CheckoutRecord, error) {
	var rec *model.CheckoutRecord
	err := s.withRetry(ctx, "return", func(ctx context.Context) error {
		rec = nil
		return s.store.WithinTx(ctx, func(ctx context.Context, tx crepo.Tx) error {
			open, err := tx.FindOpen(ctx, userID, bookID)
			if err != nil {
				return err
			}
			if open == nil {
				return makeErr(ErrNoActiveLoan)
			}

			now := s.now()
			late := now.After(open.DueDate)
			if err := tx.MarkReturned(ctx, open.ID, now, late); err != nil {
				return err
			}
			if err := tx.Release(ctx, bookID); err != nil {
				if errors.Is(err, inventory.ErrIntegrityViolation) || errors.Is(err, inventory.ErrNotFound) {
					s.log.Error("inventory integrity violation on release",
						"book_id", bookID, "checkout_id", open.ID, "err", err)
					return makeErr(ErrIntegrity)
				}
				return err
			}

			open.ReturnDate = &now
			open.IsReturned = true
			open.IsLate = late
			rec = open
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]model.CheckoutRecord, error) {
	// The same clock that freezes lateness at return decides live
	// lateness here, so a record cannot flip at the return instant.
	return s.store.ListByUser(ctx, userID, s.now())
}

func (s *service) Availability(ctx context.Context, bookID int64) (model.BookAvailability, error) {
	av, err := s.store.Availability(ctx, bookID)
	if errors.Is(err, inventory.ErrNotFound) {
		return model.BookAvailability{}, makeErr(ErrBookNotFound)
	}
	return av, err
}

const maxTxAttempts = 3

// withRetry re-runs the whole transaction on transient postgres
// failures. Business rejections and integrity errors are never retried.
func (s *service) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !retryableTx(err) {
			return err
		}
		if attempt < maxTxAttempts {
			s.log.Warn("retrying checkout transaction", "op", op, "attempt", attempt, "err", err)
		}
	}
	return err
}

func retryableTx(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
