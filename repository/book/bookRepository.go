package bookrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/model"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/repository/inventory"
)

type Repo interface {
	// Create inserts the book and its inventory row in one transaction.
	Create(ctx context.Context, b *model.Book) (int64, error)
	AddCopies(ctx context.Context, bookID int64, n int64) (int64, error)
	List(ctx context.Context) ([]model.Book, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type repo struct {
	db  *sql.DB
	led inventory.Ledger
}

func New(db *sql.DB, led inventory.Ledger) Repo { return &repo{db: db, led: led} }

func (r *repo) Create(ctx context.Context, b *model.Book) (id int64, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
		INSERT INTO books (title, author, genre, publisher)
		VALUES ($1,$2,$3,$4)
		RETURNING id`
	if err = tx.QueryRowContext(ctx, q, b.Title, b.Author, b.Genre, b.Publisher).Scan(&id); err != nil {
		return 0, err
	}
	if err = r.led.Create(ctx, tx, id, b.TotalCopies); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) AddCopies(ctx context.Context, bookID int64, n int64) (added int64, err error) {
	if n <= 0 {
		return 0, errors.New("n must be > 0")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = r.led.AddCopies(ctx, tx, bookID, n); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) List(ctx context.Context) ([]model.Book, error) {
	const q = `
		SELECT b.id, b.title, b.author, b.genre, b.publisher,
		       i.total_copies, i.available_copies
		FROM books b
		JOIN book_inventory i ON i.book_id = b.id
		ORDER BY b.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Publisher,
			&b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) Detail(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
		SELECT b.id, b.title, b.author, b.genre, b.publisher,
		       i.total_copies, i.available_copies
		FROM books b
		JOIN book_inventory i ON i.book_id = b.id
		WHERE b.id = $1`
	var b model.Book
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Publisher,
		&b.TotalCopies, &b.AvailableCopies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}
