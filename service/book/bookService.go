package booksvc

import (
	"context"
	"errors"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/model"
)

type Book = model.Book

type Repo interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	AddCopies(ctx context.Context, bookID int64, n int64) (int64, error)
	List(ctx context.Context) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)
}

type Service interface {
	Create(ctx context.Context, b *model.Book) (int64, error)
	AddCopies(ctx context.Context, bookID int64, n int64) (int64, error)
	List(ctx context.Context) ([]Book, error)
	Detail(ctx context.Context, id int64) (*Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Create(ctx context.Context, b *model.Book) (int64, error) {
	if b.Title == "" || b.Author == "" || b.TotalCopies < 0 {
		return 0, errors.New("invalid payload")
	}
	return s.r.Create(ctx, b)
}

func (s *service) AddCopies(ctx context.Context, bookID int64, n int64) (int64, error) {
	return s.r.AddCopies(ctx, bookID, n)
}

func (s *service) List(ctx context.Context) ([]Book, error)            { return s.r.List(ctx) }
func (s *service) Detail(ctx context.Context, id int64) (*Book, error) { return s.r.Detail(ctx, id) }
