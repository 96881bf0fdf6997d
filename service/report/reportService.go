package reportsvc

import (
	"context"

	repo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/report"
)

type (
	MostBorrowedRow = repo.MostBorrowedRow
	AvailabilityRow = repo.AvailabilityRow
)

const defaultMostBorrowedLimit = 10

type Repo interface {
	MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedRow, error)
	OverdueOpenCount(ctx context.Context) (int64, error)
	AvailabilitySnapshot(ctx context.Context) ([]AvailabilityRow, error)
}

type Service interface {
	MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedRow, error)
	OverdueOpenCount(ctx context.Context) (int64, error)
	AvailabilitySnapshot(ctx context.Context) ([]AvailabilityRow, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) MostBorrowed(ctx context.Context, limit int) ([]MostBorrowedRow, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultMostBorrowedLimit
	}
	return s.r.MostBorrowed(ctx, limit)
}

func (s *service) OverdueOpenCount(ctx context.Context) (int64, error) {
	return s.r.OverdueOpenCount(ctx)
}

func (s *service) AvailabilitySnapshot(ctx context.Context) ([]AvailabilityRow, error) {
	return s.r.AvailabilitySnapshot(ctx)
}
