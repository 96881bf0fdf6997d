package reportsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	reportsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/report"
)

type repoMock struct {
	mostBorrowedFn func(ctx context.Context, limit int) ([]reportsvc.MostBorrowedRow, error)
	overdueFn      func(ctx context.Context) (int64, error)
	snapshotFn     func(ctx context.Context) ([]reportsvc.AvailabilityRow, error)
}

var _ reportsvc.Repo = (*repoMock)(nil)

func (m *repoMock) MostBorrowed(ctx context.Context, limit int) ([]reportsvc.MostBorrowedRow, error) {
	return m.mostBorrowedFn(ctx, limit)
}
func (m *repoMock) OverdueOpenCount(ctx context.Context) (int64, error) { return m.overdueFn(ctx) }
func (m *repoMock) AvailabilitySnapshot(ctx context.Context) ([]reportsvc.AvailabilityRow, error) {
	return m.snapshotFn(ctx)
}

func TestMostBorrowed_LimitClamped(t *testing.T) {
	var got int
	m := &repoMock{
		mostBorrowedFn: func(ctx context.Context, limit int) ([]reportsvc.MostBorrowedRow, error) {
			got = limit
			return nil, nil
		},
	}
	s := reportsvc.New(m)

	_, err := s.MostBorrowed(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 10, got)

	_, err = s.MostBorrowed(context.Background(), 500)
	require.NoError(t, err)
	require.Equal(t, 10, got)

	_, err = s.MostBorrowed(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 5, got)
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		overdueFn: func(ctx context.Context) (int64, error) { return 7, nil },
		snapshotFn: func(ctx context.Context) ([]reportsvc.AvailabilityRow, error) {
			return []reportsvc.AvailabilityRow{{BookID: 1, TotalCopies: 2, AvailableCopies: 1, AvailablePct: 50}}, nil
		},
	}
	s := reportsvc.New(m)

	n, err := s.OverdueOpenCount(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, n)

	rows, err := s.AvailabilitySnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 50, rows[0].AvailablePct)
}
