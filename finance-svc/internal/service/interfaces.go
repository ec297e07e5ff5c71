package service

import (
	"context"
	"io"

	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"
)

type Repository interface {
	Totals(ctx context.Context, q Query) (domain.Totals, error)
	DailyRevenue(ctx context.Context, q Query) ([]domain.DailyRevenue, error)
	StreamDailyRevenue(ctx context.Context, q Query, fn func(domain.DailyRevenue) error) error
	Leaderboard(ctx context.Context, q Query) ([]domain.LeaderboardEntry, error)
	ShopNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

type LeaderboardCache interface {
	TopShops(ctx context.Context, month string, n int) ([]domain.LeaderboardEntry, error)
}

type FinanceServiceInterface interface {
	Revenue(ctx context.Context, q Query) (domain.Report, error)
	Leaderboard(ctx context.Context, month string, limit int) ([]domain.LeaderboardEntry, error)
	ExportCSV(ctx context.Context, q Query, w io.Writer) error
}
