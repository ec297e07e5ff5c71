package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	MaxLimit           = 500
	MaxWindowDays      = 366
	DefaultLeaderboard = 10
	MaxLeaderboard     = 100
	csvFlushEvery      = 200
)

var (
	ErrWindowRequired = errors.New("from and to dates are required")
	ErrInvalidWindow  = errors.New("to must not be before from")
	ErrWindowTooLarge = fmt.Errorf("date window exceeds %d days", MaxWindowDays)
	ErrInvalidMonth   = errors.New("month must look like 2006-01")
)

// Query selects roll-up rows by business day, both ends inclusive.
// ShopID 0 means every shop.
type Query struct {
	ShopID int64
	From   time.Time
	To     time.Time
	Limit  int
}

func (q Query) FromDay() string { return q.From.Format("2006-01-02") }
func (q Query) ToDay() string   { return q.To.Format("2006-01-02") }

// Normalize checks the window and clamps the limit.
func (q Query) Normalize() (Query, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return q, ErrWindowRequired
	}
	if q.To.Before(q.From) {
		return q, ErrInvalidWindow
	}
	if q.To.Sub(q.From) >= MaxWindowDays*24*time.Hour {
		return q, ErrWindowTooLarge
	}
	if q.Limit <= 0 || q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

type FinanceService struct {
	Repo  Repository
	Cache LeaderboardCache
	Now   func() time.Time
}

func NewFinanceService(repo Repository, cache LeaderboardCache) *FinanceService {
	return &FinanceService{Repo: repo, Cache: cache, Now: time.Now}
}

var _ FinanceServiceInterface = (*FinanceService)(nil)

func (s *FinanceService) Revenue(ctx context.Context, q Query) (domain.Report, error) {
	q, err := q.Normalize()
	if err != nil {
		return domain.Report{}, err
	}

	var (
		totals  domain.Totals
		rows    []domain.DailyRevenue
		leaders []domain.LeaderboardEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.Repo.Totals(gctx, q)
		return err
	})
	g.Go(func() error {
		probe := q
		probe.Limit = q.Limit + 1
		var err error
		rows, err = s.Repo.DailyRevenue(gctx, probe)
		return err
	})
	g.Go(func() error {
		top := q
		top.Limit = DefaultLeaderboard
		var err error
		leaders, err = s.Repo.Leaderboard(gctx, top)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Report{}, fmt.Errorf("revenue report: %w", err)
	}

	truncated := len(rows) > q.Limit
	if truncated {
		rows = rows[:q.Limit]
	}

	report := BuildReport(rows)
	report.Totals = domain.NewTotals(totals.TotalRevenue, totals.OrderCount)
	if leaders != nil {
		report.Leaderboard = leaders
	}
	report.From = q.FromDay()
	report.To = q.ToDay()
	report.Truncated = truncated
	return report, nil
}

// Leaderboard ranks shops for one business month. The cached sorted set is
// tried first and the roll-up table is used when it is empty or unreachable.
func (s *FinanceService) Leaderboard(ctx context.Context, month string, limit int) ([]domain.LeaderboardEntry, error) {
	if month == "" {
		month = events.BusinessMonth(s.Now())
	}
	start, err := time.ParseInLocation("2006-01", month, events.BusinessZone)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	if limit <= 0 {
		limit = DefaultLeaderboard
	}
	if limit > MaxLeaderboard {
		limit = MaxLeaderboard
	}

	entries, err := s.Cache.TopShops(ctx, month, limit)
	if err != nil {
		log.Warn().Err(err).Str("month", month).Msg("leaderboard cache unavailable, using database")
	}
	if err == nil && len(entries) > 0 {
		return s.withShopNames(ctx, entries)
	}

	entries, err = s.Repo.Leaderboard(ctx, Query{From: start, To: start.AddDate(0, 1, -1), Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", month, err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

func (s *FinanceService) withShopNames(ctx context.Context, entries []domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ShopID)
	}
	names, err := s.Repo.ShopNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("shop names: %w", err)
	}
	for i := range entries {
		entries[i].ShopName = names[entries[i].ShopID]
	}
	return entries, nil
}

var csvHeader = []string{"shop_id", "shop_name", "day", "order_count", "subtotal", "total"}

// ExportCSV streams every roll-up row in the window. Nothing is written to w
// until the first row arrives, so a failing query leaves w untouched.
func (s *FinanceService) ExportCSV(ctx context.Context, q Query, w io.Writer) error {
	q, err := q.Normalize()
	if err != nil {
		return err
	}

	out := csv.NewWriter(w)
	written := 0
	err = s.Repo.StreamDailyRevenue(ctx, q, func(row domain.DailyRevenue) error {
		if written == 0 {
			if err := out.Write(csvHeader); err != nil {
				return err
			}
		}
		record := []string{
			strconv.FormatInt(row.ShopID, 10),
			row.ShopName,
			row.Day.Format("2006-01-02"),
			strconv.FormatInt(row.OrderCount, 10),
			strconv.FormatInt(row.Subtotal, 10),
			strconv.FormatInt(row.Total, 10),
		}
		if err := out.Write(record); err != nil {
			return err
		}
		written++
		if written%csvFlushEvery == 0 {
			out.Flush()
			return out.Error()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export revenue: %w", err)
	}
	if written == 0 {
		if err := out.Write(csvHeader); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
