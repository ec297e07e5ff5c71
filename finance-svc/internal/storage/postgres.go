package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/service"

	"github.com/jmoiron/sqlx"
)

// Every query filters on the same window; $3 = 0 selects all shops.
const windowFilter = `r.day BETWEEN $1 AND $2 AND ($3::bigint = 0 OR r.shop_id = $3)`

const dailyColumns = `r.shop_id, COALESCE(s.name, '') AS shop_name, r.day, r.order_count, r.subtotal_sum, r.total_sum`

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: sqlx.NewDb(db, "postgres")}
}

var _ service.Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) Totals(ctx context.Context, q service.Query) (domain.Totals, error) {
	var totals domain.Totals
	err := r.DB.GetContext(ctx, &totals, `
		SELECT COALESCE(SUM(r.total_sum), 0) AS total_revenue,
		       COALESCE(SUM(r.order_count), 0) AS order_count
		FROM shop_revenue_daily r
		WHERE `+windowFilter, q.FromDay(), q.ToDay(), q.ShopID)
	if err != nil {
		return totals, fmt.Errorf("revenue totals: %w", err)
	}
	return totals, nil
}

func (r *PostgresRepository) DailyRevenue(ctx context.Context, q service.Query) ([]domain.DailyRevenue, error) {
	rows := []domain.DailyRevenue{}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT `+dailyColumns+`
		FROM shop_revenue_daily r
		LEFT JOIN shops s ON s.id = r.shop_id
		WHERE `+windowFilter+`
		ORDER BY r.day, r.shop_id
		LIMIT $4`, q.FromDay(), q.ToDay(), q.ShopID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	return rows, nil
}

// StreamDailyRevenue walks the whole window row by row and ignores q.Limit.
func (r *PostgresRepository) StreamDailyRevenue(ctx context.Context, q service.Query, fn func(domain.DailyRevenue) error) error {
	rows, err := r.DB.QueryxContext(ctx, `
		SELECT `+dailyColumns+`
		FROM shop_revenue_daily r
		LEFT JOIN shops s ON s.id = r.shop_id
		WHERE `+windowFilter+`
		ORDER BY r.day, r.shop_id`, q.FromDay(), q.ToDay(), q.ShopID)
	if err != nil {
		return fmt.Errorf("stream daily revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.DailyRevenue
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) Leaderboard(ctx context.Context, q service.Query) ([]domain.LeaderboardEntry, error) {
	entries := []domain.LeaderboardEntry{}
	err := r.DB.SelectContext(ctx, &entries, `
		SELECT r.shop_id, COALESCE(s.name, '') AS shop_name,
		       SUM(r.total_sum) AS total, SUM(r.order_count) AS order_count
		FROM shop_revenue_daily r
		LEFT JOIN shops s ON s.id = r.shop_id
		WHERE `+windowFilter+`
		GROUP BY r.shop_id, s.name
		ORDER BY total DESC, r.shop_id
		LIMIT $4`, q.FromDay(), q.ToDay(), q.ShopID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("revenue leaderboard: %w", err)
	}
	return entries, nil
}

func (r *PostgresRepository) ShopNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In(`SELECT id, name FROM shops WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var shops []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := r.DB.SelectContext(ctx, &shops, r.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("shop names: %w", err)
	}
	for _, shop := range shops {
		names[shop.ID] = shop.Name
	}
	return names, nil
}
