package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/pgerr"
)

const voucherColumns = `id, code, COALESCE(shop_id, 0), type, value, max_discount, min_order_value,
	starts_at, ends_at, usage_limit, used_count, active, created_at`

func scanVoucher(row rowScanner) (*domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(&v.ID, &v.Code, &v.ShopID, &v.Type, &v.Value, &v.MaxDiscount, &v.MinOrderValue,
		&v.StartsAt, &v.EndsAt, &v.UsageLimit, &v.UsedCount, &v.Active, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVoucherNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresRepository) CreateVoucher(ctx context.Context, v *domain.Voucher) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO vouchers (code, shop_id, type, value, max_discount, min_order_value,
			starts_at, ends_at, usage_limit, active)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, used_count, created_at`,
		v.Code, v.ShopID, v.Type, v.Value, v.MaxDiscount, v.MinOrderValue,
		v.StartsAt, v.EndsAt, v.UsageLimit, v.Active,
	).Scan(&v.ID, &v.UsedCount, &v.CreatedAt)
	if pgerr.IsUniqueViolation(err, "vouchers_code_key") {
		return domain.ErrDuplicateVoucher
	}
	return err
}

// ListVouchers returns every voucher when shopID is 0.
func (r *PostgresRepository) ListVouchers(ctx context.Context, shopID int64, limit, offset int) ([]domain.Voucher, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+voucherColumns+` FROM vouchers
		WHERE ($1 = 0 OR shop_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vouchers := []domain.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, *v)
	}
	return vouchers, rows.Err()
}

func (r *PostgresRepository) GetVoucher(ctx context.Context, id int64) (*domain.Voucher, error) {
	return scanVoucher(r.DB.QueryRowContext(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE id = $1`, id))
}

func (r *PostgresRepository) VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	return scanVoucher(r.DB.QueryRowContext(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE code = $1`, code))
}

func (r *PostgresRepository) UpdateVoucher(ctx context.Context, v *domain.Voucher) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE vouchers SET code = $2, type = $3, value = $4, max_discount = $5, min_order_value = $6,
			starts_at = $7, ends_at = $8, usage_limit = $9, active = $10
		WHERE id = $1`,
		v.ID, v.Code, v.Type, v.Value, v.MaxDiscount, v.MinOrderValue, v.StartsAt, v.EndsAt, v.UsageLimit, v.Active)
	if pgerr.IsUniqueViolation(err, "vouchers_code_key") {
		return domain.ErrDuplicateVoucher
	}
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrVoucherNotFound)
}

func (r *PostgresRepository) ToggleVoucher(ctx context.Context, id int64) (*domain.Voucher, error) {
	return scanVoucher(r.DB.QueryRowContext(ctx,
		`UPDATE vouchers SET active = NOT active WHERE id = $1 RETURNING `+voucherColumns, id))
}

func (r *PostgresRepository) DeleteVoucher(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM vouchers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrVoucherNotFound)
}
