package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const orderColumns = `id, customer_id, shop_id, subtotal, shipping_fee, discount, total_amount,
	payment_method, payment_status, address, note, voucher_code, status, version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var address []byte
	err := row.Scan(&order.ID, &order.CustomerID, &order.ShopID, &order.Subtotal, &order.ShippingFee,
		&order.Discount, &order.TotalAmount, &order.PaymentMethod, &order.PaymentStatus, &address,
		&order.Note, &order.VoucherCode, &order.Status, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &order.Address); err != nil {
			return nil, fmt.Errorf("decode address of order %d: %w", order.ID, err)
		}
	}
	return &order, nil
}

// CreateOrder claims the voucher, then writes the order and its items in one
// transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if order.VoucherCode != "" {
		res, err := tx.ExecContext(ctx, `
			UPDATE vouchers SET used_count = used_count + 1
			WHERE code = $1 AND active AND (usage_limit = 0 OR used_count < usage_limit)`,
			order.VoucherCode)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrVoucherExhausted
		}
	}

	address, err := json.Marshal(order.Address)
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, shop_id, subtotal, shipping_fee, discount, total_amount,
			payment_method, payment_status, address, note, voucher_code, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, version, created_at, updated_at`,
		order.CustomerID, order.ShopID, order.Subtotal, order.ShippingFee, order.Discount, order.TotalAmount,
		string(order.PaymentMethod), string(order.PaymentStatus), address, order.Note, order.VoucherCode,
		string(order.Status),
	).Scan(&order.ID, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		options, err := json.Marshal(item.Options)
		if err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, food_id, food_name, options, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			order.ID, item.FoodID, item.FoodName, options, item.Quantity, item.UnitPrice, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert item for food %d: %w", item.FoodID, err)
		}
		item.OrderID = order.ID
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *PostgresRepository) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, customerID, limit, offset)
}

// ListShopOrders returns the orders of a shop, newest first. An empty status
// matches every status.
func (r *PostgresRepository) ListShopOrders(ctx context.Context, shopID int64, status domain.Status, limit, offset int) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE shop_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`, shopID, string(status), limit, offset)
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []int64{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, food_id, food_name, options, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var item domain.OrderItem
		var options []byte
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.FoodName, &options,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &item.Options); err != nil {
				return nil, fmt.Errorf("decode options of item %d: %w", item.ID, err)
			}
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, from domain.Status, version int, to domain.Status, payment domain.PaymentStatus) (int, time.Time, error) {
	var newVersion int
	var updatedAt time.Time
	err := r.DB.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $1, payment_status = $2, version = version + 1, updated_at = now()
		WHERE id = $3 AND status = $4 AND version = $5
		RETURNING version, updated_at`,
		string(to), string(payment), id, string(from), version,
	).Scan(&newVersion, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, domain.ErrConcurrentUpdate
	}
	if err != nil {
		return 0, time.Time{}, err
	}
	return newVersion, updatedAt, nil
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderID int64, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE id = $2`, qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE id = $1`, orderID).Scan(&qr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return qr, err
}

func (r *PostgresRepository) ManagesShop(ctx context.Context, accountID, shopID int64) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM shops WHERE id = $1 AND owner_id = $2)
			OR EXISTS (SELECT 1 FROM shop_managers WHERE shop_id = $1 AND account_id = $2)
			OR EXISTS (SELECT 1 FROM accounts WHERE id = $2 AND shop_id = $1)`,
		shopID, accountID).Scan(&ok)
	return ok, err
}

func (r *PostgresRepository) ShopInfo(ctx context.Context, shopID int64) (*domain.ShopInfo, error) {
	var shop domain.ShopInfo
	err := r.DB.QueryRowContext(ctx, `SELECT id, status, lat, lng FROM shops WHERE id = $1`, shopID).
		Scan(&shop.ID, &shop.Status, &shop.Lat, &shop.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShopUnavailable
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Foods loads the requested foods with every option they offer.
func (r *PostgresRepository) Foods(ctx context.Context, ids []int64) (map[int64]domain.FoodSnapshot, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, shop_id, name, price, available
		FROM foods
		WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make(map[int64]domain.FoodSnapshot, len(ids))
	for rows.Next() {
		food := domain.FoodSnapshot{Options: map[int64]domain.ItemOption{}}
		if err := rows.Scan(&food.ID, &food.ShopID, &food.Name, &food.Price, &food.Available); err != nil {
			return nil, err
		}
		foods[food.ID] = food
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return foods, nil
	}

	optRows, err := r.DB.QueryContext(ctx, `
		SELECT id, food_id, kind, name, price
		FROM food_options
		WHERE food_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var opt domain.ItemOption
		var foodID int64
		if err := optRows.Scan(&opt.ID, &foodID, &opt.Kind, &opt.Name, &opt.Price); err != nil {
			return nil, err
		}
		if food, ok := foods[foodID]; ok {
			food.Options[opt.ID] = opt
		}
	}
	return foods, optRows.Err()
}

func (r *PostgresRepository) VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	var v domain.Voucher
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, code, COALESCE(shop_id, 0), type, value, max_discount, min_order_value,
			starts_at, ends_at, usage_limit, used_count, active
		FROM vouchers
		WHERE code = $1`, code).
		Scan(&v.ID, &v.Code, &v.ShopID, &v.Type, &v.Value, &v.MaxDiscount, &v.MinOrderValue,
			&v.StartsAt, &v.EndsAt, &v.UsageLimit, &v.UsedCount, &v.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVoucherNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
