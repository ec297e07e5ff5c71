package storage

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/pgerr"
)

func (r *PostgresRepository) HasDeliveredOrder(ctx context.Context, orderID, customerID, shopID int64) (bool, error) {
	var ok bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE id = $1 AND customer_id = $2 AND shop_id = $3 AND status = 'DELIVERED'
		)`, orderID, customerID, shopID).Scan(&ok)
	return ok, err
}

func (r *PostgresRepository) InsertReview(ctx context.Context, review *domain.Review) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO reviews (shop_id, order_id, customer_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		review.ShopID, review.OrderID, review.CustomerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if pgerr.IsUniqueViolation(err, "reviews_order_id_customer_id_key") {
		return domain.ErrAlreadyReviewed
	}
	return err
}

func (r *PostgresRepository) ListShopReviews(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, shop_id, order_id, customer_id, rating, comment, created_at
		FROM reviews
		WHERE shop_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(&review.ID, &review.ShopID, &review.OrderID, &review.CustomerID,
			&review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
