package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/pgerr"

	"github.com/lib/pq"
)

const (
	foodColumns = `id, shop_id, category, name, description, price, image_url, available, created_at`

	optionNameConstraint = "food_options_food_id_name_key"
)

func scanFood(row rowScanner) (*domain.Food, error) {
	food := domain.Food{Options: []domain.FoodOption{}}
	err := row.Scan(&food.ID, &food.ShopID, &food.Category, &food.Name, &food.Description,
		&food.Price, &food.ImageURL, &food.Available, &food.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *PostgresRepository) optionsFor(ctx context.Context, foodIDs []int64) (map[int64][]domain.FoodOption, error) {
	options := make(map[int64][]domain.FoodOption, len(foodIDs))
	if len(foodIDs) == 0 {
		return options, nil
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, food_id, kind, name, price FROM food_options
		WHERE food_id = ANY($1)
		ORDER BY id`, pq.Array(foodIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var opt domain.FoodOption
		if err := rows.Scan(&opt.ID, &opt.FoodID, &opt.Kind, &opt.Name, &opt.Price); err != nil {
			return nil, err
		}
		options[opt.FoodID] = append(options[opt.FoodID], opt)
	}
	return options, rows.Err()
}

func (r *PostgresRepository) ListFoods(ctx context.Context, shopID int64) ([]domain.Food, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+foodColumns+` FROM foods
		WHERE shop_id = $1
		ORDER BY category, name`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := []domain.Food{}
	var ids []int64
	for rows.Next() {
		food, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *food)
		ids = append(ids, food.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	options, err := r.optionsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range foods {
		if opts, ok := options[foods[i].ID]; ok {
			foods[i].Options = opts
		}
	}
	return foods, nil
}

func (r *PostgresRepository) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	food, err := scanFood(r.DB.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFoodNotFound
	}
	if err != nil {
		return nil, err
	}
	options, err := r.optionsFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if opts, ok := options[id]; ok {
		food.Options = opts
	}
	return food, nil
}

// CreateFood writes the food and its initial options in one transaction.
func (r *PostgresRepository) CreateFood(ctx context.Context, food *domain.Food) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO foods (shop_id, category, name, description, price, image_url, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		food.ShopID, food.Category, food.Name, food.Description, food.Price, food.ImageURL, food.Available,
	).Scan(&food.ID, &food.CreatedAt)
	if pgerr.IsForeignKeyViolation(err) {
		return domain.ErrShopNotFound
	}
	if err != nil {
		return err
	}

	for i := range food.Options {
		opt := &food.Options[i]
		opt.FoodID = food.ID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO food_options (food_id, kind, name, price) VALUES ($1, $2, $3, $4)
			RETURNING id`, opt.FoodID, opt.Kind, opt.Name, opt.Price).Scan(&opt.ID)
		if pgerr.IsUniqueViolation(err, optionNameConstraint) {
			return domain.ErrDuplicateOption
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresRepository) UpdateFood(ctx context.Context, food *domain.Food) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE foods SET category = $2, name = $3, description = $4, price = $5, image_url = $6, available = $7
		WHERE id = $1`,
		food.ID, food.Category, food.Name, food.Description, food.Price, food.ImageURL, food.Available)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrFoodNotFound)
}

func (r *PostgresRepository) DeleteFood(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrFoodNotFound)
}

// AddOption never overwrites: a name the food already uses is rejected by the
// unique constraint.
func (r *PostgresRepository) AddOption(ctx context.Context, option *domain.FoodOption) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO food_options (food_id, kind, name, price) VALUES ($1, $2, $3, $4)
		RETURNING id`, option.FoodID, option.Kind, option.Name, option.Price).Scan(&option.ID)
	if pgerr.IsUniqueViolation(err, optionNameConstraint) {
		return domain.ErrDuplicateOption
	}
	if pgerr.IsForeignKeyViolation(err) {
		return domain.ErrFoodNotFound
	}
	return err
}
