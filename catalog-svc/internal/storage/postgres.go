package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/pgerr"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ service.Repository = (*PostgresRepository)(nil)

const shopColumns = `s.id, s.owner_id, s.name, s.description, s.street, s.ward, s.district, s.city,
	s.province, s.lat, s.lng, s.cover_url, s.logo_url, s.type, s.status, s.rating, s.review_count, s.created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func shopFields(shop *domain.Shop) []interface{} {
	return []interface{}{&shop.ID, &shop.OwnerID, &shop.Name, &shop.Description, &shop.Address.Street,
		&shop.Address.Ward, &shop.Address.District, &shop.Address.City, &shop.Address.Province,
		&shop.Lat, &shop.Lng, &shop.CoverURL, &shop.LogoURL, &shop.Type, &shop.Status, &shop.Rating,
		&shop.ReviewCount, &shop.CreatedAt}
}

func scanShop(row rowScanner, extra ...interface{}) (*domain.Shop, error) {
	var shop domain.Shop
	if err := row.Scan(append(shopFields(&shop), extra...)...); err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *PostgresRepository) queryShops(ctx context.Context, query string, args ...interface{}) ([]domain.Shop, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		shops = append(shops, *shop)
	}
	return shops, rows.Err()
}

func (r *PostgresRepository) CreateShop(ctx context.Context, shop *domain.Shop) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO shops (owner_id, name, description, street, ward, district, city, province, lat, lng, type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		shop.OwnerID, shop.Name, shop.Description, shop.Address.Street, shop.Address.Ward,
		shop.Address.District, shop.Address.City, shop.Address.Province, shop.Lat, shop.Lng,
		shop.Type, shop.Status,
	).Scan(&shop.ID, &shop.CreatedAt)
}

func (r *PostgresRepository) GetShop(ctx context.Context, id int64) (*domain.Shop, error) {
	shop, err := scanShop(r.DB.QueryRowContext(ctx, `SELECT `+shopColumns+` FROM shops s WHERE s.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT account_id FROM shop_managers WHERE shop_id = $1 ORDER BY account_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var managerID int64
		if err := rows.Scan(&managerID); err != nil {
			return nil, err
		}
		shop.ManagerIDs = append(shop.ManagerIDs, managerID)
	}
	return shop, rows.Err()
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (r *PostgresRepository) UpdateShop(ctx context.Context, shop *domain.Shop) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE shops SET name = $2, description = $3, street = $4, ward = $5, district = $6, city = $7,
			province = $8, lat = $9, lng = $10, type = $11, updated_at = now()
		WHERE id = $1`,
		shop.ID, shop.Name, shop.Description, shop.Address.Street, shop.Address.Ward, shop.Address.District,
		shop.Address.City, shop.Address.Province, shop.Lat, shop.Lng, shop.Type)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrShopNotFound)
}

func (r *PostgresRepository) SetShopImage(ctx context.Context, id int64, kind domain.ImageKind, url string) error {
	var query string
	switch kind {
	case domain.ImageCover:
		query = `UPDATE shops SET cover_url = $2, updated_at = now() WHERE id = $1`
	case domain.ImageLogo:
		query = `UPDATE shops SET logo_url = $2, updated_at = now() WHERE id = $1`
	default:
		return domain.ErrUnknownImageKind
	}
	res, err := r.DB.ExecContext(ctx, query, id, url)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrShopNotFound)
}

func (r *PostgresRepository) SetShopStatus(ctx context.Context, id int64, from, to domain.ShopStatus) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE shops SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, fmt.Errorf("%w: shop %d is no longer %s", domain.ErrInvalidShopTransition, id, from))
}

func (r *PostgresRepository) ListShops(ctx context.Context, status domain.ShopStatus, limit, offset int) ([]domain.Shop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+` FROM shops s
		WHERE ($1 = '' OR s.status = $1)
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3`, string(status), limit, offset)
}

// AddManager attaches a manager-staff account to the shop and records the
// shop on the account so new sessions carry it.
func (r *PostgresRepository) AddManager(ctx context.Context, shopID, accountID int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE accounts SET shop_id = $1, updated_at = now()
		WHERE id = $2 AND role = 'MANAGER_STAFF'`, shopID, accountID)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res, domain.ErrAccountNotStaff); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shop_managers (shop_id, account_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, shopID, accountID); err != nil {
		return err
	}
	return tx.Commit()
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

// NearbyShops orders active shops by great-circle distance from the query point.
func (r *PostgresRepository) NearbyShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT * FROM (
			SELECT `+shopColumns+`,
				12742 * asin(sqrt(power(sin(radians(s.lat - $1) / 2), 2)
					+ cos(radians($1)) * cos(radians(s.lat)) * power(sin(radians(s.lng - $2) / 2), 2))) AS distance_km
			FROM shops s
			WHERE s.status = 'ACTIVE'
		) nearby
		WHERE distance_km <= $3
		ORDER BY distance_km
		LIMIT $4`, query.Lat, query.Lng, query.RadiusKm, query.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shops := []domain.Shop{}
	for rows.Next() {
		var distance float64
		shop, err := scanShop(rows, &distance)
		if err != nil {
			return nil, err
		}
		shop.DistanceKm = distance
		shops = append(shops, *shop)
	}
	return shops, rows.Err()
}

func (r *PostgresRepository) PopularShops(ctx context.Context, limit int) ([]domain.Shop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+` FROM shops s
		WHERE s.status = 'ACTIVE'
		ORDER BY s.rating DESC, s.review_count DESC, s.id
		LIMIT $1`, limit)
}

func (r *PostgresRepository) FilterShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	return r.queryShops(ctx, `
		SELECT `+shopColumns+` FROM shops s
		WHERE s.status = 'ACTIVE' AND ($1 = '' OR s.type = $1) AND s.rating >= $2
		ORDER BY s.rating DESC, s.id
		LIMIT $3`, string(query.Type), query.MinRating, query.Limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchShops matches the shop name or any available food on its menu.
func (r *PostgresRepository) SearchShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	pattern := "%" + likeEscaper.Replace(query.Text) + "%"
	return r.queryShops(ctx, `
		SELECT `+shopColumns+` FROM shops s
		WHERE s.status = 'ACTIVE' AND (s.name ILIKE $1 OR EXISTS (
			SELECT 1 FROM foods f WHERE f.shop_id = s.id AND f.available AND f.name ILIKE $1))
		ORDER BY s.rating DESC, s.id
		LIMIT $2`, pattern, query.Limit)
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, customerID, shopID int64) (*domain.Favorite, error) {
	fav := &domain.Favorite{CustomerID: customerID, ShopID: shopID}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO favorites (customer_id, shop_id) VALUES ($1, $2)
		RETURNING id, created_at`, customerID, shopID).Scan(&fav.ID, &fav.CreatedAt)
	if pgerr.IsUniqueViolation(err, "favorites_customer_id_shop_id_key") {
		return nil, domain.ErrAlreadyFavorite
	}
	if err != nil {
		return nil, err
	}
	return fav, nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, customerID, shopID int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM favorites WHERE customer_id = $1 AND shop_id = $2`, customerID, shopID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, domain.ErrFavoriteNotFound)
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT f.id, f.customer_id, f.created_at, `+shopColumns+`
		FROM favorites f JOIN shops s ON s.id = f.shop_id
		WHERE f.customer_id = $1
		ORDER BY f.created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var fav domain.Favorite
		var shop domain.Shop
		dest := append([]interface{}{&fav.ID, &fav.CustomerID, &fav.CreatedAt}, shopFields(&shop)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		fav.ShopID = shop.ID
		fav.Shop = &shop
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}
