package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/pgerr"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `id, email, password_hash, full_name, phone, role, status, COALESCE(shop_id, 0) AS shop_id, created_at, updated_at`

const addressColumns = `id, account_id, label, recipient, phone, street, ward, district, city, province, lat, lng, is_default, created_at`

type PostgresRepository struct {
	DB *sqlx.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: sqlx.NewDb(db, "postgres")}
}

var _ service.Repository = (*PostgresRepository)(nil)

func (r *PostgresRepository) getAccount(ctx context.Context, query string, args ...interface{}) (*domain.Account, error) {
	var account domain.Account
	err := r.DB.GetContext(ctx, &account, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (email, password_hash, full_name, phone, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowxContext(ctx, query, account.Email, account.PasswordHash, account.FullName,
		account.Phone, account.Role, account.Status).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if pgerr.IsUniqueViolation(err, "accounts_email_key") {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getAccount(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int64, fullName, phone string) (*domain.Account, error) {
	return r.getAccount(ctx, `
		UPDATE accounts SET full_name = $2, phone = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id, fullName, phone)
}

// ListAccounts returns every role when role is empty.
func (r *PostgresRepository) ListAccounts(ctx context.Context, role auth.Role, limit, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE ($1 = '' OR role = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3`

	var accounts []domain.Account
	if err := r.DB.SelectContext(ctx, &accounts, query, string(role), limit, offset); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, id int64, role auth.Role, shopID int64) (*domain.Account, error) {
	return r.getAccount(ctx, `
		UPDATE accounts SET role = $2, shop_id = NULLIF($3, 0), updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id, role, shopID)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) (*domain.Account, error) {
	return r.getAccount(ctx, `
		UPDATE accounts SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+accountColumns, id, status)
}

func (r *PostgresRepository) ListAddresses(ctx context.Context, accountID int64) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE account_id = $1 ORDER BY is_default DESC, id`

	var addresses []domain.Address
	if err := r.DB.SelectContext(ctx, &addresses, query, accountID); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// AddAddress clears the previous default in the same transaction when the new
// address is the default.
func (r *PostgresRepository) AddAddress(ctx context.Context, address *domain.Address) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if address.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE addresses SET is_default = FALSE WHERE account_id = $1 AND is_default`, address.AccountID); err != nil {
			return fmt.Errorf("clear default address: %w", err)
		}
	}

	query := `
		INSERT INTO addresses (account_id, label, recipient, phone, street, ward, district, city, province, lat, lng, is_default)
		VALUES (:account_id, :label, :recipient, :phone, :street, :ward, :district, :city, :province, :lat, :lng, :is_default)
		RETURNING id, created_at`

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, address)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("insert address: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&address.ID, &address.CreatedAt); err != nil {
			rows.Close()
			return err
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	return tx.Commit()
}
