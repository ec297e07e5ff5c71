package service

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/auth"
)

type Repository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id int64) (*domain.Account, error)
	AccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id int64, fullName, phone string) (*domain.Account, error)
	ListAccounts(ctx context.Context, role auth.Role, limit, offset int) ([]domain.Account, error)
	SetRole(ctx context.Context, id int64, role auth.Role, shopID int64) (*domain.Account, error)
	SetStatus(ctx context.Context, id int64, status domain.AccountStatus) (*domain.Account, error)

	ListAddresses(ctx context.Context, accountID int64) ([]domain.Address, error)
	AddAddress(ctx context.Context, address *domain.Address) error
}

type AccountServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error

	Profile(ctx context.Context, accountID int64) (*domain.Account, error)
	UpdateProfile(ctx context.Context, accountID int64, req ProfileRequest) (*domain.Account, error)
	Addresses(ctx context.Context, accountID int64) ([]domain.Address, error)
	AddAddress(ctx context.Context, accountID int64, req AddressRequest) (*domain.Address, error)

	AdminList(ctx context.Context, role string, limit, offset int) ([]domain.Account, error)
	AdminSetRole(ctx context.Context, session *auth.Session, id int64, req RoleRequest) (*domain.Account, error)
	AdminSetStatus(ctx context.Context, session *auth.Session, id int64, status string) (*domain.Account, error)
}
