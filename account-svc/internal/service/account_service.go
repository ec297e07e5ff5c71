package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/auth"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSelfModification = errors.New("admins cannot change their own role or status")
	ErrShopRequired     = errors.New("manager staff must be assigned to a shop")
	ErrRoleNotAllowed   = errors.New("role cannot be chosen at registration")
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	// Role defaults to CUSTOMER. Shop owners sign up as STORE_DIRECTOR.
	Role string `json:"role" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

type ProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

type AddressRequest struct {
	Label     string  `json:"label" validate:"max=50"`
	Recipient string  `json:"recipient" validate:"required,max=100"`
	Phone     string  `json:"phone" validate:"required,max=20"`
	Street    string  `json:"street" validate:"required,max=255"`
	Ward      string  `json:"ward" validate:"max=100"`
	District  string  `json:"district" validate:"max=100"`
	City      string  `json:"city" validate:"required,max=100"`
	Province  string  `json:"province" validate:"max=100"`
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng       float64 `json:"lng" validate:"gte=-180,lte=180"`
	IsDefault bool    `json:"is_default"`
}

type RoleRequest struct {
	Role   string `json:"role" validate:"required"`
	ShopID int64  `json:"shop_id" validate:"gte=0"`
}

type AccountService struct {
	repo      Repository
	sessions  auth.SessionStore
	cost      int
	dummyHash []byte
}

// NewAccountService hashes passwords with the given bcrypt cost.
func NewAccountService(repo Repository, sessions auth.SessionStore, cost int) *AccountService {
	// Checked against when the email is unknown.
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare password hashing")
	}
	return &AccountService{repo: repo, sessions: sessions, cost: cost, dummyHash: dummy}
}

var _ AccountServiceInterface = (*AccountService)(nil)

func (s *AccountService) Register(ctx context.Context, req RegisterRequest) (*domain.Account, error) {
	role := auth.RoleCustomer
	if req.Role != "" {
		parsed, err := auth.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		if parsed != auth.RoleCustomer && parsed != auth.RoleStoreDirector {
			return nil, ErrRoleNotAllowed
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &domain.Account{
		Email:        domain.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         role,
		Status:       domain.AccountActive,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Info().Int64("account_id", account.ID).Str("role", role.String()).Msg("account registered")
	return account, nil
}

func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	account, err := s.repo.AccountByEmail(ctx, domain.NormalizeEmail(req.Email))
	if errors.Is(err, domain.ErrAccountNotFound) {
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if account.Status == domain.AccountLocked {
		log.Warn().Int64("account_id", account.ID).Msg("login refused for locked account")
		return nil, domain.ErrAccountLocked
	}

	token, err := s.sessions.Issue(ctx, auth.Session{
		AccountID: account.ID,
		Role:      account.Role,
		ShopID:    account.ShopID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &LoginResult{Token: token, Account: account}, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *AccountService) Profile(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.repo.GetAccount(ctx, accountID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID int64, req ProfileRequest) (*domain.Account, error) {
	return s.repo.UpdateProfile(ctx, accountID, req.FullName, req.Phone)
}

func (s *AccountService) Addresses(ctx context.Context, accountID int64) ([]domain.Address, error) {
	addresses, err := s.repo.ListAddresses(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return addresses, nil
}

func (s *AccountService) AddAddress(ctx context.Context, accountID int64, req AddressRequest) (*domain.Address, error) {
	address := &domain.Address{
		AccountID: accountID,
		Label:     req.Label,
		Recipient: req.Recipient,
		Phone:     req.Phone,
		Street:    req.Street,
		Ward:      req.Ward,
		District:  req.District,
		City:      req.City,
		Province:  req.Province,
		Lat:       req.Lat,
		Lng:       req.Lng,
		IsDefault: req.IsDefault,
	}
	if err := s.repo.AddAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	return address, nil
}

// AdminList filters by role when one is given.
func (s *AccountService) AdminList(ctx context.Context, role string, limit, offset int) ([]domain.Account, error) {
	var filter auth.Role
	if role != "" {
		parsed, err := auth.ParseRole(role)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	accounts, err := s.repo.ListAccounts(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *AccountService) AdminSetRole(ctx context.Context, session *auth.Session, id int64, req RoleRequest) (*domain.Account, error) {
	if session.AccountID == id {
		return nil, ErrSelfModification
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	shopID := req.ShopID
	switch {
	case role == auth.RoleManagerStaff && shopID == 0:
		return nil, ErrShopRequired
	case !role.IsShopStaff():
		shopID = 0
	}

	account, err := s.repo.SetRole(ctx, id, role, shopID)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("admin_id", session.AccountID).Int64("account_id", id).
		Str("role", role.String()).Msg("account role changed")
	return account, nil
}

// AdminSetStatus locks or unlocks an account. Sessions already issued stay valid
// until they expire; only new logins are refused.
func (s *AccountService) AdminSetStatus(ctx context.Context, session *auth.Session, id int64, status string) (*domain.Account, error) {
	if session.AccountID == id {
		return nil, ErrSelfModification
	}
	parsed, err := domain.ParseAccountStatus(status)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.SetStatus(ctx, id, parsed)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("admin_id", session.AccountID).Int64("account_id", id).
		Str("status", string(parsed)).Msg("account status changed")
	return account, nil
}
