package mocks

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/auth"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	ret := _m.Called(ctx, account)
	return ret.Error(0)
}

func (_m *Repository) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) AccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ret := _m.Called(ctx, email)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) UpdateProfile(ctx context.Context, id int64, fullName string, phone string) (*domain.Account, error) {
	ret := _m.Called(ctx, id, fullName, phone)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) ListAccounts(ctx context.Context, role auth.Role, limit int, offset int) ([]domain.Account, error) {
	ret := _m.Called(ctx, role, limit, offset)
	r0, _ := ret.Get(0).([]domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) SetRole(ctx context.Context, id int64, role auth.Role, shopID int64) (*domain.Account, error) {
	ret := _m.Called(ctx, id, role, shopID)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) (*domain.Account, error) {
	ret := _m.Called(ctx, id, status)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *Repository) ListAddresses(ctx context.Context, accountID int64) ([]domain.Address, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).([]domain.Address)
	return r0, ret.Error(1)
}

func (_m *Repository) AddAddress(ctx context.Context, address *domain.Address) error {
	ret := _m.Called(ctx, address)
	return ret.Error(0)
}

type AccountServiceInterface struct {
	mock.Mock
}

func NewAccountServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountServiceInterface {
	m := &AccountServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AccountServiceInterface) Register(ctx context.Context, req service.RegisterRequest) (*domain.Account, error) {
	ret := _m.Called(ctx, req)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResult, error) {
	ret := _m.Called(ctx, req)
	r0, _ := ret.Get(0).(*service.LoginResult)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) Logout(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

func (_m *AccountServiceInterface) Profile(ctx context.Context, accountID int64) (*domain.Account, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) UpdateProfile(ctx context.Context, accountID int64, req service.ProfileRequest) (*domain.Account, error) {
	ret := _m.Called(ctx, accountID, req)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) Addresses(ctx context.Context, accountID int64) ([]domain.Address, error) {
	ret := _m.Called(ctx, accountID)
	r0, _ := ret.Get(0).([]domain.Address)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) AddAddress(ctx context.Context, accountID int64, req service.AddressRequest) (*domain.Address, error) {
	ret := _m.Called(ctx, accountID, req)
	r0, _ := ret.Get(0).(*domain.Address)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) AdminList(ctx context.Context, role string, limit int, offset int) ([]domain.Account, error) {
	ret := _m.Called(ctx, role, limit, offset)
	r0, _ := ret.Get(0).([]domain.Account)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) AdminSetRole(ctx context.Context, session *auth.Session, id int64, req service.RoleRequest) (*domain.Account, error) {
	ret := _m.Called(ctx, session, id, req)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}

func (_m *AccountServiceInterface) AdminSetStatus(ctx context.Context, session *auth.Session, id int64, status string) (*domain.Account, error) {
	ret := _m.Called(ctx, session, id, status)
	r0, _ := ret.Get(0).(*domain.Account)
	return r0, ret.Error(1)
}
