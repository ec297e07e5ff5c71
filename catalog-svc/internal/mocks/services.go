package mocks

import (
	"context"
	"io"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type ShopServiceInterface struct {
	mock.Mock
}

func NewShopServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *ShopServiceInterface {
	m := &ShopServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ShopServiceInterface) Create(ctx context.Context, session *auth.Session, req service.ShopRequest) (*domain.Shop, error) {
	ret := _m.Called(ctx, session, req)
	r0, _ := ret.Get(0).(*domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Get(ctx context.Context, id int64) (*domain.Shop, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Update(ctx context.Context, session *auth.Session, id int64, req service.ShopRequest) (*domain.Shop, error) {
	ret := _m.Called(ctx, session, id, req)
	r0, _ := ret.Get(0).(*domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) AddManager(ctx context.Context, session *auth.Session, shopID int64, accountID int64) error {
	ret := _m.Called(ctx, session, shopID, accountID)
	return ret.Error(0)
}

func (_m *ShopServiceInterface) UploadImage(ctx context.Context, session *auth.Session, shopID int64, kind domain.ImageKind, contentType string, content io.Reader) (string, error) {
	ret := _m.Called(ctx, session, shopID, kind, contentType, content)
	return ret.String(0), ret.Error(1)
}

func (_m *ShopServiceInterface) AdminList(ctx context.Context, status string, limit int, offset int) ([]domain.Shop, error) {
	ret := _m.Called(ctx, status, limit, offset)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) AdminSetStatus(ctx context.Context, id int64, status string) (*domain.Shop, error) {
	ret := _m.Called(ctx, id, status)
	r0, _ := ret.Get(0).(*domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Nearby(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Popular(ctx context.Context, limit int) ([]domain.Shop, error) {
	ret := _m.Called(ctx, limit)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Filter(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) Search(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) AddFavorite(ctx context.Context, customerID int64, shopID int64) (*domain.Favorite, error) {
	ret := _m.Called(ctx, customerID, shopID)
	r0, _ := ret.Get(0).(*domain.Favorite)
	return r0, ret.Error(1)
}

func (_m *ShopServiceInterface) RemoveFavorite(ctx context.Context, customerID int64, shopID int64) error {
	ret := _m.Called(ctx, customerID, shopID)
	return ret.Error(0)
}

func (_m *ShopServiceInterface) ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error) {
	ret := _m.Called(ctx, customerID)
	r0, _ := ret.Get(0).([]domain.Favorite)
	return r0, ret.Error(1)
}

type MenuServiceInterface struct {
	mock.Mock
}

func NewMenuServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuServiceInterface {
	m := &MenuServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MenuServiceInterface) List(ctx context.Context, shopID int64) ([]domain.Food, error) {
	ret := _m.Called(ctx, shopID)
	r0, _ := ret.Get(0).([]domain.Food)
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) CreateWithCategory(ctx context.Context, session *auth.Session, req service.FoodRequest) (*domain.Food, error) {
	ret := _m.Called(ctx, session, req)
	r0, _ := ret.Get(0).(*domain.Food)
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) Update(ctx context.Context, session *auth.Session, id int64, req service.FoodRequest) (*domain.Food, error) {
	ret := _m.Called(ctx, session, id, req)
	r0, _ := ret.Get(0).(*domain.Food)
	return r0, ret.Error(1)
}

func (_m *MenuServiceInterface) Delete(ctx context.Context, session *auth.Session, id int64) error {
	ret := _m.Called(ctx, session, id)
	return ret.Error(0)
}

func (_m *MenuServiceInterface) AddOption(ctx context.Context, session *auth.Session, foodID int64, req service.OptionRequest) (*domain.FoodOption, error) {
	ret := _m.Called(ctx, session, foodID, req)
	r0, _ := ret.Get(0).(*domain.FoodOption)
	return r0, ret.Error(1)
}

type VoucherServiceInterface struct {
	mock.Mock
}

func NewVoucherServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *VoucherServiceInterface {
	m := &VoucherServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *VoucherServiceInterface) Create(ctx context.Context, session *auth.Session, req service.VoucherRequest) (*domain.Voucher, error) {
	ret := _m.Called(ctx, session, req)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *VoucherServiceInterface) List(ctx context.Context, session *auth.Session, shopID int64, limit int, offset int) ([]domain.Voucher, error) {
	ret := _m.Called(ctx, session, shopID, limit, offset)
	r0, _ := ret.Get(0).([]domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *VoucherServiceInterface) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	ret := _m.Called(ctx, code)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *VoucherServiceInterface) Update(ctx context.Context, session *auth.Session, id int64, req service.VoucherRequest) (*domain.Voucher, error) {
	ret := _m.Called(ctx, session, id, req)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *VoucherServiceInterface) Toggle(ctx context.Context, session *auth.Session, id int64) (*domain.Voucher, error) {
	ret := _m.Called(ctx, session, id)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *VoucherServiceInterface) Delete(ctx context.Context, session *auth.Session, id int64) error {
	ret := _m.Called(ctx, session, id)
	return ret.Error(0)
}

type ReviewServiceInterface struct {
	mock.Mock
}

func NewReviewServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewServiceInterface {
	m := &ReviewServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ReviewServiceInterface) Create(ctx context.Context, customerID int64, shopID int64, req service.ReviewRequest) (*domain.Review, error) {
	ret := _m.Called(ctx, customerID, shopID, req)
	r0, _ := ret.Get(0).(*domain.Review)
	return r0, ret.Error(1)
}

func (_m *ReviewServiceInterface) ListShopReviews(ctx context.Context, shopID int64, limit int, offset int) ([]domain.Review, error) {
	ret := _m.Called(ctx, shopID, limit, offset)
	r0, _ := ret.Get(0).([]domain.Review)
	return r0, ret.Error(1)
}
