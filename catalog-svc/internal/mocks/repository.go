package mocks

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"

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

func (_m *Repository) CreateShop(ctx context.Context, shop *domain.Shop) error {
	ret := _m.Called(ctx, shop)
	return ret.Error(0)
}

func (_m *Repository) GetShop(ctx context.Context, id int64) (*domain.Shop, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) UpdateShop(ctx context.Context, shop *domain.Shop) error {
	ret := _m.Called(ctx, shop)
	return ret.Error(0)
}

func (_m *Repository) SetShopImage(ctx context.Context, id int64, kind domain.ImageKind, url string) error {
	ret := _m.Called(ctx, id, kind, url)
	return ret.Error(0)
}

func (_m *Repository) SetShopStatus(ctx context.Context, id int64, from domain.ShopStatus, to domain.ShopStatus) error {
	ret := _m.Called(ctx, id, from, to)
	return ret.Error(0)
}

func (_m *Repository) ListShops(ctx context.Context, status domain.ShopStatus, limit int, offset int) ([]domain.Shop, error) {
	ret := _m.Called(ctx, status, limit, offset)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) AddManager(ctx context.Context, shopID int64, accountID int64) error {
	ret := _m.Called(ctx, shopID, accountID)
	return ret.Error(0)
}

func (_m *Repository) ManagesShop(ctx context.Context, accountID int64, shopID int64) (bool, error) {
	ret := _m.Called(ctx, accountID, shopID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Repository) NearbyShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) PopularShops(ctx context.Context, limit int) ([]domain.Shop, error) {
	ret := _m.Called(ctx, limit)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) FilterShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) SearchShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	ret := _m.Called(ctx, query)
	r0, _ := ret.Get(0).([]domain.Shop)
	return r0, ret.Error(1)
}

func (_m *Repository) ListFoods(ctx context.Context, shopID int64) ([]domain.Food, error) {
	ret := _m.Called(ctx, shopID)
	r0, _ := ret.Get(0).([]domain.Food)
	return r0, ret.Error(1)
}

func (_m *Repository) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Food)
	return r0, ret.Error(1)
}

func (_m *Repository) CreateFood(ctx context.Context, food *domain.Food) error {
	ret := _m.Called(ctx, food)
	return ret.Error(0)
}

func (_m *Repository) UpdateFood(ctx context.Context, food *domain.Food) error {
	ret := _m.Called(ctx, food)
	return ret.Error(0)
}

func (_m *Repository) DeleteFood(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *Repository) AddOption(ctx context.Context, option *domain.FoodOption) error {
	ret := _m.Called(ctx, option)
	return ret.Error(0)
}

func (_m *Repository) AddFavorite(ctx context.Context, customerID int64, shopID int64) (*domain.Favorite, error) {
	ret := _m.Called(ctx, customerID, shopID)
	r0, _ := ret.Get(0).(*domain.Favorite)
	return r0, ret.Error(1)
}

func (_m *Repository) RemoveFavorite(ctx context.Context, customerID int64, shopID int64) error {
	ret := _m.Called(ctx, customerID, shopID)
	return ret.Error(0)
}

func (_m *Repository) ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error) {
	ret := _m.Called(ctx, customerID)
	r0, _ := ret.Get(0).([]domain.Favorite)
	return r0, ret.Error(1)
}

func (_m *Repository) CreateVoucher(ctx context.Context, voucher *domain.Voucher) error {
	ret := _m.Called(ctx, voucher)
	return ret.Error(0)
}

func (_m *Repository) ListVouchers(ctx context.Context, shopID int64, limit int, offset int) ([]domain.Voucher, error) {
	ret := _m.Called(ctx, shopID, limit, offset)
	r0, _ := ret.Get(0).([]domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *Repository) GetVoucher(ctx context.Context, id int64) (*domain.Voucher, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *Repository) VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	ret := _m.Called(ctx, code)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *Repository) UpdateVoucher(ctx context.Context, voucher *domain.Voucher) error {
	ret := _m.Called(ctx, voucher)
	return ret.Error(0)
}

func (_m *Repository) ToggleVoucher(ctx context.Context, id int64) (*domain.Voucher, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(*domain.Voucher)
	return r0, ret.Error(1)
}

func (_m *Repository) DeleteVoucher(ctx context.Context, id int64) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *Repository) HasDeliveredOrder(ctx context.Context, orderID int64, customerID int64, shopID int64) (bool, error) {
	ret := _m.Called(ctx, orderID, customerID, shopID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *Repository) InsertReview(ctx context.Context, review *domain.Review) error {
	ret := _m.Called(ctx, review)
	return ret.Error(0)
}

func (_m *Repository) ListShopReviews(ctx context.Context, shopID int64, limit int, offset int) ([]domain.Review, error) {
	ret := _m.Called(ctx, shopID, limit, offset)
	r0, _ := ret.Get(0).([]domain.Review)
	return r0, ret.Error(1)
}
