package mocks

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type StoreInterface struct {
	mock.Mock
}

func NewStoreInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *StoreInterface {
	m := &StoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StoreInterface) AddDelivery(ctx context.Context, delivery domain.Delivery) error {
	ret := _m.Called(ctx, delivery)
	return ret.Error(0)
}

func (_m *StoreInterface) RecomputeShopRating(ctx context.Context, shopID int64) (domain.ShopRating, error) {
	ret := _m.Called(ctx, shopID)
	r0, _ := ret.Get(0).(domain.ShopRating)
	return r0, ret.Error(1)
}

type CacheInterface struct {
	mock.Mock
}

func NewCacheInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CacheInterface {
	m := &CacheInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CacheInterface) MarkDelivered(ctx context.Context, orderID int64) (bool, error) {
	ret := _m.Called(ctx, orderID)
	return ret.Bool(0), ret.Error(1)
}

func (_m *CacheInterface) UnmarkDelivered(ctx context.Context, orderID int64) error {
	ret := _m.Called(ctx, orderID)
	return ret.Error(0)
}

func (_m *CacheInterface) BumpLeaderboard(ctx context.Context, month string, shopID int64, total int64) error {
	ret := _m.Called(ctx, month, shopID, total)
	return ret.Error(0)
}

func (_m *CacheInterface) CacheShopRating(ctx context.Context, rating domain.ShopRating) error {
	ret := _m.Called(ctx, rating)
	return ret.Error(0)
}
