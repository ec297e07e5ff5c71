package mocks

import (
	"context"
	"time"

	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	ret := _m.Called(ctx, order)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Order) error); ok {
		return rf(ctx, order)
	}
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	ret := _m.Called(ctx, id)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderRepository) ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	ret := _m.Called(ctx, customerID, limit, offset)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (_m *OrderRepository) ListShopOrders(ctx context.Context, shopID int64, status domain.Status, limit, offset int) ([]domain.Order, error) {
	ret := _m.Called(ctx, shopID, status, limit, offset)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (_m *OrderRepository) UpdateStatus(ctx context.Context, id int64, from domain.Status, version int, to domain.Status, payment domain.PaymentStatus) (int, time.Time, error) {
	ret := _m.Called(ctx, id, from, version, to, payment)
	updatedAt, _ := ret.Get(1).(time.Time)
	return ret.Int(0), updatedAt, ret.Error(2)
}

func (_m *OrderRepository) SaveQRCode(ctx context.Context, orderID int64, qr []byte) error {
	ret := _m.Called(ctx, orderID, qr)
	return ret.Error(0)
}

func (_m *OrderRepository) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	ret := _m.Called(ctx, orderID)
	qr, _ := ret.Get(0).([]byte)
	return qr, ret.Error(1)
}

func (_m *OrderRepository) ManagesShop(ctx context.Context, accountID, shopID int64) (bool, error) {
	ret := _m.Called(ctx, accountID, shopID)
	return ret.Bool(0), ret.Error(1)
}

type CatalogReader struct {
	mock.Mock
}

func NewCatalogReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogReader {
	m := &CatalogReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CatalogReader) ShopInfo(ctx context.Context, shopID int64) (*domain.ShopInfo, error) {
	ret := _m.Called(ctx, shopID)
	shop, _ := ret.Get(0).(*domain.ShopInfo)
	return shop, ret.Error(1)
}

func (_m *CatalogReader) Foods(ctx context.Context, ids []int64) (map[int64]domain.FoodSnapshot, error) {
	ret := _m.Called(ctx, ids)
	foods, _ := ret.Get(0).(map[int64]domain.FoodSnapshot)
	return foods, ret.Error(1)
}

func (_m *CatalogReader) VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	ret := _m.Called(ctx, code)
	voucher, _ := ret.Get(0).(*domain.Voucher)
	return voucher, ret.Error(1)
}
