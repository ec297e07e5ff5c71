package mocks

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderServiceInterface) Checkout(ctx context.Context, customerID int64, req service.CheckoutRequest, idempotencyKey string) (*domain.Order, bool, error) {
	ret := _m.Called(ctx, customerID, req, idempotencyKey)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Bool(1), ret.Error(2)
}

func (_m *OrderServiceInterface) Get(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error) {
	ret := _m.Called(ctx, session, orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderServiceInterface) ListMine(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	ret := _m.Called(ctx, customerID, limit, offset)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (_m *OrderServiceInterface) Cancel(ctx context.Context, customerID, orderID int64) (*domain.Order, error) {
	ret := _m.Called(ctx, customerID, orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderServiceInterface) QRCode(ctx context.Context, session *auth.Session, orderID int64) ([]byte, error) {
	ret := _m.Called(ctx, session, orderID)
	png, _ := ret.Get(0).([]byte)
	return png, ret.Error(1)
}

func (_m *OrderServiceInterface) ConfirmPayment(ctx context.Context, callback service.PaymentCallback) (*domain.Order, error) {
	ret := _m.Called(ctx, callback)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderServiceInterface) ResolveShop(ctx context.Context, session *auth.Session, shopID int64) (int64, error) {
	ret := _m.Called(ctx, session, shopID)
	resolved, _ := ret.Get(0).(int64)
	return resolved, ret.Error(1)
}

func (_m *OrderServiceInterface) ListShopOrders(ctx context.Context, session *auth.Session, shopID int64, status string, limit, offset int) ([]domain.Order, error) {
	ret := _m.Called(ctx, session, shopID, status, limit, offset)
	orders, _ := ret.Get(0).([]domain.Order)
	return orders, ret.Error(1)
}

func (_m *OrderServiceInterface) Accept(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error) {
	ret := _m.Called(ctx, session, orderID)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

func (_m *OrderServiceInterface) UpdateStatus(ctx context.Context, session *auth.Session, orderID int64, target string) (*domain.Order, error) {
	ret := _m.Called(ctx, session, orderID, target)
	order, _ := ret.Get(0).(*domain.Order)
	return order, ret.Error(1)
}

type CartServiceInterface struct {
	mock.Mock
}

func NewCartServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *CartServiceInterface {
	m := &CartServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CartServiceInterface) View(ctx context.Context, customerID int64) (domain.Cart, error) {
	ret := _m.Called(ctx, customerID)
	cart, _ := ret.Get(0).(domain.Cart)
	return cart, ret.Error(1)
}

func (_m *CartServiceInterface) Add(ctx context.Context, customerID int64, req service.AddToCartRequest) (domain.Cart, error) {
	ret := _m.Called(ctx, customerID, req)
	cart, _ := ret.Get(0).(domain.Cart)
	return cart, ret.Error(1)
}

func (_m *CartServiceInterface) SetQuantity(ctx context.Context, customerID int64, key string, quantity int) (domain.Cart, error) {
	ret := _m.Called(ctx, customerID, key, quantity)
	cart, _ := ret.Get(0).(domain.Cart)
	return cart, ret.Error(1)
}

func (_m *CartServiceInterface) Remove(ctx context.Context, customerID int64, key string) (domain.Cart, error) {
	ret := _m.Called(ctx, customerID, key)
	cart, _ := ret.Get(0).(domain.Cart)
	return cart, ret.Error(1)
}

func (_m *CartServiceInterface) Clear(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}
