package mocks

import (
	"context"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CartStore struct {
	mock.Mock
}

func NewCartStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *CartStore {
	m := &CartStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CartStore) Items(ctx context.Context, customerID int64) ([]domain.CartItem, error) {
	ret := _m.Called(ctx, customerID)
	items, _ := ret.Get(0).([]domain.CartItem)
	return items, ret.Error(1)
}

func (_m *CartStore) Item(ctx context.Context, customerID int64, key string) (*domain.CartItem, error) {
	ret := _m.Called(ctx, customerID, key)
	item, _ := ret.Get(0).(*domain.CartItem)
	return item, ret.Error(1)
}

func (_m *CartStore) Put(ctx context.Context, customerID int64, item domain.CartItem) error {
	ret := _m.Called(ctx, customerID, item)
	return ret.Error(0)
}

func (_m *CartStore) Remove(ctx context.Context, customerID int64, keys ...string) error {
	ret := _m.Called(ctx, customerID, keys)
	return ret.Error(0)
}

func (_m *CartStore) Clear(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

type IdempotencyStore struct {
	mock.Mock
}

func NewIdempotencyStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdempotencyStore {
	m := &IdempotencyStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *IdempotencyStore) Claim(ctx context.Context, customerID int64, key string) (int64, bool, error) {
	ret := _m.Called(ctx, customerID, key)
	orderID, _ := ret.Get(0).(int64)
	return orderID, ret.Bool(1), ret.Error(2)
}

func (_m *IdempotencyStore) Complete(ctx context.Context, customerID int64, key string, orderID int64) error {
	ret := _m.Called(ctx, customerID, key, orderID)
	return ret.Error(0)
}

func (_m *IdempotencyStore) Release(ctx context.Context, customerID int64, key string) error {
	ret := _m.Called(ctx, customerID, key)
	return ret.Error(0)
}

type OrderStream struct {
	mock.Mock
}

func NewOrderStream(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderStream {
	m := &OrderStream{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderStream) Publish(ctx context.Context, event *events.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

func (_m *OrderStream) Subscribe(ctx context.Context, shopID int64) (domain.Subscription, error) {
	ret := _m.Called(ctx, shopID)
	sub, _ := ret.Get(0).(domain.Subscription)
	return sub, ret.Error(1)
}

func (_m *OrderStream) Replay(ctx context.Context, shopID, afterSeq int64) (*domain.Replay, error) {
	ret := _m.Called(ctx, shopID, afterSeq)
	replay, _ := ret.Get(0).(*domain.Replay)
	return replay, ret.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *EventPublisher) PublishOrderEvent(ctx context.Context, event events.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *QRGenerator) Generate(orderID int64) ([]byte, error) {
	ret := _m.Called(orderID)
	png, _ := ret.Get(0).([]byte)
	return png, ret.Error(1)
}
