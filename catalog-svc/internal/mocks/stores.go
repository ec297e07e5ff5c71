package mocks

import (
	"context"
	"io"

	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/stretchr/testify/mock"
)

type ReviewCache struct {
	mock.Mock
}

func NewReviewCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewCache {
	m := &ReviewCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ReviewCache) ReviewMarkerKey(orderID int64, customerID int64) string {
	ret := _m.Called(orderID, customerID)
	return ret.String(0)
}

func (_m *ReviewCache) Exists(ctx context.Context, key string) (bool, error) {
	ret := _m.Called(ctx, key)
	return ret.Bool(0), ret.Error(1)
}

func (_m *ReviewCache) SetMarker(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)
	return ret.Error(0)
}

type ReviewPublisher struct {
	mock.Mock
}

func NewReviewPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *ReviewPublisher {
	m := &ReviewPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ReviewPublisher) PublishReview(ctx context.Context, event events.ReviewEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

type ImageStore struct {
	mock.Mock
}

func NewImageStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ImageStore {
	m := &ImageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ImageStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	ret := _m.Called(ctx, name, content)
	return ret.String(0), ret.Error(1)
}
