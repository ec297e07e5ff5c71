package mocks

import (
	"context"
	"io"

	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/service"

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

func (_m *Repository) Totals(ctx context.Context, q service.Query) (domain.Totals, error) {
	ret := _m.Called(ctx, q)
	r0, _ := ret.Get(0).(domain.Totals)
	return r0, ret.Error(1)
}

func (_m *Repository) DailyRevenue(ctx context.Context, q service.Query) ([]domain.DailyRevenue, error) {
	ret := _m.Called(ctx, q)
	r0, _ := ret.Get(0).([]domain.DailyRevenue)
	return r0, ret.Error(1)
}

func (_m *Repository) StreamDailyRevenue(ctx context.Context, q service.Query, fn func(domain.DailyRevenue) error) error {
	ret := _m.Called(ctx, q, fn)
	return ret.Error(0)
}

func (_m *Repository) Leaderboard(ctx context.Context, q service.Query) ([]domain.LeaderboardEntry, error) {
	ret := _m.Called(ctx, q)
	r0, _ := ret.Get(0).([]domain.LeaderboardEntry)
	return r0, ret.Error(1)
}

func (_m *Repository) ShopNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	ret := _m.Called(ctx, ids)
	r0, _ := ret.Get(0).(map[int64]string)
	return r0, ret.Error(1)
}

type LeaderboardCache struct {
	mock.Mock
}

func NewLeaderboardCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *LeaderboardCache {
	m := &LeaderboardCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *LeaderboardCache) TopShops(ctx context.Context, month string, n int) ([]domain.LeaderboardEntry, error) {
	ret := _m.Called(ctx, month, n)
	r0, _ := ret.Get(0).([]domain.LeaderboardEntry)
	return r0, ret.Error(1)
}

type FinanceServiceInterface struct {
	mock.Mock
}

func NewFinanceServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *FinanceServiceInterface {
	m := &FinanceServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *FinanceServiceInterface) Revenue(ctx context.Context, q service.Query) (domain.Report, error) {
	ret := _m.Called(ctx, q)
	r0, _ := ret.Get(0).(domain.Report)
	return r0, ret.Error(1)
}

func (_m *FinanceServiceInterface) Leaderboard(ctx context.Context, month string, limit int) ([]domain.LeaderboardEntry, error) {
	ret := _m.Called(ctx, month, limit)
	r0, _ := ret.Get(0).([]domain.LeaderboardEntry)
	return r0, ret.Error(1)
}

func (_m *FinanceServiceInterface) ExportCSV(ctx context.Context, q service.Query, w io.Writer) error {
	ret := _m.Called(ctx, q, w)
	return ret.Error(0)
}
