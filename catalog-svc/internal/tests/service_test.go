package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/mocks"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	director = &auth.Session{AccountID: 11, Role: auth.RoleStoreDirector}
	staff    = &auth.Session{AccountID: 21, Role: auth.RoleManagerStaff, ShopID: 4}
	admin    = &auth.Session{AccountID: 1, Role: auth.RoleAdmin}
	customer = &auth.Session{AccountID: 3, Role: auth.RoleCustomer}
)

// staffManagesShop grants the shared staff session access to shop 4.
func staffManagesShop(repo *mocks.Repository) {
	repo.On("ManagesShop", mock.Anything, staff.AccountID, int64(4)).Return(true, nil)
}

func ownedShop(status domain.ShopStatus) *domain.Shop {
	return &domain.Shop{ID: 4, OwnerID: 11, Name: "Pho 24", Status: status, Type: domain.ShopTypeFood}
}

func TestShopService_Create(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewShopService(repo, mocks.NewImageStore(t))

	repo.On("CreateShop", mock.Anything, mock.MatchedBy(func(s *domain.Shop) bool {
		return s.OwnerID == 11 && s.Status == domain.ShopPendingApproval && s.Type == domain.ShopTypeDrink && s.Name == "Tea House"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Shop).ID = 9
	}).Return(nil).Once()

	shop, err := svc.Create(context.Background(), director, service.ShopRequest{Name: " Tea House ", Type: "drink", Lat: 21.02, Lng: 105.85})
	require.NoError(t, err)
	assert.Equal(t, int64(9), shop.ID)
	assert.Equal(t, domain.ShopPendingApproval, shop.Status)
}

func TestShopService_UpdateOwnerOnly(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewShopService(repo, mocks.NewImageStore(t))
	ctx := context.Background()

	repo.On("GetShop", ctx, int64(4)).Return(ownedShop(domain.ShopActive), nil)
	repo.On("UpdateShop", ctx, mock.AnythingOfType("*domain.Shop")).Return(nil).Once()

	shop, err := svc.Update(ctx, director, 4, service.ShopRequest{Name: "Pho 25"})
	require.NoError(t, err)
	assert.Equal(t, "Pho 25", shop.Name)
	assert.Equal(t, domain.ShopTypeFood, shop.Type)

	other := &auth.Session{AccountID: 99, Role: auth.RoleStoreDirector}
	_, err = svc.Update(ctx, other, 4, service.ShopRequest{Name: "Hijack"})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestShopService_AdminSetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		current   domain.ShopStatus
		target    string
		persist   error
		wantError error
	}{
		{name: "approve", current: domain.ShopPendingApproval, target: "ACTIVE"},
		{name: "ban_active", current: domain.ShopActive, target: "banned"},
		{name: "unban", current: domain.ShopBanned, target: "ACTIVE"},
		{name: "pending_to_inactive", current: domain.ShopPendingApproval, target: "INACTIVE", wantError: domain.ErrInvalidShopTransition},
		{name: "banned_to_inactive", current: domain.ShopBanned, target: "INACTIVE", wantError: domain.ErrInvalidShopTransition},
		{name: "unknown_status", current: domain.ShopActive, target: "CLOSED", wantError: domain.ErrUnknownShopStatus},
		{name: "changed_concurrently", current: domain.ShopActive, target: "INACTIVE", persist: domain.ErrInvalidShopTransition, wantError: domain.ErrInvalidShopTransition},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewRepository(t)
			svc := service.NewShopService(repo, mocks.NewImageStore(t))

			if testCase.wantError != domain.ErrUnknownShopStatus {
				repo.On("GetShop", ctx, int64(4)).Return(ownedShop(testCase.current), nil).Once()
			}
			target, parseErr := domain.ParseShopStatus(testCase.target)
			if parseErr == nil && testCase.current.CanBecome(target) == nil {
				repo.On("SetShopStatus", ctx, int64(4), testCase.current, target).Return(testCase.persist).Once()
			}

			shop, err := svc.AdminSetStatus(ctx, 4, testCase.target)
			if testCase.wantError != nil {
				assert.ErrorIs(t, err, testCase.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, target, shop.Status)
		})
	}
}

func TestShopService_UploadImage(t *testing.T) {
	repo := mocks.NewRepository(t)
	images := mocks.NewImageStore(t)
	svc := service.NewShopService(repo, images)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, director, 4, domain.ImageLogo, "text/plain; charset=utf-8", strings.NewReader("hi"))
	assert.ErrorIs(t, err, service.ErrUnsupportedImage)

	repo.On("GetShop", ctx, int64(4)).Return(ownedShop(domain.ShopActive), nil).Once()
	images.On("Save", ctx, mock.MatchedBy(func(name string) bool {
		return strings.HasPrefix(name, "shop_4_logo_") && strings.HasSuffix(name, ".png")
	}), mock.Anything).Return("/uploads/shop_4_logo.png", nil).Once()
	repo.On("SetShopImage", ctx, int64(4), domain.ImageLogo, "/uploads/shop_4_logo.png").Return(nil).Once()

	url, err := svc.UploadImage(ctx, director, 4, domain.ImageLogo, "image/png", strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/shop_4_logo.png", url)
}

func TestShopService_HomeQueriesAreBounded(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewShopService(repo, mocks.NewImageStore(t))
	ctx := context.Background()

	repo.On("NearbyShops", ctx, domain.HomeQuery{Lat: 21, Lng: 105, RadiusKm: service.MaxRadiusKm, Limit: service.MaxHomeLimit}).
		Return([]domain.Shop{}, nil).Once()
	_, err := svc.Nearby(ctx, domain.HomeQuery{Lat: 21, Lng: 105, RadiusKm: 500, Limit: 1000})
	require.NoError(t, err)

	repo.On("PopularShops", ctx, service.DefaultHomeLimit).Return([]domain.Shop{{ID: 4}}, nil).Once()
	shops, err := svc.Popular(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, shops, 1)

	repo.On("FilterShops", ctx, domain.HomeQuery{Type: domain.ShopTypeDrink, MinRating: 0, Limit: 10}).
		Return([]domain.Shop{}, nil).Once()
	_, err = svc.Filter(ctx, domain.HomeQuery{Type: domain.ShopTypeDrink, MinRating: -3, Limit: 10})
	require.NoError(t, err)

	shops, err = svc.Search(ctx, domain.HomeQuery{Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, shops)
}

func TestShopService_AddFavoriteTwice(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewShopService(repo, mocks.NewImageStore(t))
	ctx := context.Background()

	repo.On("GetShop", ctx, int64(4)).Return(ownedShop(domain.ShopActive), nil).Twice()
	repo.On("AddFavorite", ctx, int64(3), int64(4)).Return(&domain.Favorite{ID: 1, CustomerID: 3, ShopID: 4}, nil).Once()
	repo.On("AddFavorite", ctx, int64(3), int64(4)).Return(nil, domain.ErrAlreadyFavorite).Once()

	fav, err := svc.AddFavorite(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fav.ID)

	_, err = svc.AddFavorite(ctx, 3, 4)
	assert.ErrorIs(t, err, domain.ErrAlreadyFavorite)
}

func TestMenuService_CreateWithCategory(t *testing.T) {
	ctx := context.Background()
	req := service.FoodRequest{
		ShopID: 4, Category: "Noodles", Name: "Pho Bo", Price: 55000,
		Options: []service.OptionRequest{{Kind: "SIZE", Name: "Large", Price: 10000}, {Kind: "TOPPING", Name: "Egg", Price: 5000}},
	}

	t.Run("staff_of_shop", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		svc := service.NewMenuService(repo)
		staffManagesShop(repo)
		repo.On("CreateFood", ctx, mock.MatchedBy(func(f *domain.Food) bool {
			return f.ShopID == 4 && f.Available && len(f.Options) == 2 && f.Options[0].Name == "Large"
		})).Return(nil).Once()

		food, err := svc.CreateWithCategory(ctx, staff, req)
		require.NoError(t, err)
		assert.Equal(t, "Noodles", food.Category)
	})

	t.Run("duplicate_option_in_request", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		svc := service.NewMenuService(repo)
		staffManagesShop(repo)
		dup := req
		dup.Options = []service.OptionRequest{{Kind: "SIZE", Name: "Large"}, {Kind: "EXTRA", Name: "large "}}
		_, err := svc.CreateWithCategory(ctx, staff, dup)
		assert.ErrorIs(t, err, domain.ErrDuplicateOption)
	})

	t.Run("other_shop", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		svc := service.NewMenuService(repo)
		repo.On("ManagesShop", ctx, int64(21), int64(8)).Return(false, nil).Once()
		other := req
		other.ShopID = 8
		_, err := svc.CreateWithCategory(ctx, staff, other)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("removed_manager", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		svc := service.NewMenuService(repo)
		stale := &auth.Session{AccountID: 22, Role: auth.RoleManagerStaff, ShopID: 4}
		repo.On("ManagesShop", ctx, int64(22), int64(4)).Return(false, nil).Once()
		_, err := svc.CreateWithCategory(ctx, stale, req)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("customer", func(t *testing.T) {
		svc := service.NewMenuService(mocks.NewRepository(t))
		_, err := svc.CreateWithCategory(ctx, customer, req)
		assert.ErrorIs(t, err, service.ErrForbidden)
	})
}

func TestMenuService_AddOptionDuplicate(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewMenuService(repo)
	ctx := context.Background()

	staffManagesShop(repo)
	repo.On("GetFood", ctx, int64(1)).Return(&domain.Food{ID: 1, ShopID: 4}, nil).Twice()
	repo.On("AddOption", ctx, mock.AnythingOfType("*domain.FoodOption")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.FoodOption).ID = 7
	}).Return(nil).Once()
	repo.On("AddOption", ctx, mock.AnythingOfType("*domain.FoodOption")).Return(domain.ErrDuplicateOption).Once()

	opt, err := svc.AddOption(ctx, staff, 1, service.OptionRequest{Kind: "SIZE", Name: "Large", Price: 10000})
	require.NoError(t, err)
	assert.Equal(t, int64(7), opt.ID)
	assert.Equal(t, int64(1), opt.FoodID)

	_, err = svc.AddOption(ctx, staff, 1, service.OptionRequest{Kind: "SIZE", Name: "Large", Price: 12000})
	assert.ErrorIs(t, err, domain.ErrDuplicateOption)
}

func TestMenuService_UpdateKeepsAvailabilityUnlessGiven(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewMenuService(repo)
	ctx := context.Background()

	staffManagesShop(repo)
	repo.On("GetFood", ctx, int64(1)).Return(&domain.Food{ID: 1, ShopID: 4, Available: false}, nil).Once()
	repo.On("UpdateFood", ctx, mock.AnythingOfType("*domain.Food")).Return(nil).Once()

	food, err := svc.Update(ctx, staff, 1, service.FoodRequest{ShopID: 4, Category: "Noodles", Name: "Pho Ga", Price: 50000})
	require.NoError(t, err)
	assert.False(t, food.Available)
	assert.Equal(t, "Pho Ga", food.Name)
}

func TestVoucherService_Create(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	base := service.VoucherRequest{Code: "sale25", Type: "fixed", Value: 25000, StartsAt: start, EndsAt: start.AddDate(0, 1, 0)}

	tests := []struct {
		name      string
		session   *auth.Session
		mutate    func(r *service.VoucherRequest)
		setup     func(repo *mocks.Repository)
		wantError error
	}{
		{
			name:    "admin_platform_voucher",
			session: admin,
			mutate:  func(r *service.VoucherRequest) {},
			setup: func(repo *mocks.Repository) {
				repo.On("CreateVoucher", ctx, mock.MatchedBy(func(v *domain.Voucher) bool {
					return v.Code == "SALE25" && v.Type == domain.VoucherFixed && v.ShopID == 0 && v.Active
				})).Return(nil).Once()
			},
		},
		{
			name:    "director_own_shop",
			session: director,
			mutate:  func(r *service.VoucherRequest) { r.ShopID = 4 },
			setup: func(repo *mocks.Repository) {
				repo.On("ManagesShop", ctx, int64(11), int64(4)).Return(true, nil).Once()
				repo.On("CreateVoucher", ctx, mock.AnythingOfType("*domain.Voucher")).Return(nil).Once()
			},
		},
		{
			name:      "director_platform_voucher",
			session:   director,
			mutate:    func(r *service.VoucherRequest) {},
			setup:     func(repo *mocks.Repository) {},
			wantError: service.ErrShopRequired,
		},
		{
			name:      "percent_over_100",
			session:   admin,
			mutate:    func(r *service.VoucherRequest) { r.Type = "PERCENT"; r.Value = 120 },
			setup:     func(repo *mocks.Repository) {},
			wantError: domain.ErrInvalidVoucher,
		},
		{
			name:      "ends_before_start",
			session:   admin,
			mutate:    func(r *service.VoucherRequest) { r.EndsAt = start.AddDate(0, 0, -1) },
			setup:     func(repo *mocks.Repository) {},
			wantError: domain.ErrInvalidVoucher,
		},
		{
			name:    "duplicate_code",
			session: admin,
			mutate:  func(r *service.VoucherRequest) {},
			setup: func(repo *mocks.Repository) {
				repo.On("CreateVoucher", ctx, mock.Anything).Return(domain.ErrDuplicateVoucher).Once()
			},
			wantError: domain.ErrDuplicateVoucher,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo := mocks.NewRepository(t)
			svc := service.NewVoucherService(repo)
			testCase.setup(repo)

			req := base
			testCase.mutate(&req)
			voucher, err := svc.Create(ctx, testCase.session, req)
			if testCase.wantError != nil {
				assert.ErrorIs(t, err, testCase.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SALE25", voucher.Code)
		})
	}
}

func TestVoucherService_ToggleForeignPlatformVoucher(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewVoucherService(repo)
	ctx := context.Background()

	repo.On("GetVoucher", ctx, int64(5)).Return(&domain.Voucher{ID: 5, Code: "PLATFORM"}, nil).Once()
	_, err := svc.Toggle(ctx, director, 5)
	assert.ErrorIs(t, err, service.ErrForbidden)

	repo.On("GetVoucher", ctx, int64(5)).Return(&domain.Voucher{ID: 5, Code: "PLATFORM"}, nil).Once()
	repo.On("ToggleVoucher", ctx, int64(5)).Return(&domain.Voucher{ID: 5, Active: false}, nil).Once()
	v, err := svc.Toggle(ctx, admin, 5)
	require.NoError(t, err)
	assert.False(t, v.Active)
}

func TestVoucherService_GetByCodeNormalizes(t *testing.T) {
	repo := mocks.NewRepository(t)
	svc := service.NewVoucherService(repo)
	ctx := context.Background()

	repo.On("VoucherByCode", ctx, "SALE25").Return(&domain.Voucher{Code: "SALE25"}, nil).Once()
	_, err := svc.GetByCode(ctx, " sale25")
	require.NoError(t, err)

	_, err = svc.GetByCode(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrVoucherNotFound)
}

func TestReviewService_Create(t *testing.T) {
	repository := mocks.NewRepository(t)
	cache := mocks.NewReviewCache(t)
	publisher := mocks.NewReviewPublisher(t)

	svc := service.NewReviewService(repository, cache, publisher)

	ctx := context.Background()

	tests := []struct {
		name          string
		orderID       int64
		prepareMocks  func()
		expectedError error
	}{
		{
			name:    "success_create_new_review",
			orderID: 99,
			prepareMocks: func() {
				repository.On("HasDeliveredOrder", ctx, int64(99), int64(3), int64(4)).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", int64(99), int64(3)).Return("review:99:3").Once()
				cache.On("Exists", ctx, "review:99:3").Return(false, nil).Once()
				repository.On("InsertReview", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()
				cache.On("SetMarker", ctx, "review:99:3").Return(nil).Once()
				publisher.On("PublishReview", ctx, mock.MatchedBy(func(e events.ReviewEvent) bool {
					return e.Type == events.TypeShopReview && e.ShopID == 4 && e.OrderID == 99 && e.Rating == 5
				})).Return(nil).Once()
			},
		},
		{
			name:    "error_order_not_delivered",
			orderID: 100,
			prepareMocks: func() {
				repository.On("HasDeliveredOrder", ctx, int64(100), int64(3), int64(4)).Return(false, nil).Once()
			},
			expectedError: service.ErrOrderNotDelivered,
		},
		{
			name:    "error_marker_present",
			orderID: 101,
			prepareMocks: func() {
				repository.On("HasDeliveredOrder", ctx, int64(101), int64(3), int64(4)).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", int64(101), int64(3)).Return("review:101:3").Once()
				cache.On("Exists", ctx, "review:101:3").Return(true, nil).Once()
			},
			expectedError: domain.ErrAlreadyReviewed,
		},
		{
			name:    "error_database_duplicate_sets_marker",
			orderID: 102,
			prepareMocks: func() {
				repository.On("HasDeliveredOrder", ctx, int64(102), int64(3), int64(4)).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", int64(102), int64(3)).Return("review:102:3").Once()
				cache.On("Exists", ctx, "review:102:3").Return(false, nil).Once()
				repository.On("InsertReview", ctx, mock.Anything).Return(domain.ErrAlreadyReviewed).Once()
				cache.On("SetMarker", ctx, "review:102:3").Return(nil).Once()
			},
			expectedError: domain.ErrAlreadyReviewed,
		},
		{
			name:    "publish_failure_is_not_fatal",
			orderID: 103,
			prepareMocks: func() {
				repository.On("HasDeliveredOrder", ctx, int64(103), int64(3), int64(4)).Return(true, nil).Once()
				cache.On("ReviewMarkerKey", int64(103), int64(3)).Return("review:103:3").Once()
				cache.On("Exists", ctx, "review:103:3").Return(false, errors.New("redis down")).Once()
				repository.On("InsertReview", ctx, mock.Anything).Return(nil).Once()
				cache.On("SetMarker", ctx, "review:103:3").Return(nil).Once()
				publisher.On("PublishReview", ctx, mock.Anything).Return(errors.New("kafka down")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			testCase.prepareMocks()
			review, err := svc.Create(ctx, 3, 4, service.ReviewRequest{OrderID: testCase.orderID, Rating: 5, Comment: " Great! "})
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Great!", review.Comment)
			assert.Equal(t, int64(4), review.ShopID)
		})
	}
}
