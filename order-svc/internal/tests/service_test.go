package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/mocks"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rates    = domain.ShippingRates{BaseFee: 15000, BaseKm: 3, PerKmFee: 5000}

	staffSession    = &auth.Session{AccountID: 21, Role: auth.RoleManagerStaff, ShopID: 4}
	customerSession = &auth.Session{AccountID: 3, Role: auth.RoleCustomer}
)

type orderFixture struct {
	repo      *mocks.OrderRepository
	catalog   *mocks.CatalogReader
	carts     *mocks.CartStore
	idem      *mocks.IdempotencyStore
	stream    *mocks.OrderStream
	publisher *mocks.EventPublisher
	svc       *service.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := &orderFixture{
		repo:      mocks.NewOrderRepository(t),
		catalog:   mocks.NewCatalogReader(t),
		carts:     mocks.NewCartStore(t),
		idem:      mocks.NewIdempotencyStore(t),
		stream:    mocks.NewOrderStream(t),
		publisher: mocks.NewEventPublisher(t),
	}
	f.svc = service.NewOrderService(service.Dependencies{
		Orders:      f.repo,
		Catalog:     f.catalog,
		Carts:       f.carts,
		Idempotency: f.idem,
		Stream:      f.stream,
		Publisher:   f.publisher,
		Rates:       rates,
		Now:         func() time.Time { return fixedNow },
	})
	f.repo.On("ManagesShop", mock.Anything, staffSession.AccountID, int64(4)).Return(true, nil).Maybe()
	return f
}

func (f *orderFixture) expectEmit(status domain.Status) {
	f.stream.On("Publish", mock.Anything, mock.MatchedBy(func(e *events.OrderEvent) bool {
		return e.Status == string(status) && e.ShopID == 4
	})).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e events.OrderEvent) bool {
		return e.Status == string(status)
	})).Return(nil).Once()
}

func activeShop() *domain.ShopInfo {
	return &domain.ShopInfo{ID: 4, Status: "ACTIVE", Lat: 21.0285, Lng: 105.8542}
}

func phoMenu() map[int64]domain.FoodSnapshot {
	return map[int64]domain.FoodSnapshot{
		1: {ID: 1, ShopID: 4, Name: "Pho bo", Price: 50000, Available: true, Options: map[int64]domain.ItemOption{
			2: {ID: 2, Kind: "SIZE", Name: "Large", Price: 5000},
		}},
	}
}

func checkoutRequest(method string) service.CheckoutRequest {
	return service.CheckoutRequest{
		ShopID:        4,
		Items:         []service.CheckoutLine{{FoodID: 1, OptionIDs: []int64{2}, Quantity: 2}},
		PaymentMethod: method,
		Address:       domain.Address{Street: "1 Trang Tien", City: "Ha Noi", Lat: 21.0285, Lng: 105.8542},
	}
}

func assignOrderID(args mock.Arguments) {
	order := args.Get(1).(*domain.Order)
	order.ID = 10
	order.Version = 1
	order.CreatedAt = fixedNow
	order.UpdatedAt = fixedNow
}

func TestCheckout_InitialStatusByPaymentMethod(t *testing.T) {
	tests := []struct {
		method     string
		wantStatus domain.Status
	}{
		{method: "COD", wantStatus: domain.StatusPending},
		{method: "GATEWAY", wantStatus: domain.StatusPendingPayment},
	}

	for _, testCase := range tests {
		t.Run(testCase.method, func(t *testing.T) {
			f := newOrderFixture(t)
			f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
			f.catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
			f.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Run(assignOrderID).Return(nil).Once()
			f.expectEmit(testCase.wantStatus)

			order, created, err := f.svc.Checkout(context.Background(), 3, checkoutRequest(testCase.method), "")
			require.NoError(t, err)

			assert.True(t, created)
			assert.Equal(t, testCase.wantStatus, order.Status)
			assert.Equal(t, domain.PaymentUnpaid, order.PaymentStatus)
			assert.Equal(t, int64(110000), order.Subtotal)
			assert.Equal(t, int64(15000), order.ShippingFee)
			assert.Equal(t, int64(125000), order.TotalAmount)
			assert.Equal(t, int64(55000), order.Items[0].UnitPrice)
			assert.Equal(t, "/orders/10/qrcode", order.QRCode)
		})
	}
}

func TestCheckout_AppliesVoucher(t *testing.T) {
	f := newOrderFixture(t)
	voucher := &domain.Voucher{Code: "SALE25", Type: domain.VoucherFixed, Value: 25000, Active: true,
		StartsAt: fixedNow.Add(-time.Hour), EndsAt: fixedNow.Add(time.Hour)}

	f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
	f.catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
	f.catalog.On("VoucherByCode", mock.Anything, "SALE25").Return(voucher, nil).Once()
	f.repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o *domain.Order) bool {
		return o.VoucherCode == "SALE25" && o.Discount == 25000
	})).Run(assignOrderID).Return(nil).Once()
	f.expectEmit(domain.StatusPending)

	req := checkoutRequest("COD")
	req.VoucherCode = " sale25 "
	order, _, err := f.svc.Checkout(context.Background(), 3, req, "")
	require.NoError(t, err)
	assert.Equal(t, int64(110000+15000-25000), order.TotalAmount)
}

func TestCheckout_VoucherRejected(t *testing.T) {
	f := newOrderFixture(t)
	voucher := &domain.Voucher{Code: "BIG", Type: domain.VoucherFixed, Value: 25000, Active: true, MinOrderValue: 500000,
		StartsAt: fixedNow.Add(-time.Hour), EndsAt: fixedNow.Add(time.Hour)}

	f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
	f.catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
	f.catalog.On("VoucherByCode", mock.Anything, "BIG").Return(voucher, nil).Once()

	req := checkoutRequest("COD")
	req.VoucherCode = "BIG"
	_, _, err := f.svc.Checkout(context.Background(), 3, req, "")
	assert.ErrorIs(t, err, domain.ErrVoucherMinOrder)
	f.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_IdempotentReplay(t *testing.T) {
	f := newOrderFixture(t)
	existing := &domain.Order{ID: 10, CustomerID: 3, ShopID: 4, Status: domain.StatusPending}
	f.idem.On("Claim", mock.Anything, int64(3), "key-1").Return(int64(10), false, nil).Once()
	f.repo.On("GetOrder", mock.Anything, int64(10)).Return(existing, nil).Once()

	order, created, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("COD"), "key-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(10), order.ID)
	f.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_KeyInFlight(t *testing.T) {
	f := newOrderFixture(t)
	f.idem.On("Claim", mock.Anything, int64(3), "key-1").Return(int64(0), false, nil).Once()

	_, _, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("COD"), "key-1")
	assert.ErrorIs(t, err, service.ErrIdempotencyInFlight)
}

func TestCheckout_StoresKeyAfterSuccess(t *testing.T) {
	f := newOrderFixture(t)
	f.idem.On("Claim", mock.Anything, int64(3), "key-1").Return(int64(0), true, nil).Once()
	f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
	f.catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
	f.repo.On("CreateOrder", mock.Anything, mock.Anything).Run(assignOrderID).Return(nil).Once()
	f.idem.On("Complete", mock.Anything, int64(3), "key-1", int64(10)).Return(nil).Once()
	f.expectEmit(domain.StatusPending)

	_, created, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("COD"), "key-1")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCheckout_FailureReleasesKey(t *testing.T) {
	f := newOrderFixture(t)
	f.idem.On("Claim", mock.Anything, int64(3), "key-1").Return(int64(0), true, nil).Once()
	f.catalog.On("ShopInfo", mock.Anything, int64(4)).
		Return(&domain.ShopInfo{ID: 4, Status: "SUSPENDED"}, nil).Once()
	f.idem.On("Release", mock.Anything, int64(3), "key-1").Return(nil).Once()

	_, _, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("COD"), "key-1")
	assert.ErrorIs(t, err, domain.ErrShopUnavailable)
}

func TestCheckout_FromCart(t *testing.T) {
	f := newOrderFixture(t)
	f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
	f.carts.On("Items", mock.Anything, int64(3)).Return([]domain.CartItem{
		{Key: "1-2", ShopID: 4, FoodID: 1, Options: []domain.ItemOption{{ID: 2}}, Quantity: 1, UnitPrice: 1},
		{Key: "8", ShopID: 9, FoodID: 8, Quantity: 1, UnitPrice: 1},
	}, nil).Once()
	f.catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
	f.repo.On("CreateOrder", mock.Anything, mock.Anything).Run(assignOrderID).Return(nil).Once()
	f.carts.On("Remove", mock.Anything, int64(3), []string{"1-2"}).Return(nil).Once()
	f.expectEmit(domain.StatusPending)

	req := checkoutRequest("COD")
	req.Items = nil
	order, _, err := f.svc.Checkout(context.Background(), 3, req, "")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(55000), order.Subtotal, "cart prices are ignored in favour of the catalog")
}

func TestCheckout_Rejections(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(t)
		f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
		f.carts.On("Items", mock.Anything, int64(3)).Return([]domain.CartItem{}, nil).Once()

		req := checkoutRequest("COD")
		req.Items = nil
		_, _, err := f.svc.Checkout(context.Background(), 3, req, "")
		assert.ErrorIs(t, err, domain.ErrEmptyOrder)
	})

	t.Run("food of another shop", func(t *testing.T) {
		f := newOrderFixture(t)
		menu := phoMenu()
		food := menu[1]
		food.ShopID = 9
		menu[1] = food
		f.catalog.On("ShopInfo", mock.Anything, int64(4)).Return(activeShop(), nil).Once()
		f.catalog.On("Foods", mock.Anything, []int64{1}).Return(menu, nil).Once()

		_, _, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("COD"), "")
		assert.ErrorIs(t, err, domain.ErrFoodWrongShop)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		f := newOrderFixture(t)
		req := checkoutRequest("COD")
		req.Address.Lat, req.Address.Lng = 0, 0
		_, _, err := f.svc.Checkout(context.Background(), 3, req, "")
		assert.ErrorIs(t, err, domain.ErrMissingCoordinate)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		f := newOrderFixture(t)
		_, _, err := f.svc.Checkout(context.Background(), 3, checkoutRequest("BITCOIN"), "")
		assert.ErrorIs(t, err, domain.ErrUnknownPayment)
	})
}

func TestAccept_ConfirmedOrderIsConflict(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("GetOrder", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, ShopID: 4, Status: domain.StatusConfirmed, Version: 2}, nil).Once()

	_, err := f.svc.Accept(context.Background(), staffSession, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccept_PendingOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("GetOrder", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, ShopID: 4, Status: domain.StatusPending, PaymentStatus: domain.PaymentUnpaid, Version: 1}, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPending, 1, domain.StatusConfirmed, domain.PaymentUnpaid).
		Return(2, fixedNow, nil).Once()
	f.expectEmit(domain.StatusConfirmed)

	order, err := f.svc.Accept(context.Background(), staffSession, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.Equal(t, 2, order.Version)
	assert.Equal(t, 2, order.Progress)
}

func TestUpdateStatus_DeliveringCashOrderMarksItPaid(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("GetOrder", mock.Anything, int64(5)).Return(&domain.Order{
		ID: 5, ShopID: 4, Status: domain.StatusShipping, PaymentMethod: domain.PaymentCOD,
		PaymentStatus: domain.PaymentUnpaid, Version: 4,
	}, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusShipping, 4, domain.StatusDelivered, domain.PaymentPaid).
		Return(5, fixedNow, nil).Once()
	f.stream.On("Publish", mock.Anything, mock.MatchedBy(func(e *events.OrderEvent) bool {
		return e.Type == events.TypeOrderStatusChanged && e.Status == "DELIVERED" && e.PreviousStatus == "SHIPPING"
	})).Return(nil).Once()
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := f.svc.UpdateStatus(context.Background(), staffSession, 5, "delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, 5, order.Progress)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		session *auth.Session
		current domain.Status
		target  string
		setup   func(f *orderFixture)
		wantErr error
	}{
		{
			name:    "unknown status",
			session: staffSession,
			target:  "LOST",
			wantErr: domain.ErrUnknownStatus,
		},
		{
			name:    "same status",
			session: staffSession,
			current: domain.StatusPreparing,
			target:  "PREPARING",
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "skipping ahead",
			session: staffSession,
			current: domain.StatusConfirmed,
			target:  "DELIVERED",
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "refund of unpaid order",
			session: staffSession,
			current: domain.StatusPreparing,
			target:  "REFUNDED",
			wantErr: domain.ErrNotPaid,
		},
		{
			name:    "staff of another shop",
			session: &auth.Session{AccountID: 30, Role: auth.RoleManagerStaff, ShopID: 9},
			current: domain.StatusPending,
			target:  "CONFIRMED",
			setup: func(f *orderFixture) {
				f.repo.On("ManagesShop", mock.Anything, int64(30), int64(4)).Return(false, nil).Once()
			},
			wantErr: service.ErrForbidden,
		},
		{
			name:    "manager removed from shop",
			session: &auth.Session{AccountID: 22, Role: auth.RoleManagerStaff, ShopID: 4},
			current: domain.StatusPending,
			target:  "CONFIRMED",
			setup: func(f *orderFixture) {
				f.repo.On("ManagesShop", mock.Anything, int64(22), int64(4)).Return(false, nil).Once()
			},
			wantErr: service.ErrForbidden,
		},
		{
			name:    "customer",
			session: customerSession,
			current: domain.StatusPending,
			target:  "CONFIRMED",
			wantErr: service.ErrForbidden,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			if testCase.current != "" {
				f.repo.On("GetOrder", mock.Anything, int64(5)).Return(&domain.Order{
					ID: 5, ShopID: 4, Status: testCase.current, PaymentMethod: domain.PaymentCOD,
					PaymentStatus: domain.PaymentUnpaid, Version: 3,
				}, nil).Once()
			}
			if testCase.setup != nil {
				testCase.setup(f)
			}

			_, err := f.svc.UpdateStatus(context.Background(), testCase.session, 5, testCase.target)
			assert.ErrorIs(t, err, testCase.wantErr)
			f.stream.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_LostRace(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("GetOrder", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, ShopID: 4, Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentUnpaid, Version: 2}, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusConfirmed, 2, domain.StatusPreparing, domain.PaymentUnpaid).
		Return(0, time.Time{}, domain.ErrConcurrentUpdate).Once()

	_, err := f.svc.UpdateStatus(context.Background(), staffSession, 5, "PREPARING")
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	f.stream.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ManagerOfOtherShop(t *testing.T) {
	f := newOrderFixture(t)
	director := &auth.Session{AccountID: 40, Role: auth.RoleStoreDirector, ShopID: 1}
	f.repo.On("GetOrder", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, ShopID: 4, Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentUnpaid, Version: 2}, nil).Once()
	f.repo.On("ManagesShop", mock.Anything, int64(40), int64(4)).Return(true, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusConfirmed, 2, domain.StatusPreparing, domain.PaymentUnpaid).
		Return(3, fixedNow, nil).Once()
	f.expectEmit(domain.StatusPreparing)

	order, err := f.svc.UpdateStatus(context.Background(), director, 5, "PREPARING")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPreparing, order.Status)
}

func TestUpdateStatus_StreamFailureDoesNotFailTheWrite(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("GetOrder", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, ShopID: 4, Status: domain.StatusPreparing, PaymentStatus: domain.PaymentUnpaid, Version: 3}, nil).Once()
	f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPreparing, 3, domain.StatusShipping, domain.PaymentUnpaid).
		Return(4, fixedNow, nil).Once()
	f.stream.On("Publish", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
	f.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	order, err := f.svc.UpdateStatus(context.Background(), staffSession, 5, "SHIPPING")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipping, order.Status)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		order    *domain.Order
		wantErr  error
		expectOK bool
	}{
		{
			name:    "someone else's order",
			order:   &domain.Order{ID: 5, CustomerID: 99, ShopID: 4, Status: domain.StatusPending},
			wantErr: domain.ErrOrderNotFound,
		},
		{
			name:    "already accepted",
			order:   &domain.Order{ID: 5, CustomerID: 3, ShopID: 4, Status: domain.StatusConfirmed},
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:     "pending",
			order:    &domain.Order{ID: 5, CustomerID: 3, ShopID: 4, Status: domain.StatusPending, PaymentStatus: domain.PaymentUnpaid, Version: 1},
			expectOK: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.repo.On("GetOrder", mock.Anything, int64(5)).Return(testCase.order, nil).Once()
			if testCase.expectOK {
				f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPending, 1, domain.StatusCancelled, domain.PaymentUnpaid).
					Return(2, fixedNow, nil).Once()
				f.expectEmit(domain.StatusCancelled)
			}

			order, err := f.svc.Cancel(context.Background(), 3, 5)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, order.Status)
			assert.Equal(t, -1, order.Progress)
		})
	}
}

func TestConfirmPayment(t *testing.T) {
	gatewayOrder := func() *domain.Order {
		return &domain.Order{ID: 5, ShopID: 4, Status: domain.StatusPendingPayment, PaymentMethod: domain.PaymentGateway,
			PaymentStatus: domain.PaymentUnpaid, TotalAmount: 106000, Version: 1}
	}

	t.Run("paid", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", mock.Anything, int64(5)).Return(gatewayOrder(), nil).Once()
		f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPendingPayment, 1, domain.StatusPending, domain.PaymentPaid).
			Return(2, fixedNow, nil).Once()
		f.expectEmit(domain.StatusPending)

		order, err := f.svc.ConfirmPayment(context.Background(), service.PaymentCallback{OrderID: 5, Result: "PAID", Amount: 106000})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Equal(t, domain.PaymentPaid, order.PaymentStatus)
	})

	t.Run("paid twice", func(t *testing.T) {
		f := newOrderFixture(t)
		paid := gatewayOrder()
		paid.Status = domain.StatusPending
		paid.PaymentStatus = domain.PaymentPaid
		f.repo.On("GetOrder", mock.Anything, int64(5)).Return(paid, nil).Once()

		order, err := f.svc.ConfirmPayment(context.Background(), service.PaymentCallback{OrderID: 5, Result: "PAID", Amount: 106000})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, order.Status)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", mock.Anything, int64(5)).Return(gatewayOrder(), nil).Once()

		_, err := f.svc.ConfirmPayment(context.Background(), service.PaymentCallback{OrderID: 5, Result: "PAID", Amount: 1000})
		assert.ErrorIs(t, err, service.ErrAmountMismatch)
	})

	t.Run("failed", func(t *testing.T) {
		f := newOrderFixture(t)
		f.repo.On("GetOrder", mock.Anything, int64(5)).Return(gatewayOrder(), nil).Once()
		f.repo.On("UpdateStatus", mock.Anything, int64(5), domain.StatusPendingPayment, 1, domain.StatusCancelled, domain.PaymentUnpaid).
			Return(2, fixedNow, nil).Once()
		f.expectEmit(domain.StatusCancelled)

		order, err := f.svc.ConfirmPayment(context.Background(), service.PaymentCallback{OrderID: 5, Result: "FAILED"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
	})
}

func TestGet_Authorization(t *testing.T) {
	tests := []struct {
		name    string
		session *auth.Session
		setup   func(f *orderFixture)
		wantErr error
	}{
		{name: "owner", session: customerSession},
		{name: "other customer", session: &auth.Session{AccountID: 77, Role: auth.RoleCustomer}, wantErr: domain.ErrOrderNotFound},
		{name: "shop staff", session: staffSession},
		{name: "finance", session: &auth.Session{AccountID: 2, Role: auth.RoleFinance}},
		{
			name:    "staff of another shop",
			session: &auth.Session{AccountID: 30, Role: auth.RoleManagerStaff, ShopID: 9},
			setup: func(f *orderFixture) {
				f.repo.On("ManagesShop", mock.Anything, int64(30), int64(4)).Return(false, nil).Once()
			},
			wantErr: service.ErrForbidden,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			f.repo.On("GetOrder", mock.Anything, int64(5)).
				Return(&domain.Order{ID: 5, CustomerID: 3, ShopID: 4, Status: domain.StatusShipping}, nil).Once()
			if testCase.setup != nil {
				testCase.setup(f)
			}

			order, err := f.svc.Get(context.Background(), testCase.session, 5)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 4, order.Progress)
		})
	}
}

func TestListShopOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.repo.On("ListShopOrders", mock.Anything, int64(4), domain.StatusPending, 20, 0).
		Return([]domain.Order{{ID: 1, ShopID: 4, Status: domain.StatusPending}}, nil).Once()

	orders, err := f.svc.ListShopOrders(context.Background(), staffSession, 0, "pending", 20, 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, 1, orders[0].Progress)

	_, err = f.svc.ListShopOrders(context.Background(), &auth.Session{AccountID: 1, Role: auth.RoleStoreDirector}, 0, "", 20, 0)
	assert.ErrorIs(t, err, service.ErrShopRequired)
}

func TestListShopOrders_StaleSessionShop(t *testing.T) {
	f := newOrderFixture(t)
	removed := &auth.Session{AccountID: 22, Role: auth.RoleManagerStaff, ShopID: 4}
	f.repo.On("ManagesShop", mock.Anything, int64(22), int64(4)).Return(false, nil).Once()

	_, err := f.svc.ListShopOrders(context.Background(), removed, 0, "", 20, 0)
	assert.ErrorIs(t, err, service.ErrForbidden)
	f.repo.AssertNotCalled(t, "ListShopOrders", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQRCode_RegeneratesWhenMissing(t *testing.T) {
	f := newOrderFixture(t)
	qr := mocks.NewQRGenerator(t)
	svc := service.NewOrderService(service.Dependencies{Orders: f.repo, QR: qr, Rates: rates})

	f.repo.On("GetOrder", mock.Anything, int64(5)).Return(&domain.Order{ID: 5, CustomerID: 3, ShopID: 4}, nil).Once()
	f.repo.On("GetQRCode", mock.Anything, int64(5)).Return([]byte(nil), nil).Once()
	qr.On("Generate", int64(5)).Return([]byte("png"), nil).Once()
	f.repo.On("SaveQRCode", mock.Anything, int64(5), []byte("png")).Return(nil).Once()

	png, err := svc.QRCode(context.Background(), customerSession, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
}

func TestDefaultQRGenerator(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "https://foodweb.example/"}.Generate(42)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"order_id":5,"result":"PAID","amount":106000}`)
	secret := []byte("s3cret")
	sig := service.SignPayload(secret, body)

	assert.True(t, service.VerifySignature(secret, body, sig))
	assert.True(t, service.VerifySignature(secret, body, " "+sig+" "))
	assert.False(t, service.VerifySignature(secret, []byte(`{"order_id":5}`), sig))
	assert.False(t, service.VerifySignature([]byte("other"), body, sig))
	assert.False(t, service.VerifySignature(nil, body, service.SignPayload(nil, body)))
	assert.False(t, service.VerifySignature(secret, body, ""))
}

func TestCartService_AddMergesLines(t *testing.T) {
	store := mocks.NewCartStore(t)
	catalog := mocks.NewCatalogReader(t)
	svc := service.NewCartService(store, catalog)

	existing := &domain.CartItem{Key: "1-2", ShopID: 4, FoodID: 1, Quantity: 1, UnitPrice: 55000}
	catalog.On("Foods", mock.Anything, []int64{1}).Return(phoMenu(), nil).Once()
	store.On("Item", mock.Anything, int64(3), "1-2").Return(existing, nil).Once()
	store.On("Put", mock.Anything, int64(3), mock.MatchedBy(func(item domain.CartItem) bool {
		return item.Key == "1-2" && item.Quantity == 3 && item.UnitPrice == 55000
	})).Return(nil).Once()
	store.On("Items", mock.Anything, int64(3)).Return([]domain.CartItem{
		{Key: "1-2", ShopID: 4, FoodID: 1, Quantity: 3, UnitPrice: 55000},
	}, nil).Once()

	cart, err := svc.Add(context.Background(), 3, service.AddToCartRequest{FoodID: 1, OptionIDs: []int64{2, 2}, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, int64(165000), cart.Subtotal)
}

func TestCartService_AddRejectsUnknownFood(t *testing.T) {
	catalog := mocks.NewCatalogReader(t)
	svc := service.NewCartService(mocks.NewCartStore(t), catalog)
	catalog.On("Foods", mock.Anything, []int64{7}).Return(map[int64]domain.FoodSnapshot{}, nil).Once()

	_, err := svc.Add(context.Background(), 3, service.AddToCartRequest{FoodID: 7, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrFoodUnavailable)
}

func TestCartService_SetQuantity(t *testing.T) {
	t.Run("zero removes", func(t *testing.T) {
		store := mocks.NewCartStore(t)
		svc := service.NewCartService(store, nil)
		store.On("Item", mock.Anything, int64(3), "1").Return(&domain.CartItem{Key: "1", Quantity: 2}, nil).Once()
		store.On("Remove", mock.Anything, int64(3), []string{"1"}).Return(nil).Once()
		store.On("Items", mock.Anything, int64(3)).Return([]domain.CartItem{}, nil).Once()

		cart, err := svc.SetQuantity(context.Background(), 3, "1", 0)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("too many", func(t *testing.T) {
		svc := service.NewCartService(mocks.NewCartStore(t), nil)
		_, err := svc.SetQuantity(context.Background(), 3, "1", 100)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("missing line", func(t *testing.T) {
		store := mocks.NewCartStore(t)
		svc := service.NewCartService(store, nil)
		store.On("Item", mock.Anything, int64(3), "9").Return(nil, domain.ErrCartItemNotFound).Once()

		_, err := svc.SetQuantity(context.Background(), 3, "9", 2)
		assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	})
}
