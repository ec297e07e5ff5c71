package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"

	"github.com/rs/zerolog/log"
)

var (
	ErrForbidden           = errors.New("not allowed to act on this shop")
	ErrShopRequired        = errors.New("shop_id is required")
	ErrIdempotencyInFlight = errors.New("a request with this idempotency key is still in progress")
	ErrAmountMismatch      = errors.New("paid amount does not match order total")
	ErrUnknownPayResult    = errors.New("unknown payment result")
)

const shopStatusActive = "ACTIVE"

type CheckoutLine struct {
	FoodID    int64   `json:"food_id" validate:"required,gt=0"`
	OptionIDs []int64 `json:"option_ids"`
	Quantity  int     `json:"quantity" validate:"required,gte=1,lte=99"`
}

type CheckoutRequest struct {
	ShopID        int64          `json:"shop_id" validate:"required,gt=0"`
	Items         []CheckoutLine `json:"items" validate:"dive"`
	PaymentMethod string         `json:"payment_method" validate:"required,oneof=COD GATEWAY"`
	Address       domain.Address `json:"address"`
	Note          string         `json:"note" validate:"max=500"`
	VoucherCode   string         `json:"voucher_code" validate:"max=64"`
}

type Dependencies struct {
	Orders      OrderRepository
	Catalog     CatalogReader
	Carts       CartStore
	Idempotency IdempotencyStore
	Stream      OrderStream
	Publisher   EventPublisher
	QR          QRGenerator
	Rates       domain.ShippingRates
	Now         func() time.Time
}

type OrderService struct {
	repo      OrderRepository
	catalog   CatalogReader
	carts     CartStore
	idem      IdempotencyStore
	stream    OrderStream
	publisher EventPublisher
	qr        QRGenerator
	rates     domain.ShippingRates
	now       func() time.Time
}

func NewOrderService(deps Dependencies) *OrderService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &OrderService{
		repo:      deps.Orders,
		catalog:   deps.Catalog,
		carts:     deps.Carts,
		idem:      deps.Idempotency,
		stream:    deps.Stream,
		publisher: deps.Publisher,
		qr:        deps.QR,
		rates:     deps.Rates,
		now:       now,
	}
}

// Checkout places an order. With an idempotency key a retried request gets the
// order of the first attempt back and created is false.
func (s *OrderService) Checkout(ctx context.Context, customerID int64, req CheckoutRequest, key string) (*domain.Order, bool, error) {
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, false, err
	}
	if req.Address.Lat == 0 && req.Address.Lng == 0 {
		return nil, false, domain.ErrMissingCoordinate
	}

	useKey := key != "" && s.idem != nil
	if useKey {
		existingID, claimed, err := s.idem.Claim(ctx, customerID, key)
		if err != nil {
			return nil, false, fmt.Errorf("claim idempotency key: %w", err)
		}
		if !claimed {
			if existingID == 0 {
				return nil, false, ErrIdempotencyInFlight
			}
			order, err := s.repo.GetOrder(ctx, existingID)
			if err != nil {
				return nil, false, err
			}
			log.Info().Int64("order_id", order.ID).Str("idempotency_key", key).Msg("replaying checkout")
			s.decorate(order)
			return order, false, nil
		}
	}

	order, cartKeys, err := s.placeOrder(ctx, customerID, method, req)
	if err != nil {
		if useKey {
			if releaseErr := s.idem.Release(ctx, customerID, key); releaseErr != nil {
				log.Error().Err(releaseErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, false, err
	}

	if useKey {
		if err := s.idem.Complete(ctx, customerID, key, order.ID); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to record idempotency key")
		}
	}

	if s.qr != nil {
		if png, err := s.qr.Generate(order.ID); err != nil {
			log.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to generate QR code")
		} else if err := s.repo.SaveQRCode(ctx, order.ID, png); err != nil {
			log.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to store QR code")
		}
	}

	if len(cartKeys) > 0 && s.carts != nil {
		if err := s.carts.Remove(ctx, customerID, cartKeys...); err != nil {
			log.Warn().Err(err).Int64("customer_id", customerID).Msg("failed to clear checked out cart lines")
		}
	}

	s.emit(ctx, events.TypeOrderCreated, order, "")
	return order, true, nil
}

func (s *OrderService) placeOrder(ctx context.Context, customerID int64, method domain.PaymentMethod, req CheckoutRequest) (*domain.Order, []string, error) {
	shop, err := s.catalog.ShopInfo(ctx, req.ShopID)
	if err != nil {
		return nil, nil, err
	}
	if shop.Status != shopStatusActive {
		return nil, nil, domain.ErrShopUnavailable
	}

	lines := req.Items
	var cartKeys []string
	if len(lines) == 0 && s.carts != nil {
		stored, err := s.carts.Items(ctx, customerID)
		if err != nil {
			return nil, nil, fmt.Errorf("load cart: %w", err)
		}
		for _, item := range domain.NewCart(stored).ForShop(req.ShopID) {
			lines = append(lines, CheckoutLine{FoodID: item.FoodID, OptionIDs: item.OptionIDs(), Quantity: item.Quantity})
			cartKeys = append(cartKeys, item.Key)
		}
	}
	if len(lines) == 0 {
		return nil, nil, domain.ErrEmptyOrder
	}

	items, err := s.priceLines(ctx, req.ShopID, lines)
	if err != nil {
		return nil, nil, err
	}

	subtotal := domain.SumItems(items)
	shipping := s.rates.Fee(domain.HaversineKm(shop.Lat, shop.Lng, req.Address.Lat, req.Address.Lng))

	var discount int64
	code := strings.ToUpper(strings.TrimSpace(req.VoucherCode))
	if code != "" {
		voucher, err := s.catalog.VoucherByCode(ctx, code)
		if err != nil {
			return nil, nil, err
		}
		if discount, err = voucher.Discount(req.ShopID, subtotal, s.now()); err != nil {
			return nil, nil, err
		}
	}

	order := &domain.Order{
		CustomerID:    customerID,
		ShopID:        req.ShopID,
		Items:         items,
		Subtotal:      subtotal,
		ShippingFee:   shipping,
		Discount:      discount,
		TotalAmount:   domain.ComputeTotals(subtotal, shipping, discount),
		PaymentMethod: method,
		PaymentStatus: domain.PaymentUnpaid,
		Address:       req.Address,
		Note:          strings.TrimSpace(req.Note),
		VoucherCode:   code,
		Status:        domain.InitialStatus(method),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("create order: %w", err)
	}
	s.decorate(order)

	log.Info().Int64("order_id", order.ID).Int64("shop_id", order.ShopID).Int64("customer_id", customerID).
		Int64("total", order.TotalAmount).Str("status", order.Status.String()).Msg("order placed")
	return order, cartKeys, nil
}

func (s *OrderService) priceLines(ctx context.Context, shopID int64, lines []CheckoutLine) ([]domain.OrderItem, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if !seen[line.FoodID] {
			seen[line.FoodID] = true
			ids = append(ids, line.FoodID)
		}
	}

	foods, err := s.catalog.Foods(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load foods: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		food, ok := foods[line.FoodID]
		if !ok {
			return nil, domain.ErrFoodUnavailable
		}
		if food.ShopID != shopID {
			return nil, domain.ErrFoodWrongShop
		}
		item, err := domain.PriceLine(food, line.OptionIDs, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) Get(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrder(ctx, session, order); err != nil {
		return nil, err
	}
	s.decorate(order)
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error) {
	orders, err := s.repo.ListCustomerOrders(ctx, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.decorate(&orders[i])
	}
	return orders, nil
}

// Cancel lets a customer withdraw an order the shop has not accepted yet.
func (s *OrderService) Cancel(ctx context.Context, customerID, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.StatusPendingPayment && order.Status != domain.StatusPending {
		return nil, domain.ErrInvalidTransition
	}
	return s.applyEvent(ctx, order, domain.EventCancel)
}

func (s *OrderService) QRCode(ctx context.Context, session *auth.Session, orderID int64) ([]byte, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOrder(ctx, session, order); err != nil {
		return nil, err
	}

	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qr != nil {
		regenerated, err := s.qr.Generate(orderID)
		if err != nil {
			return nil, fmt.Errorf("generate QR code: %w", err)
		}
		if err := s.repo.SaveQRCode(ctx, orderID, regenerated); err != nil {
			log.Warn().Err(err).Int64("order_id", orderID).Msg("failed to cache regenerated QR code")
		}
		return regenerated, nil
	}
	return qr, nil
}

// ConfirmPayment applies a verified gateway callback. Repeated PAID callbacks
// for an order already paid return it unchanged.
func (s *OrderService) ConfirmPayment(ctx context.Context, callback PaymentCallback) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, callback.OrderID)
	if err != nil {
		return nil, err
	}

	switch strings.ToUpper(callback.Result) {
	case PaymentResultPaid:
		if order.PaymentStatus == domain.PaymentPaid {
			s.decorate(order)
			return order, nil
		}
		if callback.Amount != order.TotalAmount {
			log.Warn().Int64("order_id", order.ID).Int64("expected", order.TotalAmount).
				Int64("received", callback.Amount).Msg("payment amount mismatch")
			return nil, ErrAmountMismatch
		}
		return s.applyEvent(ctx, order, domain.EventPaymentConfirmed)
	case PaymentResultFailed:
		if order.Status == domain.StatusCancelled {
			s.decorate(order)
			return order, nil
		}
		return s.applyEvent(ctx, order, domain.EventCancel)
	default:
		return nil, ErrUnknownPayResult
	}
}

// ResolveShop picks the shop a staff member is working on and checks they
// manage it. Zero means the shop on their session.
func (s *OrderService) ResolveShop(ctx context.Context, session *auth.Session, shopID int64) (int64, error) {
	if shopID == 0 {
		shopID = session.ShopID
	}
	if shopID == 0 {
		return 0, ErrShopRequired
	}
	if err := s.authorizeShop(ctx, session, shopID); err != nil {
		return 0, err
	}
	return shopID, nil
}

func (s *OrderService) ListShopOrders(ctx context.Context, session *auth.Session, shopID int64, status string, limit, offset int) ([]domain.Order, error) {
	shopID, err := s.ResolveShop(ctx, session, shopID)
	if err != nil {
		return nil, err
	}

	var filter domain.Status
	if status != "" {
		if filter, err = domain.ParseStatus(status); err != nil {
			return nil, err
		}
	}

	orders, err := s.repo.ListShopOrders(ctx, shopID, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		s.decorate(&orders[i])
	}
	return orders, nil
}

// Accept confirms a PENDING order. Accepting anything further along is a
// conflict, never a silent success.
func (s *OrderService) Accept(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShop(ctx, session, order.ShopID); err != nil {
		return nil, err
	}
	return s.applyEvent(ctx, order, domain.EventAccept)
}

func (s *OrderService) UpdateStatus(ctx context.Context, session *auth.Session, orderID int64, target string) (*domain.Order, error) {
	next, err := domain.ParseStatus(target)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeShop(ctx, session, order.ShopID); err != nil {
		return nil, err
	}

	event, err := domain.EventFor(order.Status, next)
	if err != nil {
		log.Warn().Int64("order_id", order.ID).Str("current", order.Status.String()).
			Str("target", next.String()).Msg("rejected status update")
		return nil, err
	}
	return s.applyEvent(ctx, order, event)
}

func (s *OrderService) applyEvent(ctx context.Context, order *domain.Order, event domain.Event) (*domain.Order, error) {
	next, err := domain.Transition(order.Status, event)
	if err != nil {
		log.Warn().Int64("order_id", order.ID).Str("status", order.Status.String()).
			Str("event", string(event)).Msg("invalid transition")
		return nil, err
	}

	payment := order.PaymentStatus
	switch event {
	case domain.EventRefund:
		if payment != domain.PaymentPaid {
			return nil, domain.ErrNotPaid
		}
	case domain.EventPaymentConfirmed:
		payment = domain.PaymentPaid
	case domain.EventDeliver:
		if order.PaymentMethod == domain.PaymentCOD {
			payment = domain.PaymentPaid
		}
	}

	version, updatedAt, err := s.repo.UpdateStatus(ctx, order.ID, order.Status, order.Version, next, payment)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			log.Warn().Int64("order_id", order.ID).Int("version", order.Version).Msg("lost status update race")
		}
		return nil, err
	}

	previous := order.Status
	order.Status = next
	order.PaymentStatus = payment
	order.Version = version
	order.UpdatedAt = updatedAt
	s.decorate(order)

	log.Info().Int64("order_id", order.ID).Int64("shop_id", order.ShopID).
		Str("from", previous.String()).Str("to", next.String()).Msg("order status changed")

	s.emit(ctx, events.TypeOrderStatusChanged, order, previous)
	return order, nil
}

// emit pushes the change to shop staff and the event bus. Failures are logged;
// the status write has already committed.
func (s *OrderService) emit(ctx context.Context, eventType string, order *domain.Order, previous domain.Status) {
	ctx = context.WithoutCancel(ctx)

	snapshot, err := json.Marshal(order)
	if err != nil {
		log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to encode order snapshot")
	}
	event := events.OrderEvent{
		Type:           eventType,
		ShopID:         order.ShopID,
		OrderID:        order.ID,
		Status:         order.Status.String(),
		PreviousStatus: previous.String(),
		Subtotal:       order.Subtotal,
		TotalAmount:    order.TotalAmount,
		Order:          snapshot,
		OccurredAt:     order.UpdatedAt,
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}

	if s.stream != nil {
		if err := s.stream.Publish(ctx, &event); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to push order event to staff stream")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
			log.Error().Err(err).Int64("order_id", order.ID).Msg("failed to publish order event")
		}
	}
}

func (s *OrderService) authorizeOrder(ctx context.Context, session *auth.Session, order *domain.Order) error {
	switch {
	case session.Role == auth.RoleCustomer:
		if order.CustomerID != session.AccountID {
			return domain.ErrOrderNotFound
		}
		return nil
	case session.Role.IsShopStaff():
		return s.authorizeShop(ctx, session, order.ShopID)
	case session.Role == auth.RoleAdmin, session.Role == auth.RoleFinance:
		return nil
	}
	return ErrForbidden
}

// authorizeShop checks access against the database on every call, ignoring
// the shop recorded on the session.
func (s *OrderService) authorizeShop(ctx context.Context, session *auth.Session, shopID int64) error {
	if !session.Role.IsShopStaff() {
		return ErrForbidden
	}
	ok, err := s.repo.ManagesShop(ctx, session.AccountID, shopID)
	if err != nil {
		return fmt.Errorf("check shop access: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *OrderService) decorate(order *domain.Order) {
	order.Progress = order.Status.Progress()
	order.QRCode = QRLink(order.ID)
}
