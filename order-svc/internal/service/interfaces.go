package service

import (
	"context"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error)
	ListShopOrders(ctx context.Context, shopID int64, status domain.Status, limit, offset int) ([]domain.Order, error)
	// UpdateStatus is a compare-and-set on (id, from, version). A lost race
	// returns domain.ErrConcurrentUpdate.
	UpdateStatus(ctx context.Context, id int64, from domain.Status, version int, to domain.Status, payment domain.PaymentStatus) (int, time.Time, error)
	SaveQRCode(ctx context.Context, orderID int64, qr []byte) error
	GetQRCode(ctx context.Context, orderID int64) ([]byte, error)
	ManagesShop(ctx context.Context, accountID, shopID int64) (bool, error)
}

type CatalogReader interface {
	ShopInfo(ctx context.Context, shopID int64) (*domain.ShopInfo, error)
	Foods(ctx context.Context, ids []int64) (map[int64]domain.FoodSnapshot, error)
	VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error)
}

type CartStore interface {
	Items(ctx context.Context, customerID int64) ([]domain.CartItem, error)
	Item(ctx context.Context, customerID int64, key string) (*domain.CartItem, error)
	Put(ctx context.Context, customerID int64, item domain.CartItem) error
	Remove(ctx context.Context, customerID int64, keys ...string) error
	Clear(ctx context.Context, customerID int64) error
}

// IdempotencyStore remembers which order a client-supplied key produced.
type IdempotencyStore interface {
	Claim(ctx context.Context, customerID int64, key string) (orderID int64, claimed bool, err error)
	Complete(ctx context.Context, customerID int64, key string, orderID int64) error
	Release(ctx context.Context, customerID int64, key string) error
}

// OrderStream is the per-shop realtime channel read by the SSE endpoint.
type OrderStream interface {
	Publish(ctx context.Context, event *events.OrderEvent) error
	Subscribe(ctx context.Context, shopID int64) (domain.Subscription, error)
	Replay(ctx context.Context, shopID, afterSeq int64) (*domain.Replay, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event events.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID int64) ([]byte, error)
}

type OrderServiceInterface interface {
	Checkout(ctx context.Context, customerID int64, req CheckoutRequest, idempotencyKey string) (*domain.Order, bool, error)
	Get(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error)
	ListMine(ctx context.Context, customerID int64, limit, offset int) ([]domain.Order, error)
	Cancel(ctx context.Context, customerID, orderID int64) (*domain.Order, error)
	QRCode(ctx context.Context, session *auth.Session, orderID int64) ([]byte, error)
	ConfirmPayment(ctx context.Context, callback PaymentCallback) (*domain.Order, error)

	ResolveShop(ctx context.Context, session *auth.Session, shopID int64) (int64, error)
	ListShopOrders(ctx context.Context, session *auth.Session, shopID int64, status string, limit, offset int) ([]domain.Order, error)
	Accept(ctx context.Context, session *auth.Session, orderID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, session *auth.Session, orderID int64, target string) (*domain.Order, error)
}

type CartServiceInterface interface {
	View(ctx context.Context, customerID int64) (domain.Cart, error)
	Add(ctx context.Context, customerID int64, req AddToCartRequest) (domain.Cart, error)
	SetQuantity(ctx context.Context, customerID int64, key string, quantity int) (domain.Cart, error)
	Remove(ctx context.Context, customerID int64, key string) (domain.Cart, error)
	Clear(ctx context.Context, customerID int64) error
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ CartServiceInterface  = (*CartService)(nil)
)
