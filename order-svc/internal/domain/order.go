package domain

import (
	"errors"
	"time"
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentGateway PaymentMethod = "GATEWAY"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrConcurrentUpdate  = errors.New("order was modified concurrently")
	ErrNotPaid           = errors.New("order has not been paid")
	ErrUnknownPayment    = errors.New("unknown payment method")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrShopUnavailable   = errors.New("shop is not accepting orders")
	ErrFoodUnavailable   = errors.New("food is unavailable")
	ErrFoodWrongShop     = errors.New("food does not belong to this shop")
	ErrUnknownOption     = errors.New("unknown food option")
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 99")
	ErrMissingCoordinate = errors.New("delivery address needs coordinates")
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCOD, PaymentGateway:
		return m, nil
	}
	return "", ErrUnknownPayment
}

// InitialStatus is where a freshly placed order starts: gateway orders wait
// for the payment callback, cash orders go straight to the shop.
func InitialStatus(method PaymentMethod) Status {
	if method == PaymentGateway {
		return StatusPendingPayment
	}
	return StatusPending
}

type Address struct {
	Recipient string  `json:"recipient"`
	Phone     string  `json:"phone"`
	Street    string  `json:"street"`
	Ward      string  `json:"ward"`
	District  string  `json:"district"`
	City      string  `json:"city"`
	Province  string  `json:"province"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

type ItemOption struct {
	ID    int64  `json:"id"`
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type OrderItem struct {
	ID        int64        `json:"id,omitempty"`
	OrderID   int64        `json:"order_id,omitempty"`
	FoodID    int64        `json:"food_id"`
	FoodName  string       `json:"food_name"`
	Options   []ItemOption `json:"options"`
	Quantity  int          `json:"quantity"`
	UnitPrice int64        `json:"unit_price"`
	Subtotal  int64        `json:"subtotal"`
}

type Order struct {
	ID            int64         `json:"id"`
	CustomerID    int64         `json:"customer_id"`
	ShopID        int64         `json:"shop_id"`
	Items         []OrderItem   `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	ShippingFee   int64         `json:"shipping_fee"`
	Discount      int64         `json:"discount"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Address       Address       `json:"delivery_address"`
	Note          string        `json:"note"`
	VoucherCode   string        `json:"voucher_code,omitempty"`
	Status        Status        `json:"status"`
	Progress      int           `json:"progress"`
	Version       int           `json:"version"`
	QRCode        string        `json:"qr_code,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ShopInfo is the slice of a shop that checkout needs.
type ShopInfo struct {
	ID     int64
	Status string
	Lat    float64
	Lng    float64
}

// FoodSnapshot is a food row with its options, as priced by the catalog.
type FoodSnapshot struct {
	ID        int64
	ShopID    int64
	Name      string
	Price     int64
	Available bool
	Options   map[int64]ItemOption
}
