// Package events holds the message shapes shared by the services that publish
// and consume order and review events.
package events

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
	TypeResync             = "resync"
	TypeShopReview         = "shop_review"
)

// OrderEvent is pushed to shop staff over SSE and to the order-events topic.
// Seq is assigned per shop when the event enters the realtime channel.
type OrderEvent struct {
	Seq            int64           `json:"seq"`
	Type           string          `json:"type"`
	ShopID         int64           `json:"shop_id"`
	OrderID        int64           `json:"order_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	Subtotal       int64           `json:"subtotal"`
	TotalAmount    int64           `json:"total_amount"`
	Order          json.RawMessage `json:"order,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

func (e OrderEvent) Key() []byte {
	return []byte(strconv.FormatInt(e.ShopID, 10))
}

type ReviewEvent struct {
	Type       string    `json:"type"`
	ShopID     int64     `json:"shop_id"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Rating     int       `json:"rating"`
	Timestamp  time.Time `json:"timestamp"`
}

func (e ReviewEvent) Key() []byte {
	return []byte(strconv.FormatInt(e.ShopID, 10))
}
