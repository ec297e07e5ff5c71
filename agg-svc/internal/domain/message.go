package domain

import (
	"time"

	"github.com/chuoois/FoodWeb-sub001/events"
)

// Delivery is one delivered order as it enters the daily revenue roll-up.
type Delivery struct {
	OrderID  int64
	ShopID   int64
	Day      time.Time
	Month    string
	Subtotal int64
	Total    int64
}

// DeliveryFrom reports false for every event that is not a move into DELIVERED.
func DeliveryFrom(event events.OrderEvent) (Delivery, bool) {
	if event.Type != events.TypeOrderStatusChanged || event.Status != events.StatusDelivered {
		return Delivery{}, false
	}
	if event.OrderID <= 0 || event.ShopID <= 0 {
		return Delivery{}, false
	}
	return Delivery{
		OrderID:  event.OrderID,
		ShopID:   event.ShopID,
		Day:      events.BusinessDay(event.OccurredAt),
		Month:    events.BusinessMonth(event.OccurredAt),
		Subtotal: event.Subtotal,
		Total:    event.TotalAmount,
	}, true
}

type ShopRating struct {
	ShopID      int64
	Rating      float64
	ReviewCount int
}
