package domain

import (
	"errors"
	"time"
)

type Review struct {
	ID         int64     `json:"id"`
	ShopID     int64     `json:"shop_id"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

var ErrAlreadyReviewed = errors.New("order has already been reviewed")
