package domain

import (
	"errors"
	"math"
	"sort"
	"time"
)

const (
	VoucherPercent = "PERCENT"
	VoucherFixed   = "FIXED"

	MaxQuantity = 99
)

var (
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrVoucherInactive  = errors.New("voucher is not active")
	ErrVoucherExpired   = errors.New("voucher is outside its validity window")
	ErrVoucherMinOrder  = errors.New("order does not reach the voucher minimum")
	ErrVoucherExhausted = errors.New("voucher usage limit reached")
	ErrVoucherWrongShop = errors.New("voucher does not apply to this shop")
)

type ShippingRates struct {
	BaseFee  int64
	BaseKm   float64
	PerKmFee int64
}

// Fee charges BaseFee up to BaseKm and PerKmFee for every started kilometre after.
func (r ShippingRates) Fee(distanceKm float64) int64 {
	if distanceKm <= r.BaseKm {
		return r.BaseFee
	}
	extra := int64(math.Ceil(distanceKm - r.BaseKm))
	return r.BaseFee + extra*r.PerKmFee
}

const earthRadiusKm = 6371.0

func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// ComputeTotals returns subtotal + shipping - discount, never below zero.
func ComputeTotals(subtotal, shipping, discount int64) int64 {
	total := subtotal + shipping - discount
	if total < 0 {
		return 0
	}
	return total
}

type Voucher struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	ShopID        int64     `json:"shop_id,omitempty"`
	Type          string    `json:"type"`
	Value         int64     `json:"value"`
	MaxDiscount   int64     `json:"max_discount"`
	MinOrderValue int64     `json:"min_order_value"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	UsageLimit    int       `json:"usage_limit"`
	UsedCount     int       `json:"used_count"`
	Active        bool      `json:"active"`
}

// Discount validates v for an order of subtotal at shopID and returns the
// amount it takes off. Platform vouchers have ShopID 0.
func (v Voucher) Discount(shopID, subtotal int64, now time.Time) (int64, error) {
	switch {
	case !v.Active:
		return 0, ErrVoucherInactive
	case now.Before(v.StartsAt) || now.After(v.EndsAt):
		return 0, ErrVoucherExpired
	case v.ShopID != 0 && v.ShopID != shopID:
		return 0, ErrVoucherWrongShop
	case subtotal < v.MinOrderValue:
		return 0, ErrVoucherMinOrder
	case v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit:
		return 0, ErrVoucherExhausted
	}

	var discount int64
	if v.Type == VoucherPercent {
		discount = subtotal * v.Value / 100
		if v.MaxDiscount > 0 && discount > v.MaxDiscount {
			discount = v.MaxDiscount
		}
	} else {
		discount = v.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	return discount, nil
}

// PriceLine prices quantity units of food with the chosen options using the
// catalog's prices only.
func PriceLine(food FoodSnapshot, optionIDs []int64, quantity int) (OrderItem, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return OrderItem{}, ErrInvalidQuantity
	}
	if !food.Available {
		return OrderItem{}, ErrFoodUnavailable
	}

	ids := append([]int64(nil), optionIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	unit := food.Price
	options := make([]ItemOption, 0, len(ids))
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		opt, ok := food.Options[id]
		if !ok {
			return OrderItem{}, ErrUnknownOption
		}
		unit += opt.Price
		options = append(options, opt)
	}

	return OrderItem{
		FoodID:    food.ID,
		FoodName:  food.Name,
		Options:   options,
		Quantity:  quantity,
		UnitPrice: unit,
		Subtotal:  unit * int64(quantity),
	}, nil
}

func SumItems(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal
	}
	return total
}
