package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	VoucherPercent = "PERCENT"
	VoucherFixed   = "FIXED"
)

var ErrInvalidVoucher = errors.New("invalid voucher")

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
	CreatedAt     time.Time `json:"created_at"`
}

type voucherError string

func (e voucherError) Error() string { return "invalid voucher: " + string(e) }

func (e voucherError) Is(target error) bool { return target == ErrInvalidVoucher }

// Normalize upper-cases the code and type so lookups are case-insensitive.
func (v *Voucher) Normalize() {
	v.Code = strings.ToUpper(strings.TrimSpace(v.Code))
	v.Type = strings.ToUpper(strings.TrimSpace(v.Type))
}

// Validate checks the business rules a voucher must satisfy before it is stored.
// Every failure matches ErrInvalidVoucher.
func (v *Voucher) Validate() error {
	switch {
	case v.Code == "":
		return voucherError("code is required")
	case v.Type != VoucherPercent && v.Type != VoucherFixed:
		return voucherError("type must be PERCENT or FIXED")
	case v.Value <= 0:
		return voucherError("value must be positive")
	case v.Type == VoucherPercent && v.Value > 100:
		return voucherError("percent value cannot exceed 100")
	case v.MaxDiscount < 0 || v.MinOrderValue < 0:
		return voucherError("amounts cannot be negative")
	case v.UsageLimit < 0:
		return voucherError("usage limit cannot be negative")
	case v.StartsAt.IsZero() || v.EndsAt.IsZero():
		return voucherError("validity window is required")
	case !v.EndsAt.After(v.StartsAt):
		return voucherError("ends_at must be after starts_at")
	}
	return nil
}
