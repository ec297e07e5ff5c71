package domain

import (
	"math"
	"time"
)

// OrderRecord is the slice of an order that revenue reporting looks at.
type OrderRecord struct {
	ID          int64     `json:"id" db:"id"`
	ShopID      int64     `json:"shop_id" db:"shop_id"`
	ShopName    string    `json:"shop_name" db:"shop_name"`
	Status      string    `json:"status" db:"status"`
	Subtotal    int64     `json:"subtotal" db:"subtotal"`
	TotalAmount int64     `json:"total_amount" db:"total_amount"`
	DeliveredAt time.Time `json:"delivered_at" db:"delivered_at"`
}

// DailyRevenue is one row of the shop_revenue_daily roll-up.
type DailyRevenue struct {
	ShopID     int64     `json:"shop_id" db:"shop_id"`
	ShopName   string    `json:"shop_name" db:"shop_name"`
	Day        time.Time `json:"day" db:"day"`
	OrderCount int64     `json:"order_count" db:"order_count"`
	Subtotal   int64     `json:"subtotal" db:"subtotal_sum"`
	Total      int64     `json:"total" db:"total_sum"`
}

type Bucket struct {
	OrderCount int64 `json:"order_count"`
	Subtotal   int64 `json:"subtotal"`
	Total      int64 `json:"total"`
}

func (b *Bucket) Add(row DailyRevenue) {
	b.OrderCount += row.OrderCount
	b.Subtotal += row.Subtotal
	b.Total += row.Total
}

type MonthBreakdown struct {
	Bucket
	Days map[string]*Bucket `json:"days"`
}

type ShopBreakdown struct {
	Bucket
	ShopID   int64                      `json:"shop_id"`
	ShopName string                     `json:"shop_name"`
	Months   map[string]*MonthBreakdown `json:"months"`
}

type LeaderboardEntry struct {
	ShopID     int64  `json:"shop_id" db:"shop_id"`
	ShopName   string `json:"shop_name" db:"shop_name"`
	Total      int64  `json:"total" db:"total"`
	OrderCount int64  `json:"order_count,omitempty" db:"order_count"`
}

type Totals struct {
	TotalRevenue int64 `json:"total_revenue" db:"total_revenue"`
	OrderCount   int64 `json:"order_count" db:"order_count"`
	AvgPerOrder  int64 `json:"avg_per_order" db:"-"`
}

// NewTotals derives the average, rounded half away from zero.
func NewTotals(revenue, count int64) Totals {
	totals := Totals{TotalRevenue: revenue, OrderCount: count}
	if count > 0 {
		totals.AvgPerOrder = int64(math.Round(float64(revenue) / float64(count)))
	}
	return totals
}

type Report struct {
	Totals
	From        string                   `json:"from,omitempty"`
	To          string                   `json:"to,omitempty"`
	Shops       map[int64]*ShopBreakdown `json:"shops"`
	Leaderboard []LeaderboardEntry       `json:"leaderboard"`
	// Truncated is set when the day rows hit the query limit.
	Truncated bool `json:"truncated"`
}
