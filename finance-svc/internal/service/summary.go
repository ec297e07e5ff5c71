package service

import (
	"sort"

	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/domain"
)

// Summarize reduces a list of orders to a revenue report. Only delivered
// orders count; each is bucketed by its business day of delivery.
func Summarize(orders []domain.OrderRecord) domain.Report {
	rows := make([]domain.DailyRevenue, 0, len(orders))
	for _, order := range orders {
		if order.Status != events.StatusDelivered {
			continue
		}
		rows = append(rows, domain.DailyRevenue{
			ShopID:     order.ShopID,
			ShopName:   order.ShopName,
			Day:        events.BusinessDay(order.DeliveredAt),
			OrderCount: 1,
			Subtotal:   order.Subtotal,
			Total:      order.TotalAmount,
		})
	}
	return BuildReport(rows)
}

// BuildReport nests day rows into shop -> month -> day buckets and ranks shops
// by total. Rows carry calendar days, so they are formatted without a zone shift.
func BuildReport(rows []domain.DailyRevenue) domain.Report {
	report := domain.Report{
		Shops:       make(map[int64]*domain.ShopBreakdown),
		Leaderboard: []domain.LeaderboardEntry{},
	}

	var revenue, count int64
	for _, row := range rows {
		shop, ok := report.Shops[row.ShopID]
		if !ok {
			shop = &domain.ShopBreakdown{
				ShopID:   row.ShopID,
				ShopName: row.ShopName,
				Months:   make(map[string]*domain.MonthBreakdown),
			}
			report.Shops[row.ShopID] = shop
		}
		monthKey := row.Day.Format("2006-01")
		month, ok := shop.Months[monthKey]
		if !ok {
			month = &domain.MonthBreakdown{Days: make(map[string]*domain.Bucket)}
			shop.Months[monthKey] = month
		}
		dayKey := row.Day.Format("2006-01-02")
		day, ok := month.Days[dayKey]
		if !ok {
			day = &domain.Bucket{}
			month.Days[dayKey] = day
		}

		day.Add(row)
		month.Add(row)
		shop.Add(row)
		revenue += row.Total
		count += row.OrderCount
	}

	for _, shop := range report.Shops {
		report.Leaderboard = append(report.Leaderboard, domain.LeaderboardEntry{
			ShopID:     shop.ShopID,
			ShopName:   shop.ShopName,
			Total:      shop.Total,
			OrderCount: shop.OrderCount,
		})
	}
	sortLeaderboard(report.Leaderboard)

	report.Totals = domain.NewTotals(revenue, count)
	return report
}

func sortLeaderboard(entries []domain.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total != entries[j].Total {
			return entries[i].Total > entries[j].Total
		}
		return entries[i].ShopID < entries[j].ShopID
	})
}
