package events

import (
	"fmt"
	"time"
)

// StatusDelivered is the order status that counts as revenue.
const StatusDelivered = "DELIVERED"

// BusinessZone is the marketplace's local time (UTC+7, no daylight saving).
// Revenue days and months are cut in this zone.
var BusinessZone = time.FixedZone("ICT", 7*60*60)

// BusinessDay truncates t to midnight of its local business day.
func BusinessDay(t time.Time) time.Time {
	local := t.In(BusinessZone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, BusinessZone)
}

func BusinessMonth(t time.Time) string {
	return t.In(BusinessZone).Format("2006-01")
}

// LeaderboardKey names the sorted set holding one month's revenue per shop.
func LeaderboardKey(month string) string {
	return fmt.Sprintf("leaderboard:revenue:%s", month)
}
