// Command staff-watch prints a shop's live order feed, the way a back-office
// screen would see it.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/order-svc/pkg/orderstream"

	"github.com/rs/zerolog/log"
)

func main() {
	baseURL := flag.String("url", config.GetEnv("FOODWEB_URL", "http://localhost:8080"), "API gateway base URL")
	token := flag.String("token", os.Getenv("FOODWEB_TOKEN"), "staff bearer token")
	shopID := flag.Int64("shop", 0, "shop id (defaults to the shop on the session)")
	maxRetries := flag.Int("max-retries", 8, "stream failures before falling back to polling")
	pollInterval := flag.Duration("poll", 10*time.Second, "polling interval while the stream is down")
	idleTimeout := flag.Duration("idle", 45*time.Second, "reconnect when the stream sends nothing for this long")
	flag.Parse()

	config.SetupLogger("staff-watch")
	if *token == "" {
		log.Fatal().Msg("token is required")
	}

	client := orderstream.NewClient(orderstream.Config{
		BaseURL:      *baseURL,
		Token:        *token,
		ShopID:       *shopID,
		MaxRetries:   *maxRetries,
		PollInterval: *pollInterval,
		IdleTimeout:  *idleTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := make(chan orderstream.Update, 64)
	go func() {
		err := client.Run(ctx, updates)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("order stream stopped")
		}
		close(updates)
	}()

	orders := map[int64]orderstream.Order{}
	for update := range updates {
		if update.Snapshot != nil {
			orders = make(map[int64]orderstream.Order, len(update.Snapshot))
			for _, order := range update.Snapshot {
				orders[order.ID] = order
			}
			log.Info().Int("orders", len(orders)).Int64("last_seq", client.LastSeq()).Msg("snapshot")
			continue
		}

		event := update.Event
		order := orders[event.OrderID]
		order.ID = event.OrderID
		order.ShopID = event.ShopID
		order.Status = event.Status
		order.TotalAmount = event.TotalAmount
		orders[event.OrderID] = order

		log.Info().Int64("seq", event.Seq).Str("type", event.Type).Int64("order_id", event.OrderID).
			Str("from", event.PreviousStatus).Str("status", event.Status).Int64("total", event.TotalAmount).Msg("order event")
	}
}
