package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/httpx"
	"github.com/chuoois/FoodWeb-sub001/migrations"
	httpapi "github.com/chuoois/FoodWeb-sub001/order-svc/internal/api/http"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/storage"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("order-svc")

	settings, err := config.LoadSettings(os.Getenv("SETTINGS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	db := config.MustInitPostgres()
	defer db.Close()
	if config.GetEnv("RUN_MIGRATIONS", "true") == "true" {
		migrations.MustUp(db)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.OrderEventsTopic)
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	stream := storage.NewRedisOrderStream(rdb, settings.Stream.ReplaySize)
	carts := storage.NewRedisCartStore(rdb, 7*24*time.Hour)

	orderService := service.NewOrderService(service.Dependencies{
		Orders:      repo,
		Catalog:     repo,
		Carts:       carts,
		Idempotency: storage.NewRedisIdempotencyStore(rdb, 24*time.Hour),
		Stream:      stream,
		Publisher:   storage.NewKafkaPublisher(writer),
		QR:          service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost")},
		Rates: domain.ShippingRates{
			BaseFee:  settings.Shipping.BaseFee,
			BaseKm:   settings.Shipping.BaseKm,
			PerKmFee: settings.Shipping.PerKmFee,
		},
	})
	cartService := service.NewCartService(carts, repo)

	authenticator := auth.NewAuthenticator(auth.NewRedisSessionStore(rdb, config.SessionTTL))
	handler := httpapi.NewHandler(orderService, cartService, stream, authenticator)
	handler.PaymentSecret = []byte(os.Getenv("PAYMENT_WEBHOOK_SECRET"))
	handler.Heartbeat = settings.Stream.Heartbeat
	if len(handler.PaymentSecret) == 0 {
		log.Warn().Msg("PAYMENT_WEBHOOK_SECRET is empty, payment callbacks will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + config.GetEnv("PORT", "8083")
	if err := httpx.Serve(ctx, addr, httpapi.NewRouter(handler, settings.CORS.AllowedOrigins)); err != nil {
		log.Fatal().Err(err).Msg("Order service stopped")
	}
}
