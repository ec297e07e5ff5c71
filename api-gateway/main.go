package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chuoois/FoodWeb-sub001/api-gateway/internal/gateway"
	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("api-gateway")

	settings, err := config.LoadSettings(os.Getenv("SETTINGS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	gwConfig := gateway.Config{
		AccountSvcURL: config.GetEnv("ACCOUNT_SVC_URL", "http://localhost:8081"),
		CatalogSvcURL: config.GetEnv("CATALOG_SVC_URL", "http://localhost:8082"),
		OrderSvcURL:   config.GetEnv("ORDER_SVC_URL", "http://localhost:8083"),
		FinanceSvcURL: config.GetEnv("FINANCE_SVC_URL", "http://localhost:8084"),
	}

	// Only response headers are bounded; event streams stay open indefinitely.
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   32,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	gw := gateway.NewGateway(gwConfig, client)

	handler := httpx.CORS(settings.CORS.AllowedOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		[]string{"Authorization", "Content-Type", "Last-Event-ID", "Idempotency-Key"},
	).Handler(gw.SetupRoutes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + config.GetEnv("PORT", "8080")
	if err := httpx.Serve(ctx, addr, handler); err != nil {
		log.Fatal().Err(err).Msg("API gateway stopped")
	}
}
