package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/config"
	httpapi "github.com/chuoois/FoodWeb-sub001/finance-svc/internal/api/http"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/storage"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("finance-svc")

	settings, err := config.LoadSettings(os.Getenv("SETTINGS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	financeService := service.NewFinanceService(storage.NewPostgresRepository(db), storage.NewRedisLeaderboard(rdb))
	sessions := auth.NewRedisSessionStore(rdb, config.SessionTTL)
	handler := httpapi.NewHandler(financeService, auth.NewAuthenticator(sessions))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + config.GetEnv("PORT", "8084")
	if err := httpx.Serve(ctx, addr, httpapi.NewRouter(handler, settings.CORS.AllowedOrigins)); err != nil {
		log.Fatal().Err(err).Msg("Finance service stopped")
	}
}
