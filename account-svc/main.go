package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/chuoois/FoodWeb-sub001/account-svc/internal/api/http"
	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/storage"
	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/httpx"
	"github.com/chuoois/FoodWeb-sub001/migrations"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("account-svc")

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

	sessions := auth.NewRedisSessionStore(rdb, config.SessionTTL)
	accountService := service.NewAccountService(storage.NewPostgresRepository(db), sessions, bcrypt.DefaultCost)
	handler := httpapi.NewHandler(accountService, auth.NewAuthenticator(sessions))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + config.GetEnv("PORT", "8081")
	if err := httpx.Serve(ctx, addr, httpapi.NewRouter(handler, settings.CORS.AllowedOrigins)); err != nil {
		log.Fatal().Err(err).Msg("Account service stopped")
	}
}
