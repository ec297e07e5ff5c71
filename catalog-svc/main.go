package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chuoois/FoodWeb-sub001/auth"
	httpapi "github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/api/http"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/storage"
	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("catalog-svc")

	settings, err := config.LoadSettings(os.Getenv("SETTINGS_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.ReviewEventsTopic)
	defer writer.Close()

	uploadDir := config.GetEnv("UPLOAD_DIR", "./uploads")
	repo := storage.NewPostgresRepository(db)

	shopService := service.NewShopService(repo, storage.NewLocalImageStore(uploadDir, "/uploads"))
	menuService := service.NewMenuService(repo)
	voucherService := service.NewVoucherService(repo)
	reviewService := service.NewReviewService(repo, storage.NewRedisCache(rdb, config.ReviewMarkerTTL), storage.NewKafkaPublisher(writer))

	authenticator := auth.NewAuthenticator(auth.NewRedisSessionStore(rdb, config.SessionTTL))
	handler := httpapi.NewHandler(shopService, menuService, voucherService, reviewService, authenticator)
	handler.UploadDir = uploadDir

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + config.GetEnv("PORT", "8082")
	if err := httpx.Serve(ctx, addr, httpapi.NewRouter(handler, settings.CORS.AllowedOrigins)); err != nil {
		log.Fatal().Err(err).Msg("Catalog service stopped")
	}
}
