package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/agg-svc/internal/storage"
	"github.com/chuoois/FoodWeb-sub001/config"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const consumerGroup = "agg-svc-consumer"

func main() {
	if err := config.LoadEnv(config.GetEnv("ENV_FILE", ".env")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load env file")
	}
	config.SetupLogger("agg-svc")

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	orderReader := config.NewKafkaReader(config.OrderEventsTopic, consumerGroup)
	defer orderReader.Close()
	reviewReader := config.NewKafkaReader(config.ReviewEventsTopic, consumerGroup)
	defer reviewReader.Close()

	aggregator := service.NewAggregator(storage.NewStore(db), storage.NewRedisCache(rdb, config.DeliveredMarkerTTL))

	r := mux.NewRouter()
	httpx.Use(r)
	r.HandleFunc("/health", httpx.Health("agg-svc")).Methods(http.MethodGet)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.NewOrderEventsConsumer(orderReader, aggregator).Start(ctx)
	})
	g.Go(func() error {
		return service.NewReviewsConsumer(reviewReader, aggregator).Start(ctx)
	})
	g.Go(func() error {
		return httpx.Serve(ctx, ":"+config.GetEnv("PORT", "8085"), r)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Aggregation service stopped")
	}
}
