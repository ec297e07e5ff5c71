package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"gopkg.in/yaml.v3"
)

const (
	OrderEventsTopic  = "order-events"
	ReviewEventsTopic = "reviews"

	SessionTTL         = 24 * time.Hour
	ReviewMarkerTTL    = 30 * 24 * time.Hour
	DeliveredMarkerTTL = 30 * 24 * time.Hour
)

// Settings holds tunables that are awkward to express as single env vars.
type Settings struct {
	Shipping struct {
		BaseFee  int64   `yaml:"base_fee"`
		BaseKm   float64 `yaml:"base_km"`
		PerKmFee int64   `yaml:"per_km_fee"`
	} `yaml:"shipping"`
	Stream struct {
		Heartbeat  time.Duration `yaml:"heartbeat"`
		ReplaySize int64         `yaml:"replay_size"`
	} `yaml:"stream"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

func DefaultSettings() *Settings {
	s := &Settings{}
	s.Shipping.BaseFee = 15000
	s.Shipping.BaseKm = 3
	s.Shipping.PerKmFee = 5000
	s.Stream.Heartbeat = 15 * time.Second
	s.Stream.ReplaySize = 256
	s.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	return s
}

// LoadEnv seeds the process environment from an optional .env file.
// Variables already present in the environment win.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadSettings overlays the YAML file at path on top of DefaultSettings.
// An empty path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, settings); err != nil {
		return nil, fmt.Errorf("invalid settings file: %w", err)
	}
	return settings, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func SetupLogger(service string) {
	level, err := zerolog.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", service).Logger()
}

func PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		os.Getenv("DB_HOST"), GetEnv("DB_PORT", "5432"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), GetEnv("DB_SSLMODE", "disable"))
}

func MustInitPostgres() *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		// Events are small and latency matters more than batching.
		BatchTimeout: 10 * time.Millisecond,
	}
}
