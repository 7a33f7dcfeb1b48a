package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"partyorder/config"
	httpapi "partyorder/menu-svc/internal/api/http"
	"partyorder/menu-svc/internal/service"
	"partyorder/menu-svc/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := newStore(ctx, cfg, logger)
	defer closeStore()

	var cache service.MenuCache
	if cfg.Redis.Enabled() {
		client := config.MustInitRedis(cfg.Redis, logger)
		defer client.Close()
		cache = storage.NewRedisCache(client, cfg.Redis.CacheTTL)
	}

	var publisher service.Revalidator
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)

		if cache != nil {
			reader := config.NewKafkaReader(cfg.Kafka)
			defer reader.Close()
			go service.NewConsumer(reader, cache, logger).Start(ctx)
		}
	}
	revalidator := selectRevalidator(publisher, cache)

	var extractor service.TextExtractor
	if cfg.TextExtractorURL != "" {
		extractor = storage.NewHTTPTextExtractor(cfg.TextExtractorURL, &http.Client{Timeout: 60 * time.Second})
	}

	handler := httpapi.NewHandler(
		service.NewEventService(store, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}, logger),
		service.NewMenuService(store, cache, extractor, revalidator, logger),
		service.NewCategoryService(store, revalidator, logger),
		service.NewItemService(store, revalidator, logger),
		logger,
	)

	if err := httpapi.StartServer(ctx, cfg.HTTPAddr, httpapi.NewRouter(handler), logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Store, func()) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store, data is lost on restart")
		return storage.NewMemoryStore(), func() {}
	}

	db := config.MustInitPostgres(cfg.Postgres, logger)
	store := storage.NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	return store, func() { db.Close() }
}

// selectRevalidator prefers the broker. Without one the cache is dropped
// directly, and without either the signal goes nowhere.
func selectRevalidator(publisher service.Revalidator, cache service.MenuCache) service.Revalidator {
	if publisher != nil {
		return publisher
	}
	if r, ok := cache.(service.Revalidator); ok {
		return r
	}
	return nil
}
