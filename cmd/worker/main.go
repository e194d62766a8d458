package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/mintbay/pkg/app"
	"github.com/ghuser/mintbay/pkg/cache"
	"github.com/ghuser/mintbay/pkg/config"
	"github.com/ghuser/mintbay/pkg/database"
	"github.com/ghuser/mintbay/pkg/events"
	"github.com/ghuser/mintbay/pkg/logger"
	"github.com/ghuser/mintbay/pkg/telemetry"
	cartredis "github.com/ghuser/mintbay/services/cart/infrastructure/persistence/redis"
	catalogEvents "github.com/ghuser/mintbay/services/catalog/domain/events"
	catalogpg "github.com/ghuser/mintbay/services/catalog/infrastructure/persistence/postgres"
	checkoutsvcs "github.com/ghuser/mintbay/services/checkout/application/services"
	checkoutEvents "github.com/ghuser/mintbay/services/checkout/domain/events"
	checkoutredis "github.com/ghuser/mintbay/services/checkout/infrastructure/persistence/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	//temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	//if err != nil {
	//	log.Error("failed to initialize temporal client", "error", err)
	//	os.Exit(1) //nolint:gocritic
	//}
	//defer temporalClient.Close()

	appConfig := &app.Application{
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
		//TemporalClient: temporalClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	topics := map[string]func(context.Context, *message.Message) error{
		catalogEvents.TopicListingCreated:     handleListingCreated(a),
		catalogEvents.TopicListingUpdated:     handleListingUpdated(a),
		checkoutEvents.TopicCheckoutCompleted: handleCheckoutCompleted(a),
	}

	registered := make([]string, 0, len(topics))
	for topic, handler := range topics {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
		registered = append(registered, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", registered)
	return nil
}

// handleListingCreated warms the Redis read model so detail and
// availability reads skip Postgres.
// Handlers must be idempotent — EventBus retries up to 3× on failure.
func handleListingCreated(a *app.Application) func(context.Context, *message.Message) error {
	listingCache := cache.NewListingCache(a.Redis)
	repo := catalogpg.NewListingRepository(a.Db, a.EventBus)
	return func(ctx context.Context, msg *message.Message) error {
		var evt catalogEvents.ListingCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}

		listing, err := repo.GetByID(ctx, evt.ListingID)
		if err != nil {
			// Row may lag behind the outbox delivery; retry will catch up.
			return err
		}

		if err := listingCache.Set(ctx, &cache.CachedListing{
			ID:                listing.ID,
			Title:             listing.Title.String(),
			PriceCents:        listing.PriceCents,
			Category:          listing.Category,
			Listed:            listing.Listed,
			EditionsAvailable: listing.EditionsAvailable,
			CreatedAt:         listing.CreatedAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for listing.created",
				"listing_id", evt.ListingID, "error", err)
			return nil
		}

		a.Logger.InfoContext(ctx, "cache warmed", "listing_id", evt.ListingID)
		return nil
	}
}

// handleListingUpdated drops the stale cache entry; the next read rewarms it.
func handleListingUpdated(a *app.Application) func(context.Context, *message.Message) error {
	listingCache := cache.NewListingCache(a.Redis)
	return func(ctx context.Context, msg *message.Message) error {
		var evt catalogEvents.ListingUpdatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		if err := listingCache.Delete(ctx, evt.ListingID); err != nil {
			a.Logger.WarnContext(ctx, "cache invalidation failed for listing.updated",
				"listing_id", evt.ListingID, "error", err)
		}
		return nil
	}
}

// handleCheckoutCompleted delegates to the checkout fulfillment service.
// Decrements are deduped per session there, so redeliveries only retry the
// idempotent cart clear.
func handleCheckoutCompleted(a *app.Application) func(context.Context, *message.Message) error {
	fulfill := checkoutsvcs.NewFulfillmentService(
		catalogpg.NewListingRepository(a.Db, a.EventBus),
		cartredis.NewCartRepository(a.Redis),
		cache.NewListingCache(a.Redis),
		checkoutredis.NewFulfillmentMarker(a.Redis),
		a.Logger,
	)
	return fulfill.Handle
}
