package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	httpapi "catwatch/internal/http"
	jwttoken "catwatch/internal/jwt_token"
	notificationfeed "catwatch/internal/notification/feed"
	notificationhandler "catwatch/internal/notification/handler"
	notificationservice "catwatch/internal/notification/service"
	notificationstore "catwatch/internal/notification/store"
	"catwatch/internal/platform/config"
	"catwatch/internal/platform/httpserver"
	"catwatch/internal/platform/kafka"
	"catwatch/internal/platform/logger"
	"catwatch/internal/platform/metrics"
	"catwatch/internal/platform/postgres"
	"catwatch/internal/platform/redis"
	sightinghandler "catwatch/internal/sighting/handler"
	"catwatch/internal/sighting/lifecycle"
	sightingmetrics "catwatch/internal/sighting/metrics"
	sightingstore "catwatch/internal/sighting/store"
	id "catwatch/pkg/domain"
)

// sightingStore is everything the server needs from a sighting backend.
type sightingStore interface {
	lifecycle.SightingStore
	sightinghandler.Store
	notificationservice.SightingRestorer
}

func newServeCommand() *cobra.Command {
	v := config.New()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		panic(err)
	}
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	healthChecks := map[string]httpapi.HealthCheck{}

	sightings, db, err := openSightings(ctx, cfg.Postgres, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		healthChecks["postgres"] = db.PingContext
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var notifications notificationservice.Store = notificationstore.NewInMemoryStore(cfg.Notifications.TTL)
	if redisClient != nil {
		defer redisClient.Close()
		healthChecks["redis"] = redisClient.Health
		notifications = notificationstore.NewRedisStore(redisClient.Client, cfg.Notifications.TTL)
		log.InfoContext(ctx, "notifications stored in redis")
	}

	broadcaster := notificationfeed.NewBroadcaster()
	var refreshFeed notificationfeed.Refresher = broadcaster
	var (
		consumer  *kafka.Consumer
		redisFeed *notificationfeed.RedisFeed
	)
	if len(cfg.Kafka.Brokers) > 0 {
		// Every instance reads the whole topic, so no consumer group is used.
		client, err := kafka.NewClient(cfg.Kafka.Brokers,
			kgo.ConsumeTopics(cfg.Kafka.Topic),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
		)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.Topic, 1, 1); err != nil {
			log.WarnContext(ctx, "refresh topic not ensured", "topic", cfg.Kafka.Topic, "error", err)
		}
		producer := kafka.NewProducer(client, kafka.WithProducerLogger(log))
		healthChecks["kafka"] = func(context.Context) error {
			if !producer.Healthy() {
				return errors.New("kafka producer unhealthy")
			}
			return nil
		}
		refreshFeed = notificationfeed.Multi{broadcaster, notificationfeed.NewKafkaFeed(producer, cfg.Kafka.Topic)}
		consumer = kafka.NewConsumer(client, notificationfeed.NewRefreshHandler(broadcaster), log)
		log.InfoContext(ctx, "refresh feed fanned out over kafka", "topic", cfg.Kafka.Topic)
	} else if redisClient != nil {
		redisFeed = notificationfeed.NewRedisFeed(redisClient.Client, notificationfeed.DefaultChannel,
			notificationfeed.WithRedisLogger(log))
		refreshFeed = notificationfeed.Multi{broadcaster, redisFeed}
		log.InfoContext(ctx, "refresh feed fanned out over redis", "channel", notificationfeed.DefaultChannel)
	}

	notificationSvc := notificationservice.New(notifications, sightings,
		notificationservice.WithLogger(log),
		notificationservice.WithFeed(refreshFeed),
	)

	lifecycleMetrics := sightingmetrics.NewWithRegistry(reg)
	sessions := sightinghandler.NewRegistry(func(ownerID id.OwnerID) *lifecycle.Controller {
		return lifecycle.New(ownerID, sightings, notificationSvc,
			lifecycle.WithLogger(log),
			lifecycle.WithMetrics(lifecycleMetrics),
			lifecycle.WithDebounce(cfg.Sightings.Debounce),
		)
	}, cfg.Sightings.SessionIdleTTL,
		sightinghandler.WithRegistryLogger(log),
		sightinghandler.WithRegistryMetrics(lifecycleMetrics),
	)
	defer sessions.Close()

	jwtService := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, tokenIssuer)
	router := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Metrics:        metrics.NewWithRegistry(reg),
		Gatherer:       reg,
		Validator:      jwttoken.NewJWTServiceAdapter(jwtService),
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   healthChecks,
	},
		sightinghandler.New(sightings, sessions, log),
		notificationhandler.New(notificationSvc, sessions, broadcaster, log),
	)

	srv := httpserver.New(cfg.Server.Addr, router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting catwatch", "addr", cfg.Server.Addr)
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}
	if redisFeed != nil {
		g.Go(func() error {
			return redisFeed.Relay(gctx, broadcaster)
		})
	}
	if err := g.Wait(); err != nil {
		log.ErrorContext(ctx, "server stopped", "error", err)
		return err
	}
	log.InfoContext(ctx, "server stopped")
	return nil
}

// openSightings picks Postgres when a URL is configured and the in-memory
// store otherwise.
func openSightings(ctx context.Context, cfg config.Postgres, log *slog.Logger) (sightingStore, *sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		log.WarnContext(ctx, "postgres not configured, sightings kept in memory")
		return sightingstore.NewMemory(), nil, nil
	}
	store := sightingstore.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return store, db, nil
}
