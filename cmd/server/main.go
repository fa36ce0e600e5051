// Command server runs the invite issuance service: the HTTP API, the
// identity-signup consumer, and the orphaned-asset sweeper.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"guestpass/internal/audit"
	gueststore "guestpass/internal/guest/store"
	"guestpass/internal/invite/codes"
	invitehandler "guestpass/internal/invite/handler"
	inviteservice "guestpass/internal/invite/service"
	"guestpass/internal/platform/config"
	"guestpass/internal/platform/httpserver"
	"guestpass/internal/platform/kafka"
	kafkaconsumer "guestpass/internal/platform/kafka/consumer"
	"guestpass/internal/platform/logger"
	"guestpass/internal/platform/metrics"
	"guestpass/internal/platform/middleware"
	"guestpass/internal/platform/redis"
	profileconsumer "guestpass/internal/profile/consumer"
	profilehandler "guestpass/internal/profile/handler"
	profileservice "guestpass/internal/profile/service"
	profilestore "guestpass/internal/profile/store"
	"guestpass/internal/storage/object"
	"guestpass/internal/sweep"
	httptransport "guestpass/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	if len(cfg.AdminEmails) == 0 {
		log.Warn("no admin emails configured, invite creation will be denied for everyone")
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	objects, err := object.NewMinio(ctx, object.MinioConfig{
		Endpoint:  cfg.ObjectStoreEndpoint,
		AccessKey: cfg.ObjectStoreAccessKey,
		SecretKey: cfg.ObjectStoreSecretKey,
		Bucket:    cfg.ObjectStoreBucket,
		UseTLS:    cfg.ObjectStoreUseTLS,
	})
	if err != nil {
		return fmt.Errorf("object store: %w", err)
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()
	if err := kafka.EnsureTopics(ctx, producer, cfg.AuditTopic, cfg.IdentityTopic); err != nil {
		return fmt.Errorf("ensure topics: %w", err)
	}
	auditPub := audit.NewKafkaPublisher(producer, cfg.AuditTopic)

	m := metrics.New()
	validator := middleware.NewHS256Validator(cfg.JWTSigningKey)

	guests := gueststore.NewPostgres(db)
	inviteSvc := inviteservice.New(cfg.AdminEmails, codes.New(), guests, objects, auditPub, m, log)

	profiles := profilestore.NewPostgres(db)
	profileSvc := profileservice.New(
		profiles,
		profileservice.NewRedisCache(redisClient),
		config.ProfileCacheTTL,
		auditPub, m, log,
	)

	signups, err := kafkaconsumer.New(
		cfg.KafkaBrokers, cfg.ConsumerGroup, []string{cfg.IdentityTopic},
		profileconsumer.NewSignupHandler(profileSvc, log), log,
	)
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer signups.Close()

	sweeper := sweep.New(objects, guests, cfg.SweepInterval, cfg.SweepGrace, log)

	checks := map[string]httptransport.HealthCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = redisClient.Health
	}

	router := httptransport.NewRouter([]httptransport.Registrar{
		invitehandler.New(inviteSvc, log, m, validator),
		profilehandler.New(profileSvc, log, m, validator),
	}, checks)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("signup consumer started", "topic", cfg.IdentityTopic, "group", cfg.ConsumerGroup)
		return ignoreCanceled(signups.Run(gctx))
	})
	g.Go(func() error {
		log.Info("sweeper started", "interval", cfg.SweepInterval, "grace", cfg.SweepGrace)
		return ignoreCanceled(sweeper.Run(gctx))
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return ignoreCanceled(g.Wait())
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
