package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Akki1725/socially/internal/api"
	"github.com/Akki1725/socially/internal/auth"
	"github.com/Akki1725/socially/internal/cache"
	"github.com/Akki1725/socially/internal/config"
	"github.com/Akki1725/socially/internal/events"
	"github.com/Akki1725/socially/internal/identity"
	"github.com/Akki1725/socially/internal/logger"
	"github.com/Akki1725/socially/internal/metrics"
	"github.com/Akki1725/socially/internal/repository"
	"github.com/Akki1725/socially/internal/service"
	"github.com/Akki1725/socially/internal/ws"
)

func main() {
	_ = godotenv.Load() // .env is optional

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zlog.Infow("starting chat-service", "env", cfg.App.Env, "port", cfg.App.Port)

	// Mongo
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		zlog.Fatalw("mongo connect", "err", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		zlog.Fatalw("mongo ping", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	repo := repository.NewMongoRepository(db.Collection(cfg.Mongo.ConversationsCollection))
	var directory identity.Directory = identity.NewMongoDirectory(db.Collection(cfg.Mongo.UsersCollection))

	// Redis (optional): presence + profile cache
	var presence ws.Presence
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zlog.Fatalw("redis connect", "err", err)
		}
		defer func() { _ = rc.Close() }()
		presence = rc
		directory = identity.NewCachedDirectory(directory, rc.Cli, cfg.ProfileCacheTTL)
	}

	hub := ws.NewHub(presence, zlog)

	// Kafka (optional): cross-instance event bus
	var publisher service.Publisher
	origin := uuid.NewString()
	if len(cfg.Kafka.Brokers) > 0 {
		prod := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, origin)
		defer func() { _ = prod.Close() }()
		publisher = prod

		cons := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, origin, zlog)
		defer func() { _ = cons.Close() }()
		consCtx, consCancel := context.WithCancel(context.Background())
		defer consCancel()
		go cons.Run(consCtx, hub)
	}

	svc := service.NewChatService(repo, directory, hub, publisher, zlog)

	validator, err := auth.NewValidator(cfg.JWT.Alg, cfg.JWT.Secret, cfg.JWT.PublicKeyPath)
	if err != nil {
		zlog.Fatalw("jwt validator", "err", err)
	}

	if cfg.App.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.App.MetricsAddr); err != nil {
				zlog.Errorw("metrics listener", "err", err)
			}
		}()
	}

	srv := api.NewServer(cfg, svc, directory, hub, validator, zlog)
	go func() {
		if err := srv.Listen(); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		zlog.Errorw("server shutdown", "err", err)
	}
	zlog.Info("stopped")
}
