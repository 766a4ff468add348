package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/campusgrid/campus-chat/internal/auth"
	"github.com/campusgrid/campus-chat/internal/cache"
	cfgpkg "github.com/campusgrid/campus-chat/internal/config"
	"github.com/campusgrid/campus-chat/internal/events"
	"github.com/campusgrid/campus-chat/internal/handlers"
	"github.com/campusgrid/campus-chat/internal/logger"
	"github.com/campusgrid/campus-chat/internal/realtime"
	"github.com/campusgrid/campus-chat/internal/repository"
	"github.com/campusgrid/campus-chat/internal/routes"
	"github.com/campusgrid/campus-chat/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := cfgpkg.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	verifier, err := auth.NewVerifier(cfg.JWT.Secret)
	if err != nil {
		zlog.Fatalw("jwt init", "err", err)
	}

	ctx := context.Background()
	mc, err := repository.NewMongoClient(ctx, cfg.Mongo.URI)
	if err != nil {
		zlog.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.Mongo.Database)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Fatalw("redis ping", "err", err)
	}
	store := cache.NewStore(rdb, cfg.Redis.Prefix)
	presence := cache.NewPresenceStore(store)

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent)
	defer func() { _ = producer.Close() }()

	users := repository.NewMongoUserRepo(db)
	conversations := repository.NewMongoConversationRepo(db)
	messages := repository.NewMongoMessageRepo(db, users)
	students := repository.NewMongoStudentRepo(db)
	batches := repository.NewMongoBatchRepo(db)

	chat := service.NewChatService(messages, producer, zlog)

	hub := realtime.NewHub()
	deps := &realtime.Deps{
		Conversations: conversations,
		Students:      students,
		Batches:       batches,
		Chat:          chat,
		Presence:      presence,
		Log:           zlog,
	}
	ns := routes.Namespaces{
		Announcement: realtime.NewNamespace(realtime.AnnouncementConfig(), hub, verifier, deps),
		Dropbox:      realtime.NewNamespace(realtime.DropboxConfig(), hub, verifier, deps),
		Community:    realtime.NewNamespace(realtime.CommunityConfig(), hub, verifier, deps),
		Classroom:    realtime.NewNamespace(realtime.ClassroomConfig(), hub, verifier, deps),
	}

	app := fiber.New(fiber.Config{AppName: "campus-chat"})
	history := handlers.NewHistoryHandler(chat, conversations, zlog)
	routes.Register(app, verifier, history, ns)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		if err := app.Listen(addr); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("campus-chat started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Warnw("shutdown", "err", err)
	}
	zlog.Infow("campus-chat stopped")
}
