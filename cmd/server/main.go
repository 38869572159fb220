package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicepick-service/config"
	"voicepick-service/internal/api"
	"voicepick-service/internal/broker"
	"voicepick-service/internal/gateway"
	"voicepick-service/internal/redisclient"
	"voicepick-service/internal/service"
	"voicepick-service/internal/store"
	"voicepick-service/internal/util"
	"voicepick-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting voicepick service")

	tp, err := util.InitTracer("voicepick-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPicking)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	warehouseGateway := gateway.NewPostgresGateway(db)
	pickingService := service.NewPickingService(warehouseGateway, redisClient, eventPublisher, service.Options{
		CacheTTL:        time.Duration(cfg.Picking.SessionCacheTTLSeconds) * time.Second,
		MinConfidence:   cfg.Picking.MinConfidence,
		DefaultLanguage: cfg.Picking.DefaultLanguage,
	})
	metricsService := service.NewMetricsService(db, redisClient)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	metricsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicPicking, cfg.Kafka.ConsumerGroup)
	metricsWorker := worker.NewMetricsWorker(metricsConsumer, redisClient)
	go func() {
		if err := metricsWorker.Start(workerCtx); err != nil {
			log.Printf("Metrics worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(pickingService, metricsService)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	metricsWorker.Stop()

	log.Println("Server exited")
}
