package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmorate/api/middleware"
	"filmorate/api/routes"
	"filmorate/config"
	"filmorate/db"
	"filmorate/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "etc/app.yaml", "Path to the configuration file")
	flag.Parse()

	if err := config.LoadConfig(configPath); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Printf("Starting server, db driver %s", config.AppConfig.Databases.Driver)

	if err := db.ConnectDB(); err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startNotifications(ctx)
	defer func() {
		_ = services.CloseRabbitMQ()
		_ = services.CloseRedis()
	}()

	if config.AppConfig.Logs.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.PrometheusMiddleware(middleware.ServiceName))

	routes.PublicApi(router)

	server := &http.Server{
		Addr:    config.AppConfig.Addr(),
		Handler: router,
	}
	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}
}

// startNotifications поднимает очередь redis и RabbitMQ, если они настроены.
// Без них события ленты пушатся в WebSocket напрямую
func startNotifications(ctx context.Context) {
	conf := config.AppConfig

	if conf.Redis.Host != "" {
		if err := services.InitRedis(); err != nil {
			log.Printf("ERROR: Redis unavailable, feed queue disabled: %v", err)
		} else {
			services.QueueServiceInstance.StartWorkers(ctx)
		}
	}

	if conf.RabbitMQ.URL != "" {
		if err := services.InitRabbitMQ(conf.RabbitMQ.URL); err != nil {
			log.Printf("ERROR: RabbitMQ unavailable, direct WebSocket push only: %v", err)
			return
		}
		if err := services.StartFeedEventConsumer(ctx, conf.RabbitMQ.Queue); err != nil {
			log.Printf("ERROR: Failed to start feed event consumer: %v", err)
		}
	}
}
