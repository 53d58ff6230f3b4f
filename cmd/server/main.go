package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/gateway"
	"github.com/rl1809/storefront/internal/adapter/handler"
	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/service"
)

const (
	defaultHTTPAddr  = ":8080"
	defaultRedisAddr = "localhost:6379"
	defaultAPIBase   = "http://localhost:9000"
	defaultNamespace = "default"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis backs the key-value persistence collaborator.
	rdb := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_ADDR", defaultRedisAddr),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	store := storage.NewRedisStore(rdb, getenv("CART_NAMESPACE", defaultNamespace))

	// Remote storefront API: promo validation, orders, product catalog.
	client := gateway.NewClient(getenv("API_BASE_URL", defaultAPIBase), logger)
	promos := gateway.NewPromoClient(client)
	orders := gateway.NewOrderClient(client)
	catalog := gateway.NewProductClient(client)

	cartService := service.NewCartService(store, promos, logger)
	cartService.Load(ctx)
	orderService := service.NewOrderService(orders, logger)

	h := handler.NewHTTPHandler(cartService, orderService, catalog, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", h.Routes())

	httpServer := &http.Server{
		Addr:    getenv("HTTP_ADDR", defaultHTTPAddr),
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	rdb.Close()
	logger.Info("connections closed")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
