package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/port"
)

const (
	redisAddr     = "localhost:6379"
	stockQuantity = 20
	totalRequests = 50
)

// noopPromos satisfies the promo gateway; the stress run never applies codes.
type noopPromos struct{}

func (noopPromos) Validate(context.Context, string, decimal.Decimal) (*domain.PromoCode, error) {
	return nil, port.ErrCodeRejected
}

func main() {
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	store := storage.NewRedisStore(rdb, "stress")
	store.Remove(ctx, "cart")
	store.Remove(ctx, "appliedPromoCode")

	logger := zap.NewNop()
	cart := service.NewCartService(store, noopPromos{}, logger)

	product := domain.Product{
		ID:            "stress-item",
		Name:          "Stress Item",
		Price:         decimal.NewFromInt(1000),
		Currency:      "RUB",
		StockQuantity: stockQuantity,
	}

	var successCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := cart.AddItem(ctx, product, 1, domain.VariantOptions{})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()
	totals := cart.Totals()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Stock Quantity:   %d\n", stockQuantity)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Cart Quantity:    %d\n", totals.ItemCount)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if success == int32(stockQuantity) && totals.ItemCount == stockQuantity {
		fmt.Printf("PASS: Exactly %d adds succeeded, stock never exceeded\n", stockQuantity)
	} else {
		fmt.Printf("FAIL: Expected %d successful adds, got %d (cart quantity %d)\n",
			stockQuantity, success, totals.ItemCount)
	}
}
