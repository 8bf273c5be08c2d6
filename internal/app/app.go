package app

import (
	"fmt"

	"github.com/RoyceAzure/lab/bookstore/internal/config"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/notifier"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/bookstore/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// Application 聚合所有service跟底層資源，組裝順序:
// config -> db -> redis快取 -> kafka通知 -> services
type Application struct {
	Store      db.UnifiedDB
	Books      service.IBookService
	Carts      service.ICartService
	Orders     service.IOrderService
	Payments   service.IPaymentService
	Users      service.IUserService
	Promotions service.IPromotionService
	Statistics service.IStatisticService

	notifier *notifier.KafkaNotifier
}

func NewApplication(cf *config.Config) (*Application, error) {
	conn, err := db.GetDbConn(cf)
	if err != nil {
		return nil, fmt.Errorf("failed to connect db: %w", err)
	}

	store := db.NewUnifiedDB(conn)
	if err := store.InitMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cf.RedisAddr,
		Password: cf.RedisPassword,
	})
	bookCache := redis_decorator.NewCacheAsideBookRepo(store, redis_repo.NewBookRedisRepo(redisClient))
	cachedStore := redis_decorator.NewCachedUnifiedDB(store, bookCache)

	kafkaNotifier := notifier.NewKafkaNotifier(cf.KafkaBrokerList(), cf.KafkaTopic)

	currencyRate, err := decimal.NewFromString(cf.CurrencyRate)
	if err != nil {
		return nil, fmt.Errorf("invalid currency rate %q: %w", cf.CurrencyRate, err)
	}

	return &Application{
		Store:      cachedStore,
		Books:      service.NewBookService(cachedStore),
		Carts:      service.NewCartService(cachedStore),
		Orders:     service.NewOrderService(cachedStore, kafkaNotifier),
		Payments:   service.NewPaymentService(cachedStore, currencyRate),
		Users:      service.NewUserService(cachedStore),
		Promotions: service.NewPromotionService(cachedStore),
		Statistics: service.NewStatisticService(cachedStore),
		notifier:   kafkaNotifier,
	}, nil
}

func (a *Application) Close() error {
	return a.notifier.Close()
}
