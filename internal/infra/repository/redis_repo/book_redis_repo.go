package redis_repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 庫存快取帶TTL，事務路徑不經過快取，過期後自然回源db
const stockCacheTTL = 5 * time.Minute

// IBookRedisRepository 定義 Redis 書籍庫存操作的介面
type IBookRedisRepository interface {
	// SetBookStock 設定書籍庫存快取
	SetBookStock(ctx context.Context, bookID string, stock int) error

	// GetBookStock 取得書籍庫存數量
	GetBookStock(ctx context.Context, bookID string) (int, error)

	// IncrBookStock 增加書籍庫存數量
	IncrBookStock(ctx context.Context, bookID string, quantity int) (int, error)

	// DeleteBookStock 刪除書籍庫存快取
	DeleteBookStock(ctx context.Context, bookID string) error

	// DeductBookStock 原子性扣減庫存快取
	DeductBookStock(ctx context.Context, bookID string, quantity int) (int, error)
}

var (
	ErrBookStockNotCached = errors.New("book stock not cached")
	ErrBookStockNotEnough = errors.New("book stock not enough")
)

/*	redis 只存書籍庫存快取，真相來源在db
	結構:
	書籍ID: {
		stock: 100,
	}*/

type BookRedisRepo struct {
	stockCache *redis.Client
}

func NewBookRedisRepo(stockCache *redis.Client) *BookRedisRepo {
	return &BookRedisRepo{stockCache: stockCache}
}

func generateBookStockKey(bookID string) string {
	return fmt.Sprintf("book:%s:stock", bookID)
}

func (s *BookRedisRepo) SetBookStock(ctx context.Context, bookID string, stock int) error {
	redisKey := generateBookStockKey(bookID)
	if err := s.stockCache.HSet(ctx, redisKey, "stock", stock).Err(); err != nil {
		return err
	}
	return s.stockCache.Expire(ctx, redisKey, stockCacheTTL).Err()
}

// 取得書籍庫存數量
// 錯誤:
//   - ErrBookStockNotCached: 快取不存在
//   - err: 其他錯誤
func (s *BookRedisRepo) GetBookStock(ctx context.Context, bookID string) (int, error) {
	redisKey := generateBookStockKey(bookID)
	stock, err := s.stockCache.HGet(ctx, redisKey, "stock").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrBookStockNotCached
		}
		return 0, err
	}

	stockInt, err := strconv.ParseInt(stock, 10, 64)
	if err != nil {
		return 0, err
	}

	return int(stockInt), nil
}

func (s *BookRedisRepo) IncrBookStock(ctx context.Context, bookID string, quantity int) (int, error) {
	redisKey := generateBookStockKey(bookID)
	// HIncrBy 會返回增加後的值
	result := s.stockCache.HIncrBy(ctx, redisKey, "stock", int64(quantity))
	if err := result.Err(); err != nil {
		return 0, err
	}
	return int(result.Val()), nil
}

func (s *BookRedisRepo) DeleteBookStock(ctx context.Context, bookID string) error {
	redisKey := generateBookStockKey(bookID)
	return s.stockCache.Del(ctx, redisKey).Err()
}

// 原子性扣減庫存快取
/*
	返回值:
		- 扣減後的庫存數量
		- 錯誤:
			- ErrBookStockNotCached: 快取不存在
			- ErrBookStockNotEnough: 庫存不足
			- err: 其他錯誤
*/
func (s *BookRedisRepo) DeductBookStock(ctx context.Context, bookID string, quantity int) (int, error) {
	redisKey := generateBookStockKey(bookID)

	const stockDeductionScript = `
	local key = KEYS[1]
	local quantity = tonumber(ARGV[1])
	local field = ARGV[2]

	if redis.call('EXISTS', key) == 0 then
		return -1
	end

	local current_stock = redis.call('HGET', key, field)
	if not current_stock then
		return -1
	end

	current_stock = tonumber(current_stock)

	if current_stock < quantity then
		return -2  -- 表示庫存不足
	end

	local new_stock = redis.call('HINCRBY', key, field, -quantity)
	return new_stock
	`

	result, err := s.stockCache.Eval(ctx, stockDeductionScript, []string{redisKey}, quantity, "stock").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to deduct stock: %w", err)
	}

	resultInt, ok := result.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result type: %T", result)
	}

	switch {
	case resultInt == -1:
		return 0, fmt.Errorf("%w: book with id %s", ErrBookStockNotCached, bookID)
	case resultInt == -2:
		return 0, fmt.Errorf("%w: book with id %s", ErrBookStockNotEnough, bookID)
	default:
		return int(resultInt), nil
	}
}

// 確保 BookRedisRepo 實現了 IBookRedisRepository 介面
var _ IBookRedisRepository = (*BookRedisRepo)(nil)
