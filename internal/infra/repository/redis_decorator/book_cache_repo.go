package redis_decorator

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
CacheAsideBookRepo

redis 只快取書籍庫存，所以只有跟庫存有關的操作才需要連動redis。
db 永遠先寫，redis 同步失敗時異步補償一次，補償仍失敗則刪除快取，
讓下次讀取回源db。
*/
type CacheAsideBookRepo struct {
	db.IBookRepository
	redis redis_repo.IBookRedisRepository
}

func NewCacheAsideBookRepo(dbRepo db.IBookRepository, redisRepo redis_repo.IBookRedisRepository) db.IBookRepository {
	return &CacheAsideBookRepo{IBookRepository: dbRepo, redis: redisRepo}
}

func (p *CacheAsideBookRepo) CreateBook(ctx context.Context, book *model.Book) error {
	err := p.IBookRepository.CreateBook(ctx, book)
	if err != nil {
		return err
	}

	if err := p.redis.SetBookStock(ctx, book.BookID, book.StockQuantity); err != nil {
		p.retryThenEvict(book.BookID, book.StockQuantity)
	}
	return nil
}

func (p *CacheAsideBookRepo) UpdateBook(ctx context.Context, book *model.Book) error {
	err := p.IBookRepository.UpdateBook(ctx, book)
	if err != nil {
		return err
	}

	if err := p.redis.SetBookStock(ctx, book.BookID, book.StockQuantity); err != nil {
		p.retryThenEvict(book.BookID, book.StockQuantity)
	}
	return nil
}

func (p *CacheAsideBookRepo) DeactivateBook(ctx context.Context, bookID string) error {
	err := p.IBookRepository.DeactivateBook(ctx, bookID)
	if err != nil {
		return err
	}

	if err := p.redis.DeleteBookStock(context.Background(), bookID); err != nil {
		log.Error().Err(err).Msgf("redis delete book stock failed, book_id: %s", bookID)
	}
	return nil
}

// ReserveStock db條件扣減成功後才動快取，快取失敗不影響扣減結果
func (p *CacheAsideBookRepo) ReserveStock(ctx context.Context, bookID string, qty int) error {
	err := p.IBookRepository.ReserveStock(ctx, bookID, qty)
	if err != nil {
		return err
	}

	if _, err := p.redis.DeductBookStock(ctx, bookID, qty); err != nil {
		if !errors.Is(err, redis_repo.ErrBookStockNotCached) {
			p.evict(bookID)
		}
	}
	return nil
}

func (p *CacheAsideBookRepo) ReleaseStock(ctx context.Context, bookID string, qty int) error {
	err := p.IBookRepository.ReleaseStock(ctx, bookID, qty)
	if err != nil {
		return err
	}

	if _, err := p.redis.IncrBookStock(ctx, bookID, qty); err != nil {
		p.evict(bookID)
	}
	return nil
}

// GetBookStock 先讀快取，miss 則回源db並回填
func (p *CacheAsideBookRepo) GetBookStock(ctx context.Context, bookID string) (int, error) {
	stock, err := p.redis.GetBookStock(ctx, bookID)
	if err == nil {
		return stock, nil
	}

	stock, err = p.IBookRepository.GetBookStock(ctx, bookID)
	if err != nil {
		return 0, err
	}

	if err := p.redis.SetBookStock(ctx, bookID, stock); err != nil {
		log.Error().Err(err).Msgf("redis backfill book stock failed, book_id: %s", bookID)
	}
	return stock, nil
}

func (p *CacheAsideBookRepo) retryThenEvict(bookID string, stock int) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := p.redis.SetBookStock(context.Background(), bookID, stock); err != nil {
			log.Error().Err(err).Msgf("redis set book stock retry failed, book_id with stock: %s, %d", bookID, stock)
			p.evict(bookID)
		}
	}()
}

// 快取可能已經髒掉，直接刪掉讓讀取回源
func (p *CacheAsideBookRepo) evict(bookID string) {
	if err := p.redis.DeleteBookStock(context.Background(), bookID); err != nil {
		log.Error().Err(err).Msgf("redis evict book stock failed, book_id: %s", bookID)
	}
}

var _ db.IBookRepository = (*CacheAsideBookRepo)(nil)
