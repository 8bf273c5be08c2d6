package redis_decorator

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

/*
CachedUnifiedDB

把UnifiedDB的書籍操作換成走快取的版本，其餘操作原樣轉發。
Transaction 內拿到的store綁定db事務，不經過快取，
庫存快取靠TTL過期回源，容忍短暫不一致。
*/
type CachedUnifiedDB struct {
	db.UnifiedDB
	books db.IBookRepository
}

func NewCachedUnifiedDB(store db.UnifiedDB, books db.IBookRepository) db.UnifiedDB {
	return &CachedUnifiedDB{UnifiedDB: store, books: books}
}

func (c *CachedUnifiedDB) CreateBook(ctx context.Context, book *model.Book) error {
	return c.books.CreateBook(ctx, book)
}

func (c *CachedUnifiedDB) GetBookByID(ctx context.Context, bookID string) (*model.Book, error) {
	return c.books.GetBookByID(ctx, bookID)
}

func (c *CachedUnifiedDB) GetBooksByIDs(ctx context.Context, bookIDs []string) ([]model.Book, error) {
	return c.books.GetBooksByIDs(ctx, bookIDs)
}

func (c *CachedUnifiedDB) GetAllActiveBooks(ctx context.Context) ([]model.Book, error) {
	return c.books.GetAllActiveBooks(ctx)
}

func (c *CachedUnifiedDB) GetBooksInStock(ctx context.Context) ([]model.Book, error) {
	return c.books.GetBooksInStock(ctx)
}

func (c *CachedUnifiedDB) UpdateBook(ctx context.Context, book *model.Book) error {
	return c.books.UpdateBook(ctx, book)
}

func (c *CachedUnifiedDB) DeactivateBook(ctx context.Context, bookID string) error {
	return c.books.DeactivateBook(ctx, bookID)
}

func (c *CachedUnifiedDB) ReserveStock(ctx context.Context, bookID string, qty int) error {
	return c.books.ReserveStock(ctx, bookID, qty)
}

func (c *CachedUnifiedDB) ReleaseStock(ctx context.Context, bookID string, qty int) error {
	return c.books.ReleaseStock(ctx, bookID, qty)
}

func (c *CachedUnifiedDB) GetBookStock(ctx context.Context, bookID string) (int, error) {
	return c.books.GetBookStock(ctx, bookID)
}

var _ db.UnifiedDB = (*CachedUnifiedDB)(nil)
