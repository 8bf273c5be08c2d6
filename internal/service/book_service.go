package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/bookstore/internal/pkg/util"
)

var (
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidStock = errors.New("stock quantity cannot be negative")
)

type IBookService interface {
	CreateBook(ctx context.Context, book *model.Book) (*model.Book, error)
	GetBook(ctx context.Context, bookID string) (*model.Book, error)
	GetAllActiveBooks(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	AddStock(ctx context.Context, bookID string, quantity int) error
	DeactivateBook(ctx context.Context, bookID string) error
	GetRandomActiveBooks(ctx context.Context, n int, seed int64) ([]model.Book, error)
}

type BookService struct {
	store db.UnifiedDB
}

func NewBookService(store db.UnifiedDB) *BookService {
	return &BookService{store: store}
}

func (b *BookService) CreateBook(ctx context.Context, book *model.Book) (*model.Book, error) {
	if book.Price.IsNegative() || book.Price.IsZero() {
		return nil, ErrInvalidPrice
	}
	if book.StockQuantity < 0 {
		return nil, ErrInvalidStock
	}
	if book.BookID == "" {
		book.BookID = util.GenerateBookID()
	}
	book.Active = true
	if err := b.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (b *BookService) GetBook(ctx context.Context, bookID string) (*model.Book, error) {
	return b.store.GetBookByID(ctx, bookID)
}

func (b *BookService) GetAllActiveBooks(ctx context.Context) ([]model.Book, error) {
	return b.store.GetAllActiveBooks(ctx)
}

func (b *BookService) UpdateBook(ctx context.Context, book *model.Book) error {
	return b.store.UpdateBook(ctx, book)
}

// AddStock 進貨補庫存
func (b *BookService) AddStock(ctx context.Context, bookID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return b.store.ReleaseStock(ctx, bookID, quantity)
}

func (b *BookService) DeactivateBook(ctx context.Context, bookID string) error {
	return b.store.DeactivateBook(ctx, bookID)
}

// GetRandomActiveBooks 隨機取 n 本上架書
// 用帶種子的均勻抽樣，同一個seed結果可重現，方便測試
func (b *BookService) GetRandomActiveBooks(ctx context.Context, n int, seed int64) ([]model.Book, error) {
	books, err := b.store.GetAllActiveBooks(ctx)
	if err != nil {
		return nil, err
	}
	if n >= len(books) {
		return books, nil
	}

	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(books), func(i, j int) {
		books[i], books[j] = books[j], books[i]
	})
	return books[:n], nil
}

var _ IBookService = (*BookService)(nil)
