package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrBookNotFound 書籍不存在
	ErrBookNotFound = errors.New("book not found")
	// ErrInsufficientStock 書籍庫存不足
	ErrInsufficientStock = errors.New("insufficient stock")
)

type BookRepo struct {
	db *DbDao
}

func NewBookRepo(db *DbDao) *BookRepo {
	return &BookRepo{db: db}
}

func (s *BookRepo) CreateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Create(book).Error
}

func (s *BookRepo) GetBookByID(ctx context.Context, bookID string) (*model.Book, error) {
	var book model.Book
	err := s.db.WithContext(ctx).First(&book, "book_id = ?", bookID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (s *BookRepo) GetBooksByIDs(ctx context.Context, bookIDs []string) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("book_id IN ?", bookIDs).Find(&books).Error
	return books, err
}

func (s *BookRepo) GetAllActiveBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("active = ?", true).Find(&books).Error
	return books, err
}

// Read - 查詢有庫存的書籍
func (s *BookRepo) GetBooksInStock(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := s.db.WithContext(ctx).Where("active = ? AND stock_quantity > 0", true).Find(&books).Error
	return books, err
}

func (s *BookRepo) UpdateBook(ctx context.Context, book *model.Book) error {
	return s.db.WithContext(ctx).Save(book).Error
}

// DeactivateBook 下架書籍，active=false，不做硬刪除
func (s *BookRepo) DeactivateBook(ctx context.Context, bookID string) error {
	res := s.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ?", bookID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// ReserveStock 原子性條件扣減庫存
// stock_quantity >= qty 才會扣，否則回傳 ErrInsufficientStock
// 併發下兩張訂單搶最後一本時，輸的一方會因條件不成立而失敗，不會扣成負數
func (s *BookRepo) ReserveStock(ctx context.Context, bookID string, qty int) error {
	res := s.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ? AND stock_quantity >= ?", bookID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 區分書不存在跟庫存不足
		if _, err := s.GetBookByID(ctx, bookID); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// ReleaseStock 歸還庫存，無上限檢查，歸還超過原扣減量屬呼叫端錯誤
func (s *BookRepo) ReleaseStock(ctx context.Context, bookID string, qty int) error {
	res := s.db.WithContext(ctx).Model(&model.Book{}).
		Where("book_id = ?", bookID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (s *BookRepo) GetBookStock(ctx context.Context, bookID string) (int, error) {
	book, err := s.GetBookByID(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return book.StockQuantity, nil
}
