package db

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error

	// Transaction 在單一DB事務內執行fn，fn拿到的是綁定該事務的store
	// fn回傳error則整個事務回滾
	Transaction(ctx context.Context, fn func(store UnifiedDB) error) error

	IBookRepository
	ICartRepository
	IOrderRepository
	IPaymentRepository
	IUserRepository
	IPromotionRepository
}

// IBookRepository Book 相關操作介面，含庫存帳本
type IBookRepository interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, bookID string) (*model.Book, error)
	GetBooksByIDs(ctx context.Context, bookIDs []string) ([]model.Book, error)
	GetAllActiveBooks(ctx context.Context) ([]model.Book, error)
	GetBooksInStock(ctx context.Context) ([]model.Book, error)
	UpdateBook(ctx context.Context, book *model.Book) error
	DeactivateBook(ctx context.Context, bookID string) error
	ReserveStock(ctx context.Context, bookID string, qty int) error
	ReleaseStock(ctx context.Context, bookID string, qty int) error
	GetBookStock(ctx context.Context, bookID string) (int, error)
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	CreateCart(ctx context.Context, cart *model.Cart) error
	GetActiveCartByUserID(ctx context.Context, userID int) (*model.Cart, error)
	GetCartItem(ctx context.Context, cartID uint, bookID string) (*model.CartItem, error)
	AddCartItem(ctx context.Context, item *model.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) error
	DeleteCartItem(ctx context.Context, cartItemID uint) error
	DrainCartItems(ctx context.Context, cartID uint) ([]model.CartItem, error)
	GetForeignActiveCartItems(ctx context.Context, excludeCartID uint, bookIDs []string) ([]model.CartItem, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID int) ([]model.Order, error)
	GetAllActiveOrders(ctx context.Context) ([]model.Order, error)
	GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order *model.Order) error
	UpdateOrderGuarded(ctx context.Context, orderID string, version int, updates map[string]interface{}) error
	DeactivateOrder(ctx context.Context, orderID string) error
	CountOrders(ctx context.Context) (int64, error)
}

// IPaymentRepository Payment 相關操作介面
type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
	GetPaymentByID(ctx context.Context, paymentID string) (*model.Payment, error)
	GetPaymentByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)
	UpdatePayment(ctx context.Context, payment *model.Payment) error
	GetAllPayments(ctx context.Context) ([]model.Payment, error)
	GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]model.Payment, error)
	GetPaymentsByUserID(ctx context.Context, userID int) ([]model.Payment, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

// IPromotionRepository Promotion 相關操作介面
type IPromotionRepository interface {
	CreatePromotion(ctx context.Context, promotion *model.Promotion) error
	GetPromotionByID(ctx context.Context, id uint) (*model.Promotion, error)
	GetAllPromotions(ctx context.Context) ([]model.Promotion, error)
	GetActivePromotions(ctx context.Context) ([]model.Promotion, error)
	UpdatePromotion(ctx context.Context, promotion *model.Promotion) error
	DeactivatePromotion(ctx context.Context, id uint) error
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*BookRepo
	*CartRepo
	*OrderRepo
	*PaymentRepo
	*UserRepo
	*PromotionRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:            db,
		dbDao:         dbDao,
		BookRepo:      NewBookRepo(dbDao),
		CartRepo:      NewCartRepo(dbDao),
		OrderRepo:     NewOrderRepo(dbDao),
		PaymentRepo:   NewPaymentRepo(dbDao),
		UserRepo:      NewUserRepo(dbDao),
		PromotionRepo: NewPromotionRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

func (u *UnifiedDBImpl) Transaction(ctx context.Context, fn func(store UnifiedDB) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

var (
	_ UnifiedDB            = (*UnifiedDBImpl)(nil)
	_ IBookRepository      = (*UnifiedDBImpl)(nil)
	_ ICartRepository      = (*UnifiedDBImpl)(nil)
	_ IOrderRepository     = (*UnifiedDBImpl)(nil)
	_ IPaymentRepository   = (*UnifiedDBImpl)(nil)
	_ IUserRepository      = (*UnifiedDBImpl)(nil)
	_ IPromotionRepository = (*UnifiedDBImpl)(nil)
)
