package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"gorm.io/gorm"
)

var (
	// ErrPromotionNotFound 促銷活動不存在
	ErrPromotionNotFound = errors.New("promotion not found")
)

type PromotionRepo struct {
	db *DbDao
}

func NewPromotionRepo(db *DbDao) *PromotionRepo {
	return &PromotionRepo{db: db}
}

func (s *PromotionRepo) CreatePromotion(ctx context.Context, promotion *model.Promotion) error {
	return s.db.WithContext(ctx).Create(promotion).Error
}

func (s *PromotionRepo) GetPromotionByID(ctx context.Context, id uint) (*model.Promotion, error) {
	var promotion model.Promotion
	err := s.db.WithContext(ctx).First(&promotion, "promotion_id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	return &promotion, nil
}

func (s *PromotionRepo) GetAllPromotions(ctx context.Context) ([]model.Promotion, error) {
	var promotions []model.Promotion
	err := s.db.WithContext(ctx).Find(&promotions).Error
	return promotions, err
}

func (s *PromotionRepo) GetActivePromotions(ctx context.Context) ([]model.Promotion, error) {
	var promotions []model.Promotion
	err := s.db.WithContext(ctx).Where("active = ?", true).Find(&promotions).Error
	return promotions, err
}

func (s *PromotionRepo) UpdatePromotion(ctx context.Context, promotion *model.Promotion) error {
	return s.db.WithContext(ctx).Save(promotion).Error
}

// DeactivatePromotion 軟刪除
func (s *PromotionRepo) DeactivatePromotion(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&model.Promotion{}).
		Where("promotion_id = ?", id).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPromotionNotFound
	}
	return nil
}
