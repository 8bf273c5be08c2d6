package service

import (
	"context"
	"errors"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

var (
	ErrInvalidPercentage = errors.New("percentage must be between 1 and 100")
	ErrInvalidDateRange  = errors.New("start date must not be after end date")
)

type IPromotionService interface {
	CreatePromotion(ctx context.Context, promotion *model.Promotion) (*model.Promotion, error)
	GetPromotion(ctx context.Context, id uint) (*model.Promotion, error)
	GetAllPromotions(ctx context.Context) ([]model.Promotion, error)
	GetCurrentPromotions(ctx context.Context) ([]model.Promotion, error)
	UpdatePromotion(ctx context.Context, promotion *model.Promotion) error
	DeletePromotion(ctx context.Context, id uint) error
}

type PromotionService struct {
	store db.UnifiedDB
}

func NewPromotionService(store db.UnifiedDB) *PromotionService {
	return &PromotionService{store: store}
}

func (p *PromotionService) CreatePromotion(ctx context.Context, promotion *model.Promotion) (*model.Promotion, error) {
	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}
	promotion.Active = true
	if err := p.store.CreatePromotion(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

func (p *PromotionService) GetPromotion(ctx context.Context, id uint) (*model.Promotion, error) {
	return p.store.GetPromotionByID(ctx, id)
}

func (p *PromotionService) GetAllPromotions(ctx context.Context) ([]model.Promotion, error) {
	return p.store.GetAllPromotions(ctx)
}

// GetCurrentPromotions 取今天仍在檔期內的促銷
func (p *PromotionService) GetCurrentPromotions(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := p.store.GetActivePromotions(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	current := promotions[:0]
	for _, promotion := range promotions {
		if promotion.IsCurrent(now) {
			current = append(current, promotion)
		}
	}
	return current, nil
}

func (p *PromotionService) UpdatePromotion(ctx context.Context, promotion *model.Promotion) error {
	if err := validatePromotion(promotion); err != nil {
		return err
	}
	if _, err := p.store.GetPromotionByID(ctx, promotion.PromotionID); err != nil {
		return err
	}
	return p.store.UpdatePromotion(ctx, promotion)
}

// DeletePromotion 軟刪除
func (p *PromotionService) DeletePromotion(ctx context.Context, id uint) error {
	return p.store.DeactivatePromotion(ctx, id)
}

func validatePromotion(promotion *model.Promotion) error {
	if promotion.Percentage < 1 || promotion.Percentage > 100 {
		return ErrInvalidPercentage
	}
	if promotion.StartDate.After(promotion.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

var _ IPromotionService = (*PromotionService)(nil)
