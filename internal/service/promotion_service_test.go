package service

import (
	"context"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type PromotionServiceTestSuite struct {
	suite.Suite
	*require.Assertions

	ctx        context.Context
	store      db.UnifiedDB
	promotions *PromotionService
}

func TestPromotionService(t *testing.T) {
	suite.Run(t, new(PromotionServiceTestSuite))
}

func (s *PromotionServiceTestSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.ctx = context.Background()
	s.store = newTestStore(s.T())
	s.promotions = NewPromotionService(s.store)
}

func (s *PromotionServiceTestSuite) create(content string, percentage int, start, end time.Time) *model.Promotion {
	promotion, err := s.promotions.CreatePromotion(s.ctx, &model.Promotion{
		Content:    content,
		Percentage: percentage,
		StartDate:  start,
		EndDate:    end,
	})
	s.NoError(err)
	return promotion
}

func (s *PromotionServiceTestSuite) TestCreatePromotionValidation() {
	now := time.Now().UTC()

	_, err := s.promotions.CreatePromotion(s.ctx, &model.Promotion{
		Content:    "零折扣",
		Percentage: 0,
		StartDate:  now,
		EndDate:    now,
	})
	s.ErrorIs(err, ErrInvalidPercentage)

	_, err = s.promotions.CreatePromotion(s.ctx, &model.Promotion{
		Content:    "超過一百",
		Percentage: 101,
		StartDate:  now,
		EndDate:    now,
	})
	s.ErrorIs(err, ErrInvalidPercentage)

	_, err = s.promotions.CreatePromotion(s.ctx, &model.Promotion{
		Content:    "起訖顛倒",
		Percentage: 10,
		StartDate:  now.Add(24 * time.Hour),
		EndDate:    now,
	})
	s.ErrorIs(err, ErrInvalidDateRange)
}

func (s *PromotionServiceTestSuite) TestGetCurrentPromotions() {
	now := time.Now().UTC()

	current := s.create("本週特賣", 20, now.Add(-48*time.Hour), now.Add(48*time.Hour))
	s.create("上個月檔期", 30, now.Add(-60*24*time.Hour), now.Add(-30*24*time.Hour))
	removed := s.create("已下架", 10, now.Add(-48*time.Hour), now.Add(48*time.Hour))
	s.NoError(s.promotions.DeletePromotion(s.ctx, removed.PromotionID))

	result, err := s.promotions.GetCurrentPromotions(s.ctx)
	s.NoError(err)
	s.Len(result, 1)
	s.Equal(current.PromotionID, result[0].PromotionID)
}

func (s *PromotionServiceTestSuite) TestUpdatePromotion() {
	now := time.Now().UTC()
	promotion := s.create("改我", 20, now, now.Add(24*time.Hour))

	promotion.Percentage = 50
	s.NoError(s.promotions.UpdatePromotion(s.ctx, promotion))

	got, err := s.promotions.GetPromotion(s.ctx, promotion.PromotionID)
	s.NoError(err)
	s.Equal(50, got.Percentage)

	promotion.PromotionID = 99999
	s.ErrorIs(s.promotions.UpdatePromotion(s.ctx, promotion), db.ErrPromotionNotFound)
}

func (s *PromotionServiceTestSuite) TestDeletePromotion() {
	now := time.Now().UTC()
	promotion := s.create("刪我", 20, now, now.Add(24*time.Hour))

	s.NoError(s.promotions.DeletePromotion(s.ctx, promotion.PromotionID))

	// 軟刪除，查得到但 active=false
	got, err := s.promotions.GetPromotion(s.ctx, promotion.PromotionID)
	s.NoError(err)
	s.False(got.Active)

	s.ErrorIs(s.promotions.DeletePromotion(s.ctx, 99999), db.ErrPromotionNotFound)
}
