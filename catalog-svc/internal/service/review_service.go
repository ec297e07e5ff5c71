package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/events"

	"github.com/rs/zerolog/log"
)

var ErrOrderNotDelivered = errors.New("only a delivered order from this shop can be reviewed")

type ReviewRequest struct {
	OrderID int64  `json:"order_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ReviewService struct {
	repository ReviewRepository
	cache      ReviewCache
	publisher  ReviewPublisher
	now        func() time.Time
}

func NewReviewService(repository ReviewRepository, cache ReviewCache, publisher ReviewPublisher) *ReviewService {
	return &ReviewService{
		repository: repository,
		cache:      cache,
		publisher:  publisher,
		now:        time.Now,
	}
}

var _ ReviewServiceInterface = (*ReviewService)(nil)

func (s *ReviewService) Create(ctx context.Context, customerID, shopID int64, req ReviewRequest) (*domain.Review, error) {
	delivered, err := s.repository.HasDeliveredOrder(ctx, req.OrderID, customerID, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate order: %w", err)
	}
	if !delivered {
		return nil, ErrOrderNotDelivered
	}

	cacheKey := s.cache.ReviewMarkerKey(req.OrderID, customerID)
	if exists, _ := s.cache.Exists(ctx, cacheKey); exists {
		return nil, domain.ErrAlreadyReviewed
	}

	review := &domain.Review{
		ShopID:     shopID,
		OrderID:    req.OrderID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	err = s.repository.InsertReview(ctx, review)
	if err != nil && !errors.Is(err, domain.ErrAlreadyReviewed) {
		return nil, err
	}

	// Mark duplicates the database caught too, so the retry stops at the cache.
	_ = s.cache.SetMarker(ctx, cacheKey)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := events.ReviewEvent{
			Type:       events.TypeShopReview,
			ShopID:     shopID,
			OrderID:    review.OrderID,
			CustomerID: customerID,
			Rating:     review.Rating,
			Timestamp:  s.now(),
		}
		if err := s.publisher.PublishReview(ctx, event); err != nil {
			log.Error().Err(err).Int64("shop_id", shopID).Int64("order_id", review.OrderID).Msg("failed to publish review event")
		}
	}

	return review, nil
}

func (s *ReviewService) ListShopReviews(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error) {
	return s.repository.ListShopReviews(ctx, shopID, limit, offset)
}
