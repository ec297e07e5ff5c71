package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
)

type OptionRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=SIZE TOPPING EXTRA SPICY"`
	Name  string `json:"name" validate:"required,max=100"`
	Price int64  `json:"price" validate:"gte=0"`
}

type FoodRequest struct {
	ShopID      int64           `json:"shop_id" validate:"required,gt=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	Name        string          `json:"name" validate:"required,max=150"`
	Description string          `json:"description" validate:"max=2000"`
	Price       int64           `json:"price" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,max=500"`
	Available   *bool           `json:"available"`
	Options     []OptionRequest `json:"options" validate:"dive"`
}

type MenuService struct {
	repo Repository
}

func NewMenuService(repo Repository) *MenuService {
	return &MenuService{repo: repo}
}

var _ MenuServiceInterface = (*MenuService)(nil)

func (s *MenuService) List(ctx context.Context, shopID int64) ([]domain.Food, error) {
	return s.repo.ListFoods(ctx, shopID)
}

// CreateWithCategory creates a food under the given category along with its
// initial options. Option names must be unique within the food.
func (s *MenuService) CreateWithCategory(ctx context.Context, session *auth.Session, req FoodRequest) (*domain.Food, error) {
	if err := authorizeShop(ctx, s.repo, session, req.ShopID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Options))
	food := &domain.Food{ShopID: req.ShopID, Available: true, Options: []domain.FoodOption{}}
	applyFoodRequest(food, req)
	for _, opt := range req.Options {
		name := strings.TrimSpace(opt.Name)
		if seen[strings.ToLower(name)] {
			return nil, domain.ErrDuplicateOption
		}
		seen[strings.ToLower(name)] = true
		food.Options = append(food.Options, domain.FoodOption{Kind: opt.Kind, Name: name, Price: opt.Price})
	}

	if err := s.repo.CreateFood(ctx, food); err != nil {
		return nil, err
	}
	return food, nil
}

func applyFoodRequest(food *domain.Food, req FoodRequest) {
	food.Category = strings.TrimSpace(req.Category)
	food.Name = strings.TrimSpace(req.Name)
	food.Description = req.Description
	food.Price = req.Price
	food.ImageURL = req.ImageURL
	if req.Available != nil {
		food.Available = *req.Available
	}
}

func (s *MenuService) managedFood(ctx context.Context, session *auth.Session, id int64) (*domain.Food, error) {
	food, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeShop(ctx, s.repo, session, food.ShopID); err != nil {
		return nil, err
	}
	return food, nil
}

// Update edits the food's own fields. The owning shop never changes and
// options are managed through AddOption.
func (s *MenuService) Update(ctx context.Context, session *auth.Session, id int64, req FoodRequest) (*domain.Food, error) {
	food, err := s.managedFood(ctx, session, id)
	if err != nil {
		return nil, err
	}
	applyFoodRequest(food, req)
	if err := s.repo.UpdateFood(ctx, food); err != nil {
		return nil, fmt.Errorf("update food %d: %w", id, err)
	}
	return food, nil
}

func (s *MenuService) Delete(ctx context.Context, session *auth.Session, id int64) error {
	if _, err := s.managedFood(ctx, session, id); err != nil {
		return err
	}
	return s.repo.DeleteFood(ctx, id)
}

func (s *MenuService) AddOption(ctx context.Context, session *auth.Session, foodID int64, req OptionRequest) (*domain.FoodOption, error) {
	if _, err := s.managedFood(ctx, session, foodID); err != nil {
		return nil, err
	}
	option := &domain.FoodOption{FoodID: foodID, Kind: req.Kind, Name: strings.TrimSpace(req.Name), Price: req.Price}
	if err := s.repo.AddOption(ctx, option); err != nil {
		return nil, err
	}
	return option, nil
}
