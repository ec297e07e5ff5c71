package service

import (
	"context"
	"errors"

	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
)

type AddToCartRequest struct {
	FoodID    int64   `json:"food_id" validate:"required,gt=0"`
	OptionIDs []int64 `json:"option_ids"`
	Quantity  int     `json:"quantity" validate:"required,gte=1,lte=99"`
}

type CartService struct {
	store   CartStore
	catalog CatalogReader
}

func NewCartService(store CartStore, catalog CatalogReader) *CartService {
	return &CartService{store: store, catalog: catalog}
}

func (s *CartService) View(ctx context.Context, customerID int64) (domain.Cart, error) {
	items, err := s.store.Items(ctx, customerID)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.NewCart(items), nil
}

// Add prices the line from the catalog and merges it into an existing line
// with the same food and options.
func (s *CartService) Add(ctx context.Context, customerID int64, req AddToCartRequest) (domain.Cart, error) {
	foods, err := s.catalog.Foods(ctx, []int64{req.FoodID})
	if err != nil {
		return domain.Cart{}, err
	}
	food, ok := foods[req.FoodID]
	if !ok {
		return domain.Cart{}, domain.ErrFoodUnavailable
	}

	key := domain.CartKey(req.FoodID, req.OptionIDs)
	quantity := req.Quantity
	existing, err := s.store.Item(ctx, customerID, key)
	switch {
	case err == nil:
		quantity += existing.Quantity
	case !errors.Is(err, domain.ErrCartItemNotFound):
		return domain.Cart{}, err
	}

	line, err := domain.PriceLine(food, req.OptionIDs, quantity)
	if err != nil {
		return domain.Cart{}, err
	}

	item := domain.CartItem{
		Key:       key,
		ShopID:    food.ShopID,
		FoodID:    food.ID,
		FoodName:  food.Name,
		Options:   line.Options,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
	}
	if err := s.store.Put(ctx, customerID, item); err != nil {
		return domain.Cart{}, err
	}
	return s.View(ctx, customerID)
}

// SetQuantity overwrites the quantity of a line; zero removes it.
func (s *CartService) SetQuantity(ctx context.Context, customerID int64, key string, quantity int) (domain.Cart, error) {
	if quantity == 0 {
		return s.Remove(ctx, customerID, key)
	}
	if quantity < 0 || quantity > domain.MaxQuantity {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	item, err := s.store.Item(ctx, customerID, key)
	if err != nil {
		return domain.Cart{}, err
	}
	item.Quantity = quantity
	if err := s.store.Put(ctx, customerID, *item); err != nil {
		return domain.Cart{}, err
	}
	return s.View(ctx, customerID)
}

func (s *CartService) Remove(ctx context.Context, customerID int64, key string) (domain.Cart, error) {
	if _, err := s.store.Item(ctx, customerID, key); err != nil {
		return domain.Cart{}, err
	}
	if err := s.store.Remove(ctx, customerID, key); err != nil {
		return domain.Cart{}, err
	}
	return s.View(ctx, customerID)
}

func (s *CartService) Clear(ctx context.Context, customerID int64) error {
	return s.store.Clear(ctx, customerID)
}
