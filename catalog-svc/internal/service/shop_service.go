package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrForbidden        = errors.New("not allowed to act on this shop")
	ErrUnsupportedImage = errors.New("only JPEG, PNG, GIF and WebP images are accepted")
)

const (
	DefaultHomeLimit = 20
	MaxHomeLimit     = 50
	DefaultRadiusKm  = 5.0
	MaxRadiusKm      = 50.0
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type ShopRequest struct {
	Name        string         `json:"name" validate:"required,max=150"`
	Description string         `json:"description" validate:"max=2000"`
	Address     domain.Address `json:"address"`
	Lat         float64        `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64        `json:"lng" validate:"gte=-180,lte=180"`
	Type        string         `json:"type" validate:"omitempty,oneof=FOOD DRINK food drink"`
}

type ShopService struct {
	repo   Repository
	images ImageStore
}

func NewShopService(repo Repository, images ImageStore) *ShopService {
	return &ShopService{repo: repo, images: images}
}

var _ ShopServiceInterface = (*ShopService)(nil)

// authorizeShop lets admins through and otherwise requires the caller to own
// or manage shopID. The shop recorded on the session is not consulted.
func authorizeShop(ctx context.Context, repo ShopRepository, session *auth.Session, shopID int64) error {
	if session.Role == auth.RoleAdmin {
		return nil
	}
	if !session.Role.IsShopStaff() {
		return ErrForbidden
	}
	ok, err := repo.ManagesShop(ctx, session.AccountID, shopID)
	if err != nil {
		return fmt.Errorf("check shop access: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

func (s *ShopService) ownedShop(ctx context.Context, session *auth.Session, id int64) (*domain.Shop, error) {
	shop, err := s.repo.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != session.AccountID {
		return nil, ErrForbidden
	}
	return shop, nil
}

func applyShopRequest(shop *domain.Shop, req ShopRequest) {
	shop.Name = strings.TrimSpace(req.Name)
	shop.Description = req.Description
	shop.Address = req.Address
	shop.Lat = req.Lat
	shop.Lng = req.Lng
	shop.Type = domain.NormalizeType(req.Type)
	if shop.Type == "" {
		shop.Type = domain.ShopTypeFood
	}
}

func (s *ShopService) Create(ctx context.Context, session *auth.Session, req ShopRequest) (*domain.Shop, error) {
	shop := &domain.Shop{OwnerID: session.AccountID, Status: domain.ShopPendingApproval}
	applyShopRequest(shop, req)
	if err := s.repo.CreateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}
	log.Info().Int64("shop_id", shop.ID).Int64("owner_id", shop.OwnerID).Msg("shop registered, awaiting approval")
	return shop, nil
}

func (s *ShopService) Get(ctx context.Context, id int64) (*domain.Shop, error) {
	return s.repo.GetShop(ctx, id)
}

func (s *ShopService) Update(ctx context.Context, session *auth.Session, id int64, req ShopRequest) (*domain.Shop, error) {
	shop, err := s.ownedShop(ctx, session, id)
	if err != nil {
		return nil, err
	}
	applyShopRequest(shop, req)
	if err := s.repo.UpdateShop(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop %d: %w", id, err)
	}
	return shop, nil
}

func (s *ShopService) AddManager(ctx context.Context, session *auth.Session, shopID, accountID int64) error {
	if _, err := s.ownedShop(ctx, session, shopID); err != nil {
		return err
	}
	return s.repo.AddManager(ctx, shopID, accountID)
}

// UploadImage stores the picture and points the shop's cover or logo at it.
func (s *ShopService) UploadImage(ctx context.Context, session *auth.Session, shopID int64, kind domain.ImageKind, contentType string, content io.Reader) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedImage
	}
	if _, err := s.ownedShop(ctx, session, shopID); err != nil {
		return "", err
	}

	name := fmt.Sprintf("shop_%d_%s_%s%s", shopID, kind, uuid.NewString(), ext)
	url, err := s.images.Save(ctx, name, content)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	if err := s.repo.SetShopImage(ctx, shopID, kind, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ShopService) AdminList(ctx context.Context, status string, limit, offset int) ([]domain.Shop, error) {
	var filter domain.ShopStatus
	if status != "" {
		var err error
		if filter, err = domain.ParseShopStatus(status); err != nil {
			return nil, err
		}
	}
	return s.repo.ListShops(ctx, filter, limit, offset)
}

func (s *ShopService) AdminSetStatus(ctx context.Context, id int64, status string) (*domain.Shop, error) {
	target, err := domain.ParseShopStatus(status)
	if err != nil {
		return nil, err
	}
	shop, err := s.repo.GetShop(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := shop.Status.CanBecome(target); err != nil {
		return nil, err
	}
	if err := s.repo.SetShopStatus(ctx, id, shop.Status, target); err != nil {
		return nil, err
	}
	log.Info().Int64("shop_id", id).Str("from", string(shop.Status)).Str("to", string(target)).Msg("shop status changed")
	shop.Status = target
	return shop, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHomeLimit
	}
	if limit > MaxHomeLimit {
		return MaxHomeLimit
	}
	return limit
}

func (s *ShopService) Nearby(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	query.Limit = clampLimit(query.Limit)
	if query.RadiusKm <= 0 {
		query.RadiusKm = DefaultRadiusKm
	}
	if query.RadiusKm > MaxRadiusKm {
		query.RadiusKm = MaxRadiusKm
	}
	return s.repo.NearbyShops(ctx, query)
}

func (s *ShopService) Popular(ctx context.Context, limit int) ([]domain.Shop, error) {
	return s.repo.PopularShops(ctx, clampLimit(limit))
}

func (s *ShopService) Filter(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	query.Limit = clampLimit(query.Limit)
	if query.MinRating < 0 {
		query.MinRating = 0
	}
	return s.repo.FilterShops(ctx, query)
}

func (s *ShopService) Search(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error) {
	query.Text = strings.TrimSpace(query.Text)
	if query.Text == "" {
		return []domain.Shop{}, nil
	}
	query.Limit = clampLimit(query.Limit)
	return s.repo.SearchShops(ctx, query)
}

func (s *ShopService) AddFavorite(ctx context.Context, customerID, shopID int64) (*domain.Favorite, error) {
	if _, err := s.repo.GetShop(ctx, shopID); err != nil {
		return nil, err
	}
	return s.repo.AddFavorite(ctx, customerID, shopID)
}

func (s *ShopService) RemoveFavorite(ctx context.Context, customerID, shopID int64) error {
	return s.repo.RemoveFavorite(ctx, customerID, shopID)
}

func (s *ShopService) ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error) {
	return s.repo.ListFavorites(ctx, customerID)
}
