package service

import (
	"context"
	"io"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/events"
)

type ShopRepository interface {
	CreateShop(ctx context.Context, shop *domain.Shop) error
	GetShop(ctx context.Context, id int64) (*domain.Shop, error)
	UpdateShop(ctx context.Context, shop *domain.Shop) error
	SetShopImage(ctx context.Context, id int64, kind domain.ImageKind, url string) error
	// SetShopStatus only applies when the shop is still in from.
	SetShopStatus(ctx context.Context, id int64, from, to domain.ShopStatus) error
	ListShops(ctx context.Context, status domain.ShopStatus, limit, offset int) ([]domain.Shop, error)
	AddManager(ctx context.Context, shopID, accountID int64) error
	ManagesShop(ctx context.Context, accountID, shopID int64) (bool, error)

	NearbyShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)
	PopularShops(ctx context.Context, limit int) ([]domain.Shop, error)
	FilterShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)
	SearchShops(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)
}

type FoodRepository interface {
	ListFoods(ctx context.Context, shopID int64) ([]domain.Food, error)
	GetFood(ctx context.Context, id int64) (*domain.Food, error)
	CreateFood(ctx context.Context, food *domain.Food) error
	UpdateFood(ctx context.Context, food *domain.Food) error
	DeleteFood(ctx context.Context, id int64) error
	// AddOption returns domain.ErrDuplicateOption when the food already has
	// an option with the same name.
	AddOption(ctx context.Context, option *domain.FoodOption) error
}

type FavoriteRepository interface {
	// AddFavorite returns domain.ErrAlreadyFavorite for a repeated pair.
	AddFavorite(ctx context.Context, customerID, shopID int64) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, customerID, shopID int64) error
	ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error)
}

type VoucherRepository interface {
	CreateVoucher(ctx context.Context, voucher *domain.Voucher) error
	ListVouchers(ctx context.Context, shopID int64, limit, offset int) ([]domain.Voucher, error)
	GetVoucher(ctx context.Context, id int64) (*domain.Voucher, error)
	VoucherByCode(ctx context.Context, code string) (*domain.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher *domain.Voucher) error
	ToggleVoucher(ctx context.Context, id int64) (*domain.Voucher, error)
	DeleteVoucher(ctx context.Context, id int64) error
}

type ReviewRepository interface {
	HasDeliveredOrder(ctx context.Context, orderID, customerID, shopID int64) (bool, error)
	// InsertReview returns domain.ErrAlreadyReviewed when the order was reviewed before.
	InsertReview(ctx context.Context, review *domain.Review) error
	ListShopReviews(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error)
}

type Repository interface {
	ShopRepository
	FoodRepository
	FavoriteRepository
	VoucherRepository
	ReviewRepository
}

type ReviewCache interface {
	ReviewMarkerKey(orderID, customerID int64) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type ReviewPublisher interface {
	PublishReview(ctx context.Context, event events.ReviewEvent) error
}

type ImageStore interface {
	Save(ctx context.Context, name string, content io.Reader) (url string, err error)
}

type ShopServiceInterface interface {
	Create(ctx context.Context, session *auth.Session, req ShopRequest) (*domain.Shop, error)
	Get(ctx context.Context, id int64) (*domain.Shop, error)
	Update(ctx context.Context, session *auth.Session, id int64, req ShopRequest) (*domain.Shop, error)
	AddManager(ctx context.Context, session *auth.Session, shopID, accountID int64) error
	UploadImage(ctx context.Context, session *auth.Session, shopID int64, kind domain.ImageKind, contentType string, content io.Reader) (string, error)

	AdminList(ctx context.Context, status string, limit, offset int) ([]domain.Shop, error)
	AdminSetStatus(ctx context.Context, id int64, status string) (*domain.Shop, error)

	Nearby(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)
	Popular(ctx context.Context, limit int) ([]domain.Shop, error)
	Filter(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)
	Search(ctx context.Context, query domain.HomeQuery) ([]domain.Shop, error)

	AddFavorite(ctx context.Context, customerID, shopID int64) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, customerID, shopID int64) error
	ListFavorites(ctx context.Context, customerID int64) ([]domain.Favorite, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context, shopID int64) ([]domain.Food, error)
	CreateWithCategory(ctx context.Context, session *auth.Session, req FoodRequest) (*domain.Food, error)
	Update(ctx context.Context, session *auth.Session, id int64, req FoodRequest) (*domain.Food, error)
	Delete(ctx context.Context, session *auth.Session, id int64) error
	AddOption(ctx context.Context, session *auth.Session, foodID int64, req OptionRequest) (*domain.FoodOption, error)
}

type VoucherServiceInterface interface {
	Create(ctx context.Context, session *auth.Session, req VoucherRequest) (*domain.Voucher, error)
	List(ctx context.Context, session *auth.Session, shopID int64, limit, offset int) ([]domain.Voucher, error)
	GetByCode(ctx context.Context, code string) (*domain.Voucher, error)
	Update(ctx context.Context, session *auth.Session, id int64, req VoucherRequest) (*domain.Voucher, error)
	Toggle(ctx context.Context, session *auth.Session, id int64) (*domain.Voucher, error)
	Delete(ctx context.Context, session *auth.Session, id int64) error
}

type ReviewServiceInterface interface {
	Create(ctx context.Context, customerID, shopID int64, req ReviewRequest) (*domain.Review, error)
	ListShopReviews(ctx context.Context, shopID int64, limit, offset int) ([]domain.Review, error)
}
