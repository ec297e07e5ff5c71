package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrShopNotFound     = errors.New("shop not found")
	ErrFoodNotFound     = errors.New("food not found")
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrAccountNotStaff  = errors.New("account is not a manager staff")
	ErrDuplicateOption  = errors.New("food already has an option with this name")
	ErrDuplicateVoucher = errors.New("voucher code already exists")
	ErrAlreadyFavorite  = errors.New("shop is already a favorite")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

type Address struct {
	Street   string `json:"street" validate:"max=255"`
	Ward     string `json:"ward" validate:"max=100"`
	District string `json:"district" validate:"max=100"`
	City     string `json:"city" validate:"max=100"`
	Province string `json:"province" validate:"max=100"`
}

type Shop struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     Address    `json:"address"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	CoverURL    string     `json:"cover_url"`
	LogoURL     string     `json:"logo_url"`
	Type        ShopType   `json:"type"`
	Status      ShopStatus `json:"status"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"review_count"`
	ManagerIDs  []int64    `json:"manager_ids,omitempty"`
	DistanceKm  float64    `json:"distance_km,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ShopType string

const (
	ShopTypeFood  ShopType = "FOOD"
	ShopTypeDrink ShopType = "DRINK"
)

type Food struct {
	ID          int64        `json:"id"`
	ShopID      int64        `json:"shop_id"`
	Category    string       `json:"category"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	ImageURL    string       `json:"image_url"`
	Available   bool         `json:"available"`
	Options     []FoodOption `json:"options"`
	CreatedAt   time.Time    `json:"created_at"`
}

const (
	OptionSize    = "SIZE"
	OptionTopping = "TOPPING"
	OptionExtra   = "EXTRA"
	OptionSpicy   = "SPICY"
)

type FoodOption struct {
	ID     int64  `json:"id"`
	FoodID int64  `json:"food_id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
}

type Favorite struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	ShopID     int64     `json:"shop_id"`
	Shop       *Shop     `json:"shop,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// HomeQuery narrows the storefront listings. Only active shops are ever returned.
type HomeQuery struct {
	Lat       float64
	Lng       float64
	RadiusKm  float64
	Type      ShopType
	MinRating float64
	Text      string
	Limit     int
}

// NormalizeType accepts food/drink in any case; anything else clears the filter.
func NormalizeType(s string) ShopType {
	switch t := ShopType(strings.ToUpper(strings.TrimSpace(s))); t {
	case ShopTypeFood, ShopTypeDrink:
		return t
	}
	return ""
}

type ImageKind string

const (
	ImageCover ImageKind = "cover"
	ImageLogo  ImageKind = "logo"
)

var ErrUnknownImageKind = errors.New("image kind must be cover or logo")

func ParseImageKind(s string) (ImageKind, error) {
	switch kind := ImageKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case ImageCover, ImageLogo:
		return kind, nil
	}
	return "", ErrUnknownImageKind
}
