package service

import (
	"context"
	"errors"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"

	"github.com/rs/zerolog/log"
)

var ErrShopRequired = errors.New("shop_id is required")

type VoucherRequest struct {
	Code          string    `json:"code" validate:"required,max=64"`
	ShopID        int64     `json:"shop_id" validate:"gte=0"`
	Type          string    `json:"type" validate:"required"`
	Value         int64     `json:"value"`
	MaxDiscount   int64     `json:"max_discount"`
	MinOrderValue int64     `json:"min_order_value"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	EndsAt        time.Time `json:"ends_at" validate:"required"`
	UsageLimit    int       `json:"usage_limit"`
	Active        *bool     `json:"active"`
}

type VoucherService struct {
	repo Repository
}

func NewVoucherService(repo Repository) *VoucherService {
	return &VoucherService{repo: repo}
}

var _ VoucherServiceInterface = (*VoucherService)(nil)

// authorizeVoucherShop checks who may manage vouchers of shopID. Platform
// vouchers (shop 0) belong to admins.
func (s *VoucherService) authorizeVoucherShop(ctx context.Context, session *auth.Session, shopID int64) error {
	if session.Role == auth.RoleAdmin {
		return nil
	}
	if shopID == 0 {
		return ErrShopRequired
	}
	return authorizeShop(ctx, s.repo, session, shopID)
}

func applyVoucherRequest(voucher *domain.Voucher, req VoucherRequest) error {
	voucher.Code = req.Code
	voucher.Type = req.Type
	voucher.Value = req.Value
	voucher.MaxDiscount = req.MaxDiscount
	voucher.MinOrderValue = req.MinOrderValue
	voucher.StartsAt = req.StartsAt
	voucher.EndsAt = req.EndsAt
	voucher.UsageLimit = req.UsageLimit
	if req.Active != nil {
		voucher.Active = *req.Active
	}
	voucher.Normalize()
	return voucher.Validate()
}

func (s *VoucherService) Create(ctx context.Context, session *auth.Session, req VoucherRequest) (*domain.Voucher, error) {
	voucher := &domain.Voucher{ShopID: req.ShopID, Active: true}
	if err := applyVoucherRequest(voucher, req); err != nil {
		return nil, err
	}
	if err := s.authorizeVoucherShop(ctx, session, voucher.ShopID); err != nil {
		return nil, err
	}
	if err := s.repo.CreateVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	log.Info().Str("code", voucher.Code).Int64("shop_id", voucher.ShopID).Int64("account_id", session.AccountID).Msg("voucher created")
	return voucher, nil
}

func (s *VoucherService) List(ctx context.Context, session *auth.Session, shopID int64, limit, offset int) ([]domain.Voucher, error) {
	if err := s.authorizeVoucherShop(ctx, session, shopID); err != nil {
		return nil, err
	}
	return s.repo.ListVouchers(ctx, shopID, limit, offset)
}

func (s *VoucherService) GetByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	v := domain.Voucher{Code: code}
	v.Normalize()
	if v.Code == "" {
		return nil, domain.ErrVoucherNotFound
	}
	return s.repo.VoucherByCode(ctx, v.Code)
}

func (s *VoucherService) managedVoucher(ctx context.Context, session *auth.Session, id int64) (*domain.Voucher, error) {
	voucher, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeVoucherShop(ctx, session, voucher.ShopID); err != nil {
		if errors.Is(err, ErrShopRequired) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return voucher, nil
}

// Update rewrites the voucher terms. The owning shop and used count are kept.
func (s *VoucherService) Update(ctx context.Context, session *auth.Session, id int64, req VoucherRequest) (*domain.Voucher, error) {
	voucher, err := s.managedVoucher(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := applyVoucherRequest(voucher, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *VoucherService) Toggle(ctx context.Context, session *auth.Session, id int64) (*domain.Voucher, error) {
	if _, err := s.managedVoucher(ctx, session, id); err != nil {
		return nil, err
	}
	return s.repo.ToggleVoucher(ctx, id)
}

func (s *VoucherService) Delete(ctx context.Context, session *auth.Session, id int64) error {
	if _, err := s.managedVoucher(ctx, session, id); err != nil {
		return err
	}
	return s.repo.DeleteVoucher(ctx, id)
}
