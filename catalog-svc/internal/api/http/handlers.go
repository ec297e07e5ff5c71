package httpapi

import (
	"errors"
	"net/http"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/storage"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Shops    service.ShopServiceInterface
	Menu     service.MenuServiceInterface
	Vouchers service.VoucherServiceInterface
	Reviews  service.ReviewServiceInterface
	Auth     *auth.Authenticator

	// UploadDir is served read-only under /uploads/. Empty disables it.
	UploadDir string
}

func NewHandler(shops service.ShopServiceInterface, menu service.MenuServiceInterface, vouchers service.VoucherServiceInterface,
	reviews service.ReviewServiceInterface, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		Shops:    shops,
		Menu:     menu,
		Vouchers: vouchers,
		Reviews:  reviews,
		Auth:     authenticator,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("catalog-svc")).Methods("GET")

	r.Handle("/shops", h.Auth.Guard(auth.PermManageShop, h.createShop)).Methods("POST")
	r.HandleFunc("/shops/{id}", h.getShop).Methods("GET")
	r.Handle("/shops/{id}", h.Auth.Guard(auth.PermManageShop, h.updateShop)).Methods("PUT")
	r.Handle("/shops/{id}/managers", h.Auth.Guard(auth.PermManageShop, h.addManager)).Methods("POST")
	r.Handle("/shops/{id}/image", h.Auth.Guard(auth.PermManageShop, h.uploadShopImage)).Methods("POST")
	r.HandleFunc("/shops/{id}/reviews", h.listReviews).Methods("GET")
	r.Handle("/shops/{id}/reviews", h.Auth.Guard(auth.PermWriteReview, h.createReview)).Methods("POST")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(h.Auth.Require(auth.PermApproveShops))
	admin.HandleFunc("/shops", h.adminListShops).Methods("GET")
	admin.HandleFunc("/shops/{id}/status", h.adminSetShopStatus).Methods("PATCH")

	r.HandleFunc("/food/all", h.listFoods).Methods("GET")
	r.Handle("/food/create-with-category", h.Auth.Guard(auth.PermManageMenu, h.createFood)).Methods("POST")
	r.Handle("/food/{id}", h.Auth.Guard(auth.PermManageMenu, h.updateFood)).Methods("PUT")
	r.Handle("/food/{id}", h.Auth.Guard(auth.PermManageMenu, h.deleteFood)).Methods("DELETE")
	r.Handle("/food/{id}/options", h.Auth.Guard(auth.PermManageMenu, h.addOption)).Methods("POST")

	r.Handle("/favorites", h.Auth.Guard(auth.PermPlaceOrder, h.listFavorites)).Methods("GET")
	r.Handle("/favorites/{shopId}", h.Auth.Guard(auth.PermPlaceOrder, h.addFavorite)).Methods("POST")
	r.Handle("/favorites/{shopId}", h.Auth.Guard(auth.PermPlaceOrder, h.removeFavorite)).Methods("DELETE")

	r.HandleFunc("/home/nearby", h.nearby).Methods("GET")
	r.HandleFunc("/home/popular", h.popular).Methods("GET")
	r.HandleFunc("/home/filter", h.filter).Methods("GET")
	r.HandleFunc("/home/search", h.search).Methods("GET")

	r.Handle("/voucher/create", h.Auth.Guard(auth.PermManageVouchers, h.createVoucher)).Methods("POST")
	r.Handle("/voucher", h.Auth.Guard(auth.PermManageVouchers, h.listVouchers)).Methods("GET")
	r.Handle("/voucher/{code}", h.Auth.Guard("", h.getVoucher)).Methods("GET")
	r.Handle("/voucher/{id}", h.Auth.Guard(auth.PermManageVouchers, h.updateVoucher)).Methods("PUT")
	r.Handle("/voucher/{id}/toggle", h.Auth.Guard(auth.PermManageVouchers, h.toggleVoucher)).Methods("PATCH")
	r.Handle("/voucher/{id}", h.Auth.Guard(auth.PermManageVouchers, h.deleteVoucher)).Methods("DELETE")

	if h.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir)))).Methods("GET")
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrShopNotFound), errors.Is(err, domain.ErrFoodNotFound),
		errors.Is(err, domain.ErrVoucherNotFound), errors.Is(err, domain.ErrFavoriteNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateOption), errors.Is(err, domain.ErrAlreadyFavorite),
		errors.Is(err, domain.ErrDuplicateVoucher), errors.Is(err, domain.ErrAlreadyReviewed),
		errors.Is(err, domain.ErrInvalidShopTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownShopStatus), errors.Is(err, domain.ErrUnknownImageKind),
		errors.Is(err, service.ErrUnsupportedImage), errors.Is(err, service.ErrShopRequired):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidVoucher), errors.Is(err, domain.ErrAccountNotStaff),
		errors.Is(err, service.ErrOrderNotDelivered):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		httpx.Error(w, status, "internal server error")
		return
	}
	httpx.Error(w, status, err.Error())
}

func sessionOf(r *http.Request) *auth.Session {
	session, _ := auth.FromContext(r.Context())
	return session
}

// pathID writes the 400 itself so callers can simply return on !ok.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := httpx.PathID(r, name)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
