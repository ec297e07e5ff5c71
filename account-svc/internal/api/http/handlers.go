package httpapi

import (
	"errors"
	"net/http"

	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/account-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Accounts service.AccountServiceInterface
	Auth     *auth.Authenticator
}

func NewHandler(accounts service.AccountServiceInterface, authenticator *auth.Authenticator) *Handler {
	return &Handler{Accounts: accounts, Auth: authenticator}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("account-svc")).Methods("GET")

	r.HandleFunc("/auth/register", h.register).Methods("POST")
	r.HandleFunc("/auth/login", h.login).Methods("POST")
	r.Handle("/auth/logout", h.Auth.Guard("", h.logout)).Methods("POST")
	r.Handle("/auth/profile", h.Auth.Guard("", h.profile)).Methods("GET")
	r.Handle("/auth/profile", h.Auth.Guard("", h.updateProfile)).Methods("PATCH")
	r.Handle("/auth/addresses", h.Auth.Guard("", h.addresses)).Methods("GET")
	r.Handle("/auth/addresses", h.Auth.Guard("", h.addAddress)).Methods("POST")

	admin := r.PathPrefix("/admin/accounts").Subrouter()
	admin.Use(h.Auth.Require(auth.PermManageAccounts))
	admin.HandleFunc("", h.adminList).Methods("GET")
	admin.HandleFunc("/{id}/role", h.adminSetRole).Methods("PATCH")
	admin.HandleFunc("/{id}/status", h.adminSetStatus).Methods("PATCH")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, service.ErrSelfModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrUnknownRole), errors.Is(err, domain.ErrUnknownAccountStatus),
		errors.Is(err, service.ErrRoleNotAllowed), errors.Is(err, service.ErrShopRequired):
		return http.StatusBadRequest
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

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, account)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.Accounts.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), sessionOf(r).Token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	account, err := h.Accounts.Profile(r.Context(), sessionOf(r).AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.Accounts.UpdateProfile(r.Context(), sessionOf(r).AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) addresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Accounts.Addresses(r.Context(), sessionOf(r).AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, addresses)
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var req service.AddressRequest
	if !decode(w, r, &req) {
		return
	}
	address, err := h.Accounts.AddAddress(r.Context(), sessionOf(r).AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, address)
}

func (h *Handler) adminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Page(r, 50, 200)
	accounts, err := h.Accounts.AdminList(r.Context(), r.URL.Query().Get("role"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, accounts)
}

func (h *Handler) adminSetRole(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req service.RoleRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.Accounts.AdminSetRole(r.Context(), sessionOf(r), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}

func (h *Handler) adminSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	account, err := h.Accounts.AdminSetStatus(r.Context(), sessionOf(r), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, account)
}
