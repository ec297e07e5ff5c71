package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/httpx"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/order-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

const maxCallbackBody = 1 << 20

type Handler struct {
	Orders service.OrderServiceInterface
	Carts  service.CartServiceInterface
	Stream service.OrderStream
	Auth   *auth.Authenticator

	// PaymentSecret signs gateway callbacks. Empty rejects every callback.
	PaymentSecret []byte
	Heartbeat     time.Duration
}

func NewHandler(orders service.OrderServiceInterface, carts service.CartServiceInterface, stream service.OrderStream, authenticator *auth.Authenticator) *Handler {
	return &Handler{
		Orders:    orders,
		Carts:     carts,
		Stream:    stream,
		Auth:      authenticator,
		Heartbeat: 15 * time.Second,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("order-svc")).Methods("GET")

	r.Handle("/orders", h.Auth.Guard(auth.PermPlaceOrder, h.createOrder)).Methods("POST")
	r.Handle("/orders", h.Auth.Guard(auth.PermPlaceOrder, h.listOrders)).Methods("GET")
	r.Handle("/orders/{id}", h.Auth.Guard("", h.getOrder)).Methods("GET")
	r.Handle("/orders/{id}/qrcode", h.Auth.Guard("", h.getOrderQRCode)).Methods("GET")
	r.Handle("/orders/{id}/cancel", h.Auth.Guard(auth.PermPlaceOrder, h.cancelOrder)).Methods("PATCH")
	r.HandleFunc("/payments/callback", h.paymentCallback).Methods("POST")

	r.Handle("/cart", h.Auth.Guard(auth.PermPlaceOrder, h.getCart)).Methods("GET")
	r.Handle("/cart", h.Auth.Guard(auth.PermPlaceOrder, h.clearCart)).Methods("DELETE")
	r.Handle("/cart/add", h.Auth.Guard(auth.PermPlaceOrder, h.addToCart)).Methods("POST")
	r.Handle("/cart/item/{key}", h.Auth.Guard(auth.PermPlaceOrder, h.updateCartItem)).Methods("PATCH")
	r.Handle("/cart/item/{key}", h.Auth.Guard(auth.PermPlaceOrder, h.removeCartItem)).Methods("DELETE")

	r.Handle("/ordersManage", h.Auth.Guard(auth.PermManageOrders, h.listShopOrders)).Methods("GET")
	r.Handle("/ordersManage/sse", h.Auth.Guard(auth.PermManageOrders, h.streamOrders)).Methods("GET")
	r.Handle("/ordersManage/{id}/accept", h.Auth.Guard(auth.PermManageOrders, h.acceptOrder)).Methods("PATCH")
	r.Handle("/ordersManage/{id}/status", h.Auth.Guard(auth.PermManageOrders, h.updateOrderStatus)).Methods("PATCH")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound), errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrVoucherNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrConcurrentUpdate),
		errors.Is(err, domain.ErrNotPaid), errors.Is(err, service.ErrIdempotencyInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownStatus), errors.Is(err, service.ErrShopRequired),
		errors.Is(err, service.ErrUnknownPayResult), errors.Is(err, domain.ErrUnknownPayment),
		errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrEmptyOrder), errors.Is(err, domain.ErrShopUnavailable),
		errors.Is(err, domain.ErrFoodUnavailable), errors.Is(err, domain.ErrFoodWrongShop),
		errors.Is(err, domain.ErrUnknownOption), errors.Is(err, domain.ErrMissingCoordinate),
		errors.Is(err, domain.ErrVoucherInactive), errors.Is(err, domain.ErrVoucherExpired),
		errors.Is(err, domain.ErrVoucherMinOrder), errors.Is(err, domain.ErrVoucherExhausted),
		errors.Is(err, domain.ErrVoucherWrongShop), errors.Is(err, service.ErrAmountMismatch):
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

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	order, created, err := h.Orders.Checkout(r.Context(), sessionOf(r).AccountID, req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !created {
		httpx.JSON(w, http.StatusOK, order)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Page(r, 20, 100)
	orders, err := h.Orders.ListMine(r.Context(), sessionOf(r).AccountID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.Orders.Get(r.Context(), sessionOf(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	png, err := h.Orders.QRCode(r.Context(), sessionOf(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.Orders.Cancel(r.Context(), sessionOf(r).AccountID, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "unreadable body")
		return
	}
	if !service.VerifySignature(h.PaymentSecret, body, r.Header.Get("X-Signature")) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("rejected payment callback with bad signature")
		httpx.Error(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var callback service.PaymentCallback
	if err := json.Unmarshal(body, &callback); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := httpx.Validate(&callback); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.Orders.ConfirmPayment(r.Context(), callback)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.View(r.Context(), sessionOf(r).AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req service.AddToCartRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	cart, err := h.Carts.Add(r.Context(), sessionOf(r).AccountID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

type quantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	cart, err := h.Carts.SetQuantity(r.Context(), sessionOf(r).AccountID, mux.Vars(r)["key"], req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Carts.Remove(r.Context(), sessionOf(r).AccountID, mux.Vars(r)["key"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cart)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Carts.Clear(r.Context(), sessionOf(r).AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
