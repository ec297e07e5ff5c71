package httpapi

import (
	"net/http"

	"github.com/chuoois/FoodWeb-sub001/httpx"
)

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) listShopOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Page(r, 50, 200)
	shopID := int64(httpx.QueryInt(r, "shop_id", 0))

	orders, err := h.Orders.ListShopOrders(r.Context(), sessionOf(r), shopID, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *Handler) acceptOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.Orders.Accept(r.Context(), sessionOf(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var req statusRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	order, err := h.Orders.UpdateStatus(r.Context(), sessionOf(r), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
