package httpapi

import (
	"net/http"
	"strconv"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
)

func (h *Handler) listFoods(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseInt(r.URL.Query().Get("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "shop_id is required")
		return
	}
	foods, err := h.Menu.List(r.Context(), shopID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, foods)
}

func (h *Handler) createFood(w http.ResponseWriter, r *http.Request) {
	var req service.FoodRequest
	if !decode(w, r, &req) {
		return
	}
	food, err := h.Menu.CreateWithCategory(r.Context(), sessionOf(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, food)
}

func (h *Handler) updateFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.FoodRequest
	if !decode(w, r, &req) {
		return
	}
	food, err := h.Menu.Update(r.Context(), sessionOf(r), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, food)
}

func (h *Handler) deleteFood(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), sessionOf(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addOption(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.OptionRequest
	if !decode(w, r, &req) {
		return
	}
	option, err := h.Menu.AddOption(r.Context(), sessionOf(r), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, option)
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req service.VoucherRequest
	if !decode(w, r, &req) {
		return
	}
	voucher, err := h.Vouchers.Create(r.Context(), sessionOf(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, voucher)
}

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Page(r, 50, 200)
	shopID, _ := strconv.ParseInt(r.URL.Query().Get("shop_id"), 10, 64)
	vouchers, err := h.Vouchers.List(r.Context(), sessionOf(r), shopID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vouchers)
}

func (h *Handler) getVoucher(w http.ResponseWriter, r *http.Request) {
	voucher, err := h.Vouchers.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, voucher)
}

func (h *Handler) updateVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.VoucherRequest
	if !decode(w, r, &req) {
		return
	}
	voucher, err := h.Vouchers.Update(r.Context(), sessionOf(r), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, voucher)
}

func (h *Handler) toggleVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	voucher, err := h.Vouchers.Toggle(r.Context(), sessionOf(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, voucher)
}

func (h *Handler) deleteVoucher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Vouchers.Delete(r.Context(), sessionOf(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	limit, offset := httpx.Page(r, 20, 100)
	reviews, err := h.Reviews.ListShopReviews(r.Context(), shopID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reviews)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ReviewRequest
	if !decode(w, r, &req) {
		return
	}
	review, err := h.Reviews.Create(r.Context(), sessionOf(r).AccountID, shopID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, review)
}
