package httpapi

import (
	"bytes"
	"io"
	"net/http"

	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/domain"
	"github.com/chuoois/FoodWeb-sub001/catalog-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/httpx"
)

const maxUploadBytes = 10 << 20

type managerRequest struct {
	AccountID int64 `json:"account_id" validate:"required,gt=0"`
}

type shopStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) createShop(w http.ResponseWriter, r *http.Request) {
	var req service.ShopRequest
	if !decode(w, r, &req) {
		return
	}
	shop, err := h.Shops.Create(r.Context(), sessionOf(r), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, shop)
}

func (h *Handler) getShop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	shop, err := h.Shops.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shop)
}

func (h *Handler) updateShop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req service.ShopRequest
	if !decode(w, r, &req) {
		return
	}
	shop, err := h.Shops.Update(r.Context(), sessionOf(r), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shop)
}

func (h *Handler) addManager(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req managerRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.Shops.AddManager(r.Context(), sessionOf(r), id, req.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// uploadShopImage sniffs the content type instead of trusting the part header.
func (h *Handler) uploadShopImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	kind, err := domain.ParseImageKind(r.URL.Query().Get("kind"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "error retrieving the file")
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		httpx.Error(w, http.StatusBadRequest, "unreadable file")
		return
	}
	contentType := http.DetectContentType(head[:n])

	url, err := h.Shops.UploadImage(r.Context(), sessionOf(r), id, kind, contentType, io.MultiReader(bytes.NewReader(head[:n]), file))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message":   "Image uploaded successfully",
		"image_url": url,
	})
}

func (h *Handler) adminListShops(w http.ResponseWriter, r *http.Request) {
	limit, offset := httpx.Page(r, 50, 200)
	shops, err := h.Shops.AdminList(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shops)
}

func (h *Handler) adminSetShopStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req shopStatusRequest
	if !decode(w, r, &req) {
		return
	}
	shop, err := h.Shops.AdminSetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shop)
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.Shops.ListFavorites(r.Context(), sessionOf(r).AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, favorites)
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, r, "shopId")
	if !ok {
		return
	}
	fav, err := h.Shops.AddFavorite(r.Context(), sessionOf(r).AccountID, shopID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, fav)
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	shopID, ok := pathID(w, r, "shopId")
	if !ok {
		return
	}
	if err := h.Shops.RemoveFavorite(r.Context(), sessionOf(r).AccountID, shopID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := httpx.QueryFloat(r, "lat")
	lng, okLng := httpx.QueryFloat(r, "lng")
	if !okLat || !okLng {
		httpx.Error(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius, _ := httpx.QueryFloat(r, "radius_km")
	shops, err := h.Shops.Nearby(r.Context(), domain.HomeQuery{
		Lat: lat, Lng: lng, RadiusKm: radius, Limit: httpx.QueryInt(r, "limit", 0),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shops)
}

func (h *Handler) popular(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Shops.Popular(r.Context(), httpx.QueryInt(r, "limit", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shops)
}

func (h *Handler) filter(w http.ResponseWriter, r *http.Request) {
	minRating, _ := httpx.QueryFloat(r, "min_rating")
	shops, err := h.Shops.Filter(r.Context(), domain.HomeQuery{
		Type:      domain.NormalizeType(r.URL.Query().Get("type")),
		MinRating: minRating,
		Limit:     httpx.QueryInt(r, "limit", 0),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shops)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	shops, err := h.Shops.Search(r.Context(), domain.HomeQuery{
		Text:  r.URL.Query().Get("q"),
		Limit: httpx.QueryInt(r, "limit", 0),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shops)
}
