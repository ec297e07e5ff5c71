package httpapi

import (
	"net/http"

	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
)

func NewRouter(handler *Handler, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	httpx.Use(r)
	handler.RegisterRoutes(r)

	return httpx.CORS(allowedOrigins,
		[]string{http.MethodGet},
		[]string{"Authorization", "Content-Type"},
	).Handler(r)
}
