package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chuoois/FoodWeb-sub001/auth"
	"github.com/chuoois/FoodWeb-sub001/events"
	"github.com/chuoois/FoodWeb-sub001/finance-svc/internal/service"
	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Finance service.FinanceServiceInterface
	Auth    *auth.Authenticator
}

func NewHandler(finance service.FinanceServiceInterface, authenticator *auth.Authenticator) *Handler {
	return &Handler{Finance: finance, Auth: authenticator}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", httpx.Health("finance-svc")).Methods("GET")

	finance := r.PathPrefix("/finance").Subrouter()
	finance.Use(h.Auth.Require(auth.PermViewFinance))
	finance.HandleFunc("/revenue", h.revenue).Methods("GET")
	finance.HandleFunc("/revenue.csv", h.revenueCSV).Methods("GET")
	finance.HandleFunc("/leaderboard", h.leaderboard).Methods("GET")
}

var errBadDate = errors.New("dates must look like 2006-01-02")

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrWindowRequired), errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrWindowTooLarge), errors.Is(err, service.ErrInvalidMonth):
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

func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, events.BusinessZone)
	if err != nil {
		return time.Time{}, errBadDate
	}
	return day, nil
}

func parseQuery(r *http.Request) (service.Query, error) {
	values := r.URL.Query()
	from, err := parseDay(values.Get("from"))
	if err != nil {
		return service.Query{}, err
	}
	to, err := parseDay(values.Get("to"))
	if err != nil {
		return service.Query{}, err
	}
	q := service.Query{From: from, To: to, Limit: httpx.QueryInt(r, "limit", service.MaxLimit)}
	if raw := values.Get("shop_id"); raw != "" {
		q.ShopID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || q.ShopID <= 0 {
			return service.Query{}, httpx.ErrBadID
		}
	}
	return q, nil
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.Finance.Revenue(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// csvResponse sets the download headers just before the first byte goes out.
type csvResponse struct {
	http.ResponseWriter
	filename string
	started  bool
}

func (c *csvResponse) Write(p []byte) (int, error) {
	if !c.started {
		c.started = true
		c.Header().Set("Content-Type", "text/csv; charset=utf-8")
		c.Header().Set("Content-Disposition", `attachment; filename="`+c.filename+`"`)
		c.WriteHeader(http.StatusOK)
	}
	n, err := c.ResponseWriter.Write(p)
	if f, ok := c.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
	return n, err
}

func (h *Handler) revenueCSV(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	out := &csvResponse{ResponseWriter: w, filename: "revenue_" + q.FromDay() + "_" + q.ToDay() + ".csv"}
	if err := h.Finance.ExportCSV(r.Context(), q, out); err != nil {
		if out.started {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("revenue export aborted mid-stream")
			return
		}
		writeServiceError(w, r, err)
	}
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Finance.Leaderboard(r.Context(), r.URL.Query().Get("month"), httpx.QueryInt(r, "limit", service.DefaultLeaderboard))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}
