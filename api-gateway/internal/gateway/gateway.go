package gateway

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chuoois/FoodWeb-sub001/httpx"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	AccountSvcURL string
	CatalogSvcURL string
	OrderSvcURL   string
	FinanceSvcURL string
}

type route struct {
	prefix string
	target string
}

type Gateway struct {
	config Config
	client HTTPClient
	routes []route
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		// More specific prefixes first.
		routes: []route{
			{"/admin/accounts", config.AccountSvcURL},
			{"/admin/shops", config.CatalogSvcURL},
			{"/auth", config.AccountSvcURL},
			{"/shops", config.CatalogSvcURL},
			{"/food", config.CatalogSvcURL},
			{"/favorites", config.CatalogSvcURL},
			{"/home", config.CatalogSvcURL},
			{"/voucher", config.CatalogSvcURL},
			{"/uploads", config.CatalogSvcURL},
			{"/ordersManage", config.OrderSvcURL},
			{"/orders", config.OrderSvcURL},
			{"/cart", config.OrderSvcURL},
			{"/payments", config.OrderSvcURL},
			{"/finance", config.FinanceSvcURL},
		},
	}
}

// hopHeaders are dropped from proxied responses. CORS headers are set by the
// gateway itself, so upstream Access-Control-* headers are dropped too.
var hopHeaders = []string{"Connection", "Keep-Alive", "Transfer-Encoding", "Upgrade", "Proxy-Connection"}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httpx.Health("api-gateway")(w, r)
}

// Target returns the upstream base URL serving path, or "" when none does.
func (g *Gateway) Target(path string) string {
	for _, rt := range g.routes {
		if path == rt.prefix || strings.HasPrefix(path, rt.prefix+"/") {
			return rt.target
		}
	}
	return ""
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("upstream", url).Msg("proxy")

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Error().Err(err).Str("upstream", url).Msg("failed to create upstream request")
		httpx.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}
	req.ContentLength = r.ContentLength
	if id := middleware.GetReqID(r.Context()); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	req.Header.Set("X-Forwarded-For", r.RemoteAddr)

	resp, err := g.client.Do(req)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		log.Error().Err(err).Str("upstream", targetURL).Msg("failed to proxy request")
		httpx.Error(w, http.StatusBadGateway, "upstream unavailable")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		if strings.HasPrefix(k, "Access-Control-") {
			continue
		}
		w.Header()[k] = v
	}
	for _, h := range hopHeaders {
		w.Header().Del(h)
	}
	w.WriteHeader(resp.StatusCode)

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		g.stream(w, r, resp.Body)
		return
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Error().Err(err).Str("upstream", targetURL).Msg("failed to copy response")
	}
}

// stream relays an event stream, flushing after every read so events are not
// held in buffers.
func (g *Gateway) stream(w http.ResponseWriter, r *http.Request, body io.Reader) {
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && r.Context().Err() == nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("event stream ended")
			}
			return
		}
	}
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target := g.Target(r.URL.Path)
	if target == "" {
		httpx.Error(w, http.StatusNotFound, "route not found")
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	httpx.Use(r)
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
