package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=1,lte=10"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"pho","count":2}`},
		{name: "bad json", body: `{`, wantErr: "invalid JSON"},
		{name: "missing name", body: `{"count":2}`, wantErr: "Name failed required"},
		{name: "count out of range", body: `{"name":"x","count":11}`, wantErr: "Count failed lte"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(testCase.body))
			var dst sample
			err := Decode(req, &dst)
			if testCase.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "42"})
	id, err := PathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "-1"})
	_, err = PathID(req, "id")
	assert.ErrorIs(t, err, ErrBadID)
}

func TestPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=1000&offset=-5", nil)
	limit, offset := Page(req, 20, 100)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 0, offset)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	limit, _ = Page(req, 20, 100)
	assert.Equal(t, 20, limit)
}

func TestQueryFloat(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?lat=10.7725&lng=abc", nil)

	lat, ok := QueryFloat(req, "lat")
	assert.True(t, ok)
	assert.InDelta(t, 10.7725, lat, 1e-9)

	_, ok = QueryFloat(req, "lng")
	assert.False(t, ok)
	_, ok = QueryFloat(req, "radius_km")
	assert.False(t, ok)
}

func TestUseRecoversPanics(t *testing.T) {
	r := mux.NewRouter()
	Use(r)
	r.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })
	r.HandleFunc("/health", Health("test-svc"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "test-svc", body["service"])
}

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name            string
		allowedOrigins  []string
		origin          string
		wantOrigin      string
		wantCredentials string
	}{
		{
			name:            "explicit origin",
			allowedOrigins:  []string{"https://foodweb.vn"},
			origin:          "https://foodweb.vn",
			wantOrigin:      "https://foodweb.vn",
			wantCredentials: "true",
		},
		{
			name:           "unknown origin",
			allowedOrigins: []string{"https://foodweb.vn"},
			origin:         "https://evil.example",
		},
		{
			name:           "wildcard drops credentials",
			allowedOrigins: []string{"*"},
			origin:         "https://evil.example",
			wantOrigin:     "*",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			handler := CORS(testCase.allowedOrigins, []string{http.MethodGet}, []string{"Authorization"}).Handler(ok)
			req := httptest.NewRequest(http.MethodGet, "/shops", nil)
			req.Header.Set("Origin", testCase.origin)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, testCase.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, testCase.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
