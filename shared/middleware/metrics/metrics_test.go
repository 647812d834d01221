package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware("/api/messages", "type"))
	r.Get("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"messages":[]}`))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	return r
}

func TestMiddleware_Labels(t *testing.T) {
	tests := []struct {
		name   string
		target string
		route  string
		feed   string
		status string
	}{
		{"status feed", "/api/messages?type=status", "/api/messages", "status", "200"},
		{"default feed", "/api/messages", "/api/messages", "announcements", "200"},
		{"unknown feed falls back", "/api/messages?type=bogus", "/api/messages", "announcements", "200"},
		{"route pattern, no feed", "/users/42?type=status", "/users/{id}", "", "202"},
		{"unmatched", "/nowhere", unmatchedRoute, "", "404"},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := requestsTotal.WithLabelValues(http.MethodGet, tt.route, tt.feed, tt.status)
			before := testutil.ToFloat64(counter)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestMiddleware_InFlightSettles(t *testing.T) {
	before := testutil.ToFloat64(inFlight)
	newTestRouter().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/messages", nil))
	assert.Equal(t, before, testutil.ToFloat64(inFlight))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	requestsTotal.WithLabelValues(http.MethodGet, "/api/messages", "status", "200").Inc()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{feed="status"`)
}
