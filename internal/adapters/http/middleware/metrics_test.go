package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	router.GET("/api/deals/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/deals/:id", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/deals/"+id, nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetrics_SkipMetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	router.GET("/metrics", func(c *gin.Context) { c.String(http.StatusOK, "metrics") })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, before, testutil.ToFloat64(counter))
}

func TestBusinessMetrics(t *testing.T) {
	before := testutil.ToFloat64(DealsCreatedTotal.WithLabelValues("DRAFT"))
	RecordDealCreated("DRAFT")
	assert.Equal(t, before+1, testutil.ToFloat64(DealsCreatedTotal.WithLabelValues("DRAFT")))

	before = testutil.ToFloat64(LoginsTotal.WithLabelValues("failure"))
	RecordLogin(false)
	assert.Equal(t, before+1, testutil.ToFloat64(LoginsTotal.WithLabelValues("failure")))

	RecordDealStatusChange("PUBLISHED")
	RecordPaymentCreated("CARD")
	assert.GreaterOrEqual(t, testutil.ToFloat64(PaymentsCreatedTotal.WithLabelValues("CARD")), float64(1))

	UpdateDBConnections(2, 3, 10)
	assert.Equal(t, float64(10), testutil.ToFloat64(DBConnectionsTotal.WithLabelValues("max")))
}
