package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/classifieds_server/internal/pkg/logger"
	"github.com/qs3c/classifieds_server/internal/pkg/metrics"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(logger.NewWithWriter(&buf, "info", "json")))
	router.GET("/entries/:id", func(c *gin.Context) {
		c.Set(UserIDKey, int64(42))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/entries/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "request", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "/entries/:id", record["route"])
	assert.Equal(t, "/entries/7", record["path"])
	assert.Equal(t, float64(200), record["status"])
	assert.Equal(t, float64(42), record["user_id"])
}

func TestRequestLogger_ServerError(t *testing.T) {
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(logger.NewWithWriter(&buf, "info", "json")))
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Nil(t, record["user_id"])
}

func TestMetrics(t *testing.T) {
	router := gin.New()
	router.Use(Metrics())
	router.GET("/categories", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	counter := metrics.HTTPRequests.WithLabelValues("/categories", "GET", "200")
	before := promtest.ToFloat64(counter)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/categories", nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, before+3, promtest.ToFloat64(counter))

	unmatched := metrics.HTTPRequests.WithLabelValues("unmatched", "GET", "404")
	before = promtest.ToFloat64(unmatched)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope", nil))
	assert.Equal(t, before+1, promtest.ToFloat64(unmatched))
}
