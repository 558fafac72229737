package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staybae/staybae-api/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupStatusRouter(t *testing.T, connected bool) *gin.Engine {
	t.Helper()
	store := memory.NewStore()
	if connected {
		require.NoError(t, store.Connect(context.Background(), "mongodb://localhost/staybae"))
	}

	controller := NewStatusController(store, zap.NewNop())
	router := gin.New()
	controller.RegisterRoutes(router.Group("/api"))
	return router
}

func doGet(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStatusController_Name(t *testing.T) {
	assert.Equal(t, "status", NewStatusController(memory.NewStore(), zap.NewNop()).Name())
}

func TestStatusController(t *testing.T) {
	tests := []struct {
		name         string
		connected    bool
		path         string
		wantCode     int
		wantStatus   string
		wantDatabase string
	}{
		{"health connected", true, "/api/health", http.StatusOK, StatusOK, DatabaseUp},
		{"health disconnected", false, "/api/health", http.StatusOK, StatusDegraded, DatabaseDown},
		{"status connected", true, "/api/status", http.StatusOK, StatusOK, DatabaseUp},
		{"status disconnected", false, "/api/status", http.StatusServiceUnavailable, StatusDegraded, DatabaseDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupStatusRouter(t, tt.connected)

			w := doGet(router, tt.path)
			require.Equal(t, tt.wantCode, w.Code)

			var resp StatusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantDatabase, resp.Database)
			assert.Equal(t, ServiceName, resp.Service)
			assert.Equal(t, Version, resp.Version)
		})
	}
}
