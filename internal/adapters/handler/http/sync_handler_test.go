package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http"
	"github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http/middleware"
	"github.com/hamzakhalil/iman-score-engine/internal/adapters/repository"
	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
)

func setupSyncRouter() (*gin.Engine, *repository.InMemorySnapshotRepository) {
	gin.SetMode(gin.TestMode)

	repo := repository.NewInMemorySnapshotRepository()
	svc := services.NewSyncService(repo)
	handler := adapterHTTP.NewSyncHandler(svc, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.RequireUser(time.UTC))
	handler.RegisterRoutes(api)
	return r, repo
}

func TestSync(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	t.Run("Success: 200 OK with changes and cursor", func(t *testing.T) {
		router, repo := setupSyncRouter()

		snap := domain.NewSyncSnapshot("user-1", domain.SectionIbadah, day, 40, nil)
		require.NoError(t, repo.Upsert(context.Background(), snap))

		req, _ := http.NewRequest("GET", "/api/v1/sync", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"changes"`)
		assert.Contains(t, w.Body.String(), `"timestamp"`)
		assert.Contains(t, w.Body.String(), `"ibadah"`)
	})

	t.Run("Success: Since cursor filters old rows", func(t *testing.T) {
		router, repo := setupSyncRouter()

		snap := domain.NewSyncSnapshot("user-1", domain.SectionIbadah, day, 40, nil)
		require.NoError(t, repo.Upsert(context.Background(), snap))

		cursor := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)

		req, _ := http.NewRequest("GET", "/api/v1/sync?since="+cursor, nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), `"ibadah"`)
	})

	t.Run("Changes are scoped to the requesting user", func(t *testing.T) {
		router, repo := setupSyncRouter()

		snap := domain.NewSyncSnapshot("user-2", domain.SectionIlm, day, 70, nil)
		require.NoError(t, repo.Upsert(context.Background(), snap))

		req, _ := http.NewRequest("GET", "/api/v1/sync", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "user-2")
	})

	t.Run("Fail: 400 Bad Request (Invalid Since)", func(t *testing.T) {
		router, _ := setupSyncRouter()

		req, _ := http.NewRequest("GET", "/api/v1/sync?since=yesterday", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: 401 Unauthorized", func(t *testing.T) {
		router, _ := setupSyncRouter()

		req, _ := http.NewRequest("GET", "/api/v1/sync", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
