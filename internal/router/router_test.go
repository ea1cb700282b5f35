package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/handler"
	"github.com/noah-isme/lms-api/internal/repository"
	"github.com/noah-isme/lms-api/internal/service"
	"github.com/noah-isme/lms-api/pkg/config"
)

func newTestEngine(t *testing.T, env string) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	db := sqlx.NewDb(raw, "sqlmock")

	metrics := service.NewMetricsService()
	exports := service.NewExportService(nil, nil)
	universities := repository.NewUniversityRepository(db)
	students := repository.NewStudentRepository(db)

	h := Handlers{
		Universities: handler.NewUniversityHandler(service.NewUniversityService(universities, students, repository.NewTransactor(db), nil, nil, metrics, nil), exports),
		Students:     handler.NewStudentHandler(service.NewStudentService(students, universities, nil, nil, nil), exports),
		Courses:      handler.NewCourseHandler(service.NewCourseService(repository.NewCourseRepository(db), universities, nil, nil, nil), exports),
		Admins:       handler.NewAdminHandler(service.NewAdminService(repository.NewAdminRepository(db), nil, nil, nil), exports),
		Ops: handler.NewMetricsHandler(metrics, map[string]handler.ReadinessCheck{
			"postgres": func(ctx context.Context) error { return nil },
		}, nil),
	}
	cfg := &config.Config{Env: env, APIPrefix: "/api", CORS: config.CORSConfig{AllowedOrigins: []string{"*"}}}
	return New(cfg, h, metrics, zap.NewNop()), mock
}

func TestRouterListsAdminsUnderPrefix(t *testing.T) {
	engine, mock := newTestEngine(t, config.EnvDevelopment)
	mock.ExpectQuery(`SELECT id, admin_name, .* FROM admins ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admins", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterRejectsNonNumericID(t *testing.T) {
	engine, mock := newTestEngine(t, config.EnvDevelopment)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/universities/abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRouterOpsEndpoints(t *testing.T) {
	engine, _ := newTestEngine(t, config.EnvProduction)

	for path, want := range map[string]int{
		"/health":          http.StatusOK,
		"/ready":           http.StatusOK,
		"/metrics":         http.StatusOK,
		"/docs/index.html": http.StatusNotFound,
		"/api/nonexistent": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}
