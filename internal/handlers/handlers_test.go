package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"block-builder-backend/internal/middleware"
	"block-builder-backend/internal/models"
	"block-builder-backend/internal/repository"
	"block-builder-backend/internal/service"
	"block-builder-backend/pkg/validator"
)

const testCookie = "session"

type testServer struct {
	router *gin.Engine
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Init()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BlockConfig{}))

	authService := service.NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour, "owner")
	generatorService := service.NewGeneratorService(nil)
	blockService := service.NewBlockService(repository.NewBlockConfigRepository(db), generatorService, nil)

	blockHandler := NewBlockHandler(blockService)
	generatorHandler := NewGeneratorHandler(generatorService)
	authHandler := NewAuthHandler(authService, testCookie, 3600)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/blocks/templates", generatorHandler.Templates)
	api.POST("/blocks/generate", generatorHandler.Generate)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/auth/me", middleware.OptionalAuthMiddleware(authService, testCookie), authHandler.Me)

	protected := api.Group("/blocks")
	protected.Use(middleware.AuthMiddleware(authService, testCookie))
	protected.POST("", blockHandler.Create)
	protected.GET("", blockHandler.List)
	protected.GET("/:id", blockHandler.GetByID)
	protected.PUT("/:id", blockHandler.Update)
	protected.DELETE("/:id", blockHandler.Delete)
	protected.POST("/:id/generate", blockHandler.Regenerate)

	return &testServer{router: router, auth: authService}
}

func (s *testServer) token(t *testing.T, openID string) string {
	t.Helper()
	token, _, err := s.auth.SignIn(models.UserIdentity{OpenID: openID})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func validConfig() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Pro Plan",
		"subtitle":    "$29/month",
		"description": "Everything you need",
		"colors": map[string]interface{}{
			"background":    "#ffffff",
			"textPrimary":   "#111827",
			"textSecondary": "#6b7280",
			"accentColor":   "#2563eb",
			"borderColor":   "#e5e7eb",
		},
		"typography": map[string]interface{}{
			"fontFamily": "Inter, sans-serif", "titleSize": 32, "subtitleSize": 20, "bodySize": 16, "lineHeight": 1.5,
		},
		"spacing": map[string]interface{}{"padding": 24, "margin": 0, "borderRadius": 12, "gap": 12},
		"effects": map[string]interface{}{"shadow": "none", "opacity": 1, "borderWidth": 1},
		"content": map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"id": "1", "content": "Unlimited projects", "icon": "check"},
			},
			"button": map[string]interface{}{"text": "Get Started"},
		},
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/blocks/generate", "", map[string]interface{}{
		"config":       validConfig(),
		"templateType": "pricing_card",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	html, _ := body["html"].(string)
	css, _ := body["css"].(string)
	assert.Contains(t, html, `<div class="pricing-card"><h2>Pro Plan</h2>`)
	assert.Contains(t, html, `<i class="fas fa-check"></i>`)
	assert.Contains(t, css, "--accent-color:#2563eb;")
	assert.Regexp(t, `^<div class="block-\d+">`, html)
}

func TestGenerateEndpointFallsBackForUnknownTemplate(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/blocks/generate", "", map[string]interface{}{
		"config":       validConfig(),
		"templateType": "mystery",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	html, _ := decode(t, rec)["html"].(string)
	assert.Contains(t, html, `<h2>Pro Plan</h2><p>Everything you need</p><ul class="list">`)
	assert.NotContains(t, html, "pricing-card")
}

func TestGenerateEndpointRejectsMalformedConfig(t *testing.T) {
	srv := newTestServer(t)

	cfg := validConfig()
	cfg["colors"].(map[string]interface{})["background"] = "red;}body{display:none"
	cfg["content"].(map[string]interface{})["items"] = []interface{}{
		map[string]interface{}{"id": "1", "content": "x", "icon": `check" onclick="alert(1)`},
	}
	cfg["effects"].(map[string]interface{})["opacity"] = 3

	rec := srv.do(t, http.MethodPost, "/api/v1/blocks/generate", "", map[string]interface{}{
		"config":       cfg,
		"templateType": "custom",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	fields, ok := decode(t, rec)["fields"].(map[string]interface{})
	require.True(t, ok, rec.Body.String())
	assert.Contains(t, fields, "config.colors.background")
	assert.Contains(t, fields, "config.content.items[0].icon")
	assert.Contains(t, fields, "config.effects.opacity")
}

func TestTemplatesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/blocks/templates", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	templates, ok := decode(t, rec)["templates"].([]interface{})
	require.True(t, ok)
	require.Len(t, templates, len(models.TemplateTypes()))
	first := templates[0].(map[string]interface{})
	assert.Equal(t, "pricing_card", first["type"])
}

func TestBlockLifecycle(t *testing.T) {
	srv := newTestServer(t)
	ownerToken := srv.token(t, "alice")
	otherToken := srv.token(t, "bob")

	rec := srv.do(t, http.MethodPost, "/api/v1/blocks", ownerToken, map[string]interface{}{
		"name":         "Pricing",
		"templateType": "pricing_card",
		"config":       validConfig(),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	block := decode(t, rec)["block"].(map[string]interface{})
	id := uint(block["id"].(float64))
	assert.Equal(t, "Pricing", block["name"])
	assert.Contains(t, block["generatedHtml"], `<div class="pricing-card">`)
	path := fmt.Sprintf("/api/v1/blocks/%d", id)

	rec = srv.do(t, http.MethodGet, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPut, path, otherToken, map[string]interface{}{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPut, path, ownerToken, map[string]interface{}{"name": "Pricing v2", "templateType": "hero_section"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["block"].(map[string]interface{})
	assert.Equal(t, "Pricing v2", updated["name"])
	assert.Contains(t, updated["generatedHtml"], `<div class="hero-content"><h1>Pro Plan</h1>`)

	rec = srv.do(t, http.MethodPost, path+"/generate", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/api/v1/blocks", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["blocks"], 1)

	rec = srv.do(t, http.MethodGet, "/api/v1/blocks", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["blocks"], 0)

	rec = srv.do(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = srv.do(t, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockEndpointsRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/blocks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/blocks/abc", srv.token(t, "alice"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBlockRejectsUnknownTemplate(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/blocks", srv.token(t, "alice"), map[string]interface{}{
		"name":         "Broken",
		"templateType": "carousel",
		"config":       validConfig(),
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decode(t, rec)["fields"], "templateType")
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["user"])

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{"openId": "owner", "name": "Owner"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode(t, rec)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "admin", login["user"].(map[string]interface{})["role"])
	assert.Contains(t, rec.Header().Get("Set-Cookie"), testCookie+"=")

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "owner", me["openId"])

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{"name": "nobody"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}
