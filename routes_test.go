package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"doceria/auth"
	"doceria/config"
	"doceria/model"
	"doceria/testutil"
	"doceria/user"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*sqlx.DB, http.Handler) {
	t.Helper()
	prev := config.GetConfig()
	t.Cleanup(func() { config.Set(prev) })
	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-secret"
	config.Set(cfg)

	db := testutil.OpenDB(t)
	mux := http.NewServeMux()
	SetupRoutes(mux, db)
	return db, mux
}

func bearer(t *testing.T, u *model.User) string {
	t.Helper()
	tok, err := auth.IssueToken([]byte("test-secret"), u, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestRoutes_LoginAndCreateStore(t *testing.T) {
	db, h := newTestServer(t)
	_, err := user.BootstrapOwner(db, "dona@doceria.test", "Dona", "segredo1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte(`{"email":"dona@doceria.test","password":"segredo1"}`))))
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodPost, "/api/functions/createStore", bytes.NewReader([]byte(`{"data":{"nome":"Doce Sabor"}}`)))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"storeId":"doce-sabor"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stores", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_StoreScopeAndPermissions(t *testing.T) {
	db, h := newTestServer(t)
	testutil.SeedStore(t, db, "centro")
	testutil.SeedStore(t, db, "norte")
	ana := testutil.SeedUser(t, db, "ana", model.RoleAttendant, "centro")

	get := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", bearer(t, ana))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, get("/api/stores/centro/orders"))
	assert.Equal(t, http.StatusForbidden, get("/api/stores/norte/orders"))
	assert.Equal(t, http.StatusForbidden, get("/api/stores/centro/finance/summary"))
	assert.Equal(t, http.StatusForbidden, get("/api/config"))
}

func TestRoutes_StorefrontCORS(t *testing.T) {
	db, h := newTestServer(t)
	testutil.SeedStore(t, db, "centro")

	req := httptest.NewRequest(http.MethodGet, "/produtos?lojaId=centro", nil)
	req.Header.Set("Origin", "https://loja.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/pedidos", nil)
	req.Header.Set("Origin", "https://loja.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRoutes_SaveConfigKeepsOmittedFields(t *testing.T) {
	db, h := newTestServer(t)
	config.SetPath(filepath.Join(t.TempDir(), "doceria.yaml"))
	dona := testutil.SeedUser(t, db, "dona", model.RoleOwner)
	require.True(t, config.GetConfig().Stock.AllowNegative)

	req := httptest.NewRequest(http.MethodPost, "/api/config", strings.NewReader(`{"stock":{"lowStockThreshold":4}}`))
	req.Header.Set("Authorization", bearer(t, dona))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := config.GetConfig()
	assert.Equal(t, 4.0, got.Stock.LowStockThreshold)
	assert.True(t, got.Stock.AllowNegative)
	assert.Equal(t, "8080", got.Server.Port)
	assert.Equal(t, "test-secret", got.Auth.JWTSecret)
}

func TestValidateConfig(t *testing.T) {
	c := config.Default()
	assert.NoError(t, validateConfig(c))
	c.Server.Port = "porta"
	assert.Error(t, validateConfig(c))
	c = config.Default()
	c.Stock.LowStockThreshold = -1
	assert.Error(t, validateConfig(c))
}
