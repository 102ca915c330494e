package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = func() []byte { return []byte("test-secret") }

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, model.RoleOwner, NormalizeRole("Dono"))
	assert.Equal(t, model.RoleOwner, NormalizeRole("admin"))
	assert.Equal(t, model.RoleManager, NormalizeRole("GERENTE"))
	assert.Equal(t, model.RoleAttendant, NormalizeRole(""))
	assert.Equal(t, model.RoleAttendant, NormalizeRole("caixa"))
}

func TestDefaultPermissions(t *testing.T) {
	owner := DefaultPermissions(model.RoleOwner)
	manager := DefaultPermissions(model.RoleManager)
	attendant := DefaultPermissions(model.RoleAttendant)
	for _, k := range MenuPermissionKeys {
		assert.True(t, owner[k], k)
		assert.True(t, manager[k], k)
	}
	assert.True(t, attendant["pedidos"])
	assert.True(t, attendant["meu-espaco"])
	assert.False(t, attendant["financeiro"])
	assert.False(t, attendant["configuracoes"])
	assert.Len(t, attendant, len(MenuPermissionKeys))
}

func TestSanitizePermissions(t *testing.T) {
	got := SanitizePermissions(map[string]interface{}{
		"financeiro": true,
		"pedidos":    false,
		"hacker":     true,
	}, model.RoleAttendant)

	assert.True(t, got["financeiro"])
	assert.False(t, got["pedidos"])
	assert.True(t, got["clientes"])
	assert.NotContains(t, got, "hacker")
}

func TestHasAccessToStores(t *testing.T) {
	assert.True(t, HasAccessToStores(nil, nil))
	assert.True(t, HasAccessToStores([]string{"a"}, []string{}))
	assert.False(t, HasAccessToStores(nil, []string{"a"}))
	assert.True(t, HasAccessToStores([]string{"a", "b"}, []string{"b"}))
	assert.False(t, HasAccessToStores([]string{"a"}, []string{"a", "c"}))
}

func TestVerifyManagementAccess(t *testing.T) {
	_, err := VerifyManagementAccess(nil)
	assert.Equal(t, CodeUnauthenticated, AsCallError(err, "").Code)

	acc, err := VerifyManagementAccess(&model.User{UID: "o", Role: "dono"})
	require.NoError(t, err)
	assert.True(t, acc.AllStores)

	acc, err = VerifyManagementAccess(&model.User{UID: "o", Role: "dono", StoreIDs: []string{"centro"}})
	require.NoError(t, err)
	assert.False(t, acc.AllStores)

	_, err = VerifyManagementAccess(&model.User{UID: "g", Role: "gerente"})
	assert.Equal(t, CodePermissionDenied, AsCallError(err, "").Code)

	acc, err = VerifyManagementAccess(&model.User{UID: "g", Role: "gerente", StoreIDs: []string{"centro"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"centro"}, acc.Stores)

	_, err = VerifyManagementAccess(&model.User{UID: "a", Role: "atendente", StoreIDs: []string{"centro"}})
	assert.Equal(t, CodePermissionDenied, AsCallError(err, "").Code)
}

func TestTokenRoundTripAndTampering(t *testing.T) {
	u := &model.User{UID: "u1", Email: "u1@x", Role: "gerente"}
	tok, err := IssueToken(testSecret(), u, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, model.RoleManager, claims.Role)

	_, err = ParseToken([]byte("other"), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueToken(testSecret(), u, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret(), expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("123")
	assert.ErrorIs(t, err, ErrWeakPassword)

	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "segredo1"))
	assert.False(t, CheckPassword(hash, "segredo2"))
}

func TestLoginAndMiddleware(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "centro")
	u := testutil.SeedUser(t, db, "att", model.RoleAttendant, "centro")
	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	require.NoError(t, database.UpdatePasswordHash(db, u.UID, hash))

	login := LoginHandler(db, testSecret, func() time.Duration { return time.Hour })

	body, _ := json.Marshal(map[string]string{"email": u.Email, "password": "errada"})
	rec := httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	body, _ = json.Marshal(map[string]string{"email": u.Email, "password": "segredo1"})
	rec = httptest.NewRecorder()
	login(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	mux := http.NewServeMux()
	protected := Middleware(db, testSecret)
	mux.Handle("GET /api/stores/{storeID}/ping", protected(RequireStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))))
	mux.Handle("GET /api/stores/{storeID}/finance", protected(RequireStore(RequirePermission("financeiro", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))))

	do := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do("/api/stores/centro/ping", ""))
	assert.Equal(t, http.StatusUnauthorized, do("/api/stores/centro/ping", "garbage"))
	assert.Equal(t, http.StatusNoContent, do("/api/stores/centro/ping", resp.Token))
	assert.Equal(t, http.StatusForbidden, do("/api/stores/outra/ping", resp.Token))
	assert.Equal(t, http.StatusForbidden, do("/api/stores/centro/finance", resp.Token))
}
