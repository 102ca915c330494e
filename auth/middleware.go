package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

type ctxKey struct{}

// WithUser stores u in ctx.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKey{}).(*model.User)
	return u
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

// Middleware authenticates the bearer token or token cookie and loads the
// current user record into the request context.
func Middleware(db *sqlx.DB, secret func() []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				render.Error(w, "Você precisa estar autenticado.", http.StatusUnauthorized)
				return
			}
			claims, err := ParseToken(secret(), raw)
			if err != nil {
				render.Error(w, "Sessão inválida ou expirada.", http.StatusUnauthorized)
				return
			}
			u, err := database.GetUser(db, claims.UID)
			if err != nil {
				log.Printf("ERROR: [Auth] failed to load user %s: %v", claims.UID, err)
				render.Error(w, "Erro ao validar sessão.", http.StatusInternalServerError)
				return
			}
			if u == nil {
				render.Error(w, "Usuário não encontrado.", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireStore rejects requests for a {storeID} the user cannot access.
func RequireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID := r.PathValue("storeID")
		if storeID == "" {
			render.Error(w, "Loja não informada.", http.StatusBadRequest)
			return
		}
		if !CanAccessStore(UserFromContext(r.Context()), storeID) {
			render.Error(w, "Você não tem acesso a esta loja.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects users whose menu permissions exclude key.
func RequirePermission(key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !HasPermission(UserFromContext(r.Context()), key) {
			render.Error(w, "Você não tem permissão para acessar esta área.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
