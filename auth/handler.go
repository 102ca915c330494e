package auth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"doceria/database"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// LoginHandler exchanges email and password for a session token.
func LoginHandler(db *sqlx.DB, secret func() []byte, ttl func() time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := render.DecodeJSON(r, &input); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(input.Email)
		if email == "" || input.Password == "" {
			render.Error(w, "Email e senha são obrigatórios.", http.StatusBadRequest)
			return
		}

		u, err := database.GetUserByEmail(db, email)
		if err != nil {
			log.Printf("ERROR: [Login] lookup failed: %v", err)
			render.Error(w, "Erro ao autenticar.", http.StatusInternalServerError)
			return
		}
		if u == nil || !CheckPassword(u.PasswordHash, input.Password) {
			render.Error(w, "Email ou senha inválidos.", http.StatusUnauthorized)
			return
		}

		token, err := IssueToken(secret(), u, ttl())
		if err != nil {
			log.Printf("ERROR: [Login] %v", err)
			render.Error(w, "Erro ao autenticar.", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "token",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(ttl()),
		})
		u.Permissions = SanitizePermissions(PermissionsToInput(u.Permissions), u.Role)
		log.Printf("INFO: [Login] %s signed in", u.Email)
		render.JSON(w, http.StatusOK, map[string]interface{}{"token": token, "user": u})
	}
}

// LogoutHandler clears the session cookie.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
		render.Message(w, http.StatusOK, "Sessão encerrada.")
	}
}

// MeHandler returns the current user with effective permissions.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil {
			render.Error(w, "Você precisa estar autenticado.", http.StatusUnauthorized)
			return
		}
		u.Role = NormalizeRole(u.Role)
		u.Permissions = SanitizePermissions(PermissionsToInput(u.Permissions), u.Role)
		render.JSON(w, http.StatusOK, u)
	}
}
