package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"doceria/auth"
	"doceria/config"
	"doceria/model"
	"doceria/render"
)

func requireOwner(w http.ResponseWriter, r *http.Request) bool {
	u := auth.UserFromContext(r.Context())
	if u == nil || auth.NormalizeRole(u.Role) != model.RoleOwner {
		render.Error(w, "Apenas o dono pode alterar as configurações.", http.StatusForbidden)
		return false
	}
	return true
}

// GetConfigHandler returns the non-secret settings.
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireOwner(w, r) {
			return
		}
		render.JSON(w, http.StatusOK, config.GetConfig())
	}
}

// SaveConfigHandler validates and persists new settings. Fields missing
// from the body keep their current values.
func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireOwner(w, r) {
			return
		}
		newCfg := config.GetConfig()
		newCfg.Server.AllowedOrigins = append([]string(nil), newCfg.Server.AllowedOrigins...)
		if err := render.DecodeJSON(r, &newCfg); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		if err := validateConfig(newCfg); err != nil {
			render.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("ERROR: [SaveConfig] %v", err)
			render.Error(w, "Falha ao salvar as configurações.", http.StatusInternalServerError)
			return
		}
		render.Message(w, http.StatusOK, "Configurações salvas.")
	}
}

func validateConfig(c config.Config) error {
	if c.Server.Port != "" {
		if n, err := strconv.Atoi(c.Server.Port); err != nil || n <= 0 || n > 65535 {
			return errors.New("Porta inválida: " + c.Server.Port)
		}
	}
	if c.Auth.TokenTTLHours < 0 {
		return errors.New("A duração da sessão não pode ser negativa.")
	}
	if c.Stock.LowStockThreshold < 0 {
		return errors.New("O limite de estoque baixo não pode ser negativo.")
	}
	return nil
}
