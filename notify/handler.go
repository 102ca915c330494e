package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"doceria/auth"
	"doceria/render"
)

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"plataforma"`
}

// RegisterTokenHandler serves POST /api/notifications/tokens.
func RegisterTokenHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		uid := ""
		if u := auth.UserFromContext(r.Context()); u != nil {
			uid = u.UID
		}
		if err := s.Register(uid, req.Token, req.Platform); err != nil {
			writeError(w, "RegisterToken", err)
			return
		}
		render.Message(w, http.StatusOK, "Notificações ativadas.")
	}
}

// UnregisterTokenHandler serves DELETE /api/notifications/tokens.
func UnregisterTokenHandler(s *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		if err := s.Unregister(req.Token); err != nil {
			writeError(w, "UnregisterToken", err)
			return
		}
		render.Message(w, http.StatusOK, "Notificações desativadas.")
	}
}

// EventsHandler serves GET /api/stores/{storeID}/events as a Server-Sent
// Events stream until the client goes away.
func EventsHandler(s *Service, keepAlive time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			render.Error(w, "Streaming não suportado.", http.StatusInternalServerError)
			return
		}
		events, cancel := s.hub.Subscribe(r.PathValue("storeID"))
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case ev, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(ev)
				if err != nil {
					log.Printf("ERROR: [Events] %v", err)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
				flusher.Flush()
			}
		}
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrTokenRequired) {
		render.Error(w, "Token de notificação é obrigatório.", http.StatusBadRequest)
		return
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao atualizar notificações.", http.StatusInternalServerError)
}
