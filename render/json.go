package render

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// Error writes {"message": message}.
func Error(w http.ResponseWriter, message string, status int) {
	JSON(w, status, map[string]string{"message": message})
}

// Message writes a success {"message": message}.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// RequireStoreID resolves the lojaId of a public request from the path,
// the query string or the JSON body, in that order. When none is present
// it writes a 400 and returns false.
func RequireStoreID(w http.ResponseWriter, r *http.Request, body []byte) (string, bool) {
	if id := r.PathValue("lojaId"); id != "" {
		return id, true
	}
	if id := r.URL.Query().Get("lojaId"); id != "" {
		return id, true
	}
	if len(body) > 0 {
		var b struct {
			StoreID string `json:"lojaId"`
		}
		if json.Unmarshal(body, &b) == nil && b.StoreID != "" {
			return b.StoreID, true
		}
	}
	Error(w, "Parâmetro lojaId é obrigatório.", http.StatusBadRequest)
	return "", false
}

// ReadBody returns the raw request body.
func ReadBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}
