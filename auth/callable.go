package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"doceria/model"
	"doceria/render"
)

// CallableFunc implements one admin function. data holds the raw request
// payload.
type CallableFunc func(u *model.User, data json.RawMessage) (interface{}, error)

// Callable adapts fn to HTTP. The body may be the payload itself or wrapped
// as {"data": payload}; successful results are wrapped as {"result": ...}.
func Callable(name string, fn CallableFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			render.JSON(w, http.StatusBadRequest, NewError(CodeInvalidArgument, "Requisição inválida."))
			return
		}
		data := unwrapData(raw)

		result, err := fn(UserFromContext(r.Context()), data)
		if err != nil {
			ce := AsCallError(err, "Erro interno no servidor.")
			if ce.Code == CodeInternal {
				log.Printf("ERROR: [%s] %v", name, err)
			} else {
				log.Printf("WARN: [%s] %s: %s", name, ce.Code, ce.Message)
			}
			render.JSON(w, ce.HTTPStatus(), ce)
			return
		}
		render.JSON(w, http.StatusOK, map[string]interface{}{"result": result})
	}
}

func unwrapData(raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		if d, ok := env["data"]; ok && len(env) == 1 {
			return d
		}
	}
	return raw
}

// DecodeData unmarshals a callable payload, reporting invalid-argument on
// malformed JSON.
func DecodeData(data json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return NewError(CodeInvalidArgument, "Dados inválidos.")
	}
	return nil
}
