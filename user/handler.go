package user

import (
	"encoding/json"
	"net/http"

	"doceria/auth"
	"doceria/model"

	"github.com/jmoiron/sqlx"
)

func ListAllUsersCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("listAllUsers", func(u *model.User, _ json.RawMessage) (interface{}, error) {
		users, err := ListAll(db, u)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"users": users}, nil
	})
}

func CreateUserCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("createUser", func(u *model.User, data json.RawMessage) (interface{}, error) {
		var in CreateInput
		if err := auth.DecodeData(data, &in); err != nil {
			return nil, err
		}
		uid, err := Create(db, u, in)
		if err != nil {
			return nil, err
		}
		return map[string]string{"uid": uid, "message": "Usuário criado com sucesso!"}, nil
	})
}

func UpdateUserCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("updateUser", func(u *model.User, data json.RawMessage) (interface{}, error) {
		var in UpdateInput
		if err := auth.DecodeData(data, &in); err != nil {
			return nil, err
		}
		if err := Update(db, u, in); err != nil {
			return nil, err
		}
		return map[string]string{"message": "Usuário atualizado com sucesso!"}, nil
	})
}

func DeleteUserCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("deleteUser", func(u *model.User, data json.RawMessage) (interface{}, error) {
		var in struct {
			UID string `json:"uid"`
		}
		if err := auth.DecodeData(data, &in); err != nil {
			return nil, err
		}
		if err := Delete(db, u, in.UID); err != nil {
			return nil, err
		}
		return map[string]string{"message": "Usuário deletado com sucesso!"}, nil
	})
}

func UpdateUserPasswordCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("updateUserPassword", func(u *model.User, data json.RawMessage) (interface{}, error) {
		var in struct {
			UID         string `json:"uid"`
			NewPassword string `json:"newPassword"`
		}
		if err := auth.DecodeData(data, &in); err != nil {
			return nil, err
		}
		if err := UpdatePassword(db, u, in.UID, in.NewPassword); err != nil {
			return nil, err
		}
		return map[string]string{"message": "Senha alterada com sucesso!"}, nil
	})
}
