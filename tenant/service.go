package tenant

import (
	"errors"
	"fmt"
	"strings"

	"doceria/auth"
	"doceria/database"
	"doceria/model"

	"github.com/jmoiron/sqlx"
)

type CreateStoreInput struct {
	Name    string `json:"nome"`
	StoreID string `json:"storeId"`
}

type CreateStoreResult struct {
	StoreID            string            `json:"storeId"`
	StoreData          map[string]string `json:"storeData"`
	AssignedStoreIDs   []string          `json:"assignedStoreIds"`
	PrimaryStoreID     *string           `json:"primaryStoreId"`
	CanAccessAllStores bool              `json:"canAccessAllStores"`
}

var errStoreExists = auth.NewError(auth.CodeAlreadyExists, "Já existe uma loja com esse identificador.")

// CreateStore provisions a store and, for scoped requesters, adds it to
// their own store list.
func CreateStore(db *sqlx.DB, requester *model.User, in CreateStoreInput) (*CreateStoreResult, error) {
	if requester == nil || requester.UID == "" {
		return nil, auth.NewError(auth.CodeUnauthenticated, "Você precisa estar autenticado.")
	}
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return nil, err
	}
	if access.Role != model.RoleOwner && access.Role != model.RoleManager {
		return nil, auth.NewError(auth.CodePermissionDenied, "Apenas donos ou gerentes podem criar novas lojas.")
	}

	name := strings.TrimSpace(in.Name)
	rawID := strings.TrimSpace(in.StoreID)
	if name == "" {
		return nil, auth.NewError(auth.CodeInvalidArgument, "Informe o nome da loja.")
	}
	source := rawID
	if source == "" {
		source = name
	}
	storeID := GenerateStoreID(source)
	if storeID == "" || storeID == model.StoreAllKey {
		return nil, auth.NewError(auth.CodeInvalidArgument, "Identificador inválido para a loja.")
	}

	result := &CreateStoreResult{
		StoreID:            storeID,
		StoreData:          map[string]string{"nome": name},
		CanAccessAllStores: access.AllStores,
		PrimaryStoreID:     requester.PrimaryStoreID,
	}

	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		exists, err := database.StoreExists(tx, storeID)
		if err != nil {
			return err
		}
		if exists {
			return errStoreExists
		}
		store := model.Store{ID: storeID, Name: name, CreatedAt: database.Now(), CreatedBy: requester.UID}
		if err := database.CreateStoreInTx(tx, store); err != nil {
			return err
		}
		if access.AllStores {
			return nil
		}

		assigned := appendUnique(requester.StoreIDs, storeID)
		if err := database.SetUserStoresInTx(tx, requester.UID, assigned); err != nil {
			return err
		}
		if requester.PrimaryStoreID == nil || *requester.PrimaryStoreID == "" {
			if err := database.SetPrimaryStoreInTx(tx, requester.UID, storeID); err != nil {
				return err
			}
			result.PrimaryStoreID = &storeID
		}
		result.AssignedStoreIDs = assigned
		return nil
	})
	if err != nil {
		var ce *auth.CallError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, fmt.Errorf("create store %s: %w", storeID, err)
	}
	return result, nil
}

func appendUnique(list []string, v string) []string {
	out := make([]string, 0, len(list)+1)
	seen := make(map[string]bool, len(list)+1)
	for _, s := range append(append([]string{}, list...), v) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// VisibleStores lists the stores u may open.
func VisibleStores(db *sqlx.DB, u *model.User) ([]model.Store, error) {
	if auth.NormalizeRole(u.Role) == model.RoleOwner && len(u.StoreIDs) == 0 {
		return database.GetAllStores(db)
	}
	return database.GetStoresByIDs(db, u.StoreIDs)
}
