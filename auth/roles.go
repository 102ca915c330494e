package auth

import (
	"strings"

	"doceria/model"
)

// MenuPermissionKeys are the back-office sections a user can be granted.
var MenuPermissionKeys = []string{
	"pagina-inicial",
	"dashboard",
	"clientes",
	"pedidos",
	"produtos",
	"agenda",
	"fornecedores",
	"relatorios",
	"meu-espaco",
	"financeiro",
	"configuracoes",
}

var attendantKeys = map[string]bool{
	"pagina-inicial": true,
	"clientes":       true,
	"pedidos":        true,
	"agenda":         true,
	"meu-espaco":     true,
}

// NormalizeRole maps free-form role strings onto the three known roles.
func NormalizeRole(role string) string {
	v := strings.ToLower(strings.TrimSpace(role))
	switch v {
	case model.RoleOwner, model.RoleManager, model.RoleAttendant:
		return v
	case "admin":
		return model.RoleOwner
	}
	return model.RoleAttendant
}

func DefaultPermissions(role string) model.Permissions {
	r := NormalizeRole(role)
	perms := make(model.Permissions, len(MenuPermissionKeys))
	for _, k := range MenuPermissionKeys {
		switch r {
		case model.RoleOwner, model.RoleManager:
			perms[k] = true
		default:
			perms[k] = attendantKeys[k]
		}
	}
	return perms
}

// SanitizePermissions keeps only known keys and fills the rest from the
// role defaults. A nil input yields the defaults.
func SanitizePermissions(input map[string]interface{}, role string) model.Permissions {
	defaults := DefaultPermissions(role)
	if input == nil {
		return defaults
	}
	out := make(model.Permissions, len(MenuPermissionKeys))
	for _, k := range MenuPermissionKeys {
		v, ok := input[k]
		if !ok {
			out[k] = defaults[k]
			continue
		}
		out[k] = truthy(v)
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

// PermissionsToInput converts stored permissions into sanitizer input.
func PermissionsToInput(p model.Permissions) map[string]interface{} {
	if p == nil {
		return nil
	}
	m := make(map[string]interface{}, len(p))
	for k, v := range p {
		m[k] = v
	}
	return m
}

// HasAccessToStores reports whether every target store is in requester.
// An empty target is always allowed; an empty requester never is.
func HasAccessToStores(requester, target []string) bool {
	if len(target) == 0 {
		return true
	}
	if len(requester) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(requester))
	for _, s := range requester {
		set[s] = struct{}{}
	}
	for _, s := range target {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}

// Access describes what a management caller may touch.
type Access struct {
	UID       string
	Role      string
	Stores    []string
	AllStores bool
}

// VerifyManagementAccess lets owners and managers with at least one store
// through.
func VerifyManagementAccess(u *model.User) (*Access, error) {
	if u == nil || u.UID == "" {
		return nil, NewError(CodeUnauthenticated, "Você precisa estar autenticado.")
	}
	role := NormalizeRole(u.Role)
	stores := u.StoreIDs
	if stores == nil {
		stores = []string{}
	}
	switch role {
	case model.RoleOwner:
		return &Access{UID: u.UID, Role: role, Stores: stores, AllStores: len(stores) == 0}, nil
	case model.RoleManager:
		if len(stores) == 0 {
			return nil, NewError(CodePermissionDenied, "Gerentes precisam estar associados a pelo menos uma loja.")
		}
		return &Access{UID: u.UID, Role: role, Stores: stores}, nil
	}
	return nil, NewError(CodePermissionDenied, "Você não tem permissão para realizar esta ação.")
}

// CanAccessStore reports whether u may work inside storeID.
func CanAccessStore(u *model.User, storeID string) bool {
	if u == nil {
		return false
	}
	if NormalizeRole(u.Role) == model.RoleOwner && len(u.StoreIDs) == 0 {
		return true
	}
	for _, s := range u.StoreIDs {
		if s == storeID {
			return true
		}
	}
	return false
}

// HasPermission reports whether u may open the given menu section.
func HasPermission(u *model.User, key string) bool {
	if u == nil {
		return false
	}
	perms := SanitizePermissions(PermissionsToInput(u.Permissions), u.Role)
	return perms[key]
}
