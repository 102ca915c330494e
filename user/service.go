package user

import (
	"errors"
	"fmt"
	"strings"

	"doceria/auth"
	"doceria/database"
	"doceria/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Summary is the listing shape of a user.
type Summary struct {
	UID         string            `json:"uid"`
	Email       string            `json:"email"`
	Name        string            `json:"nome"`
	Role        string            `json:"role"`
	StoreID     *string           `json:"lojaId"`
	StoreIDs    []string          `json:"lojaIds"`
	Permissions model.Permissions `json:"permissions"`
}

type CreateInput struct {
	Email       string                 `json:"email"`
	Password    string                 `json:"senha"`
	Name        string                 `json:"nome"`
	Role        string                 `json:"role"`
	StoreID     string                 `json:"lojaId"`
	StoreIDs    []string               `json:"lojaIds"`
	Permissions map[string]interface{} `json:"permissions"`
}

type UpdateInput struct {
	UID         string                 `json:"uid"`
	Name        string                 `json:"nome"`
	Role        string                 `json:"role"`
	Email       string                 `json:"email"`
	StoreID     string                 `json:"lojaId"`
	StoreIDs    []string               `json:"lojaIds"`
	Permissions map[string]interface{} `json:"permissions"`
}

func summarize(u model.User) Summary {
	role := auth.NormalizeRole(u.Role)
	stores := u.StoreIDs
	if stores == nil {
		stores = []string{}
	}
	var primary *string
	if len(stores) > 0 {
		primary = &stores[0]
	}
	return Summary{
		UID:         u.UID,
		Email:       u.Email,
		Name:        nameOrDefault(u.Name),
		Role:        role,
		StoreID:     primary,
		StoreIDs:    stores,
		Permissions: auth.SanitizePermissions(auth.PermissionsToInput(u.Permissions), role),
	}
}

func nameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Sem nome"
	}
	return name
}

// ListAll returns the users within the requester's scope.
func ListAll(db *sqlx.DB, requester *model.User) ([]Summary, error) {
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return nil, err
	}
	users, err := database.GetAllUsers(db)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := []Summary{}
	for _, u := range users {
		s := summarize(u)
		if access.Role == model.RoleOwner && (access.AllStores || len(access.Stores) == 0) {
			out = append(out, s)
			continue
		}
		if auth.HasAccessToStores(access.Stores, s.StoreIDs) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Create registers a new account after checking role and store scope.
func Create(db *sqlx.DB, requester *model.User, in CreateInput) (string, error) {
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return "", err
	}
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return "", auth.NewError(auth.CodeInvalidArgument, "Email, senha e nome são obrigatórios.")
	}

	role := auth.NormalizeRole(in.Role)
	if role == model.RoleOwner && access.Role != model.RoleOwner {
		return "", auth.NewError(auth.CodePermissionDenied, "Somente donos podem criar outros donos.")
	}

	var targetStores []string
	if role == model.RoleOwner {
		targetStores = nonNil(in.StoreIDs)
		if access.Role == model.RoleOwner && !access.AllStores && len(access.Stores) > 0 {
			if !auth.HasAccessToStores(access.Stores, targetStores) {
				return "", auth.NewError(auth.CodePermissionDenied, "Você não pode atribuir lojas fora do seu escopo.")
			}
		}
	} else {
		primary := in.StoreID
		if primary == "" && len(in.StoreIDs) > 0 {
			primary = in.StoreIDs[0]
		}
		if primary == "" {
			return "", auth.NewError(auth.CodeInvalidArgument, "lojaId é obrigatório para este tipo de usuário.")
		}
		targetStores = in.StoreIDs
		if len(targetStores) == 0 {
			targetStores = []string{primary}
		}
		requesterStores := access.Stores
		if access.Role == model.RoleOwner && access.AllStores {
			requesterStores = targetStores
		}
		if !auth.HasAccessToStores(requesterStores, targetStores) {
			return "", auth.NewError(auth.CodePermissionDenied, "Você não pode criar usuários para outras lojas.")
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return "", auth.NewError(auth.CodeInvalidArgument, "A senha deve ter pelo menos 6 caracteres.")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	existing, err := database.GetUserByEmail(db, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", auth.NewError(auth.CodeAlreadyExists, "O email fornecido já está em uso por outro usuário.")
	}

	now := database.Now()
	u := model.User{
		UID:          uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		StoreIDs:     targetStores,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(targetStores) > 0 {
		u.PrimaryStoreID = &targetStores[0]
	}
	perms := auth.SanitizePermissions(in.Permissions, role)
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := database.InsertUserInTx(tx, u); err != nil {
			return err
		}
		return database.UpsertProfileInTx(tx, u.UID, role, perms)
	})
	if err != nil {
		return "", fmt.Errorf("create user %s: %w", email, err)
	}
	return u.UID, nil
}

// Update rewrites a user's profile, role, stores and permissions.
func Update(db *sqlx.DB, requester *model.User, in UpdateInput) error {
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return err
	}
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if in.UID == "" || name == "" || in.Role == "" || email == "" {
		return auth.NewError(auth.CodeInvalidArgument, "Dados incompletos. UID, nome, role e email são obrigatórios.")
	}

	role := auth.NormalizeRole(in.Role)
	if role == model.RoleOwner && access.Role != model.RoleOwner {
		return auth.NewError(auth.CodePermissionDenied, "Somente donos podem atualizar dados de um dono.")
	}

	existing, err := database.GetUser(db, in.UID)
	if err != nil {
		return err
	}
	if existing == nil {
		return auth.NewError(auth.CodeNotFound, "Usuário não encontrado.")
	}
	existingRole := auth.NormalizeRole(existing.Role)

	var targetStores []string
	if role == model.RoleOwner {
		targetStores = existing.StoreIDs
		if in.StoreIDs != nil {
			targetStores = in.StoreIDs
		}
	} else {
		primary := in.StoreID
		if primary == "" && len(in.StoreIDs) > 0 {
			primary = in.StoreIDs[0]
		}
		if primary == "" && len(existing.StoreIDs) > 0 {
			primary = existing.StoreIDs[0]
		}
		if primary == "" {
			return auth.NewError(auth.CodeInvalidArgument, "lojaId é obrigatório para este tipo de usuário.")
		}
		targetStores = in.StoreIDs
		if len(targetStores) == 0 {
			targetStores = []string{primary}
		}
	}
	targetStores = nonNil(targetStores)

	requesterStores := access.Stores
	if access.Role == model.RoleOwner && access.AllStores {
		requesterStores = targetStores
	}
	storesToCheck := targetStores
	if len(storesToCheck) == 0 {
		storesToCheck = existing.StoreIDs
	}

	switch {
	case access.Role == model.RoleManager:
		if existingRole == model.RoleOwner || role == model.RoleOwner {
			return auth.NewError(auth.CodePermissionDenied, "Gerentes não podem atualizar dados de donos.")
		}
		if !auth.HasAccessToStores(requesterStores, storesToCheck) {
			return auth.NewError(auth.CodePermissionDenied, "Você não pode atualizar usuários de outra loja.")
		}
	case access.Role == model.RoleOwner && !access.AllStores && len(access.Stores) > 0:
		if !auth.HasAccessToStores(access.Stores, storesToCheck) {
			return auth.NewError(auth.CodePermissionDenied, "Você não pode atualizar usuários de outra loja.")
		}
	}

	if !strings.EqualFold(existing.Email, email) {
		other, err := database.GetUserByEmail(db, email)
		if err != nil {
			return err
		}
		if other != nil && other.UID != existing.UID {
			return auth.NewError(auth.CodeAlreadyExists, "O email fornecido já está em uso por outro usuário.")
		}
	}

	permsInput := in.Permissions
	if permsInput == nil {
		permsInput = auth.PermissionsToInput(auth.SanitizePermissions(auth.PermissionsToInput(existing.Permissions), existingRole))
	}
	perms := auth.SanitizePermissions(permsInput, role)

	updated := *existing
	updated.Email = email
	updated.Name = name
	updated.Role = role
	updated.StoreIDs = targetStores
	updated.PrimaryStoreID = nil
	if len(targetStores) > 0 {
		updated.PrimaryStoreID = &targetStores[0]
	}
	updated.UpdatedAt = database.Now()

	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := database.UpdateUserInTx(tx, updated); err != nil {
			return err
		}
		return database.UpsertProfileInTx(tx, updated.UID, role, perms)
	})
	if err != nil {
		return fmt.Errorf("Não foi possível atualizar o usuário. Motivo: %w", err)
	}
	return nil
}

// Delete removes the account and its permission profile.
func Delete(db *sqlx.DB, requester *model.User, uid string) error {
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return err
	}
	if uid == "" {
		return auth.NewError(auth.CodeInvalidArgument, "UID é obrigatório.")
	}
	target, err := database.GetUser(db, uid)
	if err != nil {
		return err
	}
	if target == nil {
		return auth.NewError(auth.CodeNotFound, "Usuário não encontrado.")
	}
	if auth.NormalizeRole(target.Role) == model.RoleOwner && access.Role != model.RoleOwner {
		return auth.NewError(auth.CodePermissionDenied, "Somente donos podem remover outros donos.")
	}
	if access.Role == model.RoleManager && !auth.HasAccessToStores(access.Stores, target.StoreIDs) {
		return auth.NewError(auth.CodePermissionDenied, "Você não pode remover usuários de outra loja.")
	}
	return database.WithTx(db, func(tx *sqlx.Tx) error {
		return database.DeleteUserInTx(tx, uid)
	})
}

// UpdatePassword sets a new password for uid.
func UpdatePassword(db *sqlx.DB, requester *model.User, uid, newPassword string) error {
	access, err := auth.VerifyManagementAccess(requester)
	if err != nil {
		return err
	}
	if uid == "" || newPassword == "" {
		return auth.NewError(auth.CodeInvalidArgument, "UID e nova senha são obrigatórios.")
	}
	target, err := database.GetUser(db, uid)
	if err != nil {
		return err
	}
	if target == nil {
		return auth.NewError(auth.CodeNotFound, "Usuário não encontrado.")
	}
	if auth.NormalizeRole(target.Role) == model.RoleOwner && access.Role != model.RoleOwner {
		return auth.NewError(auth.CodePermissionDenied, "Somente donos podem alterar a senha de outro dono.")
	}
	if access.Role == model.RoleManager && !auth.HasAccessToStores(access.Stores, target.StoreIDs) {
		return auth.NewError(auth.CodePermissionDenied, "Você não pode alterar usuários de outra loja.")
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return auth.NewError(auth.CodeInvalidArgument, "A senha deve ter pelo menos 6 caracteres.")
		}
		return err
	}
	return database.UpdatePasswordHash(db, uid, hash)
}

// BootstrapOwner creates the first owner account when the database has no
// users yet.
func BootstrapOwner(db *sqlx.DB, email, name, password string) (string, error) {
	n, err := database.CountUsers(db)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", errors.New("users already exist; use createUser instead")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	now := database.Now()
	u := model.User{
		UID:          uuid.NewString(),
		Email:        strings.TrimSpace(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         model.RoleOwner,
		StoreIDs:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := database.InsertUserInTx(tx, u); err != nil {
			return err
		}
		return database.UpsertProfileInTx(tx, u.UID, model.RoleOwner, auth.DefaultPermissions(model.RoleOwner))
	})
	if err != nil {
		return "", err
	}
	return u.UID, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
