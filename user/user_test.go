package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"doceria/auth"
	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return auth.AsCallError(err, "").Code
}

func TestListAll_ScopesByStore(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner)
	mgr := testutil.SeedUser(t, db, "mgr", model.RoleManager, "a")
	testutil.SeedUser(t, db, "att-a", model.RoleAttendant, "a")
	testutil.SeedUser(t, db, "att-b", model.RoleAttendant, "b")

	all, err := ListAll(db, owner)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	scoped, err := ListAll(db, mgr)
	require.NoError(t, err)
	uids := []string{}
	for _, s := range scoped {
		uids = append(uids, s.UID)
	}
	// the owner has no stores, so it passes the subset check
	assert.ElementsMatch(t, []string{"owner", "mgr", "att-a"}, uids)

	att := testutil.SeedUser(t, db, "att-c", model.RoleAttendant, "a")
	_, err = ListAll(db, att)
	assert.Equal(t, auth.CodePermissionDenied, callCode(t, err))
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner)
	mgr := testutil.SeedUser(t, db, "mgr", model.RoleManager, "a")

	_, err := Create(db, owner, CreateInput{Email: "x@y.z", Name: "X"})
	assert.Equal(t, auth.CodeInvalidArgument, callCode(t, err))

	_, err = Create(db, mgr, CreateInput{Email: "o@y.z", Password: "secret1", Name: "O", Role: "dono"})
	assert.Equal(t, auth.CodePermissionDenied, callCode(t, err))

	_, err = Create(db, owner, CreateInput{Email: "g@y.z", Password: "secret1", Name: "G", Role: "gerente"})
	ce := auth.AsCallError(err, "")
	assert.Equal(t, auth.CodeInvalidArgument, ce.Code)
	assert.Equal(t, "lojaId é obrigatório para este tipo de usuário.", ce.Message)

	_, err = Create(db, mgr, CreateInput{Email: "b@y.z", Password: "secret1", Name: "B", StoreID: "b"})
	assert.Equal(t, auth.CodePermissionDenied, callCode(t, err))

	_, err = Create(db, owner, CreateInput{Email: "w@y.z", Password: "123", Name: "W", StoreID: "a"})
	assert.Equal(t, auth.CodeInvalidArgument, callCode(t, err))
}

func TestCreate_AssignsStoresAndPermissions(t *testing.T) {
	db := testutil.OpenDB(t)
	mgr := testutil.SeedUser(t, db, "mgr", model.RoleManager, "a", "b")

	uid, err := Create(db, mgr, CreateInput{
		Email:       "nova@doceria.test",
		Password:    "secret1",
		Name:        "Nova",
		Role:        "atendente",
		StoreIDs:    []string{"b", "a"},
		Permissions: map[string]interface{}{"financeiro": true, "clientes": false, "bogus": true},
	})
	require.NoError(t, err)

	u, err := database.GetUser(db, uid)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, []string{"b", "a"}, u.StoreIDs)
	require.NotNil(t, u.PrimaryStoreID)
	assert.Equal(t, "b", *u.PrimaryStoreID)
	// stored permissions carry over when none are sent
	assert.False(t, u.Permissions["financeiro"])
	assert.True(t, u.Permissions["pedidos"])
	assert.False(t, u.Permissions["clientes"])
	assert.True(t, u.Permissions["pedidos"])
	_, hasBogus := u.Permissions["bogus"]
	assert.False(t, hasBogus)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "secret1"))

	_, err = Create(db, mgr, CreateInput{Email: "NOVA@doceria.test", Password: "secret1", Name: "Dup", StoreID: "a"})
	assert.Equal(t, auth.CodeAlreadyExists, callCode(t, err))
}

func TestCreate_LimitedOwnerCannotAssignForeignStores(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner, "a")

	_, err := Create(db, owner, CreateInput{Email: "o2@y.z", Password: "secret1", Name: "O2", Role: "dono", StoreIDs: []string{"b"}})
	ce := auth.AsCallError(err, "")
	assert.Equal(t, auth.CodePermissionDenied, ce.Code)
	assert.Equal(t, "Você não pode atribuir lojas fora do seu escopo.", ce.Message)

	uid, err := Create(db, owner, CreateInput{Email: "o3@y.z", Password: "secret1", Name: "O3", Role: "dono", StoreIDs: []string{"a"}})
	require.NoError(t, err)
	assert.NotEmpty(t, uid)
}

func TestUpdate_RoleAndScopeRules(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner)
	mgr := testutil.SeedUser(t, db, "mgr", model.RoleManager, "a")
	testutil.SeedUser(t, db, "att-a", model.RoleAttendant, "a")
	testutil.SeedUser(t, db, "att-b", model.RoleAttendant, "b")

	err := Update(db, mgr, UpdateInput{UID: "att-a"})
	assert.Equal(t, auth.CodeInvalidArgument, callCode(t, err))

	err = Update(db, mgr, UpdateInput{UID: "owner", Name: "Dono", Role: "gerente", Email: "owner@doceria.test", StoreID: "a"})
	ce := auth.AsCallError(err, "")
	assert.Equal(t, "Gerentes não podem atualizar dados de donos.", ce.Message)

	err = Update(db, mgr, UpdateInput{UID: "att-b", Name: "B", Role: "atendente", Email: "att-b@doceria.test"})
	ce = auth.AsCallError(err, "")
	assert.Equal(t, "Você não pode atualizar usuários de outra loja.", ce.Message)

	err = Update(db, mgr, UpdateInput{UID: "att-a", Name: "A", Role: "atendente", Email: "att-b@doceria.test"})
	assert.Equal(t, auth.CodeAlreadyExists, callCode(t, err))

	err = Update(db, owner, UpdateInput{UID: "nobody", Name: "N", Role: "atendente", Email: "n@y.z"})
	assert.Equal(t, auth.CodeNotFound, callCode(t, err))

	require.NoError(t, Update(db, mgr, UpdateInput{UID: "att-a", Name: "Ana", Role: "atendente", Email: "ana@doceria.test"}))
	u, err := database.GetUser(db, "att-a")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@doceria.test", u.Email)
	assert.Equal(t, []string{"a"}, u.StoreIDs)
	assert.Equal(t, auth.DefaultPermissions(model.RoleAttendant), u.Permissions)
}

func TestUpdate_OwnerPromotesAndMovesStores(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner)
	testutil.SeedUser(t, db, "att", model.RoleAttendant, "a")

	err := Update(db, owner, UpdateInput{UID: "att", Name: "Gi", Role: "gerente", Email: "att@doceria.test", StoreIDs: []string{"b", "c"}})
	require.NoError(t, err)
	u, err := database.GetUser(db, "att")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, u.Role)
	assert.Equal(t, []string{"b", "c"}, u.StoreIDs)
	assert.Equal(t, "b", *u.PrimaryStoreID)
	// stored permissions carry over when none are sent
	assert.False(t, u.Permissions["financeiro"])
	assert.True(t, u.Permissions["pedidos"])
}

func TestDeleteAndPassword(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedUser(t, db, "owner", model.RoleOwner)
	mgr := testutil.SeedUser(t, db, "mgr", model.RoleManager, "a")
	testutil.SeedUser(t, db, "att-a", model.RoleAttendant, "a")
	testutil.SeedUser(t, db, "att-b", model.RoleAttendant, "b")

	ce := auth.AsCallError(Delete(db, mgr, "owner"), "")
	assert.Equal(t, "Somente donos podem remover outros donos.", ce.Message)
	ce = auth.AsCallError(Delete(db, mgr, "att-b"), "")
	assert.Equal(t, "Você não pode remover usuários de outra loja.", ce.Message)

	ce = auth.AsCallError(UpdatePassword(db, mgr, "owner", "novasenha"), "")
	assert.Equal(t, "Somente donos podem alterar a senha de outro dono.", ce.Message)
	ce = auth.AsCallError(UpdatePassword(db, mgr, "att-b", "novasenha"), "")
	assert.Equal(t, "Você não pode alterar usuários de outra loja.", ce.Message)

	require.NoError(t, UpdatePassword(db, mgr, "att-a", "novasenha"))
	u, err := database.GetUser(db, "att-a")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "novasenha"))

	require.NoError(t, Delete(db, mgr, "att-a"))
	u, err = database.GetUser(db, "att-a")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestBootstrapOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	uid, err := BootstrapOwner(db, "dono@doceria.test", "Dono", "secret1")
	require.NoError(t, err)
	u, err := database.GetUser(db, uid)
	require.NoError(t, err)
	assert.Equal(t, model.RoleOwner, u.Role)
	assert.Empty(t, u.StoreIDs)

	_, err = BootstrapOwner(db, "outro@doceria.test", "Outro", "secret1")
	assert.Error(t, err)
}

func TestCreateUserCallable_HTTP(t *testing.T) {
	db := testutil.OpenDB(t)
	owner := testutil.SeedUser(t, db, "owner", model.RoleOwner)
	h := CreateUserCallable(db)

	body, _ := json.Marshal(map[string]interface{}{"data": map[string]interface{}{
		"email": "cx@doceria.test", "senha": "secret1", "nome": "Caixa", "role": "atendente", "lojaId": "a",
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/functions/createUser", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), owner))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Result map[string]string `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Usuário criado com sucesso!", resp.Result["message"])
	assert.NotEmpty(t, resp.Result["uid"])

	req = httptest.NewRequest(http.MethodPost, "/api/functions/createUser", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
