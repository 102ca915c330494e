package activity

import (
	"strings"
	"testing"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string   `json:"nome"`
	Price  float64  `json:"preco"`
	Tags   []string `json:"tags"`
	Status string   `json:"status,omitempty"`
}

func TestDiff(t *testing.T) {
	before := sample{Name: "Bolo", Price: 10, Tags: []string{"a"}}
	after := sample{Name: "Bolo", Price: 12.5, Tags: []string{"a", "b"}, Status: "Ativo"}

	changes, err := Diff(before, after)
	require.NoError(t, err)
	assert.Len(t, changes, 3)
	assert.Equal(t, model.FieldChange{Old: 10.0, New: 12.5}, changes["preco"])
	assert.Equal(t, model.FieldChange{Old: nil, New: "Ativo"}, changes["status"])
	_, nameChanged := changes["nome"]
	assert.False(t, nameChanged)

	same, err := Diff(before, before)
	require.NoError(t, err)
	assert.Empty(t, same)

	_, err = Diff(before, 42)
	assert.Error(t, err)
}

func TestRecordAndList(t *testing.T) {
	db := testutil.OpenDB(t)
	actor := &model.User{UID: "u1", Email: "ana@doceria.test"}

	Created(db, "loja", actor, "produtos", "p1")
	Updated(db, "loja", actor, "produtos", "p1", sample{Name: "A"}, sample{Name: "B"})
	Updated(db, "loja", actor, "produtos", "p1", sample{Name: "B"}, sample{Name: "B"})
	Deleted(db, "loja", actor, "produtos", "p1")
	Created(db, "outra", nil, "clientes", "c1")

	logs, err := database.GetActivityLogs(db, "loja", 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Item deletado de produtos", logs[0].Action)
	assert.Equal(t, "Item atualizado em produtos", logs[1].Action)
	assert.True(t, strings.Contains(logs[1].Details, `"nome":{"old":"A","new":"B"}`), logs[1].Details)
	assert.Equal(t, "ana@doceria.test", logs[2].UserEmail)
}
