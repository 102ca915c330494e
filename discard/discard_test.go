package discard

import (
	"testing"

	"doceria/database"
	"doceria/model"
	"doceria/stock"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListDelete(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	actor := &model.User{UID: "u1", Email: "a@doceria.test"}
	it, err := stock.CreateItem(db, "loja", stock.ItemInput{Name: "Ovos", Unit: "dz", UnitCost: 9.5, Quantity: 10}, actor)
	require.NoError(t, err)

	d, err := Create(db, "loja", Input{ItemID: it.ID, Quantity: 2, Reason: " quebrados "}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Ovos", d.ItemName)
	assert.Equal(t, "quebrados", d.Reason)
	assert.Equal(t, 19.0, d.TotalCost)

	after, err := database.GetStockItem(db, "loja", it.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, after.Quantity)
	movements, err := database.GetMovements(db, "loja", it.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Perda: quebrados", movements[0].Reason)

	_, err = Create(db, "loja", Input{ItemID: it.ID, Quantity: 0.5}, actor)
	require.NoError(t, err)
	sum, err := List(db, "loja", database.Today(), database.Today())
	require.NoError(t, err)
	assert.Len(t, sum.Discards, 2)
	assert.Equal(t, 23.75, sum.TotalCost)

	empty, err := List(db, "loja", "2000-01-01", "2000-01-31")
	require.NoError(t, err)
	assert.Empty(t, empty.Discards)

	require.NoError(t, Delete(db, "loja", d.ID, actor))
	after, err = database.GetStockItem(db, "loja", it.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.5, after.Quantity)
	assert.ErrorIs(t, Delete(db, "loja", d.ID, actor), ErrNotFound)
}

func TestCreate_RejectsUnknownItemAndBadQuantity(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")

	_, err := Create(db, "loja", Input{ItemID: "nope", Quantity: 1}, nil)
	assert.ErrorIs(t, err, stock.ErrNotFound)
	_, err = Create(db, "loja", Input{ItemID: "nope", Quantity: 0}, nil)
	assert.ErrorIs(t, err, stock.ErrInvalidQuantity)

	res, err := List(db, "loja", "", "")
	require.NoError(t, err)
	assert.Empty(t, res.Discards)
}
