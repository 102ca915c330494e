package inventoryadjustment

import (
	"testing"

	"doceria/database"
	"doceria/model"
	"doceria/stock"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_PostsDifferences(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	owner := testutil.SeedUser(t, db, "dona", model.RoleOwner)

	flour, err := stock.CreateItem(db, "loja", stock.ItemInput{Name: "Farinha", Quantity: 10, Unit: "kg"}, owner)
	require.NoError(t, err)
	sugar, err := stock.CreateItem(db, "loja", stock.ItemInput{Name: "Açúcar", Quantity: 5, Unit: "kg"}, owner)
	require.NoError(t, err)
	eggs, err := stock.CreateItem(db, "loja", stock.ItemInput{Name: "Ovos", Quantity: 30, Unit: "un"}, owner)
	require.NoError(t, err)

	res, err := Apply(db, "loja", Input{Lines: []Line{
		{ItemID: flour.ID, Counted: 8.5},
		{ItemID: sugar.ID, Counted: 7},
		{ItemID: eggs.ID, Counted: 30},
	}}, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unchanged)
	require.Len(t, res.Adjusted, 2)
	assert.Equal(t, Adjustment{ItemID: flour.ID, Name: "Farinha", Before: 10, Counted: 8.5, Delta: -1.5}, res.Adjusted[0])
	assert.Equal(t, 2.0, res.Adjusted[1].Delta)

	item, err := database.GetStockItem(db, "loja", flour.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.5, item.Quantity)

	moves, err := database.GetMovements(db, "loja", flour.ID, 1)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementOut, moves[0].Kind)
	assert.Equal(t, "Ajuste de inventário", moves[0].Reason)
}

func TestApply_RollsBackOnUnknownItem(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	flour, err := stock.CreateItem(db, "loja", stock.ItemInput{Name: "Farinha", Quantity: 10, Unit: "kg"}, nil)
	require.NoError(t, err)

	_, err = Apply(db, "loja", Input{Lines: []Line{
		{ItemID: flour.ID, Counted: 4},
		{ItemID: "nope", Counted: 1},
	}}, nil)
	assert.ErrorIs(t, err, stock.ErrNotFound)

	item, err := database.GetStockItem(db, "loja", flour.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.Quantity)
}

func TestApply_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	_, err := Apply(db, "loja", Input{}, nil)
	assert.ErrorIs(t, err, ErrNoLines)
	_, err = Apply(db, "loja", Input{Lines: []Line{{ItemID: "a", Counted: -1}}}, nil)
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = Apply(db, "loja", Input{Lines: []Line{{ItemID: "a", Counted: 1}, {ItemID: "a", Counted: 2}}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateItem)
}
