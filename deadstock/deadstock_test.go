package deadstock

import (
	"bytes"
	"testing"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, it := range []model.StockItem{
		{ID: "farinha", Name: "Farinha", Quantity: 10, Unit: "kg", UnitCost: 5},
		{ID: "leite", Name: "Leite condensado", Quantity: 4, Unit: "un", UnitCost: 8.9},
		{ID: "coco", Name: "Coco ralado", Quantity: 2, Unit: "kg", UnitCost: 30},
		{ID: "vazio", Name: "Granulado", Quantity: 0, Unit: "kg", UnitCost: 12},
	} {
		it.StoreID, it.CreatedAt, it.UpdatedAt = "loja", base, base
		require.NoError(t, database.InsertStockItem(db, it))
	}
	out := func(item string, at time.Time) {
		require.NoError(t, database.InsertMovement(db, model.StockMovement{
			ID: item + at.String(), StoreID: "loja", ItemID: item, Kind: model.MovementOut,
			Quantity: 1, Delta: -1, Reason: "Produção", CreatedAt: at,
		}))
	}
	out("farinha", base.AddDate(0, 2, 0))
	out("leite", base)

	now := base.AddDate(0, 2, 10)
	res, err := List(db, "loja", 30, now)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "coco", res.Items[0].ID)
	assert.Nil(t, res.Items[0].LastOut)
	assert.Equal(t, 60.0, res.Items[0].IdleValue)
	assert.Equal(t, "leite", res.Items[1].ID)
	require.NotNil(t, res.Items[1].LastOut)
	assert.Equal(t, "2025-03-01", *res.Items[1].LastOut)
	assert.Equal(t, 95.6, res.TotalValue)

	var buf bytes.Buffer
	WriteCSV(&buf, res)
	assert.Contains(t, buf.String(), `"Leite condensado","","4","un","01/03/2025","35.60"`)
	assert.Contains(t, buf.String(), `"Nunca"`)

	_, err = List(db, "loja", -1, now)
	assert.ErrorIs(t, err, ErrInvalidDays)
}
