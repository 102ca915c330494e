package timeclock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doceria/auth"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, 6, day, hour, min, 0, 0, time.UTC)
}

func TestRecord_Sequence(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	ana := testutil.SeedUser(t, db, "ana", model.RoleAttendant, "loja")

	_, err := Record(db, "loja", nil, model.PunchIn, "", at(2, 8, 0))
	assert.ErrorIs(t, err, ErrUnidentified)
	_, err = Record(db, "loja", ana, "pausa", "", at(2, 8, 0))
	assert.ErrorIs(t, err, ErrInvalidKind)
	_, err = Record(db, "loja", ana, model.PunchOut, "", at(2, 8, 0))
	assert.ErrorIs(t, err, ErrNotIn)

	p, err := Record(db, "loja", ana, model.PunchIn, "abertura", at(2, 8, 0))
	require.NoError(t, err)
	assert.Equal(t, "User ana", p.UserName)
	_, err = Record(db, "loja", ana, model.PunchIn, "", at(2, 9, 0))
	assert.ErrorIs(t, err, ErrAlreadyIn)
	_, err = Record(db, "loja", ana, model.PunchOut, "", at(2, 7, 0))
	assert.ErrorIs(t, err, ErrOutOfOrder)
	_, err = Record(db, "loja", ana, model.PunchOut, "", at(2, 12, 30))
	require.NoError(t, err)

	list, err := List(db, "loja", "ana", "2025-06-02", "2025-06-02")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.PunchIn, list[0].Kind)
	assert.Equal(t, "abertura", list[0].Notes)
}

func TestWorkedHours(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	ana := testutil.SeedUser(t, db, "ana", model.RoleAttendant, "loja")
	bia := testutil.SeedUser(t, db, "bia", model.RoleManager, "loja")

	steps := []struct {
		u    *model.User
		kind string
		at   time.Time
	}{
		{ana, model.PunchIn, at(2, 8, 0)},
		{ana, model.PunchOut, at(2, 12, 0)},
		{ana, model.PunchIn, at(2, 13, 0)},
		{ana, model.PunchOut, at(2, 17, 20)},
		{bia, model.PunchIn, at(3, 9, 0)},
		{bia, model.PunchOut, at(3, 10, 45)},
		{bia, model.PunchIn, at(4, 9, 0)},
	}
	for _, s := range steps {
		_, err := Record(db, "loja", s.u, s.kind, "", s.at)
		require.NoError(t, err)
	}

	hours, err := WorkedHours(db, "loja", "", "", "")
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, model.WorkedHours{UserID: "ana", UserName: "User ana", Hours: 8.33, Shifts: 2}, hours[0])
	assert.Equal(t, model.WorkedHours{UserID: "bia", UserName: "User bia", Hours: 1.75, Shifts: 1, Open: true}, hours[1])

	day, err := WorkedHours(db, "loja", "", "2025-06-03", "2025-06-03")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.False(t, day[0].Open)
}

func TestListHandler_AttendantSeesOwnPunches(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	ana := testutil.SeedUser(t, db, "ana", model.RoleAttendant, "loja")
	bia := testutil.SeedUser(t, db, "bia", model.RoleManager, "loja")
	_, err := Record(db, "loja", ana, model.PunchIn, "", at(2, 8, 0))
	require.NoError(t, err)
	_, err = Record(db, "loja", bia, model.PunchIn, "", at(2, 8, 5))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /api/stores/{storeID}/timeclock", ListHandler(db))
	mux.Handle("POST /api/stores/{storeID}/timeclock", PunchHandler(db))

	get := func(u *model.User, target string) []model.Punch {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req = req.WithContext(auth.WithUser(req.Context(), u))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []model.Punch
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}
	assert.Len(t, get(bia, "/api/stores/loja/timeclock"), 2)
	own := get(ana, "/api/stores/loja/timeclock?userId=bia")
	require.Len(t, own, 1)
	assert.Equal(t, "ana", own[0].UserID)

	req := httptest.NewRequest(http.MethodPost, "/api/stores/loja/timeclock", strings.NewReader(`{"tipo":"entrada"}`))
	req = req.WithContext(auth.WithUser(req.Context(), ana))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
