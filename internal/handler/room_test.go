package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomCols = []string{"id", "name", "type", "is_active", "created_at", "updated_at"}

func TestCreateRoom(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO rooms`)).
		WithArgs("Room A", "2D", true).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE id = ?`)).
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows(roomCols).
			AddRow(2, "Room A", "2D", true, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))

	// is_active omitted defaults to true.
	rec := perform(t, h.CreateRoom, http.MethodPost, "/v1/rooms", "",
		`{"name":"Room A","type":"2D"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["id"])
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["is_active"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomMissingFields(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := perform(t, h.CreateRoom, http.MethodPost, "/v1/rooms", "", `{"name":" ","type":""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := errorStrings(t, decode(t, rec))
	assert.Equal(t, []string{"name is required", "type is required"}, errs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRoomInUse(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM rooms WHERE id = ?`)).
		WithArgs(int64(2)).
		WillReturnError(mysqlReferencedErr())

	rec := perform(t, h.DeleteRoom, http.MethodDelete, "/v1/rooms/2", "2", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "room in use", decode(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
