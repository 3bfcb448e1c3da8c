package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const slotCountQuery = `SELECT COUNT(*) FROM screenings WHERE room_id = ? AND starts_at = ? AND is_active = 1`

var screeningDetailCols = []string{
	"id", "starts_at", "is_active", "movie_id", "room_id", "showtime_id",
	"created_at", "updated_at",
	"title", "duration_min", "name", "type", "name", "time_of_day",
}

func screeningDetailRow(mock sqlmock.Sqlmock, id int64, startsAt string) *sqlmock.Rows {
	return mock.NewRows(screeningDetailCols).AddRow(
		id, startsAt, true, 1, 2, 3,
		"2026-01-01 10:00:00", "2026-01-01 10:00:00",
		"Dune", 155, "Room A", "2D", "Evening", "18:00:00",
	)
}

func TestCreateScreening(t *testing.T) {
	h, mock := newTestHandler(t)
	startsAt := "2035-06-01 18:00:00"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(slotCountQuery + ` FOR UPDATE`)).
		WithArgs(int64(2), startsAt).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO screenings`)).
		WithArgs(startsAt, true, int64(1), int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.id, s.starts_at`)).
		WithArgs(int64(9)).
		WillReturnRows(screeningDetailRow(mock, 9, startsAt))
	mock.ExpectCommit()

	rec := perform(t, h.CreateScreening, http.MethodPost, "/v1/screenings", "",
		`{"starts_at":"2035-06-01T18:00","is_active":true,"movie_id":"1","room_id":2,"showtime_id":3}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(9), body["id"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Dune", data["movie_title"])
	assert.Equal(t, startsAt, data["starts_at"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateScreeningRejectsPastDateTime(t *testing.T) {
	h, mock := newTestHandler(t)

	// Validation runs before any store access.
	rec := perform(t, h.CreateScreening, http.MethodPost, "/v1/screenings", "",
		`{"starts_at":"2001-01-01 18:00:00","movie_id":1,"room_id":2,"showtime_id":3}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, errorStrings(t, body), "starts_at must be in the future")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateScreeningConflict(t *testing.T) {
	h, mock := newTestHandler(t)
	startsAt := "2035-06-01 18:00:00"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(slotCountQuery + ` FOR UPDATE`)).
		WithArgs(int64(2), startsAt).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	rec := perform(t, h.CreateScreening, http.MethodPost, "/v1/screenings", "",
		`{"starts_at":"2035-06-01 18:00:00","is_active":true,"movie_id":1,"room_id":2,"showtime_id":3}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "schedule conflict", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateScreeningKeepsOwnSlot(t *testing.T) {
	h, mock := newTestHandler(t)
	startsAt := "2035-06-01 18:00:00"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, starts_at`)).
		WithArgs(int64(9)).
		WillReturnRows(mock.NewRows([]string{
			"id", "starts_at", "is_active", "movie_id", "room_id", "showtime_id", "created_at", "updated_at",
		}).AddRow(9, startsAt, true, 1, 2, 3, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(slotCountQuery+` AND id <> ? FOR UPDATE`)).
		WithArgs(int64(2), startsAt, int64(9)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE screenings`)).
		WithArgs(startsAt, true, int64(1), int64(2), int64(3), int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.id, s.starts_at`)).
		WithArgs(int64(9)).
		WillReturnRows(screeningDetailRow(mock, 9, startsAt))
	mock.ExpectCommit()

	rec := perform(t, h.UpdateScreening, http.MethodPut, "/v1/screenings/9", "9",
		`{"starts_at":"2035-06-01 18:00:00","is_active":true,"movie_id":1,"room_id":2,"showtime_id":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteScreeningNotFound(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.id, s.starts_at`)).
		WithArgs(int64(42)).
		WillReturnRows(mock.NewRows(screeningDetailCols))

	rec := perform(t, h.DeleteScreening, http.MethodDelete, "/v1/screenings/42", "42", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "screening not found", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListScreeningsByRangeRequiresDates(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := perform(t, h.ListScreeningsByRange, http.MethodGet, "/v1/screenings/range?start=2035-06-01", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "dates required", decode(t, rec)["error"])

	rec = perform(t, h.ListScreeningsByRange, http.MethodGet, "/v1/screenings/range?start=01-06-2035&end=2035-06-07", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid date", decode(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRelatedData(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM movies ORDER BY title`)).
		WillReturnRows(mock.NewRows(movieCols).
			AddRow(1, "Alien", 117, 1979, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM rooms WHERE is_active = 1 ORDER BY name`)).
		WillReturnRows(mock.NewRows([]string{"id", "name", "type", "is_active", "created_at", "updated_at"}).
			AddRow(2, "Room A", "2D", true, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM showtimes ORDER BY time_of_day`)).
		WillReturnRows(mock.NewRows([]string{"id", "name", "time_of_day", "created_at", "updated_at"}).
			AddRow(3, "Evening", "18:00:00", "2026-01-01 10:00:00", "2026-01-01 10:00:00"))

	rec := perform(t, h.GetRelatedData, http.MethodGet, "/v1/screenings/related", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Len(t, data["movies"], 1)
	assert.Len(t, data["rooms"], 1)
	assert.Len(t, data["showtimes"], 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
