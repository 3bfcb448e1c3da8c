package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movieCols = []string{"id", "title", "duration_min", "year", "created_at", "updated_at"}

func TestCreateMovie(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO movies`)).
		WithArgs("Dune", 155, 2021).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM movies WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnRows(mock.NewRows(movieCols).
			AddRow(5, "Dune", 155, 2021, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))

	rec := perform(t, h.CreateMovie, http.MethodPost, "/v1/movies", "",
		`{"title":"Dune","duration":"155","year":2021}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(5), body["id"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Dune", data["title"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMovieReportsAllValidationErrors(t *testing.T) {
	h, mock := newTestHandler(t)

	// Invalid payloads never reach the store.
	rec := perform(t, h.CreateMovie, http.MethodPost, "/v1/movies", "",
		`{"title":"","duration":0,"year":1800}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Len(t, errorStrings(t, body), 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMovieInvalidID(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := perform(t, h.GetMovie, http.MethodGet, "/v1/movies/abc", "abc", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "invalid id", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMovieNotFound(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM movies WHERE id = ?`)).
		WithArgs(int64(42)).
		WillReturnRows(mock.NewRows(movieCols))

	rec := perform(t, h.GetMovie, http.MethodGet, "/v1/movies/42", "42", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "movie not found", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMovies(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM movies ORDER BY id DESC`)).
		WillReturnRows(mock.NewRows(movieCols).
			AddRow(2, "Dune", 155, 2021, "2026-01-01 10:00:00", "2026-01-01 10:00:00").
			AddRow(1, "Alien", 117, 1979, "2026-01-01 10:00:00", "2026-01-01 10:00:00"))

	rec := perform(t, h.ListMovies, http.MethodGet, "/v1/movies", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchMoviesRequiresQuery(t *testing.T) {
	h, mock := newTestHandler(t)

	rec := perform(t, h.SearchMovies, http.MethodGet, "/v1/movies/search?query=+", "", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "empty query", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMovieInUse(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM movies WHERE id = ?`)).
		WithArgs(int64(5)).
		WillReturnError(mysqlReferencedErr())

	rec := perform(t, h.DeleteMovie, http.MethodDelete, "/v1/movies/5", "5", "")

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "movie in use", body["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
