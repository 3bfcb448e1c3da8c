package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rmartelo/cine-admin/internal/repository"
)

// newTestHandler wires all four repositories onto a single mocked DB so a
// handler test can script exactly the statements it expects.
func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := New(
		repository.NewMovieRepo(db),
		repository.NewRoomRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewScreeningRepo(db),
	)
	return h, mock
}

// perform runs a handler func against a synthetic request. id is bound to
// the :id path parameter when non-empty; body is sent as JSON when non-empty.
func perform(t *testing.T, fn echo.HandlerFunc, method, target, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	require.NoError(t, fn(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// mysqlReferencedErr mimics ER_ROW_IS_REFERENCED_2, the error MySQL raises
// when a foreign key blocks a delete.
func mysqlReferencedErr() error {
	return &mysql.MySQLError{Number: 1451, Message: "Cannot delete or update a parent row"}
}

// errorStrings pulls the validation error list out of a decoded body.
func errorStrings(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["errors"].([]any)
	require.True(t, ok, "body has no errors list: %v", body)
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = v.(string)
	}
	return out
}
