// Package handler contains the HTTP resource controllers. Each controller
// follows the same shape: parse the identifier, validate the payload, run
// the domain checks, call the repository and translate the outcome into a
// status code. All errors are handled here; repositories only return
// sentinel values.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/repository"
)

// Handler bundles the repositories the resource controllers operate on.
type Handler struct {
	Movies     *repository.MovieRepo
	Rooms      *repository.RoomRepo
	Showtimes  *repository.ShowtimeRepo
	Screenings *repository.ScreeningRepo
}

// New constructs a Handler and panics if any dependency is nil.
func New(movies *repository.MovieRepo, rooms *repository.RoomRepo, showtimes *repository.ShowtimeRepo, screenings *repository.ScreeningRepo) *Handler {
	if movies == nil || rooms == nil || showtimes == nil || screenings == nil {
		panic("nil repository passed to handler.New")
	}
	return &Handler{
		Movies:     movies,
		Rooms:      rooms,
		Showtimes:  showtimes,
		Screenings: screenings,
	}
}

// parseID parses the :id path parameter. A non-numeric id is an
// InvalidIdentifier, distinct from NotFound.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Response envelope helpers. The shape follows the admin UI contract:
// successful responses carry {success, data, message} (plus count for
// lists and id for creates), failures carry {success, error, message} and
// validation failures the full error list.

func respondList(c echo.Context, data any, count int, msg string) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
		"count":   count,
		"message": msg,
	})
}

func respondOK(c echo.Context, data any, msg string) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
		"message": msg,
	})
}

func respondCreated(c echo.Context, data any, id uint64, msg string) error {
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    data,
		"id":      id,
		"message": msg,
	})
}

func respondDeleted(c echo.Context, id uint64, msg string) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"deleted_id": id,
		"message":    msg,
	})
}

func respondError(c echo.Context, status int, errMsg, msg string) error {
	return c.JSON(status, map[string]any{
		"success": false,
		"error":   errMsg,
		"message": msg,
	})
}

func respondValidation(c echo.Context, errs []string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"success": false,
		"errors":  errs,
		"message": "validation failed",
	})
}

func invalidID(c echo.Context) error {
	return respondError(c, http.StatusBadRequest, "invalid id", "the id must be a positive number")
}

// storeFailure surfaces the underlying message; acceptable for an internal
// admin tool.
func storeFailure(c echo.Context, err error) error {
	return respondError(c, http.StatusInternalServerError, err.Error(), "internal server error")
}
