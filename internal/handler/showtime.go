package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/repository"
)

// showtimeInput is the write payload for showtime slots.
type showtimeInput struct {
	Name      string `json:"name"`
	TimeOfDay string `json:"time_of_day"`
}

// validate checks the slot label and time. The time is normalized to
// "HH:MM:SS" so the column sorts correctly.
func (in *showtimeInput) validate() ([]string, string) {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	normalized := ""
	raw := strings.TrimSpace(in.TimeOfDay)
	if raw == "" {
		errs = append(errs, "time_of_day is required")
	} else {
		parsed := false
		for _, layout := range []string{"15:04:05", "15:04"} {
			if t, err := time.Parse(layout, raw); err == nil {
				normalized = t.Format("15:04:05")
				parsed = true
				break
			}
		}
		if !parsed {
			errs = append(errs, "time_of_day must be a valid time (HH:MM)")
		}
	}
	return errs, normalized
}

// ListShowtimes handles GET /v1/showtimes ordered by time of day.
func (h *Handler) ListShowtimes(c echo.Context) error {
	showtimes, err := h.Showtimes.List(c.Request().Context())
	if err != nil {
		log.Printf("showtimes: list failed: %v", err)
		return storeFailure(c, err)
	}
	return respondList(c, showtimes, len(showtimes), "showtimes retrieved")
}

// GetShowtime handles GET /v1/showtimes/:id.
func (h *Handler) GetShowtime(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	st, err := h.Showtimes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found", "no showtime exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("showtimes: get %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	return respondOK(c, st, "showtime retrieved")
}

// CreateShowtime handles POST /v1/showtimes.
func (h *Handler) CreateShowtime(c echo.Context) error {
	var in showtimeInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	errs, timeOfDay := in.validate()
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}
	st := &repository.Showtime{
		Name:      strings.TrimSpace(in.Name),
		TimeOfDay: timeOfDay,
	}
	if err := h.Showtimes.Create(c.Request().Context(), st); err != nil {
		log.Printf("showtimes: create failed: %v", err)
		return storeFailure(c, err)
	}
	log.Printf("showtimes: created id=%d name=%q", st.ID, st.Name)
	return respondCreated(c, st, st.ID, "showtime created")
}

// UpdateShowtime handles PUT /v1/showtimes/:id.
func (h *Handler) UpdateShowtime(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in showtimeInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	errs, timeOfDay := in.validate()
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx := c.Request().Context()
	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found", "no showtime exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("showtimes: update %d lookup failed: %v", id, err)
		return storeFailure(c, err)
	}

	st := &repository.Showtime{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		TimeOfDay: timeOfDay,
	}
	if err := h.Showtimes.Update(ctx, st); err != nil {
		if errors.Is(err, repository.ErrShowtimeNotFound) {
			return respondError(c, http.StatusNotFound, "showtime not found", "no showtime exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("showtimes: update %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	log.Printf("showtimes: updated id=%d", id)
	return respondOK(c, st, "showtime updated")
}

// DeleteShowtime handles DELETE /v1/showtimes/:id.
func (h *Handler) DeleteShowtime(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Showtimes.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowtimeNotFound):
			return respondError(c, http.StatusNotFound, "showtime not found", "no showtime exists with id "+strconv.FormatUint(id, 10))
		case errors.Is(err, repository.ErrInUse):
			return respondError(c, http.StatusConflict, "showtime in use", "the showtime cannot be deleted because screenings still reference it")
		default:
			log.Printf("showtimes: delete %d failed: %v", id, err)
			return storeFailure(c, err)
		}
	}
	log.Printf("showtimes: deleted id=%d", id)
	return respondDeleted(c, id, "showtime deleted")
}
