package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/queue"
	"github.com/rmartelo/cine-admin/internal/repository"
	queue_publisher "github.com/rmartelo/cine-admin/internal/service"
	"github.com/rmartelo/cine-admin/internal/validation"
)

// ListScreenings handles GET /v1/screenings and returns all screenings
// joined with their movie, room and showtime, newest schedule first.
func (h *Handler) ListScreenings(c echo.Context) error {
	items, err := h.Screenings.List(c.Request().Context())
	if err != nil {
		log.Printf("screenings: list failed: %v", err)
		return storeFailure(c, err)
	}
	return respondList(c, items, len(items), "screenings retrieved")
}

// ListScreeningsByRange handles GET /v1/screenings/range?start=&end= with
// calendar dates in "2006-01-02" form.
func (h *Handler) ListScreeningsByRange(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return respondError(c, http.StatusBadRequest, "dates required", "start and end dates are required")
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return respondError(c, http.StatusBadRequest, "invalid date", "dates must use the YYYY-MM-DD format")
		}
	}
	items, err := h.Screenings.ListByDateRange(c.Request().Context(), start, end)
	if err != nil {
		log.Printf("screenings: range %s..%s failed: %v", start, end, err)
		return storeFailure(c, err)
	}
	return respondList(c, items, len(items), "screenings retrieved for date range")
}

// GetRelatedData handles GET /v1/screenings/related. It returns the lookup
// rows the screening form needs: all movies, active rooms and all
// showtimes, each in form-friendly order.
func (h *Handler) GetRelatedData(c echo.Context) error {
	ctx := c.Request().Context()
	movies, err := h.Movies.ListForForms(ctx)
	if err != nil {
		log.Printf("screenings: related movies failed: %v", err)
		return storeFailure(c, err)
	}
	rooms, err := h.Rooms.ListActive(ctx)
	if err != nil {
		log.Printf("screenings: related rooms failed: %v", err)
		return storeFailure(c, err)
	}
	showtimes, err := h.Showtimes.List(ctx)
	if err != nil {
		log.Printf("screenings: related showtimes failed: %v", err)
		return storeFailure(c, err)
	}
	return respondOK(c, map[string]any{
		"movies":    movies,
		"rooms":     rooms,
		"showtimes": showtimes,
	}, "related data retrieved")
}

// GetScreening handles GET /v1/screenings/:id.
func (h *Handler) GetScreening(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	d, err := h.Screenings.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return respondError(c, http.StatusNotFound, "screening not found", "no screening exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("screenings: get %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	return respondOK(c, d, "screening retrieved")
}

// CreateScreening handles POST /v1/screenings. Validation runs before the
// conflict check, and the conflict check shares a transaction with the
// insert so two concurrent writers cannot both claim the same slot.
func (h *Handler) CreateScreening(c echo.Context) error {
	var in validation.ScreeningInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := validation.ValidateScreening(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}

	s := screeningFromInput(in, 0)
	d, err := h.Screenings.Create(c.Request().Context(), s)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleConflict) {
			return respondError(c, http.StatusConflict, "schedule conflict",
				"an active screening is already scheduled in this room at the selected date and time")
		}
		log.Printf("screenings: create failed: %v", err)
		return storeFailure(c, err)
	}
	log.Printf("screenings: created id=%d room=%d starts_at=%s", d.ID, d.RoomID, d.StartsAt)
	publishChange("created", d)
	return respondCreated(c, d, d.ID, "screening created")
}

// UpdateScreening handles PUT /v1/screenings/:id with the same ordering as
// create, after verifying the target exists.
func (h *Handler) UpdateScreening(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in validation.ScreeningInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := validation.ValidateScreening(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx := c.Request().Context()
	if _, err := h.Screenings.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return respondError(c, http.StatusNotFound, "screening not found", "no screening exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("screenings: update %d lookup failed: %v", id, err)
		return storeFailure(c, err)
	}

	s := screeningFromInput(in, id)
	d, err := h.Screenings.Update(ctx, s)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrScheduleConflict):
			return respondError(c, http.StatusConflict, "schedule conflict",
				"another active screening is already scheduled in this room at the selected date and time")
		case errors.Is(err, repository.ErrScreeningNotFound):
			return respondError(c, http.StatusNotFound, "screening not found", "no screening exists with id "+strconv.FormatUint(id, 10))
		default:
			log.Printf("screenings: update %d failed: %v", id, err)
			return storeFailure(c, err)
		}
	}
	log.Printf("screenings: updated id=%d", id)
	publishChange("updated", d)
	return respondOK(c, d, "screening updated")
}

// DeleteScreening handles DELETE /v1/screenings/:id.
func (h *Handler) DeleteScreening(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx := c.Request().Context()
	d, err := h.Screenings.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return respondError(c, http.StatusNotFound, "screening not found", "no screening exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("screenings: delete %d lookup failed: %v", id, err)
		return storeFailure(c, err)
	}
	if err := h.Screenings.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScreeningNotFound) {
			return respondError(c, http.StatusNotFound, "screening not found", "no screening exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("screenings: delete %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	log.Printf("screenings: deleted id=%d", id)
	publishChange("deleted", d)
	return respondDeleted(c, id, "screening deleted")
}

// screeningFromInput converts a validated payload into the repository
// model. The reference ids parsed here cannot fail after validation.
func screeningFromInput(in validation.ScreeningInput, id uint64) *repository.Screening {
	movieID, _ := strconv.ParseUint(string(in.MovieID), 10, 64)
	roomID, _ := strconv.ParseUint(string(in.RoomID), 10, 64)
	showtimeID, _ := strconv.ParseUint(string(in.ShowtimeID), 10, 64)
	return &repository.Screening{
		ID:         id,
		StartsAt:   validation.NormalizeDateTime(in.StartsAt),
		IsActive:   in.IsActive,
		MovieID:    movieID,
		RoomID:     roomID,
		ShowtimeID: showtimeID,
	}
}

// publishChange emits a schedule.changed event for the audit consumer.
// Failures are logged by the publisher and never interrupt the request.
func publishChange(action string, d *repository.ScreeningDetail) {
	ev := queue.ScheduleChangedEvent{
		Action:      action,
		ScreeningID: d.ID,
		MovieTitle:  d.MovieTitle,
		RoomName:    d.RoomName,
		Showtime:    d.ShowtimeName,
		StartsAt:    d.StartsAt,
		IsActive:    d.IsActive,
		OccurredAt:  time.Now().UTC().Format(validation.DateTimeLayout),
	}
	go func() {
		_ = queue_publisher.PublishScheduleChanged(context.Background(), ev)
	}()
}
