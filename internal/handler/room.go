package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/repository"
)

// roomInput is the write payload for rooms. IsActive defaults to true when
// the field is omitted, matching the DB default.
type roomInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	IsActive *bool  `json:"is_active"`
}

func (in *roomInput) validate() []string {
	var errs []string
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		errs = append(errs, "type is required")
	}
	return errs
}

func (in *roomInput) active() bool {
	if in.IsActive == nil {
		return true
	}
	return *in.IsActive
}

// ListRooms handles GET /v1/rooms, ascending id.
func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		log.Printf("rooms: list failed: %v", err)
		return storeFailure(c, err)
	}
	return respondList(c, rooms, len(rooms), "rooms retrieved")
}

// GetRoom handles GET /v1/rooms/:id.
func (h *Handler) GetRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	rm, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return respondError(c, http.StatusNotFound, "room not found", "no room exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("rooms: get %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	return respondOK(c, rm, "room retrieved")
}

// CreateRoom handles POST /v1/rooms.
func (h *Handler) CreateRoom(c echo.Context) error {
	var in roomInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := in.validate(); len(errs) > 0 {
		return respondValidation(c, errs)
	}
	rm := &repository.Room{
		Name:     strings.TrimSpace(in.Name),
		Type:     strings.TrimSpace(in.Type),
		IsActive: in.active(),
	}
	if err := h.Rooms.Create(c.Request().Context(), rm); err != nil {
		log.Printf("rooms: create failed: %v", err)
		return storeFailure(c, err)
	}
	log.Printf("rooms: created id=%d name=%q", rm.ID, rm.Name)
	return respondCreated(c, rm, rm.ID, "room created")
}

// UpdateRoom handles PUT /v1/rooms/:id.
func (h *Handler) UpdateRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in roomInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := in.validate(); len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return respondError(c, http.StatusNotFound, "room not found", "no room exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("rooms: update %d lookup failed: %v", id, err)
		return storeFailure(c, err)
	}

	rm := &repository.Room{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Type:     strings.TrimSpace(in.Type),
		IsActive: in.active(),
	}
	if err := h.Rooms.Update(ctx, rm); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return respondError(c, http.StatusNotFound, "room not found", "no room exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("rooms: update %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	log.Printf("rooms: updated id=%d", id)
	return respondOK(c, rm, "room updated")
}

// DeleteRoom handles DELETE /v1/rooms/:id.
func (h *Handler) DeleteRoom(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return respondError(c, http.StatusNotFound, "room not found", "no room exists with id "+strconv.FormatUint(id, 10))
		case errors.Is(err, repository.ErrInUse):
			return respondError(c, http.StatusConflict, "room in use", "the room cannot be deleted because screenings still reference it")
		default:
			log.Printf("rooms: delete %d failed: %v", id, err)
			return storeFailure(c, err)
		}
	}
	log.Printf("rooms: deleted id=%d", id)
	return respondDeleted(c, id, "room deleted")
}
