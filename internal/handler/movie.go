package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/repository"
	"github.com/rmartelo/cine-admin/internal/validation"
)

// ListMovies handles GET /v1/movies and returns all movies, newest first.
func (h *Handler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		log.Printf("movies: list failed: %v", err)
		return storeFailure(c, err)
	}
	return respondList(c, movies, len(movies), "movies retrieved")
}

// SearchMovies handles GET /v1/movies/search?query= and returns movies
// whose title contains the query, alphabetically.
func (h *Handler) SearchMovies(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return respondError(c, http.StatusBadRequest, "empty query", "the search query must not be empty")
	}
	movies, err := h.Movies.SearchByTitle(c.Request().Context(), query)
	if err != nil {
		log.Printf("movies: search %q failed: %v", query, err)
		return storeFailure(c, err)
	}
	return respondList(c, movies, len(movies), "search completed")
}

// GetMovie handles GET /v1/movies/:id.
func (h *Handler) GetMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found", "no movie exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("movies: get %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	return respondOK(c, m, "movie retrieved")
}

// CreateMovie handles POST /v1/movies. All field rules are checked before
// the insert; every violated rule is reported.
func (h *Handler) CreateMovie(c echo.Context) error {
	var in validation.MovieInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := validation.ValidateMovie(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}

	duration, _ := strconv.Atoi(string(in.Duration))
	year, _ := strconv.Atoi(string(in.Year))
	m := &repository.Movie{
		Title:       strings.TrimSpace(in.Title),
		DurationMin: duration,
		Year:        year,
	}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		log.Printf("movies: create failed: %v", err)
		return storeFailure(c, err)
	}
	log.Printf("movies: created id=%d title=%q", m.ID, m.Title)
	return respondCreated(c, m, m.ID, "movie created")
}

// UpdateMovie handles PUT /v1/movies/:id with full-record semantics.
func (h *Handler) UpdateMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var in validation.MovieInput
	if err := c.Bind(&in); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "the request body could not be parsed")
	}
	if errs := validation.ValidateMovie(in); len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found", "no movie exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("movies: update %d lookup failed: %v", id, err)
		return storeFailure(c, err)
	}

	duration, _ := strconv.Atoi(string(in.Duration))
	year, _ := strconv.Atoi(string(in.Year))
	m := &repository.Movie{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		DurationMin: duration,
		Year:        year,
	}
	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return respondError(c, http.StatusNotFound, "movie not found", "no movie exists with id "+strconv.FormatUint(id, 10))
		}
		log.Printf("movies: update %d failed: %v", id, err)
		return storeFailure(c, err)
	}
	log.Printf("movies: updated id=%d", id)
	return respondOK(c, m, "movie updated")
}

// DeleteMovie handles DELETE /v1/movies/:id. Movies still referenced by
// screenings are reported as in use, not as a generic failure.
func (h *Handler) DeleteMovie(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return respondError(c, http.StatusNotFound, "movie not found", "no movie exists with id "+strconv.FormatUint(id, 10))
		case errors.Is(err, repository.ErrInUse):
			return respondError(c, http.StatusConflict, "movie in use", "the movie cannot be deleted because screenings still reference it")
		default:
			log.Printf("movies: delete %d failed: %v", id, err)
			return storeFailure(c, err)
		}
	}
	log.Printf("movies: deleted id=%d", id)
	return respondDeleted(c, id, "movie deleted")
}
