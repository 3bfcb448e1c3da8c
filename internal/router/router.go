// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rmartelo/cine-admin/internal/handler"
)

// RegisterRoutes registers the health check and the static admin UI on the
// provided Echo instance. The UI under public/ is plain HTML/JS that calls
// the JSON endpoints below.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.Static("/", "public")
}

// RegisterAPI registers the JSON resource endpoints under /v1. Every
// resource exposes the same operation shape: list, get by id, create,
// update, delete.
func RegisterAPI(e *echo.Echo, h *handler.Handler, middlewares ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middlewares...)

	// ---- Movies ----
	g.GET("/movies", h.ListMovies)
	g.GET("/movies/search", h.SearchMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.POST("/movies", h.CreateMovie)
	g.PUT("/movies/:id", h.UpdateMovie)
	g.PATCH("/movies/:id", h.UpdateMovie) // full-record semantics either way
	g.DELETE("/movies/:id", h.DeleteMovie)

	// ---- Rooms ----
	g.GET("/rooms", h.ListRooms)
	g.GET("/rooms/:id", h.GetRoom)
	g.POST("/rooms", h.CreateRoom)
	g.PUT("/rooms/:id", h.UpdateRoom)
	g.PATCH("/rooms/:id", h.UpdateRoom)
	g.DELETE("/rooms/:id", h.DeleteRoom)

	// ---- Showtimes ----
	g.GET("/showtimes", h.ListShowtimes)
	g.GET("/showtimes/:id", h.GetShowtime)
	g.POST("/showtimes", h.CreateShowtime)
	g.PUT("/showtimes/:id", h.UpdateShowtime)
	g.PATCH("/showtimes/:id", h.UpdateShowtime)
	g.DELETE("/showtimes/:id", h.DeleteShowtime)

	// ---- Screenings ----
	// The static segments (range/related) must be registered alongside
	// the :id route; Echo prefers exact matches.
	g.GET("/screenings", h.ListScreenings)
	g.GET("/screenings/range", h.ListScreeningsByRange)
	g.GET("/screenings/related", h.GetRelatedData)
	g.GET("/screenings/:id", h.GetScreening)
	g.POST("/screenings", h.CreateScreening)
	g.PUT("/screenings/:id", h.UpdateScreening)
	g.PATCH("/screenings/:id", h.UpdateScreening)
	g.DELETE("/screenings/:id", h.DeleteScreening)
}
