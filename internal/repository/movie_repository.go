// Package repository contains data access logic separated from HTTP
// handlers. This file defines the Movie model and repository methods for
// CRUD and search operations. A Movie is the catalog entry screenings are
// scheduled against; deleting one is rejected while screenings reference it.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Movie represents a movie row persisted in the database. The ID field is
// the primary key and is auto-incremented by the DB.
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	DurationMin int    `json:"duration"` // runtime in minutes
	Year        int    `json:"year"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ErrMovieNotFound is returned when a movie cannot be found in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo encapsulates all database queries related to movies. It depends
// on a sql.DB connection which should be configured elsewhere.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a new movie into the database. On success the movie's ID
// field is populated with the auto-generated value, and a follow-up SELECT
// fills the DB-default timestamp fields so callers receive a fully
// populated record.
func (r *MovieRepo) Create(ctx context.Context, m *Movie) error {
	const qInsert = `INSERT INTO movies (title, duration_min, year) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, m.Title, m.DurationMin, m.Year)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const qSelect = `SELECT id, title, duration_min, year, created_at, updated_at FROM movies WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, m.ID).
		Scan(&m.ID, &m.Title, &m.DurationMin, &m.Year, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID fetches a movie by its ID. It returns ErrMovieNotFound if no row
// is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*Movie, error) {
	const q = `SELECT id, title, duration_min, year, created_at, updated_at FROM movies WHERE id = ?`
	var m Movie
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&m.ID, &m.Title, &m.DurationMin, &m.Year, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies, newest first.
func (r *MovieRepo) List(ctx context.Context) ([]*Movie, error) {
	const q = `SELECT id, title, duration_min, year, created_at, updated_at
	           FROM movies ORDER BY id DESC`
	return r.queryMovies(ctx, q)
}

// SearchByTitle returns movies whose title contains the query string,
// ordered alphabetically.
func (r *MovieRepo) SearchByTitle(ctx context.Context, query string) ([]*Movie, error) {
	const q = `SELECT id, title, duration_min, year, created_at, updated_at
	           FROM movies WHERE title LIKE ? ORDER BY title`
	return r.queryMovies(ctx, q, "%"+query+"%")
}

// ListForForms returns all movies ordered by title for select inputs on the
// screening form.
func (r *MovieRepo) ListForForms(ctx context.Context) ([]*Movie, error) {
	const q = `SELECT id, title, duration_min, year, created_at, updated_at
	           FROM movies ORDER BY title`
	return r.queryMovies(ctx, q)
}

func (r *MovieRepo) queryMovies(ctx context.Context, q string, args ...any) ([]*Movie, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Movie
	for rows.Next() {
		m := new(Movie)
		if err := rows.Scan(&m.ID, &m.Title, &m.DurationMin, &m.Year, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites all mutable fields of a movie. It returns
// ErrMovieNotFound when no row matches the id. There is no partial-field
// patch; callers send the full record.
func (r *MovieRepo) Update(ctx context.Context, m *Movie) error {
	const q = `UPDATE movies
	           SET title = ?, duration_min = ?, year = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, m.Title, m.DurationMin, m.Year, m.ID); err != nil {
		return err
	}
	// Re-read so callers see the stored row, including updated_at.
	const sel = `SELECT id, title, duration_min, year, created_at, updated_at FROM movies WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, m.ID).
		Scan(&m.ID, &m.Title, &m.DurationMin, &m.Year, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return err
	}
	return nil
}

// Delete removes a movie by id. It returns ErrMovieNotFound when the row
// does not exist and ErrInUse when screenings still reference the movie
// (foreign key restrict).
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		if isRowReferencedErr(err) {
			return ErrInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
