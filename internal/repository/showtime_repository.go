package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Showtime represents a named time-of-day slot such as
// "Matinée 12:30". Screenings reference a showtime in addition to their
// concrete date-time so the admin UI can group by slot.
type Showtime struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	TimeOfDay string `json:"time_of_day"` // "HH:MM:SS"
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ErrShowtimeNotFound is returned when a showtime lookup fails.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo manages persistence for showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// Create inserts a new showtime and reads the row back to populate
// timestamps.
func (r *ShowtimeRepo) Create(ctx context.Context, st *Showtime) error {
	const qInsert = `INSERT INTO showtimes (name, time_of_day) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, st.Name, st.TimeOfDay)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)

	const qSelect = `SELECT id, name, time_of_day, created_at, updated_at FROM showtimes WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, st.ID).
		Scan(&st.ID, &st.Name, &st.TimeOfDay, &st.CreatedAt, &st.UpdatedAt)
}

// GetByID retrieves a showtime by its ID, returning ErrShowtimeNotFound
// when absent.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*Showtime, error) {
	const q = `SELECT id, name, time_of_day, created_at, updated_at FROM showtimes WHERE id = ?`
	var st Showtime
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&st.ID, &st.Name, &st.TimeOfDay, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return &st, nil
}

// List returns all showtimes ordered by time of day.
func (r *ShowtimeRepo) List(ctx context.Context) ([]*Showtime, error) {
	const q = `SELECT id, name, time_of_day, created_at, updated_at
	           FROM showtimes ORDER BY time_of_day`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Showtime
	for rows.Next() {
		st := new(Showtime)
		if err := rows.Scan(&st.ID, &st.Name, &st.TimeOfDay, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites name and time_of_day. Returns ErrShowtimeNotFound when
// the row is missing.
func (r *ShowtimeRepo) Update(ctx context.Context, st *Showtime) error {
	const q = `UPDATE showtimes
	           SET name = ?, time_of_day = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, st.Name, st.TimeOfDay, st.ID); err != nil {
		return err
	}
	const sel = `SELECT id, name, time_of_day, created_at, updated_at FROM showtimes WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, st.ID).
		Scan(&st.ID, &st.Name, &st.TimeOfDay, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShowtimeNotFound
		}
		return err
	}
	return nil
}

// Delete removes a showtime by id, yielding ErrInUse when screenings still
// reference it.
func (r *ShowtimeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM showtimes WHERE id = ?`, id)
	if err != nil {
		if isRowReferencedErr(err) {
			return ErrInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShowtimeNotFound
	}
	return nil
}
