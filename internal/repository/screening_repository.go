// Package repository contains data access logic for screening
// operations. A Screening schedules a movie into a room at a concrete
// date-time and named showtime slot. The invariant guarded here is that a
// room holds at most one active screening per exact date-time; the check
// and the write share one transaction so concurrent writers serialize on
// the row locks instead of racing past each other.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Screening represents a scheduled showing of a movie in a room.
// NOTE: StartsAt is stored in DB format "2006-01-02 15:04:05" (UTC).
type Screening struct {
	ID         uint64 `json:"id"`
	StartsAt   string `json:"starts_at"`
	IsActive   bool   `json:"is_active"`
	MovieID    uint64 `json:"movie_id"`
	RoomID     uint64 `json:"room_id"`
	ShowtimeID uint64 `json:"showtime_id"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// ScreeningDetail is a screening joined with the rows it references, the
// shape the admin tables render directly.
type ScreeningDetail struct {
	Screening
	MovieTitle       string `json:"movie_title"`
	MovieDurationMin int    `json:"movie_duration"`
	RoomName         string `json:"room_name"`
	RoomType         string `json:"room_type"`
	ShowtimeName     string `json:"showtime_name"`
	ShowtimeTime     string `json:"showtime_time"`
}

// ErrScreeningNotFound indicates that a screening was not located in the DB.
var ErrScreeningNotFound = errors.New("screening not found")

// ScreeningRepo manages persistence for screenings.
type ScreeningRepo struct {
	db *sql.DB
}

// NewScreeningRepo constructs a ScreeningRepo with the given DB handle.
func NewScreeningRepo(db *sql.DB) *ScreeningRepo {
	return &ScreeningRepo{db: db}
}

const detailColumns = `s.id, s.starts_at, s.is_active, s.movie_id, s.room_id, s.showtime_id,
              s.created_at, s.updated_at,
              m.title, m.duration_min, r.name, r.type, st.name, st.time_of_day`

const detailJoins = `FROM screenings s
              JOIN movies m ON m.id = s.movie_id
              JOIN rooms r ON r.id = s.room_id
              JOIN showtimes st ON st.id = s.showtime_id`

func scanDetail(row interface{ Scan(...any) error }, d *ScreeningDetail) error {
	return row.Scan(
		&d.ID, &d.StartsAt, &d.IsActive, &d.MovieID, &d.RoomID, &d.ShowtimeID,
		&d.CreatedAt, &d.UpdatedAt,
		&d.MovieTitle, &d.MovieDurationMin, &d.RoomName, &d.RoomType,
		&d.ShowtimeName, &d.ShowtimeTime,
	)
}

// HasConflict reports whether another active screening already occupies the
// given room at the exact date-time. Exact equality, not an interval
// overlap: screenings are point events in this schema. When excludeID is
// non-zero that screening is ignored so an update does not collide with
// itself. This variant reads without locking; the write paths use the
// locking check inside their transaction.
func (r *ScreeningRepo) HasConflict(ctx context.Context, roomID uint64, startsAt string, excludeID uint64) (bool, error) {
	return hasConflict(ctx, r.db, roomID, startsAt, excludeID, false)
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func hasConflict(ctx context.Context, q queryer, roomID uint64, startsAt string, excludeID uint64, forUpdate bool) (bool, error) {
	query := `SELECT COUNT(*) FROM screenings WHERE room_id = ? AND starts_at = ? AND is_active = 1`
	args := []any{roomID, startsAt}
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}
	if forUpdate {
		// Lock matching index entries so a concurrent writer for the same
		// slot blocks until this transaction finishes.
		query += ` FOR UPDATE`
	}
	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new screening. The conflict check and the INSERT run in
// one transaction; ErrScheduleConflict is returned (and nothing written)
// when the slot is already taken by an active screening. On success the
// joined detail row is returned so callers see the stored record with its
// generated id and timestamps.
func (r *ScreeningRepo) Create(ctx context.Context, s *Screening) (*ScreeningDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var conflict bool
	if conflict, err = hasConflict(ctx, tx, s.RoomID, s.StartsAt, 0, true); err != nil {
		return nil, err
	}
	if conflict {
		err = ErrScheduleConflict
		return nil, err
	}

	const qInsert = `INSERT INTO screenings (starts_at, is_active, movie_id, room_id, showtime_id)
	                 VALUES (?, ?, ?, ?, ?)`
	var res sql.Result
	if res, err = tx.ExecContext(ctx, qInsert, s.StartsAt, s.IsActive, s.MovieID, s.RoomID, s.ShowtimeID); err != nil {
		return nil, err
	}
	var id int64
	if id, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	s.ID = uint64(id)

	d := new(ScreeningDetail)
	if err = scanDetail(tx.QueryRowContext(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` WHERE s.id = ?`, s.ID), d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update overwrites all mutable fields of a screening, re-running the
// conflict check (excluding the screening itself) in the same transaction
// as the write. Returns ErrScheduleConflict when the target slot is taken
// and ErrScreeningNotFound when the row vanished between the handler's
// existence check and the write.
func (r *ScreeningRepo) Update(ctx context.Context, s *Screening) (*ScreeningDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var conflict bool
	if conflict, err = hasConflict(ctx, tx, s.RoomID, s.StartsAt, s.ID, true); err != nil {
		return nil, err
	}
	if conflict {
		err = ErrScheduleConflict
		return nil, err
	}

	const qUpdate = `UPDATE screenings
	                 SET starts_at = ?, is_active = ?, movie_id = ?, room_id = ?, showtime_id = ?,
	                     updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, s.StartsAt, s.IsActive, s.MovieID, s.RoomID, s.ShowtimeID, s.ID); err != nil {
		return nil, err
	}

	d := new(ScreeningDetail)
	if err = scanDetail(tx.QueryRowContext(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` WHERE s.id = ?`, s.ID), d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrScreeningNotFound
		}
		return nil, err
	}
	return d, nil
}

// GetByID retrieves a bare screening row, mainly for existence checks on
// the update and delete paths.
func (r *ScreeningRepo) GetByID(ctx context.Context, id uint64) (*Screening, error) {
	const q = `SELECT id, starts_at, is_active, movie_id, room_id, showtime_id, created_at, updated_at
	           FROM screenings WHERE id = ?`
	var s Screening
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.StartsAt, &s.IsActive, &s.MovieID, &s.RoomID, &s.ShowtimeID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetDetail retrieves a screening joined with its movie, room and showtime.
func (r *ScreeningRepo) GetDetail(ctx context.Context, id uint64) (*ScreeningDetail, error) {
	d := new(ScreeningDetail)
	err := scanDetail(r.db.QueryRowContext(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` WHERE s.id = ?`, id), d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScreeningNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns all screenings joined with their related rows, newest
// schedule first.
func (r *ScreeningRepo) List(ctx context.Context) ([]*ScreeningDetail, error) {
	return r.queryDetails(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` ORDER BY s.starts_at DESC`)
}

// ListByDateRange returns screenings whose calendar date falls inside
// [start, end], ordered by schedule ascending. Dates use "2006-01-02".
func (r *ScreeningRepo) ListByDateRange(ctx context.Context, start, end string) ([]*ScreeningDetail, error) {
	return r.queryDetails(ctx,
		`SELECT `+detailColumns+` `+detailJoins+` WHERE DATE(s.starts_at) BETWEEN ? AND ? ORDER BY s.starts_at ASC`,
		start, end)
}

func (r *ScreeningRepo) queryDetails(ctx context.Context, q string, args ...any) ([]*ScreeningDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ScreeningDetail
	for rows.Next() {
		d := new(ScreeningDetail)
		if err := scanDetail(rows, d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a screening by id. Returns ErrScreeningNotFound when no
// row was deleted.
func (r *ScreeningRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM screenings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScreeningNotFound
	}
	return nil
}
