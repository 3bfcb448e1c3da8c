package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
)

// Room represents a screening room. Type is a free-form label such
// as "2D", "3D" or "VIP". IsActive marks whether the room is currently
// usable; inactive rooms are hidden from the screening form lookup.
type Room struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// RoomRepo provides methods to create and retrieve rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room. The is_active column defaults to true in the
// DB, so the row is read back afterwards to pick up defaults and
// timestamps.
func (r *RoomRepo) Create(ctx context.Context, rm *Room) error {
	const qInsert = `INSERT INTO rooms (name, type, is_active) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, rm.Name, rm.Type, rm.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = `SELECT id, name, type, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, rm.ID).
		Scan(&rm.ID, &rm.Name, &rm.Type, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
}

// GetByID retrieves a room by its ID. It returns ErrRoomNotFound when no
// row is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*Room, error) {
	const q = `SELECT id, name, type, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	var rm Room
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&rm.ID, &rm.Name, &rm.Type, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// List returns all rooms ordered by id ascending.
func (r *RoomRepo) List(ctx context.Context) ([]*Room, error) {
	const q = `SELECT id, name, type, is_active, created_at, updated_at
	           FROM rooms ORDER BY id`
	return r.queryRooms(ctx, q)
}

// ListActive returns only active rooms ordered by name. Used for the
// screening form lookup so schedulers cannot pick a room that is out of
// service.
func (r *RoomRepo) ListActive(ctx context.Context) ([]*Room, error) {
	const q = `SELECT id, name, type, is_active, created_at, updated_at
	           FROM rooms WHERE is_active = 1 ORDER BY name`
	return r.queryRooms(ctx, q)
}

func (r *RoomRepo) queryRooms(ctx context.Context, q string, args ...any) ([]*Room, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Room
	for rows.Next() {
		rm := new(Room)
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Type, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites name, type and active flag. Returns ErrRoomNotFound
// when the row is missing.
func (r *RoomRepo) Update(ctx context.Context, rm *Room) error {
	const q = `UPDATE rooms
	           SET name = ?, type = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, rm.Name, rm.Type, rm.IsActive, rm.ID); err != nil {
		return err
	}
	const sel = `SELECT id, name, type, is_active, created_at, updated_at FROM rooms WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, rm.ID).
		Scan(&rm.ID, &rm.Name, &rm.Type, &rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// Delete removes a room by id. Screenings reference rooms with ON DELETE
// RESTRICT, so deleting a scheduled room yields ErrInUse.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		if isRowReferencedErr(err) {
			return ErrInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
