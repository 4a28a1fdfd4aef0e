package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notekeep/model"
	"notekeep/utils"
)

var ErrNoteNotFound = errors.New("note not found")

const noteColumns = `id_note, title, category, description, cover, created_at, is_pinned, is_archived, is_deleted`

type NotesRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func GetNotesRepo(db *sql.DB) *NotesRepo {
	return &NotesRepo{
		DB:  db,
		Now: time.Now,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*model.Note, error) {
	var note model.Note
	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Category,
		&note.Desc,
		&note.Cover,
		&note.CreatedAt,
		&note.IsPinned,
		&note.IsArchived,
		&note.IsDeleted,
	)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// queryNotes lists notes with pinned ones first, then in insertion order.
func (r *NotesRepo) queryNotes(ctx context.Context, operation, where string, args ...any) ([]*model.Note, error) {
	timer := utils.TrackDBOperation(operation, "notes")
	defer timer.ObserveDuration()

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE `+where+` ORDER BY is_pinned DESC, id_note`, args...)
	if err != nil {
		utils.TrackError("database", operation)
		return nil, err
	}
	defer rows.Close()

	notes := make([]*model.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			utils.TrackError("database", operation)
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		utils.TrackError("database", operation)
		return nil, err
	}
	return notes, nil
}

// ListActive returns every note that is not in the trash, archived or not.
func (r *NotesRepo) ListActive(ctx context.Context) ([]*model.Note, error) {
	return r.queryNotes(ctx, "list_active", `is_deleted = ?`, false)
}

// ListTrashed returns soft-deleted notes.
func (r *NotesRepo) ListTrashed(ctx context.Context) ([]*model.Note, error) {
	return r.queryNotes(ctx, "list_trashed", `is_deleted = ?`, true)
}

// ListArchived returns archived notes that are not in the trash.
func (r *NotesRepo) ListArchived(ctx context.Context) ([]*model.Note, error) {
	return r.queryNotes(ctx, "list_archived", `is_archived = ? AND is_deleted = ?`, true, false)
}

// GetNote returns an active note or ErrNoteNotFound.
func (r *NotesRepo) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	timer := utils.TrackDBOperation("get", "notes")
	defer timer.ObserveDuration()

	row := r.DB.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id_note = ? AND is_deleted = ?`, id, false)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		utils.TrackError("database", "get")
		return nil, err
	}
	return note, nil
}

// CreateNote inserts note with all flags cleared and sets its ID and CreatedAt.
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) (int64, error) {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	createdAt := r.Now().UTC().Truncate(time.Millisecond)
	result, err := r.DB.ExecContext(ctx,
		`INSERT INTO notes (title, category, description, cover, created_at, is_pinned, is_archived, is_deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.Title, note.Category, note.Desc, note.Cover, createdAt, false, false, false)
	if err != nil {
		utils.TrackError("database", "insert")
		return 0, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}

	note.ID = id
	note.CreatedAt = createdAt
	note.IsPinned, note.IsArchived, note.IsDeleted = false, false, false
	return id, nil
}

func (r *NotesRepo) exec(ctx context.Context, operation, query string, args ...any) (int64, error) {
	timer := utils.TrackDBOperation(operation, "notes")
	defer timer.ObserveDuration()

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		utils.TrackError("database", operation)
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateNote replaces the editable fields. Flags and created_at are untouched.
func (r *NotesRepo) UpdateNote(ctx context.Context, note *model.Note) (int64, error) {
	return r.exec(ctx, "update",
		`UPDATE notes SET title = ?, category = ?, description = ?, cover = ? WHERE id_note = ?`,
		note.Title, note.Category, note.Desc, note.Cover, note.ID)
}

func (r *NotesRepo) SetPinned(ctx context.Context, id int64, pinned bool) (int64, error) {
	return r.exec(ctx, "pin", `UPDATE notes SET is_pinned = ? WHERE id_note = ?`, pinned, id)
}

func (r *NotesRepo) SetArchived(ctx context.Context, id int64, archived bool) (int64, error) {
	return r.exec(ctx, "archive", `UPDATE notes SET is_archived = ? WHERE id_note = ?`, archived, id)
}

func (r *NotesRepo) SoftDelete(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, "soft_delete", `UPDATE notes SET is_deleted = ? WHERE id_note = ?`, true, id)
}

func (r *NotesRepo) Restore(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, "restore", `UPDATE notes SET is_deleted = ? WHERE id_note = ?`, false, id)
}

// DeletePermanent removes the row. It is the only operation that does.
func (r *NotesRepo) DeletePermanent(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, "delete", `DELETE FROM notes WHERE id_note = ?`, id)
}

// Stats counts notes per lifecycle state in a single query.
func (r *NotesRepo) Stats(ctx context.Context) (*model.NoteStats, error) {
	timer := utils.TrackDBOperation("stats", "notes")
	defer timer.ObserveDuration()

	var (
		stats                             model.NoteStats
		active, pinned, archived, trashed sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, `SELECT
		COUNT(*),
		SUM(CASE WHEN is_deleted = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN is_deleted = ? AND is_pinned = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN is_deleted = ? AND is_archived = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN is_deleted = ? THEN 1 ELSE 0 END)
		FROM notes`,
		false, false, true, false, true, true,
	).Scan(&stats.Total, &active, &pinned, &archived, &trashed)
	if err != nil {
		utils.TrackError("database", "stats")
		return nil, err
	}

	stats.Active = int(active.Int64)
	stats.Pinned = int(pinned.Int64)
	stats.Archived = int(archived.Int64)
	stats.Trashed = int(trashed.Int64)
	return &stats, nil
}

// Ping reports whether the database is reachable.
func (r *NotesRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
