package notestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Note is one persisted note.
type Note struct {
	ID        string
	Body      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repo provides note persistence.
type Repo struct {
	db *sql.DB
}

// NewRepo wraps db.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const timeLayout = time.RFC3339

// List returns all notes, oldest first.
func (r *Repo) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body, done, created_at, updated_at FROM notes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var done int
		var created, updated string
		if err := rows.Scan(&n.ID, &n.Body, &done, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.Done = done != 0
		if n.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if n.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Insert stores a new note.
func (r *Repo) Insert(ctx context.Context, n Note) error {
	done := 0
	if n.Done {
		done = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, body, done, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Body, done, n.CreatedAt.Format(timeLayout), n.UpdatedAt.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert note %s: %w", n.ID, err)
	}
	return nil
}

// SetDone updates a note's done flag.
func (r *Repo) SetDone(ctx context.Context, id string, done bool, now time.Time) error {
	flag := 0
	if done {
		flag = 1
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET done = ?, updated_at = ? WHERE id = ?`,
		flag, now.Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("set done %s: %w", id, err)
	}
	return nil
}

// UpdateBody replaces a note's body.
func (r *Repo) UpdateBody(ctx context.Context, id, body string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notes SET body = ?, updated_at = ? WHERE id = ?`,
		body, now.Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("update body %s: %w", id, err)
	}
	return nil
}

// Delete removes a note.
func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}
