package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNoteNotFound = errors.New("note not found")

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, note *Note) (*Note, error) {
	if note.Content == "" {
		return nil, errors.New("note content empty")
	}

	// creation time belongs to the store; callers never set it
	note.CreatedAt = time.Now()

	row := r.db.QueryRowContext(
		ctx,
		`INSERT INTO note (content, created_at) VALUES (?, ?) RETURNING id;`,
		note.Content, note.CreatedAt.UnixNano(),
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return nil, fmt.Errorf("row scan: %w", err)
	}

	note.Id = id
	return note, nil
}

func (r *Repo) Get(ctx context.Context, noteId int64) (*Note, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT id, content, created_at FROM note WHERE id = ?;`,
		noteId,
	)

	var id int64
	var content string
	var createdAt int64
	if err := row.Scan(&id, &content, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	return &Note{
		Id:        id,
		Content:   content,
		CreatedAt: time.Unix(0, createdAt),
	}, nil
}

// Delete removes a note by id. Deleting an id that does not exist is a
// no-op, not an error: the caller gets no signal whether a row was
// actually there. Idempotent on purpose.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(
		ctx,
		`DELETE FROM note WHERE id = ?;`,
		id,
	)
	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		log.Debugf("delete note %d: nothing to delete", id)
	}

	return nil
}

func (r *Repo) List(ctx context.Context) ([]Note, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`
			SELECT
				id, content, created_at
			FROM note
			ORDER BY created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var id int64
		var content string
		var createdAt int64
		if err := rows.Scan(&id, &content, &createdAt); err != nil {
			return nil, err
		}
		notes = append(notes, Note{
			Id:        id,
			Content:   content,
			CreatedAt: time.Unix(0, createdAt),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}
