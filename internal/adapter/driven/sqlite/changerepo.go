package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChangeStore = (*ChangeRepo)(nil)

// ChangeRepo is the SQLite implementation of the change-store port. The
// changes table is the queryable mirror the predicate engine evaluates
// against; the host's sync keeps it current.
type ChangeRepo struct {
	db *DB
}

// NewChangeRepo creates a ChangeRepo backed by the given DB.
func NewChangeRepo(db *DB) *ChangeRepo {
	return &ChangeRepo{db: db}
}

// GetChange loads a change and its file list through the caller's session.
// Returns (nil, nil) when the change is unknown.
func (r *ChangeRepo) GetChange(ctx context.Context, s driven.Session, project string, number int) (*model.Change, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT c.project, c.number, c.branch, c.topic, c.subject, c.wip, c.private,
		       a.id, a.username, a.email, a.full_name
		FROM changes c
		JOIN accounts a ON a.id = c.owner_id
		WHERE c.project = ? AND c.number = ?
	`

	var ch model.Change
	err = sess.conn.QueryRowContext(ctx, query, project, number).Scan(
		&ch.Project, &ch.Number, &ch.Branch, &ch.Topic, &ch.Subject, &ch.WIP, &ch.Private,
		&ch.Owner.ID, &ch.Owner.Username, &ch.Owner.Email, &ch.Owner.FullName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get change %s~%d: %w", project, number, err)
	}

	const filesQuery = `
		SELECT path FROM change_files
		WHERE project = ? AND number = ?
		ORDER BY path
	`

	rows, err := sess.conn.QueryContext(ctx, filesQuery, project, number)
	if err != nil {
		return nil, fmt.Errorf("get files for %s~%d: %w", project, number, err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan change file: %w", err)
		}
		ch.Files = append(ch.Files, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change files: %w", err)
	}

	return &ch, nil
}

// UpsertChange inserts or updates the mirror row for a change, replacing its
// file list. Called by the host's sync on every new revision.
func (r *ChangeRepo) UpsertChange(ctx context.Context, ch model.Change) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert change %s~%d: %w", ch.Project, ch.Number, err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO changes (project, number, branch, topic, subject, owner_id, wip, private)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, number) DO UPDATE SET
			branch = excluded.branch,
			topic = excluded.topic,
			subject = excluded.subject,
			owner_id = excluded.owner_id,
			wip = excluded.wip,
			private = excluded.private
	`

	if _, err := tx.ExecContext(ctx, query,
		ch.Project, ch.Number, ch.Branch, ch.Topic, ch.Subject, ch.Owner.ID, ch.WIP, ch.Private,
	); err != nil {
		return fmt.Errorf("upsert change %s~%d: %w", ch.Project, ch.Number, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM change_files WHERE project = ? AND number = ?`, ch.Project, ch.Number,
	); err != nil {
		return fmt.Errorf("clear files for %s~%d: %w", ch.Project, ch.Number, err)
	}
	for _, path := range ch.Files {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO change_files (project, number, path) VALUES (?, ?, ?)`,
			ch.Project, ch.Number, path,
		); err != nil {
			return fmt.Errorf("insert file %s for %s~%d: %w", path, ch.Project, ch.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert change %s~%d: %w", ch.Project, ch.Number, err)
	}
	return nil
}
