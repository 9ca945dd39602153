package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AssignmentStore = (*AssignmentRepo)(nil)

// AssignmentRepo is the SQLite implementation of the assignment audit log.
// Background tasks write records through their own sessions.
type AssignmentRepo struct {
	db *DB
}

// NewAssignmentRepo creates an AssignmentRepo backed by the given DB.
func NewAssignmentRepo(db *DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Record appends one assignment record through the caller's session.
func (r *AssignmentRepo) Record(ctx context.Context, s driven.Session, a model.Assignment) error {
	sess, err := asSession(s)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO reviewer_assignments (project, change_number, account_id, assigned_by, assigned_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = sess.conn.ExecContext(ctx, query,
		a.Project, a.ChangeNumber, a.AccountID, a.AssignedByID, a.AssignedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record assignment for %s~%d: %w", a.Project, a.ChangeNumber, err)
	}
	return nil
}

// ListByChange returns the assignment records of one change, oldest first.
func (r *AssignmentRepo) ListByChange(ctx context.Context, s driven.Session, project string, changeNumber int) ([]model.Assignment, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT id, project, change_number, account_id, assigned_by, assigned_at
		FROM reviewer_assignments
		WHERE project = ? AND change_number = ?
		ORDER BY id
	`

	rows, err := sess.conn.QueryContext(ctx, query, project, changeNumber)
	if err != nil {
		return nil, fmt.Errorf("list assignments for %s~%d: %w", project, changeNumber, err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		var (
			a  model.Assignment
			at string
		)
		if err := rows.Scan(&a.ID, &a.Project, &a.ChangeNumber, &a.AccountID, &a.AssignedByID, &at); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return nil, fmt.Errorf("parse assigned_at %q: %w", at, err)
		}
		a.AssignedAt = t
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}

	return assignments, nil
}
