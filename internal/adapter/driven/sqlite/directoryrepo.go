package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Directory = (*DirectoryRepo)(nil)

// DirectoryRepo is the SQLite implementation of the identity directory port.
// Lookups go through the caller's session; administrative writes (used by
// the host's sync and by tests) go through the writer connection.
type DirectoryRepo struct {
	db *DB
}

// NewDirectoryRepo creates a DirectoryRepo backed by the given DB.
func NewDirectoryRepo(db *DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

// ResolveAccount resolves a free-form specifier to an account, probing in
// order: numeric account ID, username, registered email, unique full name.
// An email or full name shared by several accounts is ambiguous and counts
// as not found. Returns (nil, nil) on a definite not-found.
func (r *DirectoryRepo) ResolveAccount(ctx context.Context, s driven.Session, specifier string) (*model.Account, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}

	if id, err := strconv.ParseInt(specifier, 10, 64); err == nil {
		account, err := r.accountBy(ctx, sess, "id = ?", id)
		if err != nil || account != nil {
			return account, err
		}
	}

	account, err := r.accountBy(ctx, sess, "username = ?", specifier)
	if err != nil || account != nil {
		return account, err
	}

	if strings.Contains(specifier, "@") {
		account, err = r.uniqueAccountByEmail(ctx, sess, specifier)
		if err != nil || account != nil {
			return account, err
		}
	}

	return r.uniqueAccountBy(ctx, sess, "full_name = ?", specifier)
}

func (r *DirectoryRepo) accountBy(ctx context.Context, sess *Session, where string, arg any) (*model.Account, error) {
	query := `SELECT id, username, email, full_name FROM accounts WHERE ` + where

	var a model.Account
	err := sess.conn.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Username, &a.Email, &a.FullName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("account lookup (%s): %w", where, err)
	}
	return &a, nil
}

// uniqueAccountBy returns a match only when exactly one account satisfies
// the condition.
func (r *DirectoryRepo) uniqueAccountBy(ctx context.Context, sess *Session, where string, arg any) (*model.Account, error) {
	query := `SELECT id, username, email, full_name FROM accounts WHERE ` + where + ` LIMIT 2`

	rows, err := sess.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("account lookup (%s): %w", where, err)
	}
	defer rows.Close()

	accounts, err := scanAccounts(rows)
	if err != nil {
		return nil, err
	}
	if len(accounts) != 1 {
		return nil, nil
	}
	return &accounts[0], nil
}

func (r *DirectoryRepo) uniqueAccountByEmail(ctx context.Context, sess *Session, email string) (*model.Account, error) {
	accounts, err := r.accountsByEmail(ctx, sess, email)
	if err != nil {
		return nil, err
	}
	if len(accounts) != 1 {
		return nil, nil
	}
	return &accounts[0], nil
}

// AccountsByEmail returns every account that registered the given email.
func (r *DirectoryRepo) AccountsByEmail(ctx context.Context, s driven.Session, email string) ([]model.Account, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}
	return r.accountsByEmail(ctx, sess, email)
}

func (r *DirectoryRepo) accountsByEmail(ctx context.Context, sess *Session, email string) ([]model.Account, error) {
	const query = `
		SELECT DISTINCT a.id, a.username, a.email, a.full_name
		FROM accounts a
		JOIN account_emails e ON e.account_id = a.id
		WHERE e.email = ?
		ORDER BY a.id
	`

	rows, err := sess.conn.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("accounts by email %s: %w", email, err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// ResolveGroup resolves a specifier to a group handle. An optional "group:"
// prefix is stripped; the remainder matches a group name or UUID. Returns
// ErrNoSuchGroup when nothing matches.
func (r *DirectoryRepo) ResolveGroup(ctx context.Context, s driven.Session, specifier string) (*model.Group, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}

	name := strings.TrimPrefix(specifier, "group:")

	const query = `SELECT uuid, name FROM groups WHERE name = ? OR uuid = ?`

	var g model.Group
	err = sess.conn.QueryRowContext(ctx, query, name, name).Scan(&g.UUID, &g.Name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolving group %q: %w", specifier, driven.ErrNoSuchGroup)
	}
	if err != nil {
		return nil, fmt.Errorf("resolving group %q: %w", specifier, err)
	}
	return &g, nil
}

// ListGroupMembers expands a group to its member accounts, scoped to the
// given project. A group with visibility rows is only expandable for the
// projects it is scoped to.
func (r *DirectoryRepo) ListGroupMembers(ctx context.Context, s driven.Session, asUser model.Account, group model.Group, project string) ([]model.Account, error) {
	sess, err := asSession(s)
	if err != nil {
		return nil, err
	}

	var one int
	err = sess.conn.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE name = ?`, project).Scan(&one)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("listing members of %s: project %q: %w", group.Name, project, driven.ErrNoSuchProject)
	}
	if err != nil {
		return nil, fmt.Errorf("checking project %q: %w", project, err)
	}

	const visQuery = `
		SELECT
			NOT EXISTS (SELECT 1 FROM group_projects WHERE group_uuid = ?)
			OR EXISTS (SELECT 1 FROM group_projects WHERE group_uuid = ? AND project = ?)
	`
	var visible bool
	if err := sess.conn.QueryRowContext(ctx, visQuery, group.UUID, group.UUID, project).Scan(&visible); err != nil {
		return nil, fmt.Errorf("checking visibility of group %s: %w", group.Name, err)
	}
	if !visible {
		return nil, fmt.Errorf("group %s is not visible to project %s", group.Name, project)
	}

	slog.Debug("expanding group",
		"group", group.Name,
		"project", project,
		"as_user", asUser.Username,
	)

	const query = `
		SELECT a.id, a.username, a.email, a.full_name
		FROM accounts a
		JOIN group_members m ON m.account_id = a.id
		WHERE m.group_uuid = ?
		ORDER BY a.id
	`

	rows, err := sess.conn.QueryContext(ctx, query, group.UUID)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", group.Name, err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccounts(rows *sql.Rows) ([]model.Account, error) {
	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FullName); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return accounts, nil
}

// --- Administrative writes, used by the host's directory sync ---

// AddAccount inserts an account and registers its preferred email.
func (r *DirectoryRepo) AddAccount(ctx context.Context, a model.Account) error {
	_, err := r.db.Writer.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, full_name) VALUES (?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.FullName,
	)
	if err != nil {
		return fmt.Errorf("add account %s: %w", a.Username, err)
	}
	if a.Email != "" {
		return r.RegisterEmail(ctx, a.ID, a.Email)
	}
	return nil
}

// RegisterEmail registers an additional email for an account.
func (r *DirectoryRepo) RegisterEmail(ctx context.Context, accountID int64, email string) error {
	_, err := r.db.Writer.ExecContext(ctx,
		`INSERT OR IGNORE INTO account_emails (account_id, email) VALUES (?, ?)`,
		accountID, email,
	)
	if err != nil {
		return fmt.Errorf("register email %s for account %d: %w", email, accountID, err)
	}
	return nil
}

// AddProject registers a project in the directory.
func (r *DirectoryRepo) AddProject(ctx context.Context, name string) error {
	_, err := r.db.Writer.ExecContext(ctx,
		`INSERT OR IGNORE INTO projects (name) VALUES (?)`, name,
	)
	if err != nil {
		return fmt.Errorf("add project %s: %w", name, err)
	}
	return nil
}

// AddGroup inserts a group, optionally scoped to the given projects.
func (r *DirectoryRepo) AddGroup(ctx context.Context, g model.Group, projects ...string) error {
	_, err := r.db.Writer.ExecContext(ctx,
		`INSERT INTO groups (uuid, name) VALUES (?, ?)`, g.UUID, g.Name,
	)
	if err != nil {
		return fmt.Errorf("add group %s: %w", g.Name, err)
	}
	for _, p := range projects {
		_, err := r.db.Writer.ExecContext(ctx,
			`INSERT INTO group_projects (group_uuid, project) VALUES (?, ?)`, g.UUID, p,
		)
		if err != nil {
			return fmt.Errorf("scope group %s to %s: %w", g.Name, p, err)
		}
	}
	return nil
}

// AddGroupMember adds an account to a group.
func (r *DirectoryRepo) AddGroupMember(ctx context.Context, groupUUID string, accountID int64) error {
	_, err := r.db.Writer.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_uuid, account_id) VALUES (?, ?)`,
		groupUUID, accountID,
	)
	if err != nil {
		return fmt.Errorf("add member %d to group %s: %w", accountID, groupUUID, err)
	}
	return nil
}
