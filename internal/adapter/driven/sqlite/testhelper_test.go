package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/ericfisherdev/autoreviewer/internal/domain/model"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// Writer and reader connections share the same in-memory database via
// cache=shared; a name derived from t.Name() isolates parallel tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Percent-encode the test name so it cannot be misinterpreted as query
	// parameters in the "file:%s?..." DSN.
	safeName := url.PathEscape(t.Name())
	// WAL mode does not apply to in-memory databases; omit journal_mode.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		safeName,
	)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("create test db writer: %v", err)
	}
	writer.SetMaxOpenConns(1)
	if err := writer.PingContext(context.Background()); err != nil {
		_ = writer.Close()
		t.Fatalf("ping test db writer: %v", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		t.Fatalf("create test db reader: %v", err)
	}
	reader.SetMaxOpenConns(readerPoolSize)
	if err := reader.PingContext(context.Background()); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		t.Fatalf("ping test db reader: %v", err)
	}

	db := &DB{Writer: writer, Reader: reader, path: dsn}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// openTestSession opens a session and registers its cleanup.
func openTestSession(t *testing.T, db *DB) *Session {
	t.Helper()

	s, err := NewSessionFactory(db).Open(context.Background())
	if err != nil {
		t.Fatalf("open test session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s.(*Session)
}

// seedDirectory populates a minimal directory: one project, accounts alice
// (1), bob (2), carol (3), dave (4), and group "leads" = {bob, carol}.
func seedDirectory(t *testing.T, db *DB, project string) *DirectoryRepo {
	t.Helper()

	dir := NewDirectoryRepo(db)
	ctx := context.Background()

	if err := dir.AddProject(ctx, project); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	accounts := []model.Account{
		{ID: 1, Username: "alice", Email: "alice@example.com", FullName: "Alice Doe"},
		{ID: 2, Username: "bob", Email: "bob@example.com", FullName: "Bob Doe"},
		{ID: 3, Username: "carol", Email: "carol@example.com", FullName: "Carol Doe"},
		{ID: 4, Username: "dave", Email: "dave@example.com", FullName: "Dave Doe"},
	}
	for _, a := range accounts {
		if err := dir.AddAccount(ctx, a); err != nil {
			t.Fatalf("seed account %s: %v", a.Username, err)
		}
	}

	if err := dir.AddGroup(ctx, model.Group{UUID: "g-leads", Name: "leads"}); err != nil {
		t.Fatalf("seed group: %v", err)
	}
	for _, id := range []int64{2, 3} {
		if err := dir.AddGroupMember(ctx, "g-leads", id); err != nil {
			t.Fatalf("seed group member %d: %v", id, err)
		}
	}

	return dir
}
