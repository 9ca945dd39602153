package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/autoreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionFactory = (*SessionFactory)(nil)

// Session wraps one connection checked out of the reader pool for the
// duration of a single event-handling call or background task. It is not
// safe for concurrent use and must be closed by whoever opened it.
//
// Assignment audit writes also ride the session connection; WAL mode with
// the busy-timeout pragma keeps them safe against the single host writer.
type Session struct {
	conn *sql.Conn
}

// Close returns the connection to the pool.
func (s *Session) Close() error {
	return s.conn.Close()
}

// SessionFactory implements the session port over the reader pool.
type SessionFactory struct {
	db *DB
}

// NewSessionFactory creates a SessionFactory backed by the given DB.
func NewSessionFactory(db *DB) *SessionFactory {
	return &SessionFactory{db: db}
}

// Open checks a connection out of the reader pool. It blocks while the pool
// is exhausted, which bounds how many events are handled concurrently.
func (f *SessionFactory) Open(ctx context.Context) (driven.Session, error) {
	conn, err := f.db.Reader.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking out session connection: %w", err)
	}
	return &Session{conn: conn}, nil
}

// asSession unwraps the opaque port session back to this package's type.
// Repos in this package only work with sessions this package opened.
func asSession(s driven.Session) (*Session, error) {
	sess, ok := s.(*Session)
	if !ok {
		return nil, fmt.Errorf("session has type %T, want *sqlite.Session", s)
	}
	return sess, nil
}
