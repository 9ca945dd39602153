package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionFactory_OpenAndClose(t *testing.T) {
	db := setupTestDB(t)
	factory := NewSessionFactory(db)

	s, err := factory.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestSessionFactory_SessionsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	factory := NewSessionFactory(db)
	ctx := context.Background()

	first, err := factory.Open(ctx)
	require.NoError(t, err)
	second, err := factory.Open(ctx)
	require.NoError(t, err)

	// Closing one session must not disturb the other.
	require.NoError(t, first.Close())

	seedDirectory(t, db, "acme/api")
	account, err := NewDirectoryRepo(db).ResolveAccount(ctx, second, "alice")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "alice", account.Username)

	require.NoError(t, second.Close())
}

func TestAsSession_RejectsForeignSessions(t *testing.T) {
	_, err := asSession(fakeSession{})
	require.Error(t, err)
}

type fakeSession struct{}

func (fakeSession) Close() error { return nil }
