package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	return NewGormRepo(gdb)
}

func mustCreateUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

