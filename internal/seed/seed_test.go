package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/revocation"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

func TestSampleData(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	auth := &service.AuthService{
		Repo:   r,
		Hasher: hash.NewHasher(bcrypt.MinCost),
		Tokens: tokens.NewService([]byte("seed-secret"), time.Hour, revocation.NewMemoryStore()),
	}
	catalog := &service.CatalogService{Repo: r}

	seeded, err := SampleData(ctx, r, auth, catalog)
	require.NoError(t, err)
	assert.True(t, seeded)

	user, err := auth.Authenticate(ctx, SampleUsername, SamplePassword)
	require.NoError(t, err)
	assert.Equal(t, SampleEmail, user.Email)

	products, err := catalog.ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.InDelta(t, 1200.0, products[0].Price, 1e-9)
	assert.Equal(t, "Phone", products[1].Name)
	assert.InDelta(t, 800.0, products[1].Price, 1e-9)

	seeded, err = SampleData(ctx, r, auth, catalog)
	require.NoError(t, err)
	assert.False(t, seeded)

	n, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
