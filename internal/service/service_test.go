package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/hash"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/revocation"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event.(map[string]any)})
	return nil
}

func (p *recordingPublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return publishedEvent{}
	}
	return p.events[len(p.events)-1]
}

type testEnv struct {
	Repo    *repo.GormRepo
	Tokens  *tokens.Service
	Auth    *AuthService
	Catalog *CatalogService
	Events  *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	ts := tokens.NewService([]byte("service-test-secret"), time.Hour, revocation.NewMemoryStore())
	pub := &recordingPublisher{}

	return &testEnv{
		Repo:   r,
		Tokens: ts,
		Events: pub,
		Auth: &AuthService{
			Repo:   r,
			Hasher: hash.NewHasher(bcrypt.MinCost),
			Tokens: ts,
			Events: pub,
		},
		Catalog: &CatalogService{Repo: r, Events: pub},
	}
}

func (env *testEnv) mustRegister(t *testing.T, username string) uint {
	t.Helper()

	id, err := env.Auth.Register(context.Background(), username, username+"@x.com", "pw-"+username)
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func ptr[T any](v T) *T { return &v }

var errBrokerDown = errors.New("broker down")
