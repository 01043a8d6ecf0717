package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/episko/blog/internal/core/domain"
)

// fakeRedis implements the string commands the session store uses. Any other
// Cmdable method panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable

	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		return redis.NewStatusResult("", errors.New("unsupported value type"))
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			delete(f.ttls, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	rdb := newFakeRedis()
	store := NewSessionStore(rdb, 30*time.Minute)
	ctx := context.Background()
	claims := domain.Claims{Username: "alice", Role: domain.RoleAuthor}

	id, err := store.Create(ctx, claims)
	if err != nil || id == "" {
		t.Fatalf("Create = %q, %v", id, err)
	}

	raw, ok := rdb.data["session:"+id]
	if !ok {
		t.Fatalf("expected key session:%s, have %v", id, rdb.data)
	}
	if !strings.Contains(raw, `"username":"alice"`) || !strings.Contains(raw, `"role":"author"`) {
		t.Fatalf("expected JSON claims, got %s", raw)
	}
	if ttl := rdb.ttls["session:"+id]; ttl != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %v", ttl)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != claims {
		t.Fatalf("expected %+v, got %+v", claims, *got)
	}

	if err := store.Destroy(ctx, id); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after destroy, got %v", err)
	}
}

func TestSessionStore_MissingKey(t *testing.T) {
	store := NewSessionStore(newFakeRedis(), time.Minute)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_CorruptValue(t *testing.T) {
	rdb := newFakeRedis()
	rdb.data["session:bad"] = "{not json"
	store := NewSessionStore(rdb, time.Minute)

	_, err := store.Get(context.Background(), "bad")
	if err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected a decode error, got %v", err)
	}
}

func TestSessionStore_BackendErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	store := NewSessionStore(rdb, time.Minute)
	ctx := context.Background()

	if _, err := store.Create(ctx, domain.Claims{Username: "bob", Role: domain.RoleUser}); err == nil {
		t.Fatal("expected Create to fail")
	}
	if _, err := store.Get(ctx, "x"); err == nil || errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected a backend error, got %v", err)
	}
	if err := store.Destroy(ctx, "x"); err == nil {
		t.Fatal("expected Destroy to fail")
	}
}
