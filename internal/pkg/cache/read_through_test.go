package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestReadThroughCachesAfterFirstLoad(t *testing.T) {
	store := newMemStore()
	c := NewReadThrough[item](store, "community", time.Minute, zerolog.Nop())

	var loads int32
	load := func(context.Context) (item, error) {
		atomic.AddInt32(&loads, 1)
		return item{Name: "Welders", Count: 3}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background(), "c1", load)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Name != "Welders" || got.Count != 3 {
			t.Fatalf("unexpected value %+v", got)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}

	c.Invalidate(context.Background(), "c1")
	if _, err := c.Get(context.Background(), "c1", load); err != nil {
		t.Fatal(err)
	}
	if loads != 2 {
		t.Fatalf("expected reload after invalidation, got %d loads", loads)
	}
}

func TestReadThroughDoesNotCacheErrors(t *testing.T) {
	store := newMemStore()
	c := NewReadThrough[item](store, "community", time.Minute, zerolog.Nop())
	boom := errors.New("not found")

	if _, err := c.Get(context.Background(), "c1", func(context.Context) (item, error) {
		return item{}, boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if len(store.data) != 0 {
		t.Fatalf("errors must not be cached, store has %v", store.data)
	}
}

func TestReadThroughSurvivesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	c := NewReadThrough[item](store, "community", time.Minute, zerolog.Nop())

	got, err := c.Get(context.Background(), "c1", func(context.Context) (item, error) {
		return item{Name: "Masons"}, nil
	})
	if err != nil || got.Name != "Masons" {
		t.Fatalf("expected loader fallback, got %+v, %v", got, err)
	}
}

func TestNilStoreDisablesCaching(t *testing.T) {
	c := NewReadThrough[item](nil, "community", time.Minute, zerolog.Nop())
	var loads int
	for i := 0; i < 2; i++ {
		_, _ = c.Get(context.Background(), "c1", func(context.Context) (item, error) {
			loads++
			return item{}, nil
		})
	}
	if loads != 2 {
		t.Fatalf("expected every call to load, got %d", loads)
	}
}

func TestInvalidateDiscardsLoadStartedBeforeWrite(t *testing.T) {
	store := newMemStore()
	c := NewReadThrough[item](store, "community", time.Minute, zerolog.Nop())
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan item, 1)
	go func() {
		got, _ := c.Get(ctx, "c1", func(context.Context) (item, error) {
			close(started)
			<-release
			return item{Name: "Welders", Count: 0}, nil
		})
		done <- got
	}()

	// the row changes and is invalidated while the first load is still running
	<-started
	c.Invalidate(ctx, "c1")
	close(release)
	if got := <-done; got.Count != 0 {
		t.Fatalf("in-flight load returned %+v", got)
	}

	var reloads int
	got, err := c.Get(ctx, "c1", func(context.Context) (item, error) {
		reloads++
		return item{Name: "Welders", Count: 1}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || reloads != 1 {
		t.Fatalf("got %+v after %d reloads, want count 1 from a fresh load", got, reloads)
	}

	got, err = c.Get(ctx, "c1", func(context.Context) (item, error) {
		t.Error("fresh value should have been cached")
		return item{}, nil
	})
	if err != nil || got.Count != 1 {
		t.Fatalf("cached value = %+v, %v", got, err)
	}
}
