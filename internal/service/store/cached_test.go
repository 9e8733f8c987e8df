package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kapu/zenith-go/internal/domain"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu     sync.Mutex
	record *domain.CreatorRecord
	err    error
	gets   int
	saves  int
}

func (f *fakeStore) GetCreator(ctx context.Context, handle string) (*domain.CreatorRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return f.record, f.err
}

func (f *fakeStore) SaveAnalysis(ctx context.Context, handle string, result *domain.AnalysisResult) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return 1, f.err
}

type fakeSnapshots struct {
	mu      sync.Mutex
	values  map[string][]byte
	failGet bool
	deletes int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{values: make(map[string][]byte)}
}

func (c *fakeSnapshots) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("redis down")
	}
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeSnapshots) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *fakeSnapshots) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	c.deletes++
	return nil
}

func TestCachedStoreReadThrough(t *testing.T) {
	backing := &fakeStore{record: &domain.CreatorRecord{
		ID:      3,
		Handle:  "acme",
		YouTube: &domain.YouTubeStatsRecord{SubscriberCount: "1500"},
	}}
	cache := newFakeSnapshots()
	s := NewCachedStore(backing, cache, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		rec, err := s.GetCreator(context.Background(), "acme")
		if err != nil || rec == nil || rec.YouTube.SubscriberCount != "1500" {
			t.Fatalf("read %d: unexpected %+v %v", i, rec, err)
		}
	}
	if backing.gets != 1 {
		t.Fatalf("expected one backing read, got %d", backing.gets)
	}

	if _, err := s.SaveAnalysis(context.Background(), "acme", &domain.AnalysisResult{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, ok := cache.values[snapshotKey("acme")]; ok {
		t.Fatal("save should invalidate the snapshot")
	}

	if _, err := s.GetCreator(context.Background(), "acme"); err != nil {
		t.Fatal(err)
	}
	if backing.gets != 2 {
		t.Fatalf("expected backing read after invalidation, got %d", backing.gets)
	}
}

func TestCachedStoreMissIsNotCached(t *testing.T) {
	backing := &fakeStore{}
	cache := newFakeSnapshots()
	s := NewCachedStore(backing, cache, 0, zap.NewNop())

	rec, err := s.GetCreator(context.Background(), "nobody")
	if err != nil || rec != nil {
		t.Fatalf("expected nil, nil, got %+v %v", rec, err)
	}
	if len(cache.values) != 0 {
		t.Fatal("absent creators must not be cached")
	}
}

func TestCachedStoreDegradesOnCacheFailure(t *testing.T) {
	backing := &fakeStore{record: &domain.CreatorRecord{Handle: "acme"}}
	cache := newFakeSnapshots()
	cache.failGet = true
	s := NewCachedStore(backing, cache, time.Minute, zap.NewNop())

	rec, err := s.GetCreator(context.Background(), "acme")
	if err != nil || rec == nil {
		t.Fatalf("expected backing record, got %+v %v", rec, err)
	}
}

func TestCachedStoreInvalidatesOnFailedSave(t *testing.T) {
	backing := &fakeStore{err: errors.New("db down")}
	cache := newFakeSnapshots()
	s := NewCachedStore(backing, cache, time.Minute, zap.NewNop())

	if _, err := s.SaveAnalysis(context.Background(), "acme", &domain.AnalysisResult{}); err == nil {
		t.Fatal("expected backing error")
	}
	if cache.deletes != 1 {
		t.Fatalf("expected invalidation attempt, got %d", cache.deletes)
	}
}
