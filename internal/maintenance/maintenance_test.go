package maintenance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foodgram-app/foodgram/internal/storage"
)

type fakeTokenStore struct {
	mu     sync.Mutex
	purges int
}

func (f *fakeTokenStore) PutToken(context.Context, storage.AuthToken) error { return nil }
func (f *fakeTokenStore) GetToken(context.Context, string) (storage.AuthToken, error) {
	return storage.AuthToken{}, storage.ErrNotFound
}
func (f *fakeTokenStore) DeleteToken(context.Context, string) error { return nil }
func (f *fakeTokenStore) DeleteExpiredTokens(context.Context, time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges++
	return 1, nil
}

func (f *fakeTokenStore) purgeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purges
}

func TestNilSchedulerIsSafe(t *testing.T) {
	var s *Scheduler
	s.Start()
	s.Stop()
}

func TestAddTokenPurgeRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&fakeTokenStore{})
	if err := s.AddTokenPurge(context.Background(), "not a cron spec"); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestTokenPurgeRuns(t *testing.T) {
	tokens := &fakeTokenStore{}
	s := NewScheduler(tokens)
	if err := s.AddTokenPurge(context.Background(), "@every 10ms"); err != nil {
		t.Fatalf("add token purge: %v", err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for tokens.purgeCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected at least one purge run")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
