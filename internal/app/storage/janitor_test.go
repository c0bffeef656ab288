package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recordingStore counts deletes and can be told to fail specific keys.
type recordingStore struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]bool
}

func (s *recordingStore) Upload(context.Context, string, string, []byte) error { return nil }

func (s *recordingStore) PresignUpload(context.Context, string, string, int64, time.Duration) (string, error) {
	return "", nil
}

func (s *recordingStore) PresignDownload(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (s *recordingStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail[key] {
		return errors.New("backend unavailable")
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *recordingStore) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

func TestJanitorSweepDeletesExpiredOnly(t *testing.T) {
	store := &recordingStore{}
	j := NewJanitor(store, 10*time.Minute)

	j.Track("voice/old.webm")
	j.Track("voice/fresh.webm")

	// Age one key past the retention window.
	j.mu.Lock()
	j.tracked["voice/old.webm"] = time.Now().Add(-11 * time.Minute)
	j.mu.Unlock()

	j.sweep()

	deleted := store.deletedKeys()
	if len(deleted) != 1 || deleted[0] != "voice/old.webm" {
		t.Errorf("deleted = %v, want only voice/old.webm", deleted)
	}

	j.mu.Lock()
	_, oldTracked := j.tracked["voice/old.webm"]
	_, freshTracked := j.tracked["voice/fresh.webm"]
	j.mu.Unlock()

	if oldTracked {
		t.Error("deleted key should no longer be tracked")
	}
	if !freshTracked {
		t.Error("fresh key should still be tracked")
	}
}

func TestJanitorRetriesFailedDeletes(t *testing.T) {
	store := &recordingStore{fail: map[string]bool{"voice/stuck.webm": true}}
	j := NewJanitor(store, time.Minute)

	j.Track("voice/stuck.webm")
	j.mu.Lock()
	j.tracked["voice/stuck.webm"] = time.Now().Add(-2 * time.Minute)
	j.mu.Unlock()

	j.sweep()

	j.mu.Lock()
	_, stillTracked := j.tracked["voice/stuck.webm"]
	j.mu.Unlock()
	if !stillTracked {
		t.Fatal("failed delete should keep the key tracked for retry")
	}

	// Backend recovers; the next sweep succeeds.
	store.mu.Lock()
	store.fail["voice/stuck.webm"] = false
	store.mu.Unlock()

	j.sweep()

	deleted := store.deletedKeys()
	if len(deleted) != 1 || deleted[0] != "voice/stuck.webm" {
		t.Errorf("deleted = %v, want voice/stuck.webm after retry", deleted)
	}
}

func TestJanitorTrackKeepsOriginalTimestamp(t *testing.T) {
	j := NewJanitor(&recordingStore{}, time.Minute)

	j.Track("voice/a.webm")
	j.mu.Lock()
	first := j.tracked["voice/a.webm"]
	j.mu.Unlock()

	j.Track("voice/a.webm")
	j.mu.Lock()
	second := j.tracked["voice/a.webm"]
	j.mu.Unlock()

	if !first.Equal(second) {
		t.Error("re-tracking a key must not reset its timestamp")
	}
}

func TestJanitorShutdownStopsRun(t *testing.T) {
	j := NewJanitor(&recordingStore{}, time.Minute)

	done := make(chan struct{})
	go func() {
		j.Run()
		close(done)
	}()

	j.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after Shutdown")
	}

	// A second Shutdown is a no-op.
	j.Shutdown()
}
