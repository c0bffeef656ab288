package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mapchat/internal/pkg/logx"
)

// sweepInterval is how often the janitor scans tracked keys for expiry.
const sweepInterval = time.Minute

// deleteTimeout bounds each backend delete call during a sweep.
const deleteTimeout = 10 * time.Second

// Janitor enforces the retention window for uploaded voice clips. Every key
// handed to Track is deleted from the backing store once it is older than the
// retention duration. Clips are ephemeral media, not message history; the
// janitor is what keeps that true for the blobs themselves.
type Janitor struct {
	store     StorageService
	retention time.Duration

	// mu protects tracked.
	mu sync.Mutex

	// tracked maps object key to the time it was first seen.
	tracked map[string]time.Time

	stop chan struct{}
	wg   sync.WaitGroup

	logger zerolog.Logger
}

// NewJanitor constructs a Janitor over store with the given retention window.
// Call Run to start sweeping.
func NewJanitor(store StorageService, retention time.Duration) *Janitor {
	j := &Janitor{
		store:     store,
		retention: retention,
		tracked:   make(map[string]time.Time),
		stop:      make(chan struct{}),
		logger:    logx.Logger().With().Str("component", "Janitor").Logger(),
	}

	j.wg.Add(1)

	return j
}

// Track registers key for deletion once the retention window passes.
// Tracking an already tracked key keeps its original timestamp.
func (j *Janitor) Track(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.tracked[key]; !ok {
		j.tracked[key] = time.Now()
	}
}

// Run starts the sweep loop. It blocks until Shutdown is called and is meant
// to be started as a goroutine, exactly once per Janitor.
func (j *Janitor) Run() {
	defer j.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	j.logger.Info().Dur("retention", j.retention).Msg("Voice clip janitor started.")

	for {
		select {
		case <-ticker.C:
			j.sweep()

		case <-j.stop:
			j.logger.Info().Msg("Voice clip janitor stopped.")
			return
		}
	}
}

// sweep deletes every tracked key older than the retention window.
func (j *Janitor) sweep() {
	now := time.Now()

	j.mu.Lock()
	expired := make([]string, 0)
	for key, seen := range j.tracked {
		if now.Sub(seen) >= j.retention {
			expired = append(expired, key)
		}
	}
	j.mu.Unlock()

	for _, key := range expired {
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		err := j.store.Delete(ctx, key)
		cancel()

		if err != nil {
			// Leave the key tracked; the next sweep retries the delete.
			j.logger.Warn().Str("key", key).Err(err).Msg("Failed to delete expired voice clip. Will retry.")
			continue
		}

		j.mu.Lock()
		delete(j.tracked, key)
		j.mu.Unlock()
	}

	if len(expired) > 0 {
		j.logger.Info().Int("expired", len(expired)).Msg("Voice clip sweep completed.")
	}
}

// Shutdown signals the sweep loop to exit and waits for it to finish.
func (j *Janitor) Shutdown() {
	select {
	case <-j.stop:
	default:
		close(j.stop)
	}

	j.wg.Wait()
}
