// Package refresh wraps robfig/cron to keep cached eCFR data current.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules. Metadata changes daily upstream; word counts only
// drift as titles are amended, so a weekly flush is enough. The hourly
// staleness check is a backstop for a refresh that failed or a process
// that started cold.
const (
	metadataSchedule  = "30 3 * * *"
	stalenessSchedule = "@hourly"
	wordCountSchedule = "0 4 * * 0"
)

const jobTimeout = 5 * time.Minute

// Target is the cache owner the scheduler drives.
type Target interface {
	RefreshMetadata(ctx context.Context) error
	FlushWordCounts(ctx context.Context) error
}

// Engine manages the cron scheduler for cache maintenance.
type Engine struct {
	cron     *cron.Cron
	target   Target
	staleTTL time.Duration

	mu          sync.Mutex
	lastRefresh time.Time
}

// New creates a cron-based Engine around the given target. staleTTL is
// how old the last successful metadata refresh may get before the
// hourly check forces another one.
func New(target Target, staleTTL time.Duration) *Engine {
	return &Engine{
		cron:     cron.New(),
		target:   target,
		staleTTL: staleTTL,
	}
}

// Start registers the maintenance jobs and begins the cron engine. The
// engine stops when ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	if _, err := e.cron.AddFunc(metadataSchedule, e.refreshMetadata); err != nil {
		return fmt.Errorf("refresh.Start: metadata schedule: %w", err)
	}
	if _, err := e.cron.AddFunc(stalenessSchedule, e.checkStaleness); err != nil {
		return fmt.Errorf("refresh.Start: staleness schedule: %w", err)
	}
	if _, err := e.cron.AddFunc(wordCountSchedule, e.flushWordCounts); err != nil {
		return fmt.Errorf("refresh.Start: word count schedule: %w", err)
	}
	e.cron.Start()
	go func() {
		<-ctx.Done()
		e.cron.Stop()
	}()
	return nil
}

// MarkRefreshed records an out-of-band metadata refresh, such as the
// startup preload, so the staleness check does not repeat it.
func (e *Engine) MarkRefreshed() {
	e.mu.Lock()
	e.lastRefresh = time.Now()
	e.mu.Unlock()
}

func (e *Engine) refreshMetadata() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := e.target.RefreshMetadata(ctx); err != nil {
		slog.Error("scheduled metadata refresh failed", "error", err)
		return
	}
	e.MarkRefreshed()
	slog.Info("metadata refreshed", "duration", time.Since(start).String())
}

func (e *Engine) checkStaleness() {
	e.mu.Lock()
	last := e.lastRefresh
	e.mu.Unlock()
	if !last.IsZero() && time.Since(last) < e.staleTTL {
		return
	}
	slog.Info("metadata stale, refreshing", "last_refresh", last)
	e.refreshMetadata()
}

func (e *Engine) flushWordCounts() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := e.target.FlushWordCounts(ctx); err != nil {
		slog.Error("scheduled word count flush failed", "error", err)
		return
	}
	slog.Info("word count cache flushed")
}
