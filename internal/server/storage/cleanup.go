package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// CleanupService periodically removes spool files older than maxAge. Requests
// delete their own files on every exit path; this sweeper only catches
// leftovers from crashed processes or kill -9.
type CleanupService struct {
	spool    *Spool
	interval time.Duration
	maxAge   time.Duration
	done     chan struct{}
}

// NewCleanupService creates a new cleanup service.
func NewCleanupService(spool *Spool, interval, maxAge time.Duration) *CleanupService {
	return &CleanupService{
		spool:    spool,
		interval: interval,
		maxAge:   maxAge,
		done:     make(chan struct{}),
	}
}

// Start begins the cleanup loop in a background goroutine.
func (cs *CleanupService) Start(ctx context.Context) {
	slog.Info("cleanup service started", "interval", cs.interval, "max_age", cs.maxAge)

	go func() {
		ticker := time.NewTicker(cs.interval)
		defer ticker.Stop()

		// Run once immediately on start
		cs.runCleanup()

		for {
			select {
			case <-ticker.C:
				cs.runCleanup()
			case <-ctx.Done():
				slog.Info("cleanup service stopping")
				close(cs.done)
				return
			}
		}
	}()
}

// Wait blocks until the cleanup service has fully stopped.
func (cs *CleanupService) Wait() {
	<-cs.done
}

func (cs *CleanupService) runCleanup() {
	stale, err := cs.staleFiles()
	if err != nil {
		slog.Error("failed to scan temp directory", "error", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	var cleaned, failed int
	for _, path := range stale {
		if err := cs.spool.Remove(path); err != nil {
			slog.Error("failed to delete stale temp file", "path", path, "error", err)
			failed++
			continue
		}
		cleaned++
	}

	slog.Info("cleanup cycle complete",
		"cleaned", cleaned,
		"failed", failed,
		"total_stale", len(stale),
	)
}

func (cs *CleanupService) staleFiles() ([]string, error) {
	entries, err := os.ReadDir(cs.spool.Dir())
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Add(-cs.maxAge)

	var stale []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			stale = append(stale, filepath.Join(cs.spool.Dir(), entry.Name()))
		}
	}

	return stale, nil
}
