package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Build is the published record of one successful compile.
type Build struct {
	RunID       string    `json:"runId"`
	ModKey      string    `json:"modKey"`
	ConfigQuest string    `json:"configQuest"`
	NewRecords  int       `json:"newRecords"`
	Overrides   int       `json:"overrides"`
	Contract    string    `json:"contract"`
	CreatedAt   time.Time `json:"createdAt"`
	// Graph is the record dump, omitted from listings.
	Graph json.RawMessage `json:"graph,omitempty"`
}

// Storage defines a unified interface for build artifact persistence
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveBuild stores b as the latest build of its container.
	SaveBuild(ctx context.Context, b *Build) error
	// LatestBuild returns nil, nil when the container has never been built.
	LatestBuild(ctx context.Context, modKey string) (*Build, error)
	// GetBuild returns nil, nil when the run is unknown or expired.
	GetBuild(ctx context.Context, modKey, runID string) (*Build, error)
	// ListBuilds returns run ids, newest first.
	ListBuilds(ctx context.Context, modKey string) ([]string, error)
}

// Publish saves b after comparing it with the previous build. A changed
// configuration quest id means saves made with the previous build will lose
// their menu settings, so it is logged as a warning. It reports whether the
// id drifted.
func Publish(ctx context.Context, s Storage, b *Build, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	prev, err := s.LatestBuild(ctx, b.ModKey)
	if err != nil {
		return false, fmt.Errorf("failed to load previous build: %w", err)
	}

	drifted := prev != nil && prev.ConfigQuest != b.ConfigQuest
	if drifted {
		logger.Warn("configuration quest id changed since last build",
			"mod_key", b.ModKey,
			"previous", prev.ConfigQuest,
			"current", b.ConfigQuest,
			"previous_run", prev.RunID)
	}

	if err := s.SaveBuild(ctx, b); err != nil {
		return drifted, err
	}
	logger.Info("build published", "mod_key", b.ModKey, "run_id", b.RunID)
	return drifted, nil
}
