package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/calamity-forge/pkg/storage"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewRedisStorage("redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}
	return s, mr
}

func TestRedisStorage_SaveAndLoad(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	latest, err := s.LatestBuild(ctx, "CalamityAffixes.esp")
	require.NoError(t, err)
	assert.Nil(t, latest)

	b := &storage.Build{
		RunID:       "run-1",
		ModKey:      "CalamityAffixes.esp",
		ConfigQuest: "CalamityAffixes.esp|00000800",
		NewRecords:  57,
		CreatedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		Graph:       json.RawMessage(`{"modKey":"CalamityAffixes.esp"}`),
	}
	require.NoError(t, s.SaveBuild(ctx, b))

	latest, err = s.LatestBuild(ctx, "CalamityAffixes.esp")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, b.ConfigQuest, latest.ConfigQuest)
	assert.Equal(t, 57, latest.NewRecords)
	assert.True(t, b.CreatedAt.Equal(latest.CreatedAt))
	assert.JSONEq(t, string(b.Graph), string(latest.Graph))

	run, err := s.GetBuild(ctx, "CalamityAffixes.esp", "run-1")
	require.NoError(t, err)
	require.NotNil(t, run)

	assert.Zero(t, mr.TTL("build:CalamityAffixes.esp"), "latest never expires")
	assert.Equal(t, runTTL, mr.TTL("build:CalamityAffixes.esp:run-1"))
}

func TestRedisStorage_RunExpiry(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.SaveBuild(ctx, &storage.Build{RunID: "old", ModKey: "A.esp"}))
	mr.FastForward(runTTL + time.Minute)

	run, err := s.GetBuild(ctx, "A.esp", "old")
	require.NoError(t, err)
	assert.Nil(t, run)

	latest, err := s.LatestBuild(ctx, "A.esp")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "old", latest.RunID)
}

func TestRedisStorage_ListBuildsIsTrimmed(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < maxRuns+5; i++ {
		require.NoError(t, s.SaveBuild(ctx, &storage.Build{RunID: fmt.Sprintf("run-%02d", i), ModKey: "A.esp"}))
	}

	runs, err := s.ListBuilds(ctx, "A.esp")
	require.NoError(t, err)
	require.Len(t, runs, maxRuns)
	assert.Equal(t, fmt.Sprintf("run-%02d", maxRuns+4), runs[0])
}

func TestRedisStorage_PublishDetectsDrift(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	drifted, err := storage.Publish(ctx, s, &storage.Build{RunID: "1", ModKey: "A.esp", ConfigQuest: "A.esp|00000801"}, s.logger)
	require.NoError(t, err)
	assert.False(t, drifted)

	drifted, err = storage.Publish(ctx, s, &storage.Build{RunID: "2", ModKey: "A.esp", ConfigQuest: "A.esp|00000800"}, s.logger)
	require.NoError(t, err)
	assert.True(t, drifted)
}

func TestRedisStorage_PingFailure(t *testing.T) {
	s, mr := setupTestRedis(t)
	defer s.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, s.Ping(ctx))
	assert.Error(t, s.WaitForConnection(ctx, 2, 10*time.Millisecond))
}

func TestNewRedisStorageBadURL(t *testing.T) {
	_, err := NewRedisStorage("not a url", nil)
	assert.Error(t, err)
}
