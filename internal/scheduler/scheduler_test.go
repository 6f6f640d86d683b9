package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeRemover struct {
	mu      sync.Mutex
	cutoffs []time.Time
	removed int64
	err     error
}

func (f *fakeRemover) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.removed, f.err
}

type fakeCache struct {
	invalidated int
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	remover := &fakeRemover{removed: 3}
	cache := &fakeCache{}

	s := New(remover, cache, Config{}, nil)
	s.now = func() time.Time { return now }

	removed, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), removed)
	assert.Equal(t, []time.Time{now.Add(-14 * 24 * time.Hour)}, remover.cutoffs)
	assert.Equal(t, 1, cache.invalidated)
}

func TestRunOnceNothingRemoved(t *testing.T) {
	cache := &fakeCache{}
	s := New(&fakeRemover{}, cache, Config{MaxAge: time.Hour}, nil)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cache.invalidated)
}

func TestRunOnceError(t *testing.T) {
	boom := errors.New("timeout")
	s := New(&fakeRemover{err: boom}, nil, Config{}, nil)

	_, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestStartRunsImmediately(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	remover := &fakeRemover{removed: 1}

	s := New(remover, nil, Config{Spec: "@every 1h"}, zap.New(core))
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	assert.Len(t, remover.cutoffs, 1)
	assert.Equal(t, 1, observed.FilterMessage("old postings removed").Len())
	assert.Equal(t, 1, observed.FilterMessage("cleanup scheduler stopped").Len())
}

func TestStartInvalidSpec(t *testing.T) {
	s := New(&fakeRemover{}, nil, Config{Spec: "every now and then"}, nil)
	assert.Error(t, s.Start(context.Background()))
}
