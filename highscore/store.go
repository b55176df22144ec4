// Package highscore persists the best score across sessions.
package highscore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/milk9111/pizzamerge/config"
)

var ErrUnknownBackend = errors.New("highscore: unknown backend")

// Store loads and saves a single best score.
type Store interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, score int) error
}

// Open returns the store selected by cfg.HighScoreBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.HighScoreBackend {
	case config.BackendFile:
		return NewFileStore(cfg.HighScorePath), nil
	case config.BackendRedis:
		return ConnectRedis(ctx, cfg.RedisURL, cfg.HighScoreKey)
	case config.BackendMemory:
		return NewMemoryStore(0), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.HighScoreBackend)
	}
}

// MemoryStore keeps the score in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	score int
	saves int
}

func NewMemoryStore(initial int) *MemoryStore {
	return &MemoryStore{score: initial}
}

func (m *MemoryStore) Load(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

func (m *MemoryStore) Save(_ context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
