package identity

import (
	"context"
	"sync"

	"github.com/itsmrpeck/sglobbylink-go/internal/obslog"
	"go.uber.org/zap"
)

// Repository persists the requester → identity table. Load replaces the
// whole table; Save rewrites the whole record set.
type Repository interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, records map[string]string) error
}

// Store is the in-memory identity table. Memory is authoritative for the
// running process; repository failures are logged and swallowed.
type Store struct {
	mu    sync.RWMutex
	table map[string]string
	repo  Repository
}

func NewStore(repo Repository) *Store {
	return &Store{table: make(map[string]string), repo: repo}
}

// Load replaces the in-memory table with the persisted one, best-effort.
func (s *Store) Load(ctx context.Context) {
	if s.repo == nil {
		return
	}
	records, err := s.repo.Load(ctx)
	if err != nil {
		obslog.L().Warn("identity_load_failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.table = records
	s.mu.Unlock()
	obslog.L().Info("identity_loaded", zap.Int("records", len(records)))
}

func (s *Store) Get(requesterID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.table[requesterID]
	return id, ok
}

// Put records the identity (last write wins) and persists a snapshot,
// best-effort.
func (s *Store) Put(ctx context.Context, requesterID, steamID string) {
	s.mu.Lock()
	s.table[requesterID] = steamID
	snapshot := make(map[string]string, len(s.table))
	for k, v := range s.table {
		snapshot[k] = v
	}
	s.mu.Unlock()

	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, snapshot); err != nil {
		obslog.L().Warn("identity_save_failed", zap.Error(err))
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table)
}
