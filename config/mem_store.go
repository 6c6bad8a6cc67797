package config

import "sync"

// MemStore keeps the configuration in memory only.
type MemStore struct {
	mu  sync.Mutex
	cfg Config
}

// NewMemStore returns a MemStore preloaded with a copy of initial.
func NewMemStore(initial Config) *MemStore {
	return &MemStore{cfg: initial.Copy()}
}

func (s *MemStore) Read() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Copy(), nil
}

func (s *MemStore) Write(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Copy()
	return nil
}
