package store

import (
	"sync"

	"SignalRelay/internal/domain/models"
)

// LastSignal remembers the most recent accepted payload per destination so
// later commands can ask "what did you last send me". One entry per chat,
// overwritten on every accepted signal, never expired; staleness is expected.
type LastSignal struct {
	mu sync.RWMutex
	m  map[int64]*models.SignalPayload
}

func NewLastSignal() *LastSignal {
	return &LastSignal{m: make(map[int64]*models.SignalPayload)}
}

// Put stores a private copy of p for chatID.
func (s *LastSignal) Put(chatID int64, p *models.SignalPayload) {
	cp := p.Clone()
	s.mu.Lock()
	s.m[chatID] = cp
	s.mu.Unlock()
}

// Get returns a copy of the last payload stored for chatID.
func (s *LastSignal) Get(chatID int64) (*models.SignalPayload, bool) {
	s.mu.RLock()
	p, ok := s.m[chatID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}
