package credentials

import "sync"

// Store is identity-keyed credential storage.
type Store interface {
	Get(identity string) (Token, bool)
	Put(identity string, tok Token)
	Delete(identity string)
}

// MemoryStore is a process-local Store. The number of identities is bounded
// by the configured suppliers, so entries are never evicted.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]Token)}
}

func (s *MemoryStore) Get(identity string) (Token, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[identity]
	return tok, ok
}

func (s *MemoryStore) Put(identity string, tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[identity] = tok
}

func (s *MemoryStore) Delete(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, identity)
}

var _ Store = (*MemoryStore)(nil)
