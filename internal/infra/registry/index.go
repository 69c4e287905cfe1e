package registry

import "sync"

// Index is the in-memory last-wins view of an append-only registration log.
// Entries are only ever overwritten by a later append, never removed.
type Index struct {
	mu      sync.RWMutex
	entries map[int64]string
}

func NewIndex() *Index {
	return &Index{entries: make(map[int64]string)}
}

func (i *Index) Get(chatID int64) (string, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	acc, ok := i.entries[chatID]
	return acc, ok
}

// Put records accountID as the current value for chatID.
func (i *Index) Put(chatID int64, accountID string) {
	i.mu.Lock()
	i.entries[chatID] = accountID
	i.mu.Unlock()
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}
