package searcher

import (
	"sync"

	"chomp/game"
)

// MemoryTable is an in-process Table safe for concurrent use.
type MemoryTable struct {
	sync.RWMutex
	entries map[game.StateHash]Entry
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{entries: make(map[game.StateHash]Entry)}
}

func (t *MemoryTable) Lookup(key game.StateHash) (Entry, bool) {
	t.RLock()
	defer t.RUnlock()

	entry, ok := t.entries[key]
	return entry, ok
}

func (t *MemoryTable) Store(key game.StateHash, entry Entry) {
	t.Lock()
	defer t.Unlock()

	t.entries[key] = entry
}

func (t *MemoryTable) Len() int {
	t.RLock()
	defer t.RUnlock()

	return len(t.entries)
}
