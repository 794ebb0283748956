package service

import "sync"

// LockTable serializes check-then-write sequences per logical key: a code
// namespace ("item", "sku:code") or an individual SKU ("sku:<id>"). It is the
// in-process half of the serialization point; row locks inside the DB
// transaction cover multi-instance deployments. The SKU and lending services
// must share one table so their per-SKU guards actually exclude each other.
type LockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockTable() *LockTable {
	return &LockTable{locks: make(map[string]*sync.Mutex)}
}

func (t *LockTable) Lock(key string) {
	t.mu.Lock()
	m, ok := t.locks[key]
	if !ok {
		m = &sync.Mutex{}
		t.locks[key] = m
	}
	t.mu.Unlock()
	m.Lock()
}

func (t *LockTable) Unlock(key string) {
	t.mu.Lock()
	m := t.locks[key]
	t.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
