package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Quotas maintains the per-account transaction ceilings. Absence of an entry
// means the account is unlimited. When constructed with a path, mutations are
// written back to disk so the table can round-trip across restarts.
type Quotas struct {
	path   string
	limits map[string]uint64
	mu     sync.RWMutex
}

// NewQuotas constructs a quota table, loading any limits previously written
// to the specified path. An empty path keeps the table in memory only.
func NewQuotas(path string) (*Quotas, error) {
	qt := Quotas{
		path:   path,
		limits: make(map[string]uint64),
	}

	if path == "" {
		return &qt, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &qt, nil
		}
		return nil, fmt.Errorf("reading quotas file: %w", err)
	}

	if err := json.Unmarshal(content, &qt.limits); err != nil {
		return nil, fmt.Errorf("parsing quotas file: %w", err)
	}

	return &qt, nil
}

// Set stores the ceiling for the specified account.
func (qt *Quotas) Set(name string, limit uint64) error {
	qt.mu.Lock()
	defer qt.mu.Unlock()

	qt.limits[name] = limit
	return qt.save()
}

// Clear removes the ceiling for the specified account, making it unlimited.
func (qt *Quotas) Clear(name string) error {
	qt.mu.Lock()
	defer qt.mu.Unlock()

	delete(qt.limits, name)
	return qt.save()
}

// Get returns the ceiling for the specified account and whether one exists.
func (qt *Quotas) Get(name string) (uint64, bool) {
	qt.mu.RLock()
	defer qt.mu.RUnlock()

	limit, exists := qt.limits[name]
	return limit, exists
}

// Copy returns a copy of the current quota table.
func (qt *Quotas) Copy() map[string]uint64 {
	qt.mu.RLock()
	defer qt.mu.RUnlock()

	cpy := make(map[string]uint64, len(qt.limits))
	for name, limit := range qt.limits {
		cpy[name] = limit
	}
	return cpy
}

// save writes the quota table to disk. The caller must hold the write lock.
func (qt *Quotas) save() error {
	if qt.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(qt.limits, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quotas: %w", err)
	}

	if err := os.WriteFile(qt.path, data, 0600); err != nil {
		return fmt.Errorf("writing quotas file: %w", err)
	}

	return nil
}
