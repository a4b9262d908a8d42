// Package nameservice maps ledger account names to the external identifiers
// used by an outward-facing settlement system. The mappings are loaded from a
// JSON file maintained outside this service. Resolution is best effort; the
// ledger core never depends on a lookup succeeding.
package nameservice

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// NameService maintains a map of account names for external id lookup.
type NameService struct {
	path       string
	externalID map[string]string
	mu         sync.RWMutex
}

// New constructs a name service from the mappings file. A missing file is
// not an error, the service starts with no mappings.
func New(path string) (*NameService, error) {
	ns := NameService{
		path:       path,
		externalID: make(map[string]string),
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ns, nil
		}
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}

	if err := json.Unmarshal(content, &ns.externalID); err != nil {
		return nil, fmt.Errorf("parsing mappings file: %w", err)
	}

	return &ns, nil
}

// Register adds a mapping between an account name and an external id and
// writes the mappings back to disk.
func (ns *NameService) Register(name string, externalID string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if existing, exists := ns.externalID[name]; exists && existing != externalID {
		return fmt.Errorf("account %q already mapped to a different external id", name)
	}

	ns.externalID[name] = externalID

	data, err := json.MarshalIndent(ns.externalID, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mappings: %w", err)
	}

	if err := os.WriteFile(ns.path, data, 0600); err != nil {
		return fmt.Errorf("writing mappings file: %w", err)
	}

	return nil
}

// Lookup returns the external id for the specified account name. When no
// mapping exists the account name itself is returned.
func (ns *NameService) Lookup(name string) string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	externalID, exists := ns.externalID[name]
	if !exists {
		return name
	}
	return externalID
}

// Copy returns a copy of the map of names and external ids.
func (ns *NameService) Copy() map[string]string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	cpy := make(map[string]string, len(ns.externalID))
	for name, externalID := range ns.externalID {
		cpy[name] = externalID
	}
	return cpy
}
