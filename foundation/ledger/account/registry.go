package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// ErrExists is returned when registering a name that is already taken.
var ErrExists = errors.New("account already exists")

// ErrNotFound is returned when the specified account is not registered.
var ErrNotFound = errors.New("account not found")

// =============================================================================

// Registry manages the set of registered accounts and owns the frozen flag
// consulted on every transfer. When constructed with a path, mutations are
// written back to disk so the registry can round-trip across restarts.
type Registry struct {
	path     string
	accounts map[string]Account
	mu       sync.RWMutex
}

// NewRegistry constructs a registry, loading any accounts previously written
// to the specified path. An empty path keeps the registry in memory only.
func NewRegistry(path string) (*Registry, error) {
	reg := Registry{
		path:     path,
		accounts: make(map[string]Account),
	}

	if path == "" {
		return &reg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &reg, nil
		}
		return nil, fmt.Errorf("reading accounts file: %w", err)
	}

	if err := json.Unmarshal(content, &reg.accounts); err != nil {
		return nil, fmt.Errorf("parsing accounts file: %w", err)
	}

	return &reg, nil
}

// Register inserts a new account into the registry.
func (reg *Registry) Register(name string, role Role, attributes map[string]string) (Account, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.accounts[name]; exists {
		return Account{}, ErrExists
	}

	account := Account{
		Name:       name,
		Role:       role,
		Attributes: attributes,
	}
	reg.accounts[name] = account

	if err := reg.save(); err != nil {
		delete(reg.accounts, name)
		return Account{}, err
	}

	return account, nil
}

// Get returns the account registered under the specified name.
func (reg *Registry) Get(name string) (Account, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	account, exists := reg.accounts[name]
	if !exists {
		return Account{}, ErrNotFound
	}
	return account, nil
}

// SetFrozen updates the frozen flag for the specified account. The registry
// performs the mutation unconditionally, role enforcement belongs to the
// policy layer.
func (reg *Registry) SetFrozen(name string, frozen bool) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	account, exists := reg.accounts[name]
	if !exists {
		return ErrNotFound
	}

	previous := account.Frozen
	account.Frozen = frozen
	reg.accounts[name] = account

	if err := reg.save(); err != nil {
		account.Frozen = previous
		reg.accounts[name] = account
		return err
	}

	return nil
}

// IsFrozen reports whether the specified account is frozen. Names not in the
// registry are treated as not frozen.
func (reg *Registry) IsFrozen(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return reg.accounts[name].Frozen
}

// Copy returns a copy of the registered accounts.
func (reg *Registry) Copy() map[string]Account {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	cpy := make(map[string]Account, len(reg.accounts))
	for name, account := range reg.accounts {
		cpy[name] = account
	}
	return cpy
}

// save writes the registry to disk. The caller must hold the write lock.
func (reg *Registry) save() error {
	if reg.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(reg.accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding accounts: %w", err)
	}

	if err := os.WriteFile(reg.path, data, 0600); err != nil {
		return fmt.Errorf("writing accounts file: %w", err)
	}

	return nil
}
