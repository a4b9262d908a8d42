// Package account maintains the registry of accounts permitted to transact
// on the ledger.
package account

import (
	"encoding/json"
	"fmt"
)

// The set of roles an account can be registered with. The role is immutable
// once the account is created.
const (
	RoleGovernment Role = iota + 1
	RoleStatePoll
	RoleProducer
	RoleFactory
	RoleCitizen
)

// roleNames provides the string representation for each role.
var roleNames = map[Role]string{
	RoleGovernment: "Government",
	RoleStatePoll:  "StatePoll",
	RoleProducer:   "Producer",
	RoleFactory:    "Factory",
	RoleCitizen:    "Citizen",
}

// Role represents the permission class of an account.
type Role int

// ParseRole converts the string representation into a Role.
func ParseRole(value string) (Role, error) {
	for role, name := range roleNames {
		if name == value {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", value)
}

// String implements the fmt.Stringer interface.
func (r Role) String() string {
	name, exists := roleNames[r]
	if !exists {
		return "unknown"
	}
	return name
}

// MarshalJSON implements the json.Marshaler interface.
func (r Role) MarshalJSON() ([]byte, error) {
	name, exists := roleNames[r]
	if !exists {
		return nil, fmt.Errorf("unknown role %d", r)
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *Role) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	role, err := ParseRole(name)
	if err != nil {
		return err
	}

	*r = role
	return nil
}

// =============================================================================

// The set of sentinel accounts. A sentinel is a fixed privileged
// pseudo-account that credits recipients without a corresponding debit.
// Sentinels never appear in the registry and can never be frozen.
const (
	SentinelGenesis   = "GENESIS"
	SentinelCertifier = "CERTIFIER"
	SentinelSystem    = "SYSTEM"
)

// IsSentinel reports whether the specified name belongs to the fixed set of
// sentinel accounts.
func IsSentinel(name string) bool {
	switch name {
	case SentinelGenesis, SentinelCertifier, SentinelSystem:
		return true
	}
	return false
}

// =============================================================================

// Account represents an account registered on the ledger. Accounts are never
// deleted, only frozen and unfrozen.
type Account struct {
	Name       string            `json:"name"`
	Role       Role              `json:"role"`
	Frozen     bool              `json:"frozen"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
