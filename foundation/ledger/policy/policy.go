// Package policy implements the pure validation rules consulted by the
// ledger engine before a transaction is accepted and the permission table
// for role gated operations.
package policy

import (
	"errors"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
)

// Rejection represents an expected policy outcome communicated back to the
// caller. A rejection is never treated as a fault by the engine.
type Rejection struct {
	Reason string
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	return r.Reason
}

// IsRejection checks if an error of type Rejection exists in the chain.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// The set of rejections validation can produce.
var (
	ErrInvalidAmount       = &Rejection{"amount must be greater than zero"}
	ErrSelfTransfer        = &Rejection{"sender and recipient are the same account"}
	ErrUnknownSender       = &Rejection{"sender is not a registered account"}
	ErrUnknownRecipient    = &Rejection{"recipient is not a registered account"}
	ErrAccountFrozen       = &Rejection{"account is frozen"}
	ErrQuotaExceeded       = &Rejection{"amount exceeds the account quota"}
	ErrUnauthorized        = &Rejection{"role is not permitted to perform this operation"}
	ErrInsufficientBalance = &Rejection{"insufficient balance"}
)

// =============================================================================

// The set of operation kinds the permission table covers.
const (
	KindTransfer Kind = iota + 1
	KindIssue
	KindFreeze
	KindSetQuota
	KindSubmitIssuance
	KindCertifyIssuance
	KindScrutinizeIssuance
	KindRejectIssuance
)

// Kind represents the operation a caller is requesting.
type Kind int

// permissions maps role gated operations to the roles allowed to perform
// them. Operations not present in the table are open to any role.
var permissions = map[Kind]map[account.Role]bool{
	KindFreeze:             {account.RoleGovernment: true},
	KindSetQuota:           {account.RoleGovernment: true},
	KindSubmitIssuance:     {account.RoleProducer: true},
	KindCertifyIssuance:    {account.RoleStatePoll: true, account.RoleGovernment: true},
	KindScrutinizeIssuance: {account.RoleStatePoll: true},
	KindRejectIssuance:     {account.RoleStatePoll: true, account.RoleGovernment: true},
}

// Authorize checks the specified role is permitted to perform the requested
// operation kind.
func Authorize(role account.Role, kind Kind) error {
	allowed, gated := permissions[kind]
	if !gated {
		return nil
	}
	if !allowed[role] {
		return ErrUnauthorized
	}
	return nil
}

// =============================================================================

// Intent describes a proposed transaction for validation.
type Intent struct {
	Kind      Kind
	Sender    string
	Recipient string
	Amount    uint64
}

// Validate runs the ordered policy checks against the proposed transaction.
// The first failing check wins. Validate has no side effects and returns
// identical results for identical inputs.
//
// A quota constrains the acquiring side: the recipient of a transfer or an
// issuance may not take more than their per-transaction ceiling.
func Validate(intent Intent, registry *account.Registry, quotas *Quotas) error {
	if intent.Amount == 0 {
		return ErrInvalidAmount
	}

	sentinel := account.IsSentinel(intent.Sender)

	if !sentinel && intent.Sender == intent.Recipient {
		return ErrSelfTransfer
	}

	if !sentinel {
		if _, err := registry.Get(intent.Sender); err != nil {
			return ErrUnknownSender
		}
	}
	if _, err := registry.Get(intent.Recipient); err != nil {
		return ErrUnknownRecipient
	}

	if registry.IsFrozen(intent.Sender) || registry.IsFrozen(intent.Recipient) {
		return ErrAccountFrozen
	}

	if limit, exists := quotas.Get(intent.Recipient); exists && intent.Amount > limit {
		return ErrQuotaExceeded
	}

	switch intent.Kind {
	case KindTransfer:
		if sentinel {
			return ErrUnauthorized
		}
	case KindIssue:
		if !sentinel {
			return ErrUnauthorized
		}
	default:
		return ErrUnauthorized
	}

	return nil
}
