package state

import (
	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
)

// RegisterAccount inserts a new account into the registry. Sentinel names
// are reserved and can never be registered.
func (s *State) RegisterAccount(name string, role account.Role, attributes map[string]string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.IsSentinel(name) {
		return account.Account{}, account.ErrExists
	}

	acct, err := s.registry.Register(name, role, attributes)
	if err != nil {
		return account.Account{}, err
	}

	s.evHandler("event: AccountRegistered: name[%s] role[%s]", acct.Name, acct.Role)

	return acct, nil
}

// SetFrozen updates the frozen flag for an account. Only the Government
// role may perform this operation.
func (s *State) SetFrozen(by string, name string, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.registry.Get(by)
	if err != nil {
		return policy.ErrUnauthorized
	}
	if err := policy.Authorize(actor.Role, policy.KindFreeze); err != nil {
		return err
	}

	if err := s.registry.SetFrozen(name, frozen); err != nil {
		return err
	}

	s.evHandler("event: AccountFrozen: name[%s] frozen[%t] by[%s]", name, frozen, by)

	return nil
}

// SetQuota stores the per-transaction ceiling for an account. Only the
// Government role may perform this operation.
func (s *State) SetQuota(by string, name string, limit uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.registry.Get(by)
	if err != nil {
		return policy.ErrUnauthorized
	}
	if err := policy.Authorize(actor.Role, policy.KindSetQuota); err != nil {
		return err
	}

	if _, err := s.registry.Get(name); err != nil {
		return err
	}

	if err := s.quotas.Set(name, limit); err != nil {
		return &InternalError{err}
	}

	s.evHandler("event: QuotaSet: name[%s] limit[%d] by[%s]", name, limit, by)

	return nil
}

// ClearQuota removes the ceiling for an account, making it unlimited. Only
// the Government role may perform this operation.
func (s *State) ClearQuota(by string, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.registry.Get(by)
	if err != nil {
		return policy.ErrUnauthorized
	}
	if err := policy.Authorize(actor.Role, policy.KindSetQuota); err != nil {
		return err
	}

	if err := s.quotas.Clear(name); err != nil {
		return &InternalError{err}
	}

	s.evHandler("event: QuotaCleared: name[%s] by[%s]", name, by)

	return nil
}
