package state

import (
	"fmt"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
)

// ProposeTransfer validates a transfer between two registered accounts and,
// on acceptance, places it in the pending pool. This is the only path by
// which a non-sentinel debit occurs.
func (s *State) ProposeTransfer(sender string, recipient string, amount uint64, details string) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent := policy.Intent{
		Kind:      policy.KindTransfer,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
	if err := policy.Validate(intent, s.registry, s.quotas); err != nil {
		s.evHandler("state: ProposeTransfer: rejected: %s -> %s : %d : %s", sender, recipient, amount, err)
		return database.Tx{}, err
	}

	// The balance check counts debits already waiting in the pool so two
	// transfers can never both spend the same committed funds.
	available, err := s.availableBalance(sender)
	if err != nil {
		return database.Tx{}, err
	}
	if available < amount {
		s.evHandler("state: ProposeTransfer: rejected: %s -> %s : %d : available[%d]", sender, recipient, amount, available)
		return database.Tx{}, policy.ErrInsufficientBalance
	}

	tx := database.NewTx(sender, recipient, amount, details)
	s.mempool.Append(tx)

	s.evHandler("event: TransactionProposed: tx[%s] %s", tx.ID, tx)

	return tx, nil
}

// ProposeIssuance validates an issuance from the certifier sentinel to the
// specified recipient and, on acceptance, places it in the pending pool.
// Sentinels are infinite sources so no balance check applies.
func (s *State) ProposeIssuance(recipient string, amount uint64, details string) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.proposeIssuance(recipient, amount, details)
}

// proposeIssuance performs the issuance validation and pool insert. The
// caller must hold the write lock.
func (s *State) proposeIssuance(recipient string, amount uint64, details string) (database.Tx, error) {
	intent := policy.Intent{
		Kind:      policy.KindIssue,
		Sender:    account.SentinelCertifier,
		Recipient: recipient,
		Amount:    amount,
	}
	if err := policy.Validate(intent, s.registry, s.quotas); err != nil {
		s.evHandler("state: ProposeIssuance: rejected: %s : %d : %s", recipient, amount, err)
		return database.Tx{}, err
	}

	tx := database.NewTx(account.SentinelCertifier, recipient, amount, details)
	s.mempool.Append(tx)

	s.evHandler("event: TransactionProposed: tx[%s] %s", tx.ID, tx)

	return tx, nil
}

// restorePending re-validates a transaction that was in the pool at the
// previous shutdown and places it back, preserving its original id and
// timestamp. Called only during construction, before the state is shared.
func (s *State) restorePending(tx database.Tx) error {
	kind := policy.KindTransfer
	if account.IsSentinel(tx.Sender) {
		kind = policy.KindIssue
	}

	intent := policy.Intent{
		Kind:      kind,
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
	}
	if err := policy.Validate(intent, s.registry, s.quotas); err != nil {
		return err
	}

	if kind == policy.KindTransfer {
		available, err := s.availableBalance(tx.Sender)
		if err != nil {
			return err
		}
		if available < tx.Amount {
			return policy.ErrInsufficientBalance
		}
	}

	s.mempool.Append(tx)
	return nil
}

// availableBalance returns the committed balance minus the debits already
// pending in the pool. The caller must hold the write lock.
func (s *State) availableBalance(name string) (uint64, error) {
	balance := s.db.BalanceOf(name)
	pending := s.mempool.PendingDebit(name)

	// Every pooled debit passed this same check, so pending can never
	// exceed the committed balance.
	if pending > balance {
		return 0, &InternalError{fmt.Errorf("pending debits %d exceed committed balance %d for %q", pending, balance, name)}
	}

	return balance - pending, nil
}
