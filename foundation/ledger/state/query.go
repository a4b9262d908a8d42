package state

import (
	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
)

// ChainInfo summarizes the current shape of the chain.
type ChainInfo struct {
	Length       uint64 `json:"length"`
	LatestIndex  uint64 `json:"latest_block_index"`
	LatestHash   string `json:"latest_block_hash"`
	PendingCount int    `json:"pending_transactions"`
}

// Balance returns the committed balance for the specified account. Pending
// pool movements are not reflected until their block is assembled.
func (s *State) Balance(name string) uint64 {
	return s.db.BalanceOf(name)
}

// Balances returns the committed balance for every account that has
// transacted on the ledger.
func (s *State) Balances() map[string]uint64 {
	return s.db.CopyBalances()
}

// History returns the transactions the specified account took part in, most
// recent first: the pending pool, then committed blocks in reverse. A limit
// of zero or less means no bound.
func (s *State) History(name string, limit int) ([]database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []database.Tx
	full := func() bool { return limit > 0 && len(out) >= limit }

	pending := s.mempool.Copy()
	for i := len(pending) - 1; i >= 0 && !full(); i-- {
		tx := pending[i]
		if tx.Sender == name || tx.Recipient == name {
			out = append(out, tx)
		}
	}

	var blocks []database.Block
	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, &InternalError{err}
		}
		blocks = append(blocks, block)
	}

	for i := len(blocks) - 1; i >= 0 && !full(); i-- {
		trans := blocks[i].Trans
		for j := len(trans) - 1; j >= 0 && !full(); j-- {
			tx := trans[j]
			if tx.Sender == name || tx.Recipient == name {
				out = append(out, tx)
			}
		}
	}

	return out, nil
}

// ChainInfo returns a consistent snapshot of the chain shape. Two calls
// without a mutation in between return identical results.
func (s *State) ChainInfo() ChainInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.db.LatestBlock()
	return ChainInfo{
		Length:       latest.Index,
		LatestIndex:  latest.Index,
		LatestHash:   latest.Hash,
		PendingCount: s.mempool.Count(),
	}
}

// Mempool returns a copy of the pending pool.
func (s *State) Mempool() []database.Tx {
	return s.mempool.Copy()
}

// Blocks returns every block in the chain in order.
func (s *State) Blocks() ([]database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blocks []database.Block
	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, &InternalError{err}
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// Accounts returns a copy of the registered accounts.
func (s *State) Accounts() map[string]account.Account {
	return s.registry.Copy()
}

// Quotas returns a copy of the quota table.
func (s *State) Quotas() map[string]uint64 {
	return s.quotas.Copy()
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}
