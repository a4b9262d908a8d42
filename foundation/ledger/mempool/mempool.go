// Package mempool maintains the pool of transactions accepted by policy but
// not yet committed to a block. Transactions leave the pool in the order
// they arrived.
package mempool

import (
	"sync"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
)

// Mempool represents the ordered pending pool.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new mempool for pending transactions.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool.
func (mp *Mempool) Append(tx database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
}

// Copy returns a copy of the pool preserving arrival order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// PendingDebit returns the total amount the specified account would be
// debited if the current pool were committed.
func (mp *Mempool) PendingDebit(name string) uint64 {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var total uint64
	for _, tx := range mp.pool {
		if tx.Sender == name {
			total += tx.Amount
		}
	}
	return total
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
