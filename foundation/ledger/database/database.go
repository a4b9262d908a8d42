// Package database maintains the append-only block chain and an
// incrementally maintained cache of committed account balances.
package database

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
)

// The set of internal faults the database can surface. These indicate a
// modeling bug upstream, not an expected outcome, and are never produced
// under correct single writer operation.
var (
	ErrBalanceOverflow  = errors.New("balance accumulation overflow")
	ErrBalanceUnderflow = errors.New("debit exceeds committed balance")
)

// Serializer interface represents the behavior required to be implemented by
// any package providing support for storing and reading the chain.
type Serializer interface {
	Write(block Block) error
	GetBlock(index uint64) (Block, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks and the committed balance for every
// account that has transacted on the ledger.
type Database struct {
	mu sync.RWMutex

	genesis     genesis.Genesis
	latestBlock Block
	balances    map[string]uint64

	serializer Serializer
}

// New constructs the database and replays any blocks the serializer already
// holds, re-validating linkage and rebuilding the balance cache.
func New(gen genesis.Genesis, serializer Serializer, ev func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis:    gen,
		balances:   make(map[string]uint64),
		serializer: serializer,
	}

	iter := serializer.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if err := block.ValidateBlock(db.latestBlock, ev); err != nil {
			return nil, err
		}

		if err := db.applyBalances(block.Trans); err != nil {
			return nil, err
		}

		db.latestBlock = block
	}

	return &db, nil
}

// Close closes the underlying serializer.
func (db *Database) Close() {
	db.serializer.Close()
}

// Write validates the specified block against the latest block, persists it
// through the serializer and applies its transactions to the balance cache.
// All of it happens atomically: a failure leaves the cache untouched.
func (db *Database) Write(block Block, ev func(v string, args ...any)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := block.ValidateBlock(db.latestBlock, ev); err != nil {
		return err
	}

	// Stage the balance changes before touching storage so a fault in
	// either step leaves the committed state unchanged.
	staged, err := db.stageBalances(block.Trans)
	if err != nil {
		return err
	}

	if err := db.serializer.Write(block); err != nil {
		return fmt.Errorf("writing block %d: %w", block.Index, err)
	}

	db.balances = staged
	db.latestBlock = block

	return nil
}

// LatestBlock returns the latest block appended to the chain. A zero value
// block with index zero means the chain is empty.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// BalanceOf returns the committed balance for the specified account.
func (db *Database) BalanceOf(name string) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.balances[name]
}

// CopyBalances returns a copy of the committed balance for every account.
func (db *Database) CopyBalances() map[string]uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	cpy := make(map[string]uint64, len(db.balances))
	for name, balance := range db.balances {
		cpy[name] = balance
	}
	return cpy
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block.
func (db *Database) ForEach() Iterator {
	return db.serializer.ForEach()
}

// GetBlock returns the block stored under the specified index.
func (db *Database) GetBlock(index uint64) (Block, error) {
	return db.serializer.GetBlock(index)
}

// =============================================================================

// applyBalances mutates the live balance cache. Used only during the replay
// performed by New, before the database is shared.
func (db *Database) applyBalances(trans []Tx) error {
	staged, err := stage(db.balances, trans)
	if err != nil {
		return err
	}
	db.balances = staged
	return nil
}

// stageBalances builds the balance cache that would result from committing
// the specified transactions. The caller must hold the write lock.
func (db *Database) stageBalances(trans []Tx) (map[string]uint64, error) {
	return stage(db.balances, trans)
}

// stage applies the transactions to a copy of the balances, checking each
// credit for overflow and each non-sentinel debit for underflow.
func stage(balances map[string]uint64, trans []Tx) (map[string]uint64, error) {
	staged := make(map[string]uint64, len(balances))
	for name, balance := range balances {
		staged[name] = balance
	}

	for _, tx := range trans {
		if staged[tx.Recipient] > math.MaxUint64-tx.Amount {
			return nil, fmt.Errorf("crediting %q with %d: %w", tx.Recipient, tx.Amount, ErrBalanceOverflow)
		}
		staged[tx.Recipient] += tx.Amount

		// A sentinel sender is an issuance, a pure credit with no debit side.
		if account.IsSentinel(tx.Sender) {
			continue
		}

		if staged[tx.Sender] < tx.Amount {
			return nil, fmt.Errorf("debiting %q by %d with balance %d: %w", tx.Sender, tx.Amount, staged[tx.Sender], ErrBalanceUnderflow)
		}
		staged[tx.Sender] -= tx.Amount
	}

	return staged, nil
}
