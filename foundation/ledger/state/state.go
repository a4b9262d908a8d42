// Package state is the core API for the credit ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
	"github.com/hydrocredit/ledger/foundation/ledger/mempool"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
)

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks. Events prefixed with "event:" are
// domain events intended for external observers.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the ledger. Pending
// carries transactions that were accepted into the pool but not committed
// before the previous shutdown; they are re-validated and restored with
// their original ids and timestamps.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Serializer
	Registry  *account.Registry
	Quotas    *policy.Quotas
	Pending   []database.Tx
	EvHandler EventHandler
}

// State manages the ledger: the chain database, the pending pool, the
// account registry and the quota table.
type State struct {
	mu         sync.Mutex // Serializes every mutating operation.
	assembleMu sync.Mutex // Serializes block assembly, held across the proof search.

	genesis   genesis.Genesis
	evHandler EventHandler

	db       *database.Database
	mempool  *mempool.Mempool
	registry *account.Registry
	quotas   *policy.Quotas

	issuanceSeq uint64
	issuances   map[string]IssuanceRequest
}

// New constructs the ledger state, replaying any existing chain from the
// configured storage and creating the genesis block on a fresh chain.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, &InternalError{err}
	}

	s := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		db:        db,
		mempool:   mempool.New(),
		registry:  cfg.Registry,
		quotas:    cfg.Quotas,
		issuances: make(map[string]IssuanceRequest),
	}

	// The chain is never empty after initialization.
	if db.LatestBlock().Index == 0 {
		block := database.GenesisBlock(cfg.Genesis)
		if err := db.Write(block, ev); err != nil {
			return nil, &InternalError{err}
		}
		ev("event: BlockAssembled: genesis: blk[%d] hash[%s]", block.Index, block.Hash)
	}

	// Restore the pending pool from the previous run. A transaction that no
	// longer passes policy is dropped with an event rather than failing the
	// whole construction.
	for _, tx := range cfg.Pending {
		if err := s.restorePending(tx); err != nil {
			ev("state: New: pending restore: dropped tx[%s] %s: %s", tx.ID, tx, err)
			continue
		}
		ev("state: New: pending restore: tx[%s] %s", tx.ID, tx)
	}

	return &s, nil
}

// Shutdown cleanly brings the ledger down.
func (s *State) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.db.Close()
	return nil
}
