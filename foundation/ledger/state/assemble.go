package state

import (
	"errors"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
)

// ErrNoTransactions is returned when a block is requested to be assembled
// and the pending pool is empty.
var ErrNoTransactions = errors.New("no transactions in the pending pool")

// AssembleBlock moves the full pending pool into a new block appended to the
// chain. The pool is cleared atomically with the append: no transaction is
// lost or double included with respect to concurrent proposals.
func (s *State) AssembleBlock() (database.Block, error) {
	s.assembleMu.Lock()
	defer s.assembleMu.Unlock()

	if s.mempool.Count() == 0 {
		return database.Block{}, ErrNoTransactions
	}

	// The proof search is CPU bound and uses only the previous block's
	// already committed proof, so it runs before the write lock is taken
	// and never starves concurrent proposers. Assembly is serialized by
	// assembleMu, which keeps the latest block stable during the search.
	prevBlock := s.db.LatestBlock()

	s.evHandler("state: AssembleBlock: proof search: prevProof[%d] difficulty[%d]", prevBlock.Proof, s.genesis.Difficulty)
	proof := database.AssembleProof(prevBlock.Proof, s.genesis.Difficulty)
	s.evHandler("state: AssembleBlock: proof search: solved: proof[%d]", proof)

	s.mu.Lock()
	defer s.mu.Unlock()

	trans := s.mempool.Copy()
	if len(trans) == 0 {
		return database.Block{}, ErrNoTransactions
	}

	block := database.NewBlock(prevBlock, proof, trans)

	// Linkage is re-validated under the lock on append.
	if err := s.db.Write(block, s.evHandler); err != nil {
		return database.Block{}, &InternalError{err}
	}

	s.mempool.Truncate()

	s.evHandler("event: BlockAssembled: blk[%d] hash[%s] txs[%d]", block.Index, block.Hash, len(block.Trans))

	return block, nil
}
