package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
	"github.com/hydrocredit/ledger/foundation/ledger/hashing"
)

// Block represents a group of transactions batched together behind a single
// content derived hash. A block is immutable once appended to the chain.
type Block struct {
	Index     uint64 `json:"index"`         // Block number in the chain, 1 based.
	TimeStamp uint64 `json:"timestamp"`     // Time the block was assembled.
	Trans     []Tx   `json:"transactions"`  // Ordered transactions included in this block.
	Proof     uint64 `json:"proof"`         // Value produced by the proof assembly step.
	PrevHash  string `json:"previous_hash"` // Hash of the previous block in the chain.
	Hash      string `json:"hash"`          // Content hash of this block.
}

// blockContent is the portion of a block covered by the content hash.
type blockContent struct {
	Index     uint64 `json:"index"`
	TimeStamp uint64 `json:"timestamp"`
	Trans     []Tx   `json:"transactions"`
	Proof     uint64 `json:"proof"`
	PrevHash  string `json:"previous_hash"`
}

// NewBlock constructs the next block in the chain from the specified
// transactions and computes its hash.
func NewBlock(prevBlock Block, proof uint64, trans []Tx) Block {
	block := Block{
		Index:     prevBlock.Index + 1,
		TimeStamp: uint64(time.Now().UTC().Unix()),
		Trans:     trans,
		Proof:     proof,
		PrevHash:  prevBlock.Hash,
	}
	block.Hash = block.contentHash()

	return block
}

// GenesisBlock constructs block one of a new chain. The seed balances from
// the genesis file become issuance transactions from the genesis sentinel so
// every balance on the chain traces back to a committed transaction.
func GenesisBlock(gen genesis.Genesis) Block {
	names := make([]string, 0, len(gen.Balances))
	for name := range gen.Balances {
		names = append(names, name)
	}
	sort.Strings(names)

	var trans []Tx
	for _, name := range names {
		trans = append(trans, NewTx(account.SentinelGenesis, name, gen.Balances[name], "genesis allocation"))
	}

	block := Block{
		Index:     1,
		TimeStamp: uint64(gen.Date.UTC().Unix()),
		Trans:     trans,
		Proof:     gen.GenesisProof,
		PrevHash:  hashing.ZeroHash,
	}
	block.Hash = block.contentHash()

	return block
}

// contentHash computes the content hash over the block fields.
func (b Block) contentHash() string {
	return hashing.Hash(blockContent{
		Index:     b.Index,
		TimeStamp: b.TimeStamp,
		Trans:     b.Trans,
		Proof:     b.Proof,
		PrevHash:  b.PrevHash,
	})
}

// ValidateBlock takes a block and validates it to be appended after the
// specified previous block. A failure here is an internal fault, the single
// writer discipline should make these checks unreachable.
func (b Block) ValidateBlock(previousBlock Block, ev func(v string, args ...any)) error {
	ev("database: ValidateBlock: blk[%d]: check: block number is the next number", b.Index)

	if b.Index != previousBlock.Index+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Index, previousBlock.Index+1)
	}

	ev("database: ValidateBlock: blk[%d]: check: previous hash matches", b.Index)

	prevHash := hashing.ZeroHash
	if previousBlock.Index > 0 {
		prevHash = previousBlock.Hash
	}
	if b.PrevHash != prevHash {
		return fmt.Errorf("previous hash doesn't match our known parent, got %s, exp %s", b.PrevHash, prevHash)
	}

	ev("database: ValidateBlock: blk[%d]: check: block hash matches the content", b.Index)

	if hash := b.contentHash(); b.Hash != hash {
		return fmt.Errorf("block hash doesn't match the content, got %s, exp %s", b.Hash, hash)
	}

	return nil
}

// =============================================================================

// AssembleProof searches increasing integers starting at zero until one
// produces a digest with the required leading zero prefix. This is a
// deterministic delay step, not a security mechanism: there is a single
// writer and no adversarial miners.
func AssembleProof(prevProof uint64, difficulty uint16) uint64 {
	var proof uint64
	for !ValidProof(prevProof, proof, difficulty) {
		proof++
	}
	return proof
}

// ValidProof reports whether the proof solves the puzzle for the previous
// block's proof at the specified difficulty.
func ValidProof(prevProof uint64, proof uint64, difficulty uint16) bool {
	digest := sha256.Sum256(fmt.Appendf(nil, "%d%d", prevProof, proof))
	return strings.HasPrefix(hex.EncodeToString(digest[:]), strings.Repeat("0", int(difficulty)))
}
