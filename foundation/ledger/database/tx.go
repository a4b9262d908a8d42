package database

import (
	"fmt"
	"time"

	"github.com/hydrocredit/ledger/foundation/ledger/hashing"
)

// Tx represents a single credit movement between two accounts. A transaction
// is immutable once created.
type Tx struct {
	ID        string `json:"id"`        // Informational unique id assigned at creation.
	Sender    string `json:"sender"`    // Account being debited, or a sentinel for issuance.
	Recipient string `json:"recipient"` // Account being credited.
	Amount    uint64 `json:"amount"`    // Credits moved by this transaction.
	Details   string `json:"details"`   // Caller supplied description.
	TimeStamp uint64 `json:"timestamp"` // Time the transaction was created.
	Hash      string `json:"hash"`      // Content hash over all other fields.
}

// txContent is the portion of a transaction covered by the content hash.
type txContent struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Details   string `json:"details"`
	TimeStamp uint64 `json:"timestamp"`
}

// NewTx constructs a new transaction with its identifiers assigned.
func NewTx(sender string, recipient string, amount uint64, details string) Tx {
	tx := Tx{
		ID:        hashing.Nonce(),
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Details:   details,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}
	tx.Hash = tx.contentHash()

	return tx
}

// contentHash computes the content hash over the transaction fields.
func (tx Tx) contentHash() string {
	return hashing.Hash(txContent{
		ID:        tx.ID,
		Sender:    tx.Sender,
		Recipient: tx.Recipient,
		Amount:    tx.Amount,
		Details:   tx.Details,
		TimeStamp: tx.TimeStamp,
	})
}

// String implements the fmt.Stringer interface for event output.
func (tx Tx) String() string {
	return fmt.Sprintf("%s -> %s : %d", tx.Sender, tx.Recipient, tx.Amount)
}
