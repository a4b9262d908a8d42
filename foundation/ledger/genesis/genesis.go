// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time         `json:"date"`
	ChainID      uint16            `json:"chain_id"`      // The chain id represents an unique id for this running instance.
	Difficulty   uint16            `json:"difficulty"`    // Number of leading hex zeros needed to accept a proof.
	GenesisProof uint64            `json:"genesis_proof"` // Proof value recorded in the genesis block.
	Balances     map[string]uint64 `json:"balances"`      // Credits issued by the genesis sentinel in the genesis block.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
