// Package hashing provides the content-addressed identifier support for
// transactions and blocks.
package hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is the parent hash of the
// genesis block.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. The value is serialized with a
// fixed field order so logically equal values always hash identically.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}

// Nonce produces a unique identifier derived from the current time and a
// random component. It is informational only and is never used for
// integrity checks.
func Nonce() string {
	var random [8]byte
	rand.Read(random[:])

	seed := fmt.Sprintf("%d%x", time.Now().UTC().UnixNano(), random)
	hash := sha256.Sum256([]byte(seed))
	return hexutil.Encode(hash[:])
}
