// Package disk implements the ability to read and write blocks to an
// append-only file on disk, one JSON document per line.
package disk

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hydrocredit/ledger/foundation/ledger/database"
)

// Disk represents the serialization implementation for reading and storing
// blocks on disk. This implements the database.Serializer interface.
type Disk struct {
	dbPath string
	dbFile *os.File
	mu     sync.Mutex
}

// New constructs a Disk value for use, creating the file if needed.
func New(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	dbFile, err := os.OpenFile(dbPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	return &Disk{
		dbPath: dbPath,
		dbFile: dbFile,
	}, nil
}

// Close cleanly releases the storage area.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.dbFile.Close()
}

// Write takes the specified block and appends it to the chain file.
func (d *Disk) Write(block database.Block) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("encoding block %d: %w", block.Index, err)
	}

	if _, err := d.dbFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending block %d: %w", block.Index, err)
	}

	return nil
}

// GetBlock searches the chain file to locate and return the block stored
// under the specified 1 based index.
func (d *Disk) GetBlock(index uint64) (database.Block, error) {
	iter := d.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return database.Block{}, err
		}
		if block.Index == index {
			return block, nil
		}
	}

	return database.Block{}, errors.New("block does not exist")
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block.
func (d *Disk) ForEach() database.Iterator {
	f, err := os.Open(d.dbPath)
	if err != nil {
		return &diskIterator{err: err, eoc: true}
	}

	return &diskIterator{file: f, scanner: newScanner(f)}
}

// Reset will clear out the chain on disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dbFile.Close()
	if err := os.Remove(d.dbPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	dbFile, err := os.OpenFile(d.dbPath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}

	d.dbFile = dbFile
	return nil
}

// =============================================================================

// newScanner constructs a scanner with a buffer large enough for a block
// holding a full pending pool.
func newScanner(f *os.File) *bufio.Scanner {
	const maxBlockSize = 16 * 1024 * 1024

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, bufio.MaxScanTokenSize), maxBlockSize)
	return scanner
}

// diskIterator represents the iteration implementation for walking through
// and reading blocks on disk. This implements the database.Iterator
// interface.
type diskIterator struct {
	file    *os.File
	scanner *bufio.Scanner
	err     error
	eoc     bool
}

// Next retrieves the next block from disk.
func (di *diskIterator) Next() (database.Block, error) {
	if di.eoc {
		return database.Block{}, di.err
	}

	if !di.scanner.Scan() {
		di.eoc = true
		di.err = di.scanner.Err()
		di.file.Close()
		return database.Block{}, di.err
	}

	var block database.Block
	if err := json.Unmarshal(di.scanner.Bytes(), &block); err != nil {
		return database.Block{}, fmt.Errorf("decoding block: %w", err)
	}

	return block, nil
}

// Done returns the end of chain value.
func (di *diskIterator) Done() bool {
	return di.eoc
}
