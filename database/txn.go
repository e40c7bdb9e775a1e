// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/lottery/database/types"
)

// Txn spans one write to the account blob store and the matching write to
// the lottery and ticket index. On commit both sides receive the same commit
// timestamp, which is what New compares on startup
type Txn struct {
	db        *Database
	accounts  types.Txn
	index     types.Txn
	mu        sync.Mutex
	done      bool
	readWrite bool
}

func NewTxn(db *Database, readWrite bool) *Txn {
	t := &Txn{db: db, readWrite: readWrite}
	if bs := db.Blob(); bs != nil {
		t.accounts = bs.NewTransaction(readWrite)
	}
	if ms := db.Metadata(); ms != nil {
		t.index = ms.Transaction()
	}
	return t
}

// Blob returns the account blob store side of the transaction
func (t *Txn) Blob() types.Txn {
	return t.accounts
}

// Metadata returns the index side of the transaction
func (t *Txn) Metadata() types.Txn {
	return t.index
}

// Do runs fn and commits. An error from fn discards the writes on both sides
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback: %w: after: %w", rbErr, err)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	if !t.readWrite {
		return t.discard()
	}
	if t.accounts == nil && t.index == nil {
		t.done = true
		return types.ErrNoStoreAvailable
	}
	if t.accounts != nil && t.index != nil {
		if err := t.db.updateCommitTimestamp(t, time.Now().UnixMilli()); err != nil {
			_ = t.discard()
			return fmt.Errorf("stamp commit: %w", err)
		}
	}
	// Accounts are the source of truth. The index is rebuilt from them when
	// the second commit below fails and the database is next opened
	if t.accounts != nil {
		if err := t.accounts.Commit(); err != nil {
			if t.index != nil {
				_ = t.index.Rollback()
			}
			t.done = true
			return fmt.Errorf("commit accounts: %w", err)
		}
	}
	if t.index != nil {
		if err := t.index.Commit(); err != nil {
			t.db.logger.Error(
				"accounts committed without their index entries",
				"component", "database",
				"error", err,
			)
			_ = t.index.Rollback()
			t.done = true
			return fmt.Errorf("commit index: %w", err)
		}
	}
	t.done = true
	return nil
}

func (t *Txn) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.discard()
}

func (t *Txn) discard() error {
	if t.done {
		return nil
	}
	t.done = true
	var errs []error
	if t.accounts != nil {
		if err := t.accounts.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("accounts: %w", err))
		}
	}
	if t.index != nil {
		if err := t.index.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("index: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Release discards the transaction and logs any failure, for use with defer
// on read paths
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"release transaction",
			"component", "database",
			"error", err,
			"read_write", t.readWrite,
		)
	}
}
