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

// Package account holds the in-memory account snapshots that operation
// handlers read and mutate.
package account

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/lottery/address"
)

var (
	ErrMissingSigner      = errors.New("missing required signature")
	ErrNotWritable        = errors.New("account is not writable")
	ErrInvalidOwner       = errors.New("account has unexpected owner")
	ErrAccountNotFound    = errors.New("account does not exist")
	ErrNotEnoughAccounts  = errors.New("not enough accounts supplied")
	ErrAccountDataTooLong = errors.New("account data exceeds maximum size")
)

// MaxDataSize is the largest data payload an account may hold
const MaxDataSize = 10 * 1024

// Meta is one entry of an operation's ordered record list
type Meta struct {
	Address    address.Address `yaml:"address"`
	IsSigner   bool            `yaml:"signer"`
	IsWritable bool            `yaml:"writable"`
}

func NewMeta(addr address.Address, signer bool, writable bool) Meta {
	return Meta{
		Address:    addr,
		IsSigner:   signer,
		IsWritable: writable,
	}
}

// Info is a loaded account snapshot
type Info struct {
	Address    address.Address
	Owner      address.Address
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
	dirty      bool
}

// DataIsEmpty reports whether the account has never been initialized
func (i *Info) DataIsEmpty() bool {
	return len(i.Data) == 0
}

// Provisioned reports whether the account exists on the ledger, which
// requires both data and a funded balance
func (i *Info) Provisioned() bool {
	return !i.DataIsEmpty() && i.Lamports > 0
}

// SetData replaces the account data and marks the snapshot dirty
func (i *Info) SetData(data []byte) error {
	if len(data) > MaxDataSize {
		return fmt.Errorf(
			"%w: %d bytes",
			ErrAccountDataTooLong,
			len(data),
		)
	}
	i.Data = append(i.Data[:0], data...)
	i.dirty = true
	return nil
}

// SetOwner assigns the account to a program
func (i *Info) SetOwner(owner address.Address) {
	i.Owner = owner
	i.dirty = true
}

func (i *Info) MarkDirty() {
	i.dirty = true
}

func (i *Info) Dirty() bool {
	return i.dirty
}

// ClearDirty resets the dirty flag after the snapshot has been persisted
func (i *Info) ClearDirty() {
	i.dirty = false
}

// Clone returns a deep copy of the snapshot
func (i *Info) Clone() *Info {
	ret := *i
	ret.Data = append([]byte(nil), i.Data...)
	return &ret
}

func AssertSigner(info *Info) error {
	if !info.IsSigner {
		return fmt.Errorf("%w: %s", ErrMissingSigner, info.Address)
	}
	return nil
}

func AssertWritable(info *Info) error {
	if !info.IsWritable {
		return fmt.Errorf("%w: %s", ErrNotWritable, info.Address)
	}
	return nil
}

func AssertOwnedBy(info *Info, owner address.Address) error {
	if info.Owner != owner {
		return fmt.Errorf(
			"%w: %s is owned by %s, expected %s",
			ErrInvalidOwner,
			info.Address,
			info.Owner,
			owner,
		)
	}
	return nil
}

func AssertExists(info *Info) error {
	if !info.Provisioned() {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, info.Address)
	}
	return nil
}
