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

// Package registry decodes the asset registry stores that lotteries draw
// their prizes from. The registry itself is managed outside this ledger.
package registry

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
)

const StoreSize = 72

var (
	ErrNotStore         = errors.New("account is not a registry store")
	ErrInvalidRegistry  = errors.New("account is not owned by the registry program")
	ErrStoreInitialized = errors.New("registry store already initialized")
)

// StoreRecord is a collection of prize assets
type StoreRecord struct {
	Owner      address.Address
	Authority  address.Address
	PrizeCount uint64
}

func DecodeStore(data []byte) (*StoreRecord, error) {
	if len(data) != StoreSize {
		return nil, fmt.Errorf("%w: data is %d bytes", ErrNotStore, len(data))
	}
	ret := &StoreRecord{}
	copy(ret.Owner[:], data[0:32])
	copy(ret.Authority[:], data[32:64])
	ret.PrizeCount = binary.LittleEndian.Uint64(data[64:72])
	return ret, nil
}

func (s *StoreRecord) Encode() []byte {
	ret := make([]byte, StoreSize)
	copy(ret[0:32], s.Owner[:])
	copy(ret[32:64], s.Authority[:])
	binary.LittleEndian.PutUint64(ret[64:72], s.PrizeCount)
	return ret
}

// Program is the registry program identified by its program ID
type Program struct {
	id address.Address
}

func NewProgram(id address.Address) *Program {
	return &Program{id: id}
}

func (p *Program) ID() address.Address {
	return p.id
}

// LoadStore decodes a store record owned by the registry program
func (p *Program) LoadStore(info *account.Info) (*StoreRecord, error) {
	if info.Owner != p.id {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRegistry, info.Address)
	}
	return DecodeStore(info.Data)
}

// InitializeStore writes a new store record. It is used when bootstrapping
// ledger state from a genesis file.
func (p *Program) InitializeStore(info *account.Info, store *StoreRecord) error {
	if !info.DataIsEmpty() {
		return fmt.Errorf("%w: %s", ErrStoreInitialized, info.Address)
	}
	if err := info.SetData(store.Encode()); err != nil {
		return err
	}
	info.SetOwner(p.id)
	return nil
}
