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

// Package token implements the fungible token accounts that back lottery
// escrow pools, ticket payments and prize delivery.
package token

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blinklabs-io/lottery/address"
)

const (
	AccountSize = 112
	MintSize    = 41
)

var (
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInsufficientDelegation = errors.New("amount exceeds delegated allowance")
	ErrMintMismatch           = errors.New("token accounts have different mints")
	ErrInvalidTokenProgram    = errors.New("account is not owned by the token program")
	ErrOwnerMismatch          = errors.New("authority is neither owner nor delegate")
	ErrMissingAuthority       = errors.New("transfer authority did not sign")
	ErrMintAuthority          = errors.New("wrong mint authority")
	ErrNotTokenAccount        = errors.New("account is not a token account")
	ErrNotMint                = errors.New("account is not a token mint")
	ErrAlreadyInitialized     = errors.New("token account already initialized")
	ErrOverflow               = errors.New("token amount overflow")
)

// Account is the decoded form of a token account
type Account struct {
	Mint            address.Address
	Owner           address.Address
	Amount          uint64
	Delegate        address.Address
	DelegatedAmount uint64
}

func DecodeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf(
			"%w: data is %d bytes",
			ErrNotTokenAccount,
			len(data),
		)
	}
	ret := &Account{}
	copy(ret.Mint[:], data[0:32])
	copy(ret.Owner[:], data[32:64])
	ret.Amount = binary.LittleEndian.Uint64(data[64:72])
	copy(ret.Delegate[:], data[72:104])
	ret.DelegatedAmount = binary.LittleEndian.Uint64(data[104:112])
	return ret, nil
}

func (a *Account) Encode() []byte {
	ret := make([]byte, AccountSize)
	copy(ret[0:32], a.Mint[:])
	copy(ret[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(ret[64:72], a.Amount)
	copy(ret[72:104], a.Delegate[:])
	binary.LittleEndian.PutUint64(ret[104:112], a.DelegatedAmount)
	return ret
}

// Mint is the decoded form of a token mint
type Mint struct {
	Authority address.Address
	Supply    uint64
	Decimals  uint8
}

func DecodeMint(data []byte) (*Mint, error) {
	if len(data) != MintSize {
		return nil, fmt.Errorf(
			"%w: data is %d bytes",
			ErrNotMint,
			len(data),
		)
	}
	ret := &Mint{}
	copy(ret.Authority[:], data[0:32])
	ret.Supply = binary.LittleEndian.Uint64(data[32:40])
	ret.Decimals = data[40]
	return ret, nil
}

func (m *Mint) Encode() []byte {
	ret := make([]byte, MintSize)
	copy(ret[0:32], m.Authority[:])
	binary.LittleEndian.PutUint64(ret[32:40], m.Supply)
	ret[40] = m.Decimals
	return ret
}
