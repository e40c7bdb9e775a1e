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

package token

import (
	"fmt"
	"math"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
)

// Program is the token program identified by its program ID
type Program struct {
	id address.Address
}

func NewProgram(id address.Address) *Program {
	return &Program{id: id}
}

func (p *Program) ID() address.Address {
	return p.id
}

// LoadAccount decodes a token account owned by this program
func (p *Program) LoadAccount(info *account.Info) (*Account, error) {
	if info.Owner != p.id {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenProgram, info.Address)
	}
	return DecodeAccount(info.Data)
}

// LoadMint decodes a token mint owned by this program
func (p *Program) LoadMint(info *account.Info) (*Mint, error) {
	if info.Owner != p.id {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenProgram, info.Address)
	}
	return DecodeMint(info.Data)
}

// Balance returns the amount held by a token account
func (p *Program) Balance(info *account.Info) (uint64, error) {
	acct, err := p.LoadAccount(info)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

// InitializeMint creates a new mint. Setup capabilities trust their caller.
func (p *Program) InitializeMint(
	info *account.Info,
	authority address.Address,
	decimals uint8,
) error {
	if !info.DataIsEmpty() {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, info.Address)
	}
	mint := &Mint{Authority: authority, Decimals: decimals}
	if err := info.SetData(mint.Encode()); err != nil {
		return err
	}
	info.SetOwner(p.id)
	return nil
}

// InitializeAccount creates an empty token account for mint held by owner
func (p *Program) InitializeAccount(
	info *account.Info,
	mint *account.Info,
	owner address.Address,
) error {
	if !info.DataIsEmpty() {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, info.Address)
	}
	if _, err := p.LoadMint(mint); err != nil {
		return err
	}
	acct := &Account{Mint: mint.Address, Owner: owner}
	if err := info.SetData(acct.Encode()); err != nil {
		return err
	}
	info.SetOwner(p.id)
	return nil
}

// MintTo issues new tokens into dest
func (p *Program) MintTo(
	mint *account.Info,
	dest *account.Info,
	authority address.Address,
	amount uint64,
) error {
	mintState, err := p.LoadMint(mint)
	if err != nil {
		return err
	}
	if mintState.Authority != authority {
		return fmt.Errorf("%w: %s", ErrMintAuthority, authority)
	}
	destState, err := p.LoadAccount(dest)
	if err != nil {
		return err
	}
	if destState.Mint != mint.Address {
		return ErrMintMismatch
	}
	if mintState.Supply > math.MaxUint64-amount ||
		destState.Amount > math.MaxUint64-amount {
		return ErrOverflow
	}
	mintState.Supply += amount
	destState.Amount += amount
	if err := mint.SetData(mintState.Encode()); err != nil {
		return err
	}
	return dest.SetData(destState.Encode())
}

// Approve lets delegate move up to amount out of the source account
func (p *Program) Approve(
	source *account.Info,
	delegate address.Address,
	amount uint64,
) error {
	srcState, err := p.LoadAccount(source)
	if err != nil {
		return err
	}
	srcState.Delegate = delegate
	srcState.DelegatedAmount = amount
	return source.SetData(srcState.Encode())
}

// TransferParams describes a single token movement
type TransferParams struct {
	Source      *account.Info
	Destination *account.Info
	Authority   *account.Info
	Amount      uint64
	// Signer authorizes a derived authority that cannot produce a signature
	Signer *address.Proof
}

// Transfer moves Amount tokens from Source to Destination. Either both
// accounts are updated or neither is.
func (p *Program) Transfer(params TransferParams) error {
	if err := account.AssertWritable(params.Source); err != nil {
		return err
	}
	if err := account.AssertWritable(params.Destination); err != nil {
		return err
	}
	authority := params.Authority
	if !authority.IsSigner && !params.Signer.Signs(authority.Address) {
		return fmt.Errorf("%w: %s", ErrMissingAuthority, authority.Address)
	}
	src, err := p.LoadAccount(params.Source)
	if err != nil {
		return err
	}
	dst, err := p.LoadAccount(params.Destination)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	useDelegation := false
	switch authority.Address {
	case src.Owner:
	case src.Delegate:
		if src.DelegatedAmount < params.Amount {
			return fmt.Errorf(
				"%w: %d < %d",
				ErrInsufficientDelegation,
				src.DelegatedAmount,
				params.Amount,
			)
		}
		useDelegation = true
	default:
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, authority.Address)
	}
	if src.Amount < params.Amount {
		return fmt.Errorf(
			"%w: %d < %d",
			ErrInsufficientFunds,
			src.Amount,
			params.Amount,
		)
	}
	if params.Source.Address == params.Destination.Address {
		return nil
	}
	if dst.Amount > math.MaxUint64-params.Amount {
		return ErrOverflow
	}
	src.Amount -= params.Amount
	if useDelegation {
		src.DelegatedAmount -= params.Amount
	}
	dst.Amount += params.Amount
	if err := params.Source.SetData(src.Encode()); err != nil {
		return err
	}
	return params.Destination.SetData(dst.Encode())
}
