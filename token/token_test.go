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

package token_test

import (
	"testing"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenFixture struct {
	program *token.Program
	mint    *account.Info
	alice   *account.Info
	bob     *account.Info
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	program := token.NewProgram(address.FromLabel("token-program"))
	mintAuthority := address.FromLabel("mint-authority")
	mint := &account.Info{Address: address.FromLabel("mint"), IsWritable: true}
	require.NoError(t, program.InitializeMint(mint, mintAuthority, 0))
	alice := &account.Info{Address: address.FromLabel("alice-tokens"), IsWritable: true}
	bob := &account.Info{Address: address.FromLabel("bob-tokens"), IsWritable: true}
	require.NoError(t, program.InitializeAccount(alice, mint, address.FromLabel("alice")))
	require.NoError(t, program.InitializeAccount(bob, mint, address.FromLabel("bob")))
	require.NoError(t, program.MintTo(mint, alice, mintAuthority, 100))
	return &tokenFixture{program: program, mint: mint, alice: alice, bob: bob}
}

func (f *tokenFixture) balance(t *testing.T, info *account.Info) uint64 {
	t.Helper()
	ret, err := f.program.Balance(info)
	require.NoError(t, err)
	return ret
}

func TestAccountLayout(t *testing.T) {
	acct := &token.Account{
		Mint:            address.FromLabel("m"),
		Owner:           address.FromLabel("o"),
		Amount:          42,
		Delegate:        address.FromLabel("d"),
		DelegatedAmount: 7,
	}
	data := acct.Encode()
	require.Len(t, data, token.AccountSize)
	decoded, err := token.DecodeAccount(data)
	require.NoError(t, err)
	assert.Equal(t, acct, decoded)
	_, err = token.DecodeAccount(data[:10])
	require.ErrorIs(t, err, token.ErrNotTokenAccount)
}

func TestTransferByOwner(t *testing.T) {
	f := newTokenFixture(t)
	owner := &account.Info{Address: address.FromLabel("alice"), IsSigner: true}
	err := f.program.Transfer(token.TransferParams{
		Source:      f.alice,
		Destination: f.bob,
		Authority:   owner,
		Amount:      30,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(70), f.balance(t, f.alice))
	assert.Equal(t, uint64(30), f.balance(t, f.bob))
	assert.Equal(t, uint64(100), f.balance(t, f.alice)+f.balance(t, f.bob))
}

func TestTransferRequiresSignature(t *testing.T) {
	f := newTokenFixture(t)
	owner := &account.Info{Address: address.FromLabel("alice")}
	err := f.program.Transfer(token.TransferParams{
		Source:      f.alice,
		Destination: f.bob,
		Authority:   owner,
		Amount:      1,
	})
	require.ErrorIs(t, err, token.ErrMissingAuthority)
	assert.Equal(t, uint64(100), f.balance(t, f.alice))
}

func TestTransferWithProof(t *testing.T) {
	f := newTokenFixture(t)
	programID := address.FromLabel("lottery-program")
	pool, proof, err := address.Derive(programID, []byte("pool"))
	require.NoError(t, err)
	poolTokens := &account.Info{Address: address.FromLabel("pool-tokens"), IsWritable: true}
	require.NoError(t, f.program.InitializeAccount(poolTokens, f.mint, pool))
	require.NoError(t, f.program.MintTo(f.mint, poolTokens, address.FromLabel("mint-authority"), 5))
	authority := &account.Info{Address: pool}
	err = f.program.Transfer(token.TransferParams{
		Source:      poolTokens,
		Destination: f.bob,
		Authority:   authority,
		Amount:      5,
		Signer:      &proof,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), f.balance(t, f.bob))

	_, wrongProof, err := address.Derive(programID, []byte("other"))
	require.NoError(t, err)
	err = f.program.Transfer(token.TransferParams{
		Source:      f.bob,
		Destination: poolTokens,
		Authority:   &account.Info{Address: address.FromLabel("bob")},
		Amount:      1,
		Signer:      &wrongProof,
	})
	require.ErrorIs(t, err, token.ErrMissingAuthority)
}

func TestTransferDelegate(t *testing.T) {
	f := newTokenFixture(t)
	delegate := address.FromLabel("delegate")
	require.NoError(t, f.program.Approve(f.alice, delegate, 10))
	auth := &account.Info{Address: delegate, IsSigner: true}
	require.NoError(t, f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: f.bob, Authority: auth, Amount: 6,
	}))
	err := f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: f.bob, Authority: auth, Amount: 6,
	})
	require.ErrorIs(t, err, token.ErrInsufficientDelegation)
	acct, err := f.program.LoadAccount(f.alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), acct.DelegatedAmount)
	assert.Equal(t, uint64(94), acct.Amount)
}

func TestTransferFailures(t *testing.T) {
	f := newTokenFixture(t)
	owner := &account.Info{Address: address.FromLabel("alice"), IsSigner: true}
	err := f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: f.bob, Authority: owner, Amount: 101,
	})
	require.ErrorIs(t, err, token.ErrInsufficientFunds)

	stranger := &account.Info{Address: address.FromLabel("mallory"), IsSigner: true}
	err = f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: f.bob, Authority: stranger, Amount: 1,
	})
	require.ErrorIs(t, err, token.ErrOwnerMismatch)

	otherMint := &account.Info{Address: address.FromLabel("mint-2"), IsWritable: true}
	require.NoError(t, f.program.InitializeMint(otherMint, address.FromLabel("x"), 0))
	carol := &account.Info{Address: address.FromLabel("carol-tokens"), IsWritable: true}
	require.NoError(t, f.program.InitializeAccount(carol, otherMint, address.FromLabel("carol")))
	err = f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: carol, Authority: owner, Amount: 1,
	})
	require.ErrorIs(t, err, token.ErrMintMismatch)

	foreign := &account.Info{
		Address:    address.FromLabel("foreign"),
		Owner:      address.FromLabel("someone-else"),
		Data:       f.bob.Data,
		IsWritable: true,
	}
	err = f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: foreign, Authority: owner, Amount: 1,
	})
	require.ErrorIs(t, err, token.ErrInvalidTokenProgram)

	f.bob.IsWritable = false
	err = f.program.Transfer(token.TransferParams{
		Source: f.alice, Destination: f.bob, Authority: owner, Amount: 1,
	})
	require.ErrorIs(t, err, account.ErrNotWritable)
	assert.Equal(t, uint64(100), f.balance(t, f.alice))
}

func TestMintToWrongAuthority(t *testing.T) {
	f := newTokenFixture(t)
	err := f.program.MintTo(f.mint, f.bob, address.FromLabel("nobody"), 1)
	require.ErrorIs(t, err, token.ErrMintAuthority)
}
