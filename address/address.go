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

// Package address implements the 32-byte record addresses used by the
// lottery ledger along with deterministic, keyless address derivation.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	// Size is the length in bytes of an address
	Size = 32

	// HumanReadablePart is the bech32 prefix of the text form
	HumanReadablePart = "lot"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrWrongPrefix    = errors.New("address has wrong bech32 prefix")
)

// Address identifies a record on the ledger
type Address [Size]byte

// NewAddress returns an Address from the provided bytes
func NewAddress(b []byte) (Address, error) {
	var ret Address
	if len(b) != Size {
		return ret, fmt.Errorf(
			"%w: expected %d bytes, got %d",
			ErrInvalidAddress,
			Size,
			len(b),
		)
	}
	copy(ret[:], b)
	return ret, nil
}

// FromLabel returns the address formed by hashing a well-known label. It is
// used for fixed program identities and for fixtures in genesis files.
func FromLabel(label string) Address {
	return Address(blake2b.Sum256([]byte(label)))
}

// ParseAddress parses the bech32 text form of an address
func ParseAddress(s string) (Address, error) {
	var ret Address
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return ret, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if hrp != HumanReadablePart {
		return ret, fmt.Errorf("%w: %s", ErrWrongPrefix, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return ret, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return NewAddress(raw)
}

func (a Address) Bytes() []byte {
	return bytes.Clone(a[:])
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Equal(other Address) bool {
	return a == other
}

func (a Address) String() string {
	data, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(fmt.Sprintf("unexpected error converting address: %s", err))
	}
	ret, err := bech32.Encode(HumanReadablePart, data)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding address: %s", err))
	}
	return ret
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	tmp, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = tmp
	return nil
}
