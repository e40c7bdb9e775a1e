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

package address

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

const (
	// MaxSeeds is the maximum number of seeds accepted by Derive
	MaxSeeds = 16
	// MaxSeedLength is the maximum length in bytes of a single seed
	MaxSeedLength = 32

	derivationMarker = "ProgramDerivedAddress"
)

var (
	ErrMaxSeedLength = errors.New("seed length or count exceeds maximum")
	ErrNoViableBump  = errors.New("unable to find a viable bump seed")
)

// Proof records the inputs of a successful derivation. Presenting a Proof
// is the only way to authorize movements out of a derived address, since
// no private key exists for it.
//
//nolint:recvcheck
type Proof struct {
	ProgramID Address
	Seeds     [][]byte
	Bump      uint8
}

// Address recomputes the derived address described by the proof
func (p Proof) Address() (Address, error) {
	return createAddress(p.ProgramID, p.Seeds, p.Bump)
}

// Signs reports whether the proof authorizes the given address
func (p *Proof) Signs(addr Address) bool {
	if p == nil {
		return false
	}
	derived, err := p.Address()
	if err != nil {
		return false
	}
	return derived == addr
}

// Derive deterministically computes the address owned by programID for the
// given seeds. Bump values are tried from 255 down to 0 and the first
// candidate that is not a valid edwards25519 point is returned.
func Derive(programID Address, seeds ...[]byte) (Address, Proof, error) {
	if err := checkSeeds(seeds); err != nil {
		return Address{}, Proof{}, err
	}
	for bump := 255; bump >= 0; bump-- {
		candidate := hashCandidate(programID, seeds, uint8(bump))
		if isOnCurve(candidate) {
			continue
		}
		proof := Proof{
			ProgramID: programID,
			Seeds:     cloneSeeds(seeds),
			Bump:      uint8(bump),
		}
		return candidate, proof, nil
	}
	return Address{}, Proof{}, ErrNoViableBump
}

func createAddress(programID Address, seeds [][]byte, bump uint8) (Address, error) {
	if err := checkSeeds(seeds); err != nil {
		return Address{}, err
	}
	candidate := hashCandidate(programID, seeds, bump)
	if isOnCurve(candidate) {
		return Address{}, fmt.Errorf(
			"%w: bump %d yields an on-curve point",
			ErrNoViableBump,
			bump,
		)
	}
	return candidate, nil
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf(
			"%w: %d seeds given, maximum is %d",
			ErrMaxSeedLength,
			len(seeds),
			MaxSeeds,
		)
	}
	for idx, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return fmt.Errorf(
				"%w: seed %d is %d bytes",
				ErrMaxSeedLength,
				idx,
				len(seed),
			)
		}
	}
	return nil
}

func hashCandidate(programID Address, seeds [][]byte, bump uint8) Address {
	// blake2b.New256 only fails for oversized keys
	h, _ := blake2b.New256(nil)
	// Seeds are length-prefixed so that different splits of the same bytes
	// hash differently
	for _, seed := range seeds {
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(programID[:])
	h.Write([]byte(derivationMarker))
	var ret Address
	copy(ret[:], h.Sum(nil))
	return ret
}

func isOnCurve(candidate Address) bool {
	_, err := new(edwards25519.Point).SetBytes(candidate[:])
	return err == nil
}

func cloneSeeds(seeds [][]byte) [][]byte {
	ret := make([][]byte, len(seeds))
	for i, seed := range seeds {
		ret[i] = append([]byte(nil), seed...)
	}
	return ret
}
