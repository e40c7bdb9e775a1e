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

package address_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blinklabs-io/lottery/address"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var testProgramID = address.FromLabel("lottery-program")

func TestAddressStringRoundTrip(t *testing.T) {
	addr := address.FromLabel("wallet-1")
	text := addr.String()
	require.True(t, strings.HasPrefix(text, address.HumanReadablePart+"1"))
	parsed, err := address.ParseAddress(text)
	require.NoError(t, err)
	assert.Equal(t, addr, parsed)
}

func TestParseAddressErrors(t *testing.T) {
	_, err := address.ParseAddress("not-an-address")
	require.ErrorIs(t, err, address.ErrInvalidAddress)

	_, err = address.NewAddress([]byte{1, 2, 3})
	require.ErrorIs(t, err, address.ErrInvalidAddress)
}

func TestAddressYAML(t *testing.T) {
	type holder struct {
		Addr address.Address `yaml:"addr"`
	}
	orig := holder{Addr: address.FromLabel("store-1")}
	out, err := yaml.Marshal(&orig)
	require.NoError(t, err)
	assert.Contains(t, string(out), orig.Addr.String())
	var decoded holder
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, orig.Addr, decoded.Addr)
}

func TestDeriveDeterministic(t *testing.T) {
	storeID := address.FromLabel("store-1")
	seeds := [][]byte{[]byte("lottery"), testProgramID.Bytes(), storeID.Bytes()}
	addr1, proof1, err := address.Derive(testProgramID, seeds...)
	require.NoError(t, err)
	addr2, proof2, err := address.Derive(testProgramID, seeds...)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
	assert.Equal(t, proof1.Bump, proof2.Bump)
	recomputed, err := proof1.Address()
	require.NoError(t, err)
	assert.Equal(t, addr1, recomputed)
	assert.True(t, proof1.Signs(addr1))
	assert.False(t, proof1.Signs(storeID))
}

func TestDeriveDistinctInputs(t *testing.T) {
	a, _, err := address.Derive(testProgramID, []byte("lottery"), []byte("a"))
	require.NoError(t, err)
	b, _, err := address.Derive(testProgramID, []byte("lottery"), []byte("b"))
	require.NoError(t, err)
	c, _, err := address.Derive(address.FromLabel("other-program"), []byte("lottery"), []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDeriveSeedBoundaries(t *testing.T) {
	split1, _, err := address.Derive(testProgramID, []byte("ab"), []byte("c"))
	require.NoError(t, err)
	split2, _, err := address.Derive(testProgramID, []byte("a"), []byte("bc"))
	require.NoError(t, err)
	joined, _, err := address.Derive(testProgramID, []byte("abc"))
	require.NoError(t, err)
	withEmpty, _, err := address.Derive(testProgramID, []byte("abc"), []byte{})
	require.NoError(t, err)
	assert.NotEqual(t, split1, split2)
	assert.NotEqual(t, split1, joined)
	assert.NotEqual(t, joined, withEmpty)
}

func TestDeriveProofIsolated(t *testing.T) {
	seed := []byte("ticket")
	_, proof, err := address.Derive(testProgramID, seed)
	require.NoError(t, err)
	seed[0] = 'x'
	assert.True(t, bytes.Equal(proof.Seeds[0], []byte("ticket")))
}

func TestDeriveSeedLimits(t *testing.T) {
	_, _, err := address.Derive(testProgramID, bytes.Repeat([]byte{1}, address.MaxSeedLength+1))
	require.ErrorIs(t, err, address.ErrMaxSeedLength)

	seeds := make([][]byte, address.MaxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}
	_, _, err = address.Derive(testProgramID, seeds...)
	require.ErrorIs(t, err, address.ErrMaxSeedLength)
}

func TestNilProofSignsNothing(t *testing.T) {
	var proof *address.Proof
	assert.False(t, proof.Signs(testProgramID))
}
