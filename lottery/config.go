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

package lottery

import (
	"errors"
	"time"

	"github.com/blinklabs-io/lottery/address"
)

const (
	DefaultLotterySeed = "lottery"
	DefaultTicketSeed  = "ticket"
)

// ProgramConfig identifies the lottery program and its collaborators. It is
// fixed for the lifetime of a process.
type ProgramConfig struct {
	ProgramID         address.Address `yaml:"programId"         split_words:"true"`
	TokenProgramID    address.Address `yaml:"tokenProgramId"    split_words:"true"`
	RegistryProgramID address.Address `yaml:"registryProgramId" split_words:"true"`
	LotterySeed       string          `yaml:"lotterySeed"       split_words:"true"`
	TicketSeed        string          `yaml:"ticketSeed"        split_words:"true"`
}

// DefaultProgramConfig returns the well-known program identities used by
// local deployments
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		ProgramID:         address.FromLabel("lottery-program"),
		TokenProgramID:    address.FromLabel("token-program"),
		RegistryProgramID: address.FromLabel("registry-program"),
		LotterySeed:       DefaultLotterySeed,
		TicketSeed:        DefaultTicketSeed,
	}
}

func (c ProgramConfig) Validate() error {
	if c.ProgramID.IsZero() {
		return errors.New("program ID must be set")
	}
	if c.TokenProgramID.IsZero() {
		return errors.New("token program ID must be set")
	}
	if c.RegistryProgramID.IsZero() {
		return errors.New("registry program ID must be set")
	}
	if c.LotterySeed == "" || c.TicketSeed == "" {
		return errors.New("seed tags must not be empty")
	}
	if c.LotterySeed == c.TicketSeed {
		return errors.New("lottery and ticket seed tags must differ")
	}
	return nil
}

// LotteryAddress derives the address of the lottery for a registry store
func (c ProgramConfig) LotteryAddress(
	storeID address.Address,
) (address.Address, address.Proof, error) {
	return address.Derive(
		c.ProgramID,
		[]byte(c.LotterySeed),
		c.ProgramID.Bytes(),
		storeID.Bytes(),
	)
}

// TicketAddress derives the address of the ticket for a ticket key
func (c ProgramConfig) TicketAddress(
	ticketKey address.Address,
) (address.Address, address.Proof, error) {
	return address.Derive(
		c.ProgramID,
		[]byte(c.TicketSeed),
		c.ProgramID.Bytes(),
		ticketKey.Bytes(),
	)
}

// Clock supplies the trusted current time in unix seconds
type Clock interface {
	Now() uint64
}

type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix()) //nolint:gosec
}

// FixedClock always reports the same time
type FixedClock uint64

func (c FixedClock) Now() uint64 {
	return uint64(c)
}
