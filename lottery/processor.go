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
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/registry"
	"github.com/blinklabs-io/lottery/token"
)

type Config struct {
	Program ProgramConfig
	Clock   Clock
	Drawer  Drawer
	Logger  *slog.Logger
}

// Processor executes lottery instructions against loaded account snapshots.
// It performs no I/O: all changes are made to the snapshots, which the
// caller persists.
type Processor struct {
	config   Config
	logger   *slog.Logger
	token    *token.Program
	registry *registry.Program
}

// Receipt summarizes the outcome of a processed instruction
type Receipt struct {
	Operation    instruction.Tag
	Lottery      address.Address
	Ticket       address.Address
	Owner        address.Address
	Authority    address.Address
	LotteryState LotteryState
	TicketState  TicketState
	PrizeIndex   uint64
	Amount       uint64
	Timestamp    uint64
	// Replayed is set when a purchase matched an existing ticket and nothing
	// was changed
	Replayed bool
}

func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Program.Validate(); err != nil {
		return nil, fmt.Errorf("invalid program config: %w", err)
	}
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Drawer == nil {
		cfg.Drawer = PublicInputDrawer{}
	}
	p := &Processor{
		config:   cfg,
		logger:   cfg.Logger,
		token:    token.NewProgram(cfg.Program.TokenProgramID),
		registry: registry.NewProgram(cfg.Program.RegistryProgramID),
	}
	return p, nil
}

func (p *Processor) Program() ProgramConfig {
	return p.config.Program
}

// Token returns the token program used for escrow transfers
func (p *Processor) Token() *token.Program {
	return p.token
}

// Registry returns the asset registry program
func (p *Processor) Registry() *registry.Program {
	return p.registry
}

// Process dispatches an instruction to its handler. Accounts must be in the
// order documented for each operation.
func (p *Processor) Process(
	ins instruction.Instruction,
	accounts []*account.Info,
) (*Receipt, error) {
	var receipt *Receipt
	var err error
	switch v := ins.(type) {
	case *instruction.CreateLottery:
		receipt, err = p.createLottery(v, account.NewIter(accounts))
	case *instruction.SetAuthority:
		receipt, err = p.setAuthority(account.NewIter(accounts))
	case *instruction.StartLottery:
		receipt, err = p.startLottery(account.NewIter(accounts))
	case *instruction.EndLottery:
		receipt, err = p.endLottery(account.NewIter(accounts))
	case *instruction.BuyTicket:
		receipt, err = p.buyTicket(v, account.NewIter(accounts))
	case *instruction.ClaimPrize:
		receipt, err = p.claim(v.TicketKey, true, account.NewIter(accounts))
	case *instruction.ClaimRefund:
		receipt, err = p.claim(v.TicketKey, false, account.NewIter(accounts))
	default:
		return nil, fmt.Errorf("%w: %T", instruction.ErrUnknownInstruction, ins)
	}
	if err != nil {
		p.logger.Debug(
			"instruction rejected",
			"component", "lottery",
			"instruction", ins.Tag().String(),
			"kind", KindOf(err).String(),
			"error", err,
		)
		return nil, err
	}
	receipt.Operation = ins.Tag()
	return receipt, nil
}

// nextAccounts pulls count accounts from the iterator
func nextAccounts(it *account.Iter, count int) ([]*account.Info, error) {
	ret := make([]*account.Info, count)
	for i := range count {
		info, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotEnoughAccounts, err)
		}
		ret[i] = info
	}
	return ret, nil
}

func requireSigner(info *account.Info) error {
	if err := account.AssertSigner(info); err != nil {
		return fmt.Errorf("%w: %w", ErrMissingSigner, err)
	}
	return nil
}

func requireWritable(info *account.Info) error {
	if err := account.AssertWritable(info); err != nil {
		return fmt.Errorf("%w: %w", ErrReadOnlyAccount, err)
	}
	return nil
}

func checkDerived(info *account.Info, expected address.Address) error {
	if info.Address != expected {
		return fmt.Errorf(
			"%w: got %s, expected %s",
			ErrInvalidDerivedAddress,
			info.Address,
			expected,
		)
	}
	return nil
}

// loadLottery decodes a lottery record and verifies that its address
// matches the derivation from its store ID
func (p *Processor) loadLottery(
	info *account.Info,
) (*LotteryRecord, *address.Proof, error) {
	if info.DataIsEmpty() {
		return nil, nil, fmt.Errorf("%w: lottery %s", ErrUninitialized, info.Address)
	}
	if err := account.AssertOwnedBy(info, p.config.Program.ProgramID); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrIncorrectOwner, err)
	}
	rec, err := DecodeLotteryRecord(info.Data)
	if err != nil {
		return nil, nil, err
	}
	expected, proof, err := p.config.Program.LotteryAddress(rec.StoreID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDerivedAddress, err)
	}
	if err := checkDerived(info, expected); err != nil {
		return nil, nil, err
	}
	return rec, &proof, nil
}

func (p *Processor) checkTicketAddress(
	info *account.Info,
	ticketKey address.Address,
) error {
	expected, _, err := p.config.Program.TicketAddress(ticketKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDerivedAddress, err)
	}
	return checkDerived(info, expected)
}

func (p *Processor) loadTicket(info *account.Info) (*TicketRecord, error) {
	if info.DataIsEmpty() {
		return nil, fmt.Errorf("%w: ticket %s", ErrUninitialized, info.Address)
	}
	if err := account.AssertOwnedBy(info, p.config.Program.ProgramID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncorrectOwner, err)
	}
	return DecodeTicketRecord(info.Data)
}

func (p *Processor) storeLottery(info *account.Info, rec *LotteryRecord) error {
	if err := info.SetData(rec.Encode()); err != nil {
		return err
	}
	info.SetOwner(p.config.Program.ProgramID)
	return nil
}

func (p *Processor) storeTicket(info *account.Info, rec *TicketRecord) error {
	if err := info.SetData(rec.Encode()); err != nil {
		return err
	}
	info.SetOwner(p.config.Program.ProgramID)
	return nil
}

func checkAuthority(rec *LotteryRecord, authority *account.Info) error {
	if err := requireSigner(authority); err != nil {
		return err
	}
	if authority.Address != rec.Authority {
		return fmt.Errorf(
			"%w: %s",
			ErrUnauthorized,
			authority.Address,
		)
	}
	return nil
}
