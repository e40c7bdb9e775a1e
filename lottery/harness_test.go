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

package lottery_test

import (
	"fmt"
	"testing"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/blinklabs-io/lottery/registry"
	"github.com/blinklabs-io/lottery/token"
	"github.com/stretchr/testify/require"
)

const (
	testStartTime   = 1_700_000_000
	testEndAt       = testStartTime + 3600
	testTicketPrice = 5
)

type testClock struct {
	now uint64
}

func (c *testClock) Now() uint64 {
	return c.now
}

// harness keeps committed account state in memory and applies each
// instruction atomically, the way the ledger does
type harness struct {
	t         *testing.T
	program   lottery.ProgramConfig
	proc      *lottery.Processor
	clock     *testClock
	accounts  map[address.Address]*account.Info
	tokens    *token.Program
	payer     address.Address
	authority address.Address
	store     address.Address
	mint      address.Address
	pool      address.Address
	prizeMint address.Address
	prizePool address.Address
	lottery   address.Address
	mintAuth  address.Address
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	program := lottery.DefaultProgramConfig()
	clock := &testClock{now: testStartTime}
	proc, err := lottery.NewProcessor(lottery.Config{
		Program: program,
		Clock:   clock,
	})
	require.NoError(t, err)
	h := &harness{
		t:         t,
		program:   program,
		proc:      proc,
		clock:     clock,
		accounts:  make(map[address.Address]*account.Info),
		tokens:    proc.Token(),
		payer:     address.FromLabel("payer"),
		authority: address.FromLabel("authority"),
		store:     address.FromLabel("store-1"),
		mint:      address.FromLabel("ticket-mint"),
		pool:      address.FromLabel("ticket-pool"),
		prizeMint: address.FromLabel("prize-mint"),
		prizePool: address.FromLabel("prize-pool"),
		mintAuth:  address.FromLabel("mint-authority"),
	}
	h.lottery, _, err = program.LotteryAddress(h.store)
	require.NoError(t, err)
	h.fund(h.payer)
	h.fund(h.authority)
	storeInfo := h.setup(h.store)
	require.NoError(t, proc.Registry().InitializeStore(storeInfo, &registry.StoreRecord{
		Owner:      h.authority,
		Authority:  h.authority,
		PrizeCount: 3,
	}))
	require.NoError(t, h.tokens.InitializeMint(h.setup(h.mint), h.mintAuth, 0))
	require.NoError(t, h.tokens.InitializeMint(h.setup(h.prizeMint), h.mintAuth, 0))
	require.NoError(t, h.tokens.InitializeAccount(h.setup(h.pool), h.accounts[h.mint], h.lottery))
	require.NoError(t, h.tokens.InitializeAccount(h.setup(h.prizePool), h.accounts[h.prizeMint], h.lottery))
	require.NoError(t, h.tokens.MintTo(h.accounts[h.prizeMint], h.accounts[h.prizePool], h.mintAuth, 3))
	return h
}

func (h *harness) setup(addr address.Address) *account.Info {
	info, ok := h.accounts[addr]
	if !ok {
		info = &account.Info{Address: addr, Lamports: 1_000_000, IsWritable: true}
		h.accounts[addr] = info
	}
	return info
}

func (h *harness) fund(addr address.Address) {
	h.setup(addr)
}

// newBuyer creates a wallet with a funded payment token account and a prize
// token account
func (h *harness) newBuyer(name string, balance uint64) (address.Address, address.Address, address.Address) {
	h.t.Helper()
	wallet := address.FromLabel(name)
	h.fund(wallet)
	funds := address.FromLabel(name + "-funds")
	require.NoError(h.t, h.tokens.InitializeAccount(h.setup(funds), h.accounts[h.mint], wallet))
	if balance > 0 {
		require.NoError(h.t, h.tokens.MintTo(h.accounts[h.mint], h.accounts[funds], h.mintAuth, balance))
	}
	prizes := address.FromLabel(name + "-prizes")
	require.NoError(h.t, h.tokens.InitializeAccount(h.setup(prizes), h.accounts[h.prizeMint], wallet))
	return wallet, funds, prizes
}

func (h *harness) run(ins instruction.Instruction, metas ...account.Meta) (*lottery.Receipt, error) {
	infos, err := account.Load(metas, func(addr address.Address) (*account.Info, error) {
		if info, ok := h.accounts[addr]; ok {
			ret := info.Clone()
			ret.ClearDirty()
			return ret, nil
		}
		return &account.Info{}, nil
	})
	if err != nil {
		return nil, err
	}
	receipt, err := h.proc.Process(ins, infos)
	if err != nil {
		return nil, err
	}
	for _, info := range account.Unique(infos) {
		if info.Dirty() && info.IsWritable {
			h.accounts[info.Address] = info
		}
	}
	return receipt, nil
}

func signer(addr address.Address) account.Meta {
	return account.NewMeta(addr, true, true)
}

func writable(addr address.Address) account.Meta {
	return account.NewMeta(addr, false, true)
}

func readonly(addr address.Address) account.Meta {
	return account.NewMeta(addr, false, false)
}

func (h *harness) create(ticketSupply, prizeSupply uint32) (*lottery.Receipt, error) {
	return h.run(
		&instruction.CreateLottery{
			EndAt:        testEndAt,
			TicketPrice:  testTicketPrice,
			TicketSupply: ticketSupply,
			PrizeSupply:  prizeSupply,
		},
		signer(h.payer),
		writable(h.lottery),
		readonly(h.store),
		readonly(h.mint),
		readonly(h.pool),
		readonly(h.authority),
	)
}

func (h *harness) start() (*lottery.Receipt, error) {
	return h.run(&instruction.StartLottery{}, signer(h.authority), writable(h.lottery))
}

func (h *harness) end() (*lottery.Receipt, error) {
	return h.run(&instruction.EndLottery{}, signer(h.authority), writable(h.lottery))
}

func (h *harness) ticketAddress(key address.Address) address.Address {
	h.t.Helper()
	ret, _, err := h.program.TicketAddress(key)
	require.NoError(h.t, err)
	return ret
}

func (h *harness) buy(key, buyer, funds address.Address) (*lottery.Receipt, error) {
	return h.run(
		&instruction.BuyTicket{TicketKey: key},
		writable(h.lottery),
		writable(h.ticketAddress(key)),
		signer(buyer),
		writable(funds),
		writable(h.pool),
		readonly(h.mint),
		signer(buyer),
		signer(h.payer),
	)
}

func (h *harness) claimPrize(key, owner, dest address.Address) (*lottery.Receipt, error) {
	return h.run(
		&instruction.ClaimPrize{TicketKey: key},
		writable(dest),
		writable(h.prizePool),
		readonly(h.lottery),
		signer(h.authority),
		writable(h.ticketAddress(key)),
		readonly(owner),
		readonly(h.prizeMint),
	)
}

func (h *harness) claimRefund(key, owner, dest address.Address) (*lottery.Receipt, error) {
	return h.run(
		&instruction.ClaimRefund{TicketKey: key},
		writable(dest),
		writable(h.pool),
		readonly(h.lottery),
		signer(h.authority),
		writable(h.ticketAddress(key)),
		readonly(owner),
		readonly(h.mint),
	)
}

func (h *harness) lotteryRecord() *lottery.LotteryRecord {
	h.t.Helper()
	rec, err := lottery.DecodeLotteryRecord(h.accounts[h.lottery].Data)
	require.NoError(h.t, err)
	return rec
}

func (h *harness) ticketRecord(key address.Address) *lottery.TicketRecord {
	h.t.Helper()
	info, ok := h.accounts[h.ticketAddress(key)]
	require.True(h.t, ok, "ticket not found")
	rec, err := lottery.DecodeTicketRecord(info.Data)
	require.NoError(h.t, err)
	return rec
}

func (h *harness) balance(addr address.Address) uint64 {
	h.t.Helper()
	ret, err := h.tokens.Balance(h.accounts[addr])
	require.NoError(h.t, err)
	return ret
}

// findTicketKey returns a ticket key whose draw at the current time lands
// in a winning slot when win is set, or a losing slot otherwise
func (h *harness) findTicketKey(prefix string, win bool, ticketSupply, prizeSupply uint64) address.Address {
	h.t.Helper()
	for i := range 10_000 {
		key := address.FromLabel(fmt.Sprintf("%s-%d", prefix, i))
		slot := lottery.DrawSlot(h.ticketAddress(key), h.clock.now, ticketSupply)
		if (slot <= prizeSupply) == win {
			return key
		}
	}
	h.t.Fatalf("no ticket key found for %s", prefix)
	return address.Address{}
}
