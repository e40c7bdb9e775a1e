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

package ledger_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/instruction"
	helpers "github.com/blinklabs-io/lottery/internal/test/testutil"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testNow         = 1_700_000_000
	testEndAt       = testNow + 3600
	testTicketPrice = 5
)

type fixture struct {
	t         *testing.T
	ls        *ledger.LedgerState
	bus       *event.EventBus
	reg       *prometheus.Registry
	program   lottery.ProgramConfig
	lottery   address.Address
	payer     address.Address
	authority address.Address
	store     address.Address
	mint      address.Address
	pool      address.Address
	prizeMint address.Address
	prizePool address.Address
}

func ref(addr address.Address) ledger.Ref {
	return ledger.Ref(addr.String())
}

func newFixture(t *testing.T, dataDir string) *fixture {
	t.Helper()
	f := &fixture{
		t:         t,
		bus:       event.NewEventBus(nil, nil),
		program:   lottery.DefaultProgramConfig(),
		payer:     address.FromLabel("payer"),
		authority: address.FromLabel("authority"),
		store:     address.FromLabel("store-1"),
		mint:      address.FromLabel("ticket-mint"),
		pool:      address.FromLabel("ticket-pool"),
		prizeMint: address.FromLabel("prize-mint"),
		prizePool: address.FromLabel("prize-pool"),
	}
	t.Cleanup(f.bus.Stop)
	var err error
	f.lottery, _, err = f.program.LotteryAddress(f.store)
	require.NoError(t, err)
	f.open(dataDir)
	return f
}

func (f *fixture) open(dataDir string) {
	f.t.Helper()
	f.reg = prometheus.NewRegistry()
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		EventBus:     f.bus,
		PromRegistry: f.reg,
		Clock:        lottery.FixedClock(testNow),
		Program:      f.program,
		DataDir:      dataDir,
	})
	require.NoError(f.t, err)
	f.ls = ls
	f.t.Cleanup(func() { _ = ls.Close() })
}

func (f *fixture) genesis(buyers ...string) {
	f.t.Helper()
	g := &ledger.Genesis{
		Wallets: []ledger.GenesisWallet{
			{Address: "payer"},
			{Address: "authority"},
		},
		Mints: []ledger.GenesisMint{
			{Address: "ticket-mint", Authority: "mint-authority"},
			{Address: "prize-mint", Authority: "mint-authority"},
		},
		Stores: []ledger.GenesisStore{
			{Address: "store-1", Owner: "authority", PrizeCount: 3},
		},
		TokenAccounts: []ledger.GenesisTokenAccount{
			{Address: "ticket-pool", Mint: "ticket-mint", Owner: ref(f.lottery)},
			{Address: "prize-pool", Mint: "prize-mint", Owner: ref(f.lottery), Amount: 3},
		},
	}
	for _, name := range buyers {
		g.Wallets = append(g.Wallets, ledger.GenesisWallet{Address: ledger.Ref(name)})
		g.TokenAccounts = append(
			g.TokenAccounts,
			ledger.GenesisTokenAccount{
				Address: ledger.Ref(name + "-funds"),
				Mint:    "ticket-mint",
				Owner:   ledger.Ref(name),
				Amount:  100,
			},
			ledger.GenesisTokenAccount{
				Address: ledger.Ref(name + "-prizes"),
				Mint:    "prize-mint",
				Owner:   ledger.Ref(name),
			},
		)
	}
	require.NoError(f.t, f.ls.ApplyGenesis(context.Background(), g))
}

func (f *fixture) process(
	ins instruction.Instruction,
	metas ...account.Meta,
) (*lottery.Receipt, error) {
	return f.ls.Process(
		context.Background(),
		ledger.Transaction{Instruction: ins, Accounts: metas},
	)
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

func (f *fixture) create(ticketSupply, prizeSupply uint32) (*lottery.Receipt, error) {
	return f.process(
		&instruction.CreateLottery{
			EndAt:        testEndAt,
			TicketPrice:  testTicketPrice,
			TicketSupply: ticketSupply,
			PrizeSupply:  prizeSupply,
		},
		signer(f.payer),
		writable(f.lottery),
		readonly(f.store),
		readonly(f.mint),
		readonly(f.pool),
		readonly(f.authority),
	)
}

func (f *fixture) start() (*lottery.Receipt, error) {
	return f.process(&instruction.StartLottery{}, signer(f.authority), writable(f.lottery))
}

func (f *fixture) end() (*lottery.Receipt, error) {
	return f.process(&instruction.EndLottery{}, signer(f.authority), writable(f.lottery))
}

func (f *fixture) ticketAddress(key address.Address) address.Address {
	f.t.Helper()
	ret, _, err := f.program.TicketAddress(key)
	require.NoError(f.t, err)
	return ret
}

func (f *fixture) buy(key address.Address, buyer string) (*lottery.Receipt, error) {
	wallet := address.FromLabel(buyer)
	return f.process(
		&instruction.BuyTicket{TicketKey: key},
		writable(f.lottery),
		writable(f.ticketAddress(key)),
		signer(wallet),
		writable(address.FromLabel(buyer+"-funds")),
		writable(f.pool),
		readonly(f.mint),
		signer(wallet),
		signer(f.payer),
	)
}

func (f *fixture) claim(prize bool, key address.Address, buyer string) (*lottery.Receipt, error) {
	wallet := address.FromLabel(buyer)
	if prize {
		return f.process(
			&instruction.ClaimPrize{TicketKey: key},
			writable(address.FromLabel(buyer+"-prizes")),
			writable(f.prizePool),
			readonly(f.lottery),
			signer(f.authority),
			writable(f.ticketAddress(key)),
			readonly(wallet),
			readonly(f.prizeMint),
		)
	}
	return f.process(
		&instruction.ClaimRefund{TicketKey: key},
		writable(address.FromLabel(buyer+"-funds")),
		writable(f.pool),
		readonly(f.lottery),
		signer(f.authority),
		writable(f.ticketAddress(key)),
		readonly(wallet),
		readonly(f.mint),
	)
}

// ticketKey finds a key whose draw lands in a winning slot when win is set
func (f *fixture) ticketKey(prefix string, win bool, ticketSupply, prizeSupply uint64) address.Address {
	f.t.Helper()
	for i := range 10_000 {
		key := address.FromLabel(fmt.Sprintf("%s-%d", prefix, i))
		slot := lottery.DrawSlot(f.ticketAddress(key), testNow, ticketSupply)
		if (slot <= prizeSupply) == win {
			return key
		}
	}
	f.t.Fatalf("no ticket key found for %s", prefix)
	return address.Address{}
}

func (f *fixture) balance(addr address.Address) uint64 {
	f.t.Helper()
	ret, err := f.ls.TokenBalance(addr)
	require.NoError(f.t, err)
	return ret
}

func waitEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	return helpers.RequireReceive(t, ch, helpers.DefaultTimeout, "ledger event")
}
