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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database"
	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/instruction"
	helpers "github.com/blinklabs-io/lottery/internal/test/testutil"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerLifecycle(t *testing.T) {
	f := newFixture(t, "")
	f.genesis("alice", "bob", "carol")
	_, created := f.bus.Subscribe(ledger.LotteryCreatedEventType)
	_, bought := f.bus.Subscribe(ledger.TicketBoughtEventType)

	receipt, err := f.create(10, 3)
	require.NoError(t, err)
	assert.Equal(t, f.lottery, receipt.Lottery)
	evt := waitEvent(t, created)
	assert.Equal(t, f.lottery, evt.Data.(ledger.LotteryEvent).Lottery)

	_, err = f.start()
	require.NoError(t, err)

	aliceKey := f.ticketKey("alice", true, 10, 3)
	bobKey := f.ticketKey("bob", true, 10, 3)
	carolKey := f.ticketKey("carol", false, 10, 3)
	for buyer, key := range map[string]address.Address{
		"alice": aliceKey,
		"bob":   bobKey,
		"carol": carolKey,
	} {
		_, err := f.buy(key, buyer)
		require.NoError(t, err, buyer)
		evt := waitEvent(t, bought)
		assert.Equal(t, address.FromLabel(buyer), evt.Data.(ledger.LotteryEvent).Owner)
	}

	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), rec.TicketsSold)
	assert.Equal(t, uint64(2), rec.WinnersAssigned)
	assert.Equal(t, uint64(15), f.balance(f.pool))
	assert.Equal(t, uint64(95), f.balance(address.FromLabel("carol-funds")))

	_, err = f.end()
	require.NoError(t, err)
	rec, err = f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, lottery.LotteryStateEnded, rec.State)
	assert.Equal(t, uint64(testNow), rec.EndedAt)

	receipt, err = f.claim(true, aliceKey, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.Amount)
	assert.Equal(t, uint64(1), f.balance(address.FromLabel("alice-prizes")))
	assert.Equal(t, uint64(2), f.balance(f.prizePool))

	_, err = f.claim(false, carolKey, "carol")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), f.balance(address.FromLabel("carol-funds")))
	assert.Equal(t, uint64(10), f.balance(f.pool))

	// Claims settle once
	_, err = f.claim(false, carolKey, "carol")
	require.ErrorIs(t, err, lottery.ErrAlreadyClaimed)

	ticket, err := f.ls.Ticket(f.ticketAddress(carolKey))
	require.NoError(t, err)
	assert.Equal(t, lottery.TicketStateClaimed, ticket.State)

	lotteries, err := f.ls.Lotteries()
	require.NoError(t, err)
	assert.Equal(t, []address.Address{f.lottery}, lotteries)
	tickets, err := f.ls.TicketsByLottery(f.lottery)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
	owned, err := f.ls.TicketsByOwner(address.FromLabel("bob"))
	require.NoError(t, err)
	assert.Equal(t, []address.Address{f.ticketAddress(bobKey)}, owned)

	assert.InDelta(t, 3, counter(t, f, "lottery_ledger_tickets_sold_total"), 0)
}

// counter returns the single sample of a metric family without labels
func counter(t *testing.T, f *fixture, name string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0].GetCounter().GetValue()
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestFailedOperationWritesNothing(t *testing.T) {
	f := newFixture(t, "")
	f.genesis("alice")
	// A second genesis document may add accounts that use existing mints
	require.NoError(t, f.ls.ApplyGenesis(context.Background(), &ledger.Genesis{
		Wallets: []ledger.GenesisWallet{{Address: "broke"}},
		TokenAccounts: []ledger.GenesisTokenAccount{
			{Address: "broke-funds", Mint: "ticket-mint", Owner: "broke"},
		},
	}))
	_, err := f.create(10, 3)
	require.NoError(t, err)
	_, err = f.start()
	require.NoError(t, err)

	key := f.ticketKey("broke", true, 10, 3)
	_, err = f.buy(key, "broke")
	require.ErrorIs(t, err, lottery.ErrTokenTransferFailed)
	assert.Equal(t, lottery.KindSettlement, lottery.KindOf(err))

	_, err = f.ls.Ticket(f.ticketAddress(key))
	require.ErrorIs(t, err, ledger.ErrNotTicket)
	_, err = f.ls.Account(f.ticketAddress(key))
	require.ErrorIs(t, err, account.ErrAccountNotFound)
	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Zero(t, rec.TicketsSold)
	assert.Zero(t, rec.WinnersAssigned)
	tickets, err := f.ls.TicketsByLottery(f.lottery)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestReplayedPurchase(t *testing.T) {
	f := newFixture(t, "")
	f.genesis("alice")
	_, err := f.create(10, 3)
	require.NoError(t, err)
	_, err = f.start()
	require.NoError(t, err)

	key := address.FromLabel("alice-ticket")
	first, err := f.buy(key, "alice")
	require.NoError(t, err)
	second, err := f.buy(key, "alice")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.TicketState, second.TicketState)
	assert.Equal(t, uint64(95), f.balance(address.FromLabel("alice-funds")))
	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.TicketsSold)
}

func TestCapacity(t *testing.T) {
	f := newFixture(t, "")
	f.genesis("alice")
	_, err := f.create(2, 1)
	require.NoError(t, err)
	_, err = f.start()
	require.NoError(t, err)
	for _, label := range []string{"k1", "k2"} {
		_, err := f.buy(address.FromLabel(label), "alice")
		require.NoError(t, err)
	}
	_, err = f.buy(address.FromLabel("k3"), "alice")
	require.ErrorIs(t, err, lottery.ErrExceedTicketSupply)
	assert.Equal(t, lottery.KindCapacity, lottery.KindOf(err))
}

func TestStalledSubscriberDoesNotBlockPurchases(t *testing.T) {
	f := newFixture(t, "")
	f.genesis("alice", "bob")
	// Never drained
	_, _ = f.bus.Subscribe(ledger.TicketBoughtEventType)
	_, err := f.create(30, 3)
	require.NoError(t, err)
	_, err = f.start()
	require.NoError(t, err)

	purchases := event.EventQueueSize + 5
	done := make(chan error, 1)
	go func() {
		for i := range purchases {
			buyer := "alice"
			if i%2 == 1 {
				buyer = "bob"
			}
			key := address.FromLabel(fmt.Sprintf("stall-%d", i))
			if _, err := f.buy(key, buyer); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	err = helpers.RequireReceive(t, done, 10*helpers.DefaultTimeout, "purchases")
	require.NoError(t, err)
	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, uint64(purchases), rec.TicketsSold)
}

func TestUnauthorizedStart(t *testing.T) {
	f := newFixture(t, "")
	f.genesis()
	_, err := f.create(10, 3)
	require.NoError(t, err)
	_, err = f.process(&instruction.StartLottery{}, signer(f.payer), writable(f.lottery))
	require.Error(t, err)
	assert.Equal(t, lottery.KindAuthorization, lottery.KindOf(err))
	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, lottery.LotteryStateCreated, rec.State)
}

func TestLotteryForStore(t *testing.T) {
	f := newFixture(t, "")
	f.genesis()
	_, err := f.create(10, 3)
	require.NoError(t, err)
	addr, rec, err := f.ls.LotteryForStore(f.store)
	require.NoError(t, err)
	assert.Equal(t, f.lottery, addr)
	assert.Equal(t, f.authority, rec.Authority)

	_, err = f.ls.Lottery(f.store)
	require.ErrorIs(t, err, ledger.ErrNotLottery)
}

func TestPersistenceAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir)
	f.genesis("alice")
	_, err := f.create(10, 3)
	require.NoError(t, err)
	require.NoError(t, f.ls.Close())

	f.open(dir)
	rec, err := f.ls.Lottery(f.lottery)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rec.TicketSupply)
	count, err := f.ls.Reindex()
	require.NoError(t, err)
	// wallets, mints, store, pools, buyer token accounts and the lottery
	assert.Equal(t, 11, count)
}

func TestCommitTimestampRecovery(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, dir)
	f.genesis()
	_, err := f.create(10, 3)
	require.NoError(t, err)
	// Simulate a metadata commit that the blob store never saw
	db := f.ls.Database()
	txn := db.Metadata().Transaction()
	require.NoError(t, db.Metadata().SetCommitTimestamp(1, txn))
	require.NoError(t, txn.Commit())
	require.NoError(t, f.ls.Close())

	db, err = database.New(&database.Config{DataDir: dir})
	var tsErr database.CommitTimestampError
	require.ErrorAs(t, err, &tsErr)
	require.NoError(t, db.Close())

	f.open(dir)
	lotteries, err := f.ls.Lotteries()
	require.NoError(t, err)
	assert.Equal(t, []address.Address{f.lottery}, lotteries)
	metaTs, err := f.ls.Database().Metadata().GetCommitTimestamp()
	require.NoError(t, err)
	blobTs, err := f.ls.Database().Blob().GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, metaTs, blobTs)
}

func TestProcessCanceledContext(t *testing.T) {
	f := newFixture(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.ls.Process(ctx, ledger.Transaction{Instruction: &instruction.StartLottery{}})
	require.ErrorIs(t, err, context.Canceled)
	_, err = f.ls.Process(context.Background(), ledger.Transaction{})
	require.ErrorIs(t, err, ledger.ErrNilInstruction)
}

func TestParseTransaction(t *testing.T) {
	key := address.FromLabel("key")
	doc := "instruction: buy-ticket\n" +
		"args:\n" +
		"  ticket_key: " + key.String() + "\n" +
		"accounts:\n" +
		"  - address: alice\n" +
		"    signer: true\n" +
		"    writable: true\n" +
		"  - address: " + key.String() + "\n"
	tx, err := ledger.ParseTransaction([]byte(doc))
	require.NoError(t, err)
	buy, ok := tx.Instruction.(*instruction.BuyTicket)
	require.True(t, ok)
	assert.Equal(t, key, buy.TicketKey)
	require.Len(t, tx.Accounts, 2)
	assert.Equal(t, account.NewMeta(address.FromLabel("alice"), true, true), tx.Accounts[0])
	assert.Equal(t, account.NewMeta(key, false, false), tx.Accounts[1])

	encoded, err := instruction.Encode(&instruction.CreateLottery{
		EndAt:        testEndAt,
		TicketPrice:  testTicketPrice,
		TicketSupply: 10,
		PrizeSupply:  3,
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encoded: "+hex.EncodeToString(encoded)+"\n"), 0o600))
	tx, err = ledger.LoadTransaction(path)
	require.NoError(t, err)
	create, ok := tx.Instruction.(*instruction.CreateLottery)
	require.True(t, ok)
	assert.Equal(t, uint32(10), create.TicketSupply)

	_, err = ledger.ParseTransaction([]byte("instruction: bogus\n"))
	require.ErrorIs(t, err, instruction.ErrUnknownInstruction)
	_, err = ledger.ParseTransaction([]byte("accounts: []\n"))
	require.ErrorIs(t, err, ledger.ErrNilInstruction)
}

func TestRefResolve(t *testing.T) {
	addr := address.FromLabel("x")
	got, err := ledger.Ref(addr.String()).Resolve()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
	got, err = ledger.Ref(" x ").Resolve()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
	_, err = ledger.Ref("lot1notvalid").Resolve()
	require.Error(t, err)
	assert.True(t, ledger.Ref("").IsZero())
}

func TestLoadGenesis(t *testing.T) {
	doc := `wallets:
  - address: payer
    lamports: 5000
mints:
  - address: ticket-mint
    authority: mint-authority
    decimals: 2
stores:
  - address: store-1
    owner: authority
    prizeCount: 3
tokenAccounts:
  - address: alice-funds
    mint: ticket-mint
    owner: alice
    amount: 50
    delegate: relayer
    delegatedAmount: 20
`
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	g, err := ledger.LoadGenesis(path)
	require.NoError(t, err)
	require.Len(t, g.TokenAccounts, 1)

	f := newFixture(t, "")
	require.NoError(t, f.ls.ApplyGenesis(context.Background(), g))
	payer, err := f.ls.Account(address.FromLabel("payer"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), payer.Lamports)
	assert.Equal(t, uint64(50), f.balance(address.FromLabel("alice-funds")))
	funds, err := f.ls.Account(address.FromLabel("alice-funds"))
	require.NoError(t, err)
	assert.Equal(t, uint64(ledger.DefaultGenesisLamports), funds.Lamports)

	// Initializing the same accounts twice fails as a whole
	require.Error(t, f.ls.ApplyGenesis(context.Background(), g))
}
