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
	"math"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/token"
)

// buyTicket accounts: lottery, ticket, buyer, buyer funds, token pool,
// token mint, payment authority, payer
func (p *Processor) buyTicket(
	ins *instruction.BuyTicket,
	it *account.Iter,
) (*Receipt, error) {
	accts, err := nextAccounts(it, 8)
	if err != nil {
		return nil, err
	}
	lottery, ticket, buyer, funds := accts[0], accts[1], accts[2], accts[3]
	pool, mint, paymentAuthority, payer := accts[4], accts[5], accts[6], accts[7]
	rec, _, err := p.loadLottery(lottery)
	if err != nil {
		return nil, err
	}
	if err := p.checkTicketAddress(ticket, ins.TicketKey); err != nil {
		return nil, err
	}
	for _, signer := range []*account.Info{buyer, paymentAuthority, payer} {
		if err := requireSigner(signer); err != nil {
			return nil, err
		}
	}
	if err := requireWritable(lottery); err != nil {
		return nil, err
	}
	if err := requireWritable(ticket); err != nil {
		return nil, err
	}
	// A resubmitted purchase must not draw or charge again
	if !ticket.DataIsEmpty() {
		existing, err := p.loadTicket(ticket)
		if err != nil {
			return nil, err
		}
		if existing.Owner != buyer.Address || existing.LotteryID != lottery.Address {
			return nil, fmt.Errorf("%w: %s", ErrTicketExists, ticket.Address)
		}
		return &Receipt{
			Lottery:      lottery.Address,
			Ticket:       ticket.Address,
			Owner:        existing.Owner,
			LotteryState: rec.State,
			TicketState:  existing.State,
			PrizeIndex:   existing.PrizeIndex,
			Timestamp:    p.config.Clock.Now(),
			Replayed:     true,
		}, nil
	}
	if rec.State != LotteryStateStarted {
		return nil, fmt.Errorf("%w: lottery is %s", ErrInvalidState, rec.State)
	}
	if rec.TicketsSold >= rec.TicketSupply {
		return nil, fmt.Errorf(
			"%w: %d of %d sold",
			ErrExceedTicketSupply,
			rec.TicketsSold,
			rec.TicketSupply,
		)
	}
	now := p.config.Clock.Now()
	if now > rec.EndAt {
		return nil, fmt.Errorf(
			"%w: now %d, end at %d",
			ErrAlreadyOverEndDate,
			now,
			rec.EndAt,
		)
	}
	if rec.TicketsSold == math.MaxUint64 {
		return nil, ErrNumericalOverflow
	}
	if pool.Address != rec.TokenPool {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenPool, pool.Address)
	}
	if mint.Address != rec.TokenMint {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMint, mint.Address)
	}
	if funds.Address == pool.Address {
		return nil, fmt.Errorf("%w: payment source is the pool", ErrInvalidTokenPool)
	}
	// The outcome only takes effect once the payment has gone through
	drawn := *rec
	prizeIndex, err := p.config.Drawer.Draw(&drawn, ticket.Address, now)
	if err != nil {
		return nil, err
	}
	if drawn.WinnersAssigned > drawn.PrizeSupply {
		return nil, fmt.Errorf("%w: winners exceed prize supply", ErrNumericalOverflow)
	}
	err = p.token.Transfer(token.TransferParams{
		Source:      funds,
		Destination: pool,
		Authority:   paymentAuthority,
		Amount:      rec.TicketPrice,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenTransferFailed, err)
	}
	rec = &drawn
	rec.TicketsSold++
	tr := &TicketRecord{
		Owner:     buyer.Address,
		LotteryID: lottery.Address,
		State:     TicketStateBought,
		TicketKey: ins.TicketKey,
	}
	if prizeIndex > 0 {
		tr.State, err = tr.State.Win()
		tr.PrizeIndex = prizeIndex
	} else {
		tr.State, err = tr.State.Lose()
	}
	if err != nil {
		return nil, err
	}
	if err := p.storeTicket(ticket, tr); err != nil {
		return nil, err
	}
	if err := p.storeLottery(lottery, rec); err != nil {
		return nil, err
	}
	p.logger.Debug(
		"ticket bought",
		"component", "lottery",
		"lottery", lottery.Address.String(),
		"ticket", ticket.Address.String(),
		"state", tr.State.String(),
	)
	return &Receipt{
		Lottery:      lottery.Address,
		Ticket:       ticket.Address,
		Owner:        buyer.Address,
		LotteryState: rec.State,
		TicketState:  tr.State,
		PrizeIndex:   tr.PrizeIndex,
		Amount:       rec.TicketPrice,
		Timestamp:    now,
	}, nil
}
