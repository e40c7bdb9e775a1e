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

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/token"
)

// claim accounts: destination, token pool, lottery, authority, ticket,
// ticket owner, mint
//
// A prize claim moves one unit of the prize mint held by the lottery to the
// owner of a winning ticket. A refund claim returns the ticket price from
// the lottery's payment pool to the owner of a losing ticket.
func (p *Processor) claim(
	ticketKey address.Address,
	prize bool,
	it *account.Iter,
) (*Receipt, error) {
	accts, err := nextAccounts(it, 7)
	if err != nil {
		return nil, err
	}
	destination, pool, lottery, authority := accts[0], accts[1], accts[2], accts[3]
	ticket, owner, mint := accts[4], accts[5], accts[6]
	rec, proof, err := p.loadLottery(lottery)
	if err != nil {
		return nil, err
	}
	if err := p.checkTicketAddress(ticket, ticketKey); err != nil {
		return nil, err
	}
	if err := requireWritable(ticket); err != nil {
		return nil, err
	}
	if err := checkAuthority(rec, authority); err != nil {
		return nil, err
	}
	tr, err := p.loadTicket(ticket)
	if err != nil {
		return nil, err
	}
	if tr.Owner != owner.Address || tr.LotteryID != lottery.Address {
		return nil, fmt.Errorf("%w: %s", ErrTicketOwnerMismatch, ticket.Address)
	}
	destAcct, err := p.token.LoadAccount(destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDestination, err)
	}
	if destAcct.Owner != owner.Address {
		return nil, fmt.Errorf(
			"%w: destination is held by %s",
			ErrInvalidDestination,
			destAcct.Owner,
		)
	}
	nextState, err := tr.State.Claim()
	if err != nil {
		return nil, err
	}
	var amount uint64
	if prize {
		if tr.State != TicketStateWon {
			return nil, fmt.Errorf("%w: ticket is %s", ErrInvalidTransition, tr.State)
		}
		// Prizes never come out of the payment escrow
		if pool.Address == rec.TokenPool {
			return nil, fmt.Errorf("%w: %s is the payment pool", ErrInvalidTokenPool, pool.Address)
		}
		if mint.Address == rec.TokenMint {
			return nil, fmt.Errorf("%w: %s is the payment mint", ErrInvalidMint, mint.Address)
		}
		poolAcct, err := p.token.LoadAccount(pool)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTokenPool, err)
		}
		if poolAcct.Owner != lottery.Address {
			return nil, fmt.Errorf("%w: pool is held by %s", ErrInvalidTokenPool, poolAcct.Owner)
		}
		if poolAcct.Mint != mint.Address {
			return nil, fmt.Errorf("%w: pool holds mint %s", ErrInvalidMint, poolAcct.Mint)
		}
		amount = 1
	} else {
		if tr.State != TicketStateLost {
			return nil, fmt.Errorf("%w: ticket is %s", ErrInvalidTransition, tr.State)
		}
		if pool.Address != rec.TokenPool {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTokenPool, pool.Address)
		}
		if mint.Address != rec.TokenMint {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMint, mint.Address)
		}
		amount = rec.TicketPrice
	}
	// The lottery address holds the pool and has no key, so the transfer is
	// authorized by its derivation proof
	err = p.token.Transfer(token.TransferParams{
		Source:      pool,
		Destination: destination,
		Authority:   lottery,
		Amount:      amount,
		Signer:      proof,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenTransferFailed, err)
	}
	prevState := tr.State
	tr.State = nextState
	if err := p.storeTicket(ticket, tr); err != nil {
		return nil, err
	}
	p.logger.Debug(
		"ticket claimed",
		"component", "lottery",
		"ticket", ticket.Address.String(),
		"outcome", prevState.String(),
		"amount", amount,
	)
	return &Receipt{
		Lottery:      lottery.Address,
		Ticket:       ticket.Address,
		Owner:        tr.Owner,
		LotteryState: rec.State,
		TicketState:  tr.State,
		PrizeIndex:   tr.PrizeIndex,
		Amount:       amount,
		Timestamp:    p.config.Clock.Now(),
	}, nil
}
