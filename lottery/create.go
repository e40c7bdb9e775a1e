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
	"github.com/blinklabs-io/lottery/instruction"
)

// createLottery accounts: payer, lottery, store, token mint, token pool,
// authority
func (p *Processor) createLottery(
	ins *instruction.CreateLottery,
	it *account.Iter,
) (*Receipt, error) {
	accts, err := nextAccounts(it, 6)
	if err != nil {
		return nil, err
	}
	payer, lottery, store, mint, pool, authority := accts[0], accts[1], accts[2], accts[3], accts[4], accts[5]
	expected, _, err := p.config.Program.LotteryAddress(store.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDerivedAddress, err)
	}
	if err := checkDerived(lottery, expected); err != nil {
		return nil, err
	}
	if err := requireSigner(payer); err != nil {
		return nil, err
	}
	if err := requireWritable(lottery); err != nil {
		return nil, err
	}
	if !lottery.DataIsEmpty() {
		return nil, fmt.Errorf("%w: lottery %s", ErrAlreadyInitialized, lottery.Address)
	}
	if ins.TicketSupply == 0 {
		return nil, fmt.Errorf("%w: ticket supply must be positive", ErrInvalidArgument)
	}
	if ins.PrizeSupply > ins.TicketSupply {
		return nil, fmt.Errorf(
			"%w: prize supply %d exceeds ticket supply %d",
			ErrInvalidArgument,
			ins.PrizeSupply,
			ins.TicketSupply,
		)
	}
	if _, err := p.registry.LoadStore(store); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStore, err)
	}
	if _, err := p.token.LoadMint(mint); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMint, err)
	}
	poolAcct, err := p.token.LoadAccount(pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTokenPool, err)
	}
	if poolAcct.Mint != mint.Address {
		return nil, fmt.Errorf("%w: pool holds mint %s", ErrInvalidTokenPool, poolAcct.Mint)
	}
	if poolAcct.Owner != lottery.Address {
		return nil, fmt.Errorf("%w: pool is owned by %s", ErrInvalidTokenPool, poolAcct.Owner)
	}
	rec := &LotteryRecord{
		Authority:    authority.Address,
		TokenMint:    mint.Address,
		TokenPool:    pool.Address,
		StoreID:      store.Address,
		EndAt:        ins.EndAt,
		State:        LotteryStateCreated,
		PrizeSupply:  uint64(ins.PrizeSupply),
		TicketPrice:  ins.TicketPrice,
		TicketSupply: uint64(ins.TicketSupply),
	}
	if err := p.storeLottery(lottery, rec); err != nil {
		return nil, err
	}
	p.logger.Debug(
		"lottery created",
		"component", "lottery",
		"lottery", lottery.Address.String(),
		"store", store.Address.String(),
	)
	return &Receipt{
		Lottery:      lottery.Address,
		Authority:    rec.Authority,
		LotteryState: rec.State,
		Timestamp:    p.config.Clock.Now(),
	}, nil
}
