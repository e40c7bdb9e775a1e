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
)

// setAuthority accounts: lottery, current authority, new authority
func (p *Processor) setAuthority(it *account.Iter) (*Receipt, error) {
	accts, err := nextAccounts(it, 3)
	if err != nil {
		return nil, err
	}
	lottery, current, next := accts[0], accts[1], accts[2]
	rec, _, err := p.loadLottery(lottery)
	if err != nil {
		return nil, err
	}
	if err := requireWritable(lottery); err != nil {
		return nil, err
	}
	if err := checkAuthority(rec, current); err != nil {
		return nil, err
	}
	if !next.Provisioned() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAuthority, next.Address)
	}
	rec.Authority = next.Address
	if err := p.storeLottery(lottery, rec); err != nil {
		return nil, err
	}
	return &Receipt{
		Lottery:      lottery.Address,
		Authority:    rec.Authority,
		LotteryState: rec.State,
		Timestamp:    p.config.Clock.Now(),
	}, nil
}

// startLottery accounts: authority, lottery
func (p *Processor) startLottery(it *account.Iter) (*Receipt, error) {
	accts, err := nextAccounts(it, 2)
	if err != nil {
		return nil, err
	}
	authority, lottery := accts[0], accts[1]
	rec, _, err := p.loadLottery(lottery)
	if err != nil {
		return nil, err
	}
	if err := requireWritable(lottery); err != nil {
		return nil, err
	}
	if err := checkAuthority(rec, authority); err != nil {
		return nil, err
	}
	nextState, err := rec.State.Start()
	if err != nil {
		return nil, err
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
	rec.State = nextState
	if err := p.storeLottery(lottery, rec); err != nil {
		return nil, err
	}
	return &Receipt{
		Lottery:      lottery.Address,
		Authority:    rec.Authority,
		LotteryState: rec.State,
		Timestamp:    now,
	}, nil
}

// endLottery accounts: authority, lottery
func (p *Processor) endLottery(it *account.Iter) (*Receipt, error) {
	accts, err := nextAccounts(it, 2)
	if err != nil {
		return nil, err
	}
	authority, lottery := accts[0], accts[1]
	rec, _, err := p.loadLottery(lottery)
	if err != nil {
		return nil, err
	}
	if err := requireWritable(lottery); err != nil {
		return nil, err
	}
	if err := checkAuthority(rec, authority); err != nil {
		return nil, err
	}
	nextState, err := rec.State.End()
	if err != nil {
		return nil, err
	}
	now := p.config.Clock.Now()
	rec.State = nextState
	rec.EndedAt = now
	if err := p.storeLottery(lottery, rec); err != nil {
		return nil, err
	}
	return &Receipt{
		Lottery:      lottery.Address,
		Authority:    rec.Authority,
		LotteryState: rec.State,
		Timestamp:    now,
	}, nil
}
