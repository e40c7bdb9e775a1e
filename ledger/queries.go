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

package ledger

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/lottery"
)

var (
	ErrNotLottery = errors.New("account does not hold a lottery record")
	ErrNotTicket  = errors.New("account does not hold a ticket record")
)

// Account returns the committed snapshot for addr
func (ls *LedgerState) Account(addr address.Address) (*account.Info, error) {
	return ls.db.AccountGet(addr, nil)
}

// Lottery returns the committed lottery record at addr
func (ls *LedgerState) Lottery(addr address.Address) (*lottery.LotteryRecord, error) {
	info, err := ls.programAccount(addr, lottery.LotteryRecordSize, ErrNotLottery)
	if err != nil {
		return nil, err
	}
	return lottery.DecodeLotteryRecord(info.Data)
}

// LotteryForStore derives the lottery address of a registry store and
// returns its record
func (ls *LedgerState) LotteryForStore(
	storeID address.Address,
) (address.Address, *lottery.LotteryRecord, error) {
	addr, _, err := ls.Program().LotteryAddress(storeID)
	if err != nil {
		return address.Address{}, nil, err
	}
	rec, err := ls.Lottery(addr)
	if err != nil {
		return address.Address{}, nil, err
	}
	return addr, rec, nil
}

// Ticket returns the committed ticket record at addr
func (ls *LedgerState) Ticket(addr address.Address) (*lottery.TicketRecord, error) {
	info, err := ls.programAccount(addr, lottery.TicketRecordSize, ErrNotTicket)
	if err != nil {
		return nil, err
	}
	return lottery.DecodeTicketRecord(info.Data)
}

// TicketByKey derives the ticket address for a buyer-chosen key and returns
// its record
func (ls *LedgerState) TicketByKey(
	key address.Address,
) (address.Address, *lottery.TicketRecord, error) {
	addr, _, err := ls.Program().TicketAddress(key)
	if err != nil {
		return address.Address{}, nil, err
	}
	rec, err := ls.Ticket(addr)
	if err != nil {
		return address.Address{}, nil, err
	}
	return addr, rec, nil
}

// Lotteries lists lottery addresses in creation order
func (ls *LedgerState) Lotteries() ([]address.Address, error) {
	return ls.db.Lotteries(nil)
}

// TicketsByLottery lists the tickets of a lottery in purchase order
func (ls *LedgerState) TicketsByLottery(
	lotteryAddr address.Address,
) ([]address.Address, error) {
	return ls.db.TicketsByLottery(lotteryAddr, nil)
}

// TicketsByOwner lists the tickets held by a wallet in purchase order
func (ls *LedgerState) TicketsByOwner(
	owner address.Address,
) ([]address.Address, error) {
	return ls.db.TicketsByOwner(owner, nil)
}

// TokenBalance returns the balance of a token account
func (ls *LedgerState) TokenBalance(addr address.Address) (uint64, error) {
	info, err := ls.Account(addr)
	if err != nil {
		return 0, err
	}
	return ls.processor.Token().Balance(info)
}

func (ls *LedgerState) programAccount(
	addr address.Address,
	size int,
	notFound error,
) (*account.Info, error) {
	info, err := ls.Account(addr)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", notFound, addr)
		}
		return nil, err
	}
	if info.Owner != ls.Program().ProgramID || len(info.Data) != size {
		return nil, fmt.Errorf("%w: %s", notFound, addr)
	}
	return info, nil
}
