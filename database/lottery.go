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

package database

import (
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database/models"
	"github.com/blinklabs-io/lottery/database/types"
	"github.com/blinklabs-io/lottery/lottery"
)

// LotteryIndexSet records the queryable fields of a lottery record
func (d *Database) LotteryIndexSet(
	addr address.Address,
	rec *lottery.LotteryRecord,
	txn *Txn,
) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.LotteryIndexSet(addr, rec, txn)
		})
	}
	return d.Metadata().SetLottery(
		&models.Lottery{
			Address:         addr.Bytes(),
			Authority:       rec.Authority.Bytes(),
			StoreID:         rec.StoreID.Bytes(),
			TokenMint:       rec.TokenMint.Bytes(),
			TokenPool:       rec.TokenPool.Bytes(),
			EndAt:           types.Uint64(rec.EndAt),
			EndedAt:         types.Uint64(rec.EndedAt),
			TicketPrice:     types.Uint64(rec.TicketPrice),
			TicketSupply:    types.Uint64(rec.TicketSupply),
			TicketsSold:     types.Uint64(rec.TicketsSold),
			PrizeSupply:     types.Uint64(rec.PrizeSupply),
			WinnersAssigned: types.Uint64(rec.WinnersAssigned),
			State:           uint8(rec.State),
		},
		txn.Metadata(),
	)
}

// TicketIndexSet records the queryable fields of a ticket record
func (d *Database) TicketIndexSet(
	addr address.Address,
	rec *lottery.TicketRecord,
	txn *Txn,
) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.TicketIndexSet(addr, rec, txn)
		})
	}
	return d.Metadata().SetTicket(
		&models.Ticket{
			Address:        addr.Bytes(),
			LotteryAddress: rec.LotteryID.Bytes(),
			Owner:          rec.Owner.Bytes(),
			TicketKey:      rec.TicketKey.Bytes(),
			PrizeIndex:     types.Uint64(rec.PrizeIndex),
			State:          uint8(rec.State),
		},
		txn.Metadata(),
	)
}

// Lotteries returns the addresses of all indexed lotteries in creation order
func (d *Database) Lotteries(txn *Txn) ([]address.Address, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	lotteries, err := d.Metadata().GetLotteries(txn.Metadata())
	if err != nil {
		return nil, err
	}
	ret := make([]address.Address, 0, len(lotteries))
	for _, l := range lotteries {
		addr, err := address.NewAddress(l.Address)
		if err != nil {
			return nil, err
		}
		ret = append(ret, addr)
	}
	return ret, nil
}

// TicketsByLottery returns the ticket addresses of a lottery in purchase order
func (d *Database) TicketsByLottery(
	lotteryAddr address.Address,
	txn *Txn,
) ([]address.Address, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	tickets, err := d.Metadata().GetTicketsByLottery(
		lotteryAddr.Bytes(),
		txn.Metadata(),
	)
	if err != nil {
		return nil, err
	}
	return ticketAddresses(tickets)
}

// TicketsByOwner returns the ticket addresses held by owner in purchase order
func (d *Database) TicketsByOwner(
	owner address.Address,
	txn *Txn,
) ([]address.Address, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	tickets, err := d.Metadata().GetTicketsByOwner(
		owner.Bytes(),
		txn.Metadata(),
	)
	if err != nil {
		return nil, err
	}
	return ticketAddresses(tickets)
}

func ticketAddresses(tickets []models.Ticket) ([]address.Address, error) {
	ret := make([]address.Address, 0, len(tickets))
	for _, tmpTicket := range tickets {
		addr, err := address.NewAddress(tmpTicket.Address)
		if err != nil {
			return nil, err
		}
		ret = append(ret, addr)
	}
	return ret, nil
}
