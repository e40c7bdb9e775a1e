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

package main

import (
	"fmt"
	"io"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/lottery"
	"gopkg.in/yaml.v3"
)

type lotteryView struct {
	Address         address.Address `yaml:"address"`
	Authority       address.Address `yaml:"authority"`
	StoreID         address.Address `yaml:"storeId"`
	TokenMint       address.Address `yaml:"tokenMint"`
	TokenPool       address.Address `yaml:"tokenPool"`
	State           string          `yaml:"state"`
	EndAt           uint64          `yaml:"endAt"`
	EndedAt         uint64          `yaml:"endedAt,omitempty"`
	TicketPrice     uint64          `yaml:"ticketPrice"`
	TicketSupply    uint64          `yaml:"ticketSupply"`
	TicketsSold     uint64          `yaml:"ticketsSold"`
	PrizeSupply     uint64          `yaml:"prizeSupply"`
	WinnersAssigned uint64          `yaml:"winnersAssigned"`
}

func newLotteryView(addr address.Address, rec *lottery.LotteryRecord) lotteryView {
	return lotteryView{
		Address:         addr,
		Authority:       rec.Authority,
		StoreID:         rec.StoreID,
		TokenMint:       rec.TokenMint,
		TokenPool:       rec.TokenPool,
		State:           rec.State.String(),
		EndAt:           rec.EndAt,
		EndedAt:         rec.EndedAt,
		TicketPrice:     rec.TicketPrice,
		TicketSupply:    rec.TicketSupply,
		TicketsSold:     rec.TicketsSold,
		PrizeSupply:     rec.PrizeSupply,
		WinnersAssigned: rec.WinnersAssigned,
	}
}

type ticketView struct {
	Address    address.Address `yaml:"address"`
	Lottery    address.Address `yaml:"lottery"`
	Owner      address.Address `yaml:"owner"`
	TicketKey  address.Address `yaml:"ticketKey"`
	State      string          `yaml:"state"`
	PrizeIndex uint64          `yaml:"prizeIndex,omitempty"`
}

func newTicketView(addr address.Address, rec *lottery.TicketRecord) ticketView {
	return ticketView{
		Address:    addr,
		Lottery:    rec.LotteryID,
		Owner:      rec.Owner,
		TicketKey:  rec.TicketKey,
		State:      rec.State.String(),
		PrizeIndex: rec.PrizeIndex,
	}
}

type accountView struct {
	Address  address.Address `yaml:"address"`
	Owner    address.Address `yaml:"owner"`
	Lamports uint64          `yaml:"lamports"`
	DataLen  int             `yaml:"dataLen"`
}

func newAccountView(info *account.Info) accountView {
	return accountView{
		Address:  info.Address,
		Owner:    info.Owner,
		Lamports: info.Lamports,
		DataLen:  len(info.Data),
	}
}

type receiptView struct {
	Operation    string          `yaml:"operation"`
	Lottery      address.Address `yaml:"lottery"`
	Ticket       address.Address `yaml:"ticket,omitempty"`
	Owner        address.Address `yaml:"owner,omitempty"`
	Authority    address.Address `yaml:"authority,omitempty"`
	LotteryState string          `yaml:"lotteryState"`
	TicketState  string          `yaml:"ticketState,omitempty"`
	PrizeIndex   uint64          `yaml:"prizeIndex,omitempty"`
	Amount       uint64          `yaml:"amount,omitempty"`
	Timestamp    uint64          `yaml:"timestamp"`
	Replayed     bool            `yaml:"replayed,omitempty"`
}

func newReceiptView(receipt *lottery.Receipt) receiptView {
	ret := receiptView{
		Operation:    receipt.Operation.String(),
		Lottery:      receipt.Lottery,
		Ticket:       receipt.Ticket,
		Owner:        receipt.Owner,
		Authority:    receipt.Authority,
		LotteryState: receipt.LotteryState.String(),
		PrizeIndex:   receipt.PrizeIndex,
		Amount:       receipt.Amount,
		Timestamp:    receipt.Timestamp,
		Replayed:     receipt.Replayed,
	}
	if !receipt.Ticket.IsZero() {
		ret.TicketState = receipt.TicketState.String()
	}
	return ret
}

func printYaml(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
