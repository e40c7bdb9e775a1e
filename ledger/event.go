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
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/lottery"
)

const (
	LotteryCreatedEventType   = "lottery.created"
	LotteryAuthorityEventType = "lottery.authority"
	LotteryStartedEventType   = "lottery.started"
	LotteryEndedEventType     = "lottery.ended"
	TicketBoughtEventType     = "ticket.bought"
	PrizeClaimedEventType     = "ticket.prize_claimed"
	RefundClaimedEventType    = "ticket.refund_claimed"
)

// EventTypes lists every event type published by the ledger
var EventTypes = []event.EventType{
	LotteryCreatedEventType,
	LotteryAuthorityEventType,
	LotteryStartedEventType,
	LotteryEndedEventType,
	TicketBoughtEventType,
	PrizeClaimedEventType,
	RefundClaimedEventType,
}

// LotteryEvent is published after an operation has been committed
type LotteryEvent struct {
	Lottery      address.Address
	Ticket       address.Address
	Owner        address.Address
	Authority    address.Address
	LotteryState lottery.LotteryState
	TicketState  lottery.TicketState
	PrizeIndex   uint64
	Amount       uint64
	Timestamp    uint64
}

func NewLotteryEvent(receipt *lottery.Receipt) LotteryEvent {
	return LotteryEvent{
		Lottery:      receipt.Lottery,
		Ticket:       receipt.Ticket,
		Owner:        receipt.Owner,
		Authority:    receipt.Authority,
		LotteryState: receipt.LotteryState,
		TicketState:  receipt.TicketState,
		PrizeIndex:   receipt.PrizeIndex,
		Amount:       receipt.Amount,
		Timestamp:    receipt.Timestamp,
	}
}
