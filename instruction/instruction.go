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

// Package instruction defines the operations accepted by the lottery
// program and their wire encoding.
package instruction

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/lottery/address"
)

type Tag uint8

const (
	TagCreateLottery Tag = iota
	TagSetAuthority
	TagStartLottery
	TagEndLottery
	TagBuyTicket
	TagClaimPrize
	TagClaimRefund
)

var tagNames = map[Tag]string{
	TagCreateLottery: "create-lottery",
	TagSetAuthority:  "set-authority",
	TagStartLottery:  "start-lottery",
	TagEndLottery:    "end-lottery",
	TagBuyTicket:     "buy-ticket",
	TagClaimPrize:    "claim-prize",
	TagClaimRefund:   "claim-refund",
}

var ErrUnknownInstruction = errors.New("unknown instruction")

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// ParseTag returns the tag with the given name
func ParseTag(name string) (Tag, error) {
	for tag, tagName := range tagNames {
		if tagName == name {
			return tag, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownInstruction, name)
}

// Names returns the names of all known instructions in tag order
func Names() []string {
	ret := make([]string, len(tagNames))
	for tag, name := range tagNames {
		ret[tag] = name
	}
	return ret
}

type Instruction interface {
	Tag() Tag
}

type CreateLottery struct {
	cbor.StructAsArray
	EndAt        uint64 `yaml:"end_at"`
	TicketPrice  uint64 `yaml:"ticket_price"`
	TicketSupply uint32 `yaml:"ticket_supply"`
	PrizeSupply  uint32 `yaml:"prize_supply"`
}

func (*CreateLottery) Tag() Tag { return TagCreateLottery }

type SetAuthority struct {
	cbor.StructAsArray
}

func (*SetAuthority) Tag() Tag { return TagSetAuthority }

type StartLottery struct {
	cbor.StructAsArray
}

func (*StartLottery) Tag() Tag { return TagStartLottery }

type EndLottery struct {
	cbor.StructAsArray
}

func (*EndLottery) Tag() Tag { return TagEndLottery }

type BuyTicket struct {
	cbor.StructAsArray
	TicketKey address.Address `yaml:"ticket_key"`
}

func (*BuyTicket) Tag() Tag { return TagBuyTicket }

type ClaimPrize struct {
	cbor.StructAsArray
	TicketKey address.Address `yaml:"ticket_key"`
}

func (*ClaimPrize) Tag() Tag { return TagClaimPrize }

type ClaimRefund struct {
	cbor.StructAsArray
	TicketKey address.Address `yaml:"ticket_key"`
}

func (*ClaimRefund) Tag() Tag { return TagClaimRefund }

// New returns an empty instruction for the given tag
func New(tag Tag) (Instruction, error) {
	switch tag {
	case TagCreateLottery:
		return &CreateLottery{}, nil
	case TagSetAuthority:
		return &SetAuthority{}, nil
	case TagStartLottery:
		return &StartLottery{}, nil
	case TagEndLottery:
		return &EndLottery{}, nil
	case TagBuyTicket:
		return &BuyTicket{}, nil
	case TagClaimPrize:
		return &ClaimPrize{}, nil
	case TagClaimRefund:
		return &ClaimRefund{}, nil
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnknownInstruction, uint8(tag))
	}
}
