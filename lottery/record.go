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
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/lottery/address"
)

const (
	LotteryRecordSize = 185
	TicketRecordSize  = 105
)

type LotteryState uint8

const (
	LotteryStateCreated LotteryState = iota
	LotteryStateStarted
	LotteryStateEnded
)

func (s LotteryState) String() string {
	switch s {
	case LotteryStateCreated:
		return "created"
	case LotteryStateStarted:
		return "started"
	case LotteryStateEnded:
		return "ended"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Start returns the state after a start request
func (s LotteryState) Start() (LotteryState, error) {
	switch s {
	case LotteryStateCreated:
		return LotteryStateStarted, nil
	case LotteryStateEnded:
		return s, ErrAlreadyEnded
	default:
		return s, ErrInvalidTransition
	}
}

// End returns the state after an end request. A lottery may be ended
// before it was ever started.
func (s LotteryState) End() (LotteryState, error) {
	switch s {
	case LotteryStateCreated, LotteryStateStarted:
		return LotteryStateEnded, nil
	case LotteryStateEnded:
		return s, ErrAlreadyEnded
	default:
		return s, ErrInvalidTransition
	}
}

type TicketState uint8

const (
	TicketStateBought TicketState = iota
	TicketStateWon
	TicketStateLost
	TicketStateClaimed
)

func (s TicketState) String() string {
	switch s {
	case TicketStateBought:
		return "bought"
	case TicketStateWon:
		return "won"
	case TicketStateLost:
		return "lost"
	case TicketStateClaimed:
		return "claimed"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s TicketState) Win() (TicketState, error) {
	if s != TicketStateBought {
		return s, ErrInvalidTransition
	}
	return TicketStateWon, nil
}

func (s TicketState) Lose() (TicketState, error) {
	if s != TicketStateBought {
		return s, ErrInvalidTransition
	}
	return TicketStateLost, nil
}

func (s TicketState) Claim() (TicketState, error) {
	switch s {
	case TicketStateWon, TicketStateLost:
		return TicketStateClaimed, nil
	case TicketStateClaimed:
		return s, ErrAlreadyClaimed
	default:
		return s, ErrInvalidTransition
	}
}

// LotteryRecord is the persisted state of one lottery
type LotteryRecord struct {
	Authority       address.Address
	TokenMint       address.Address
	TokenPool       address.Address
	StoreID         address.Address
	EndedAt         uint64
	EndAt           uint64
	State           LotteryState
	PrizeSupply     uint64
	TicketPrice     uint64
	TicketSupply    uint64
	TicketsSold     uint64
	WinnersAssigned uint64
}

func DecodeLotteryRecord(data []byte) (*LotteryRecord, error) {
	if len(data) != LotteryRecordSize {
		return nil, fmt.Errorf(
			"%w: lottery record is %d bytes",
			ErrDecode,
			len(data),
		)
	}
	ret := &LotteryRecord{}
	copy(ret.Authority[:], data[0:32])
	copy(ret.TokenMint[:], data[32:64])
	copy(ret.TokenPool[:], data[64:96])
	copy(ret.StoreID[:], data[96:128])
	ret.EndedAt = binary.LittleEndian.Uint64(data[128:136])
	ret.EndAt = binary.LittleEndian.Uint64(data[136:144])
	ret.State = LotteryState(data[144])
	if ret.State > LotteryStateEnded {
		return nil, fmt.Errorf(
			"%w: unknown lottery state %d",
			ErrDecode,
			data[144],
		)
	}
	ret.PrizeSupply = binary.LittleEndian.Uint64(data[145:153])
	ret.TicketPrice = binary.LittleEndian.Uint64(data[153:161])
	ret.TicketSupply = binary.LittleEndian.Uint64(data[161:169])
	ret.TicketsSold = binary.LittleEndian.Uint64(data[169:177])
	ret.WinnersAssigned = binary.LittleEndian.Uint64(data[177:185])
	return ret, nil
}

func (r *LotteryRecord) Encode() []byte {
	ret := make([]byte, LotteryRecordSize)
	copy(ret[0:32], r.Authority[:])
	copy(ret[32:64], r.TokenMint[:])
	copy(ret[64:96], r.TokenPool[:])
	copy(ret[96:128], r.StoreID[:])
	binary.LittleEndian.PutUint64(ret[128:136], r.EndedAt)
	binary.LittleEndian.PutUint64(ret[136:144], r.EndAt)
	ret[144] = byte(r.State)
	binary.LittleEndian.PutUint64(ret[145:153], r.PrizeSupply)
	binary.LittleEndian.PutUint64(ret[153:161], r.TicketPrice)
	binary.LittleEndian.PutUint64(ret[161:169], r.TicketSupply)
	binary.LittleEndian.PutUint64(ret[169:177], r.TicketsSold)
	binary.LittleEndian.PutUint64(ret[177:185], r.WinnersAssigned)
	return ret
}

// TicketRecord is the persisted state of one purchased ticket
type TicketRecord struct {
	Owner      address.Address
	LotteryID  address.Address
	State      TicketState
	PrizeIndex uint64
	TicketKey  address.Address
}

func DecodeTicketRecord(data []byte) (*TicketRecord, error) {
	if len(data) != TicketRecordSize {
		return nil, fmt.Errorf(
			"%w: ticket record is %d bytes",
			ErrDecode,
			len(data),
		)
	}
	ret := &TicketRecord{}
	copy(ret.Owner[:], data[0:32])
	copy(ret.LotteryID[:], data[32:64])
	ret.State = TicketState(data[64])
	if ret.State > TicketStateClaimed {
		return nil, fmt.Errorf(
			"%w: unknown ticket state %d",
			ErrDecode,
			data[64],
		)
	}
	ret.PrizeIndex = binary.LittleEndian.Uint64(data[65:73])
	copy(ret.TicketKey[:], data[73:105])
	return ret, nil
}

func (r *TicketRecord) Encode() []byte {
	ret := make([]byte, TicketRecordSize)
	copy(ret[0:32], r.Owner[:])
	copy(ret[32:64], r.LotteryID[:])
	ret[64] = byte(r.State)
	binary.LittleEndian.PutUint64(ret[65:73], r.PrizeIndex)
	copy(ret[73:105], r.TicketKey[:])
	return ret
}
