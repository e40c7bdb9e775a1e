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

package models

import (
	"errors"

	"github.com/blinklabs-io/lottery/database/types"
)

var ErrLotteryNotFound = errors.New("lottery not found")

// Lottery is the queryable index of a lottery record. The authoritative copy
// lives in the account data held by the blob store
type Lottery struct {
	Address         []byte       `gorm:"uniqueIndex;size:32"`
	Authority       []byte       `gorm:"index;size:32"`
	StoreID         []byte       `gorm:"index;size:32"`
	TokenMint       []byte       `gorm:"size:32"`
	TokenPool       []byte       `gorm:"size:32"`
	ID              uint         `gorm:"primarykey"`
	EndAt           types.Uint64 `gorm:"not null"`
	EndedAt         types.Uint64 `gorm:"not null"`
	TicketPrice     types.Uint64 `gorm:"not null"`
	TicketSupply    types.Uint64 `gorm:"not null"`
	TicketsSold     types.Uint64 `gorm:"not null"`
	PrizeSupply     types.Uint64 `gorm:"not null"`
	WinnersAssigned types.Uint64 `gorm:"not null"`
	State           uint8        `gorm:"index"`
}

func (Lottery) TableName() string {
	return "lottery"
}
