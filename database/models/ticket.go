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

var ErrTicketNotFound = errors.New("ticket not found")

// Ticket is the queryable index of a ticket record
type Ticket struct {
	Address        []byte       `gorm:"uniqueIndex;size:32"`
	LotteryAddress []byte       `gorm:"index;size:32"`
	Owner          []byte       `gorm:"index;size:32"`
	TicketKey      []byte       `gorm:"size:32"`
	ID             uint         `gorm:"primarykey"`
	PrizeIndex     types.Uint64 `gorm:"not null"`
	State          uint8        `gorm:"index"`
}

func (Ticket) TableName() string {
	return "ticket"
}
