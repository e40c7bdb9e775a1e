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

	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database/types"
)

var ErrAccountNotFound = errors.New("account not found")

// Account indexes an account snapshot held in the blob store by its owner
type Account struct {
	Address  []byte       `gorm:"uniqueIndex;size:32"`
	Owner    []byte       `gorm:"index;size:32"`
	ID       uint         `gorm:"primarykey"`
	Lamports types.Uint64 `gorm:"not null"`
	DataLen  int
}

func (a *Account) TableName() string {
	return "account"
}

// String returns the bech32 form of the account address
func (a *Account) String() (string, error) {
	addr, err := address.NewAddress(a.Address)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}
