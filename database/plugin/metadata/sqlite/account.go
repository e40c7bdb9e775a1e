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

package sqlite

import (
	"errors"

	"github.com/blinklabs-io/lottery/database/models"
	"github.com/blinklabs-io/lottery/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetAccount creates or updates the index entry for an account
func (d *MetadataStoreSqlite) SetAccount(
	account *models.Account,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"owner", "lamports", "data_len"},
		),
	}).Create(account)
	return result.Error
}

// GetAccount returns the index entry for an account address
func (d *MetadataStoreSqlite) GetAccount(
	addr []byte,
	txn types.Txn,
) (*models.Account, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Account{}
	result := db.Where("address = ?", addr).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetAccountsByOwner returns all indexed accounts owned by the given program
// or wallet, in insertion order
func (d *MetadataStoreSqlite) GetAccountsByOwner(
	owner []byte,
	txn types.Txn,
) ([]models.Account, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Account
	result := db.Where("owner = ?", owner).Order("id").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
