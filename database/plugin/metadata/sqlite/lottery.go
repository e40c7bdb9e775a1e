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

// SetLottery creates or updates the index entry for a lottery
func (d *MetadataStoreSqlite) SetLottery(
	lottery *models.Lottery,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{
				"authority",
				"store_id",
				"token_mint",
				"token_pool",
				"end_at",
				"ended_at",
				"ticket_price",
				"ticket_supply",
				"tickets_sold",
				"prize_supply",
				"winners_assigned",
				"state",
			},
		),
	}).Create(lottery)
	return result.Error
}

// GetLottery returns the index entry for a lottery address
func (d *MetadataStoreSqlite) GetLottery(
	addr []byte,
	txn types.Txn,
) (*models.Lottery, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Lottery{}
	result := db.Where("address = ?", addr).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrLotteryNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetLotteries returns every indexed lottery in creation order
func (d *MetadataStoreSqlite) GetLotteries(
	txn types.Txn,
) ([]models.Lottery, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Lottery
	if result := db.Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
