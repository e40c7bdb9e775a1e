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

// SetTicket creates or updates the index entry for a ticket
func (d *MetadataStoreSqlite) SetTicket(
	ticket *models.Ticket,
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
				"lottery_address",
				"owner",
				"ticket_key",
				"prize_index",
				"state",
			},
		),
	}).Create(ticket)
	return result.Error
}

// GetTicket returns the index entry for a ticket address
func (d *MetadataStoreSqlite) GetTicket(
	addr []byte,
	txn types.Txn,
) (*models.Ticket, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	ret := &models.Ticket{}
	result := db.Where("address = ?", addr).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, models.ErrTicketNotFound
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTicketsByLottery returns the tickets of a lottery in purchase order
func (d *MetadataStoreSqlite) GetTicketsByLottery(
	lottery []byte,
	txn types.Txn,
) ([]models.Ticket, error) {
	return d.findTickets("lottery_address = ?", lottery, txn)
}

// GetTicketsByOwner returns the tickets held by a wallet in purchase order
func (d *MetadataStoreSqlite) GetTicketsByOwner(
	owner []byte,
	txn types.Txn,
) ([]models.Ticket, error) {
	return d.findTickets("owner = ?", owner, txn)
}

func (d *MetadataStoreSqlite) findTickets(
	query string,
	arg []byte,
	txn types.Txn,
) ([]models.Ticket, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Ticket
	if result := db.Where(query, arg).Order("id").Find(&ret); result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}
