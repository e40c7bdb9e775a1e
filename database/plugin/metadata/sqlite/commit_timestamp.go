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

	"github.com/blinklabs-io/lottery/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// indexCommitRow is the only row in the index_commit table
const indexCommitRow = 1

// IndexCommit records when the lottery and ticket index was last written.
// The account blob store keeps a copy of the same value and the two are
// compared when the database is opened
type IndexCommit struct {
	ID        uint `gorm:"primarykey"`
	Timestamp int64
}

func (IndexCommit) TableName() string {
	return "index_commit"
}

// GetCommitTimestamp returns zero for an index that has never been written
func (d *MetadataStoreSqlite) GetCommitTimestamp() (int64, error) {
	var row IndexCommit
	err := d.DB().Where("id = ?", indexCommitRow).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Timestamp, nil
}

func (d *MetadataStoreSqlite) SetCommitTimestamp(
	timestamp int64,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timestamp"}),
	}).Create(&IndexCommit{ID: indexCommitRow, Timestamp: timestamp}).Error
}
