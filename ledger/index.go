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
	"fmt"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/database"
	"github.com/blinklabs-io/lottery/lottery"
)

// indexRecords refreshes the lottery or ticket index entry when the account
// holds a program record
func (ls *LedgerState) indexRecords(info *account.Info, txn *database.Txn) error {
	if info.Owner != ls.Program().ProgramID {
		return nil
	}
	switch len(info.Data) {
	case lottery.LotteryRecordSize:
		rec, err := lottery.DecodeLotteryRecord(info.Data)
		if err != nil {
			return err
		}
		return ls.db.LotteryIndexSet(info.Address, rec, txn)
	case lottery.TicketRecordSize:
		rec, err := lottery.DecodeTicketRecord(info.Data)
		if err != nil {
			return err
		}
		return ls.db.TicketIndexSet(info.Address, rec, txn)
	}
	return nil
}

// persist writes a snapshot and its index entries within txn
func (ls *LedgerState) persist(info *account.Info, txn *database.Txn) error {
	if err := ls.db.AccountSet(info, txn); err != nil {
		return fmt.Errorf("store account %s: %w", info.Address, err)
	}
	if err := ls.indexRecords(info, txn); err != nil {
		return fmt.Errorf("index account %s: %w", info.Address, err)
	}
	info.ClearDirty()
	return nil
}

// Reindex rebuilds the metadata index from the stored account snapshots and
// returns the number of accounts visited
func (ls *LedgerState) Reindex() (int, error) {
	ls.Lock()
	defer ls.Unlock()
	var count int
	err := ls.db.Transaction(true).Do(func(txn *database.Txn) error {
		addrs, err := ls.db.AccountAddresses(txn)
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			info, err := ls.db.AccountGet(addr, txn)
			if err != nil {
				return err
			}
			if err := ls.db.AccountIndexSet(info, txn); err != nil {
				return err
			}
			if err := ls.indexRecords(info, txn); err != nil {
				return err
			}
		}
		count = len(addrs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
