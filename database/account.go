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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database/models"
	"github.com/blinklabs-io/lottery/database/types"
)

// AccountGet loads the stored snapshot for addr. It returns
// account.ErrAccountNotFound when nothing has been stored at the address
func (d *Database) AccountGet(
	addr address.Address,
	txn *Txn,
) (*account.Info, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	if txn.Blob() == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	val, err := d.Blob().Get(txn.Blob(), types.AccountBlobKey(addr.Bytes()))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", account.ErrAccountNotFound, addr)
		}
		return nil, err
	}
	var tmpBlob types.AccountBlob
	if _, err := cbor.Decode(val, &tmpBlob); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", addr, err)
	}
	owner, err := address.NewAddress(tmpBlob.Owner)
	if err != nil {
		return nil, fmt.Errorf("decode account %s owner: %w", addr, err)
	}
	return &account.Info{
		Address:  addr,
		Owner:    owner,
		Lamports: tmpBlob.Lamports,
		Data:     tmpBlob.Data,
	}, nil
}

// AccountSet stores the snapshot and refreshes its index entry
func (d *Database) AccountSet(info *account.Info, txn *Txn) error {
	if txn == nil {
		return d.Transaction(true).Do(func(txn *Txn) error {
			return d.AccountSet(info, txn)
		})
	}
	if txn.Blob() == nil {
		return types.ErrBlobStoreUnavailable
	}
	tmpBlob := types.AccountBlob{
		Owner:    info.Owner.Bytes(),
		Lamports: info.Lamports,
		Data:     info.Data,
	}
	val, err := cbor.Encode(&tmpBlob)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", info.Address, err)
	}
	if err := d.Blob().Set(
		txn.Blob(),
		types.AccountBlobKey(info.Address.Bytes()),
		val,
	); err != nil {
		return err
	}
	if txn.Metadata() == nil {
		return nil
	}
	return d.AccountIndexSet(info, txn)
}

// AccountIndexSet refreshes only the metadata index entry for an account
func (d *Database) AccountIndexSet(info *account.Info, txn *Txn) error {
	return d.Metadata().SetAccount(
		&models.Account{
			Address:  info.Address.Bytes(),
			Owner:    info.Owner.Bytes(),
			Lamports: types.Uint64(info.Lamports),
			DataLen:  len(info.Data),
		},
		txn.Metadata(),
	)
}

// AccountAddresses lists every account held by the blob store in key order
func (d *Database) AccountAddresses(txn *Txn) ([]address.Address, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	if txn.Blob() == nil {
		return nil, types.ErrBlobStoreUnavailable
	}
	prefix := []byte(types.AccountBlobKeyPrefix)
	iter := d.Blob().NewIterator(
		txn.Blob(),
		types.BlobIteratorOptions{Prefix: prefix},
	)
	defer iter.Close()
	var ret []address.Address
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		key := iter.Item().Key()
		addr, err := address.NewAddress(key[len(prefix):])
		if err != nil {
			return nil, fmt.Errorf("invalid account key %x: %w", key, err)
		}
		ret = append(ret, addr)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

// AccountsByOwner returns the addresses of indexed accounts owned by owner
func (d *Database) AccountsByOwner(
	owner address.Address,
	txn *Txn,
) ([]address.Address, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	accounts, err := d.Metadata().GetAccountsByOwner(
		owner.Bytes(),
		txn.Metadata(),
	)
	if err != nil {
		return nil, err
	}
	ret := make([]address.Address, 0, len(accounts))
	for _, tmpAccount := range accounts {
		addr, err := address.NewAddress(tmpAccount.Address)
		if err != nil {
			return nil, err
		}
		ret = append(ret, addr)
	}
	return ret, nil
}
