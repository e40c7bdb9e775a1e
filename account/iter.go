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

package account

import (
	"fmt"

	"github.com/blinklabs-io/lottery/address"
)

// Loader returns the stored snapshot for an address. Implementations return
// an empty Info with a zero owner for unknown addresses.
type Loader func(addr address.Address) (*Info, error)

// Load builds the snapshot list for an ordered record list. Addresses listed
// more than once share a single snapshot whose signer and writable flags are
// the union of all entries.
func Load(metas []Meta, loader Loader) ([]*Info, error) {
	ret := make([]*Info, 0, len(metas))
	seen := make(map[address.Address]*Info, len(metas))
	for _, meta := range metas {
		if info, ok := seen[meta.Address]; ok {
			info.IsSigner = info.IsSigner || meta.IsSigner
			info.IsWritable = info.IsWritable || meta.IsWritable
			ret = append(ret, info)
			continue
		}
		info, err := loader(meta.Address)
		if err != nil {
			return nil, fmt.Errorf("load account %s: %w", meta.Address, err)
		}
		info.Address = meta.Address
		info.IsSigner = meta.IsSigner
		info.IsWritable = meta.IsWritable
		seen[meta.Address] = info
		ret = append(ret, info)
	}
	return ret, nil
}

// Unique returns the distinct snapshots in first-seen order
func Unique(infos []*Info) []*Info {
	ret := make([]*Info, 0, len(infos))
	seen := make(map[*Info]struct{}, len(infos))
	for _, info := range infos {
		if _, ok := seen[info]; ok {
			continue
		}
		seen[info] = struct{}{}
		ret = append(ret, info)
	}
	return ret
}

// Iter walks an ordered record list
type Iter struct {
	infos []*Info
	pos   int
}

func NewIter(infos []*Info) *Iter {
	return &Iter{infos: infos}
}

// Next returns the next account in the list
func (it *Iter) Next() (*Info, error) {
	if it.pos >= len(it.infos) {
		return nil, fmt.Errorf(
			"%w: wanted at least %d",
			ErrNotEnoughAccounts,
			it.pos+1,
		)
	}
	ret := it.infos[it.pos]
	it.pos++
	return ret, nil
}
