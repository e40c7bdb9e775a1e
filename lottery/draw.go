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

package lottery

import (
	"encoding/binary"

	"github.com/blinklabs-io/lottery/address"
	"golang.org/x/crypto/blake2b"
)

// Drawer resolves the outcome of a ticket purchase. It returns the 1-based
// prize index for a winning ticket or 0 for a losing one, updating the
// winner counter of the lottery on a win.
type Drawer interface {
	Draw(rec *LotteryRecord, ticket address.Address, timestamp uint64) (uint64, error)
}

// PublicInputDrawer derives the outcome from the ticket address and the
// purchase timestamp.
//
// Both inputs are observable before the purchase, so anyone able to choose
// their ticket key or influence the timestamp can bias the outcome. This
// drawer is NOT cryptographically unpredictable and should not guard prizes
// of real value.
type PublicInputDrawer struct{}

func (PublicInputDrawer) Draw(
	rec *LotteryRecord,
	ticket address.Address,
	timestamp uint64,
) (uint64, error) {
	if rec.TicketSupply == 0 {
		return 0, ErrInvalidArgument
	}
	slot := DrawSlot(ticket, timestamp, rec.TicketSupply)
	if slot > rec.PrizeSupply || rec.WinnersAssigned >= rec.PrizeSupply {
		return 0, nil
	}
	rec.WinnersAssigned++
	return rec.WinnersAssigned, nil
}

// DrawSlot maps a ticket and timestamp onto a 1-based slot in
// [1, ticketSupply]
func DrawSlot(ticket address.Address, timestamp uint64, ticketSupply uint64) uint64 {
	sum := blake2b.Sum256(ticket[:])
	// Wrapping addition
	r := binary.LittleEndian.Uint64(sum[0:8]) + timestamp
	return r%ticketSupply + 1
}
