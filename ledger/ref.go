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
	"strings"

	"github.com/blinklabs-io/lottery/address"
)

// Ref names an account in YAML documents. A value carrying the bech32
// prefix is parsed as an address, anything else is treated as a label and
// hashed with address.FromLabel
type Ref string

func (r Ref) Resolve() (address.Address, error) {
	s := strings.TrimSpace(string(r))
	if strings.HasPrefix(s, address.HumanReadablePart+"1") {
		return address.ParseAddress(s)
	}
	return address.FromLabel(s), nil
}

// IsZero reports whether the reference was left empty
func (r Ref) IsZero() bool {
	return strings.TrimSpace(string(r)) == ""
}
