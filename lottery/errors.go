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
	"errors"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/registry"
	"github.com/blinklabs-io/lottery/token"
)

// Kind classifies why an operation was rejected
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthorization
	KindState
	KindCapacity
	KindSettlement
	KindIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindState:
		return "state"
	case KindCapacity:
		return "capacity"
	case KindSettlement:
		return "settlement"
	case KindIntegrity:
		return "integrity"
	default:
		return "unknown"
	}
}

// Error is a lottery program error with an associated kind
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Kind() Kind {
	return e.kind
}

var (
	ErrInvalidDerivedAddress = newError(KindAuthorization, "account does not match derived address")
	ErrMissingSigner         = newError(KindAuthorization, "required signer did not sign")
	ErrUnauthorized          = newError(KindAuthorization, "signer is not the lottery authority")
	ErrInvalidAuthority      = newError(KindAuthorization, "new authority does not exist")
	ErrIncorrectOwner        = newError(KindAuthorization, "account does not have correct owner")
	ErrReadOnlyAccount       = newError(KindAuthorization, "account is not writable")
	ErrTicketOwnerMismatch   = newError(KindAuthorization, "ticket does not belong to owner or lottery")
	ErrInvalidDestination    = newError(KindAuthorization, "destination is not held by the ticket owner")

	ErrInvalidState       = newError(KindState, "lottery is not currently running")
	ErrInvalidTransition  = newError(KindState, "invalid state transition")
	ErrAlreadyEnded       = newError(KindState, "lottery already ended")
	ErrAlreadyOverEndDate = newError(KindState, "lottery is past its end date")
	ErrAlreadyClaimed     = newError(KindState, "ticket already claimed")
	ErrAlreadyInitialized = newError(KindState, "account already initialized")
	ErrTicketExists       = newError(KindState, "ticket already bought by another buyer")

	ErrExceedTicketSupply = newError(KindCapacity, "ticket supply exhausted")

	ErrTokenTransferFailed = newError(KindSettlement, "token transfer failed")
	ErrInvalidTokenPool    = newError(KindSettlement, "token pool does not belong to lottery")
	ErrInvalidMint         = newError(KindSettlement, "token mint does not match lottery")

	ErrDecode            = newError(KindIntegrity, "record failed to decode")
	ErrNumericalOverflow = newError(KindIntegrity, "numerical overflow")
	ErrInvalidArgument   = newError(KindIntegrity, "invalid instruction argument")
	ErrInvalidStore      = newError(KindIntegrity, "store is not a registry record")
	ErrUninitialized     = newError(KindIntegrity, "record is not initialized")
	ErrNotEnoughAccounts = newError(KindIntegrity, "not enough accounts supplied")
)

// foreignKinds classifies errors from collaborating packages that may reach
// a caller without being wrapped by a lottery error
var foreignKinds = []struct {
	err  error
	kind Kind
}{
	{account.ErrMissingSigner, KindAuthorization},
	{account.ErrNotWritable, KindAuthorization},
	{account.ErrInvalidOwner, KindAuthorization},
	{account.ErrNotEnoughAccounts, KindIntegrity},
	{account.ErrAccountDataTooLong, KindIntegrity},
	{instruction.ErrUnknownInstruction, KindIntegrity},
	{registry.ErrNotStore, KindIntegrity},
	{token.ErrInsufficientFunds, KindSettlement},
	{token.ErrMintMismatch, KindSettlement},
	{token.ErrInvalidTokenProgram, KindSettlement},
	{token.ErrNotTokenAccount, KindSettlement},
	{token.ErrOverflow, KindSettlement},
}

// KindOf returns the kind of the first lottery error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var kindErr interface{ Kind() Kind }
	if errors.As(err, &kindErr) {
		return kindErr.Kind()
	}
	for _, tmp := range foreignKinds {
		if errors.Is(err, tmp.err) {
			return tmp.kind
		}
	}
	return KindUnknown
}
