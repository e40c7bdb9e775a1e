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

package instruction

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
)

type envelope struct {
	cbor.StructAsArray
	Tag  Tag
	Args cbor.RawMessage
}

// Encode returns the CBOR form of an instruction: [tag, args]
func Encode(ins Instruction) ([]byte, error) {
	args, err := cbor.Encode(ins)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", ins.Tag(), err)
	}
	env := envelope{
		Tag:  ins.Tag(),
		Args: cbor.RawMessage(args),
	}
	return cbor.Encode(&env)
}

// Decode parses the CBOR form of an instruction
func Decode(data []byte) (Instruction, error) {
	var env envelope
	if _, err := cbor.Decode(data, &env); err != nil {
		return nil, fmt.Errorf("decode instruction envelope: %w", err)
	}
	ret, err := New(env.Tag)
	if err != nil {
		return nil, err
	}
	if _, err := cbor.Decode(env.Args, ret); err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", env.Tag, err)
	}
	return ret, nil
}
