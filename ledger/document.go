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
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/instruction"
	"gopkg.in/yaml.v3"
)

// TransactionDocument is the YAML form of a Transaction. The operation is
// given either by name with optional args, or as hex-encoded CBOR
type TransactionDocument struct {
	Instruction string       `yaml:"instruction"`
	Encoded     string       `yaml:"encoded"`
	Args        yaml.Node    `yaml:"args"`
	Accounts    []AccountRef `yaml:"accounts"`
}

type AccountRef struct {
	Address  Ref  `yaml:"address"`
	Signer   bool `yaml:"signer"`
	Writable bool `yaml:"writable"`
}

// ParseTransaction decodes a YAML transaction document
func ParseTransaction(buf []byte) (Transaction, error) {
	var doc TransactionDocument
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return Transaction{}, fmt.Errorf("parse transaction: %w", err)
	}
	return doc.Transaction()
}

// LoadTransaction reads a YAML transaction document from a file
func LoadTransaction(path string) (Transaction, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Transaction{}, fmt.Errorf("read transaction: %w", err)
	}
	return ParseTransaction(buf)
}

func (d *TransactionDocument) Transaction() (Transaction, error) {
	var ins instruction.Instruction
	switch {
	case d.Encoded != "" && d.Instruction != "":
		return Transaction{}, errors.New("transaction sets both instruction and encoded")
	case d.Encoded != "":
		data, err := hex.DecodeString(strings.TrimSpace(d.Encoded))
		if err != nil {
			return Transaction{}, fmt.Errorf("decode hex instruction: %w", err)
		}
		if ins, err = instruction.Decode(data); err != nil {
			return Transaction{}, err
		}
	case d.Instruction != "":
		tag, err := instruction.ParseTag(d.Instruction)
		if err != nil {
			return Transaction{}, err
		}
		if ins, err = instruction.New(tag); err != nil {
			return Transaction{}, err
		}
		if !d.Args.IsZero() {
			if err := d.Args.Decode(ins); err != nil {
				return Transaction{}, fmt.Errorf("decode %s args: %w", d.Instruction, err)
			}
		}
	default:
		return Transaction{}, ErrNilInstruction
	}
	metas := make([]account.Meta, 0, len(d.Accounts))
	for i, ref := range d.Accounts {
		addr, err := ref.Address.Resolve()
		if err != nil {
			return Transaction{}, fmt.Errorf("account %d: %w", i, err)
		}
		metas = append(metas, account.NewMeta(addr, ref.Signer, ref.Writable))
	}
	return Transaction{Instruction: ins, Accounts: metas}, nil
}
