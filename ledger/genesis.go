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
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database"
	"github.com/blinklabs-io/lottery/registry"
	"gopkg.in/yaml.v3"
)

// DefaultGenesisLamports funds genesis accounts that do not set a balance
const DefaultGenesisLamports = 1_000_000

// Genesis describes the initial accounts of a devnet ledger: funded wallets,
// registry stores, token mints and token accounts
type Genesis struct {
	Wallets       []GenesisWallet       `yaml:"wallets"`
	Mints         []GenesisMint         `yaml:"mints"`
	Stores        []GenesisStore        `yaml:"stores"`
	TokenAccounts []GenesisTokenAccount `yaml:"tokenAccounts"`
}

type GenesisWallet struct {
	Address  Ref    `yaml:"address"`
	Lamports uint64 `yaml:"lamports"`
}

type GenesisMint struct {
	Address   Ref    `yaml:"address"`
	Authority Ref    `yaml:"authority"`
	Decimals  uint8  `yaml:"decimals"`
	Lamports  uint64 `yaml:"lamports"`
}

type GenesisStore struct {
	Address    Ref    `yaml:"address"`
	Owner      Ref    `yaml:"owner"`
	Authority  Ref    `yaml:"authority"`
	PrizeCount uint64 `yaml:"prizeCount"`
	Lamports   uint64 `yaml:"lamports"`
}

type GenesisTokenAccount struct {
	Address         Ref    `yaml:"address"`
	Mint            Ref    `yaml:"mint"`
	Owner           Ref    `yaml:"owner"`
	Amount          uint64 `yaml:"amount"`
	Delegate        Ref    `yaml:"delegate"`
	DelegatedAmount uint64 `yaml:"delegatedAmount"`
	Lamports        uint64 `yaml:"lamports"`
}

// LoadGenesis reads a genesis document from a YAML file
func LoadGenesis(path string) (*Genesis, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis: %w", err)
	}
	g := &Genesis{}
	if err := yaml.Unmarshal(buf, g); err != nil {
		return nil, fmt.Errorf("parse genesis: %w", err)
	}
	return g, nil
}

// genesisBuilder collects the accounts touched by a genesis document
type genesisBuilder struct {
	ls       *LedgerState
	txn      *database.Txn
	accounts map[address.Address]*account.Info
	order    []address.Address
}

func (b *genesisBuilder) get(ref Ref, lamports uint64) (*account.Info, error) {
	addr, err := ref.Resolve()
	if err != nil {
		return nil, err
	}
	if info, ok := b.accounts[addr]; ok {
		return info, nil
	}
	info, err := b.ls.db.AccountGet(addr, b.txn)
	if err != nil {
		if !errors.Is(err, account.ErrAccountNotFound) {
			return nil, err
		}
		info = &account.Info{Address: addr}
	}
	if lamports == 0 {
		lamports = DefaultGenesisLamports
	}
	if info.Lamports < lamports {
		info.Lamports = lamports
		info.MarkDirty()
	}
	b.accounts[addr] = info
	b.order = append(b.order, addr)
	return info, nil
}

// ApplyGenesis creates the accounts described by g in one transaction
func (ls *LedgerState) ApplyGenesis(ctx context.Context, g *Genesis) error {
	_, span := ls.tracer.Start(ctx, "ledger.ApplyGenesis")
	defer span.End()
	ls.Lock()
	defer ls.Unlock()
	tokenProgram := ls.processor.Token()
	registryProgram := ls.processor.Registry()
	return ls.db.Transaction(true).Do(func(txn *database.Txn) error {
		b := &genesisBuilder{
			ls:       ls,
			txn:      txn,
			accounts: make(map[address.Address]*account.Info),
		}
		for _, w := range g.Wallets {
			if _, err := b.get(w.Address, w.Lamports); err != nil {
				return fmt.Errorf("wallet %s: %w", w.Address, err)
			}
		}
		for _, m := range g.Mints {
			info, err := b.get(m.Address, m.Lamports)
			if err != nil {
				return fmt.Errorf("mint %s: %w", m.Address, err)
			}
			authority, err := m.Authority.Resolve()
			if err != nil {
				return fmt.Errorf("mint %s authority: %w", m.Address, err)
			}
			if err := tokenProgram.InitializeMint(info, authority, m.Decimals); err != nil {
				return fmt.Errorf("mint %s: %w", m.Address, err)
			}
		}
		for _, s := range g.Stores {
			info, err := b.get(s.Address, s.Lamports)
			if err != nil {
				return fmt.Errorf("store %s: %w", s.Address, err)
			}
			owner, err := s.Owner.Resolve()
			if err != nil {
				return fmt.Errorf("store %s owner: %w", s.Address, err)
			}
			authority := owner
			if !s.Authority.IsZero() {
				if authority, err = s.Authority.Resolve(); err != nil {
					return fmt.Errorf("store %s authority: %w", s.Address, err)
				}
			}
			if err := registryProgram.InitializeStore(info, &registry.StoreRecord{
				Owner:      owner,
				Authority:  authority,
				PrizeCount: s.PrizeCount,
			}); err != nil {
				return fmt.Errorf("store %s: %w", s.Address, err)
			}
		}
		for _, ta := range g.TokenAccounts {
			if err := b.tokenAccount(ta); err != nil {
				return fmt.Errorf("token account %s: %w", ta.Address, err)
			}
		}
		for _, addr := range b.order {
			info := b.accounts[addr]
			if !info.Dirty() {
				continue
			}
			if err := ls.persist(info, txn); err != nil {
				return err
			}
		}
		ls.config.Logger.Info(
			fmt.Sprintf("applied genesis with %d accounts", len(b.order)),
			"component", "ledger",
		)
		return nil
	})
}

func (b *genesisBuilder) tokenAccount(ta GenesisTokenAccount) error {
	tokenProgram := b.ls.processor.Token()
	info, err := b.get(ta.Address, ta.Lamports)
	if err != nil {
		return err
	}
	mintInfo, err := b.get(ta.Mint, 0)
	if err != nil {
		return err
	}
	owner, err := ta.Owner.Resolve()
	if err != nil {
		return err
	}
	if err := tokenProgram.InitializeAccount(info, mintInfo, owner); err != nil {
		return err
	}
	if ta.Amount > 0 {
		mint, err := tokenProgram.LoadMint(mintInfo)
		if err != nil {
			return err
		}
		if err := tokenProgram.MintTo(mintInfo, info, mint.Authority, ta.Amount); err != nil {
			return err
		}
	}
	if !ta.Delegate.IsZero() {
		delegate, err := ta.Delegate.Resolve()
		if err != nil {
			return err
		}
		if err := tokenProgram.Approve(info, delegate, ta.DelegatedAmount); err != nil {
			return err
		}
	}
	return nil
}
