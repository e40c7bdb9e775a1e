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

package main

import (
	"errors"

	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/internal/config"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/spf13/cobra"
)

type derivedView struct {
	Address address.Address `yaml:"address"`
	Bump    uint8           `yaml:"bump"`
}

func deriveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Compute program-derived addresses without touching the ledger",
	}
	cmd.AddCommand(
		deriveSubcommand(
			"lottery <store-id>",
			"Derive the lottery address for a registry store",
			func(cfg *config.Config, seed address.Address) (address.Address, address.Proof, error) {
				return cfg.Program.LotteryAddress(seed)
			},
		),
		deriveSubcommand(
			"ticket <ticket-key>",
			"Derive the ticket address for a ticket key",
			func(cfg *config.Config, seed address.Address) (address.Address, address.Proof, error) {
				return cfg.Program.TicketAddress(seed)
			},
		),
	)
	return cmd
}

func deriveSubcommand(
	use string,
	short string,
	derive func(*config.Config, address.Address) (address.Address, address.Proof, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				return errors.New("no config found in context")
			}
			seed, err := ledger.Ref(args[0]).Resolve()
			if err != nil {
				return err
			}
			addr, proof, err := derive(cfg, seed)
			if err != nil {
				return err
			}
			return printYaml(
				cmd.OutOrStdout(),
				derivedView{Address: addr, Bump: proof.Bump},
			)
		},
	}
}
