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
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/spf13/cobra"
)

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Show committed ledger state",
	}
	cmd.AddCommand(
		queryLotteryCommand(),
		queryTicketCommand(),
		queryAccountCommand(),
		queryBalanceCommand(),
	)
	return cmd
}

func queryLotteryCommand() *cobra.Command {
	var byStore bool
	cmd := &cobra.Command{
		Use:   "lottery <address>",
		Short: "Show a lottery record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := ledger.Ref(args[0]).Resolve()
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				var addr address.Address
				var rec *lottery.LotteryRecord
				if byStore {
					addr, rec, err = s.ledger.LotteryForStore(ref)
				} else {
					addr = ref
					rec, err = s.ledger.Lottery(ref)
				}
				if err != nil {
					return err
				}
				return printYaml(cmd.OutOrStdout(), newLotteryView(addr, rec))
			})
		},
	}
	cmd.Flags().BoolVar(&byStore, "store", false, "treat the argument as a registry store ID")
	return cmd
}

func queryTicketCommand() *cobra.Command {
	var byKey bool
	cmd := &cobra.Command{
		Use:   "ticket <address>",
		Short: "Show a ticket record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := ledger.Ref(args[0]).Resolve()
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				var addr address.Address
				var rec *lottery.TicketRecord
				if byKey {
					addr, rec, err = s.ledger.TicketByKey(ref)
				} else {
					addr = ref
					rec, err = s.ledger.Ticket(ref)
				}
				if err != nil {
					return err
				}
				return printYaml(cmd.OutOrStdout(), newTicketView(addr, rec))
			})
		},
	}
	cmd.Flags().BoolVar(&byKey, "key", false, "treat the argument as a ticket key")
	return cmd
}

func queryAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "Show an account snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := ledger.Ref(args[0]).Resolve()
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				info, err := s.ledger.Account(addr)
				if err != nil {
					return err
				}
				return printYaml(cmd.OutOrStdout(), newAccountView(info))
			})
		},
	}
	return cmd
}

func queryBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <token-account>",
		Short: "Show the balance of a token account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := ledger.Ref(args[0]).Resolve()
			if err != nil {
				return err
			}
			return withSession(cmd, func(s *session) error {
				balance, err := s.ledger.TokenBalance(addr)
				if err != nil {
					return err
				}
				return printYaml(
					cmd.OutOrStdout(),
					map[string]any{"address": addr, "balance": balance},
				)
			})
		},
	}
	return cmd
}
