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
	"fmt"
	"io"

	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database/plugin"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/spf13/cobra"
)

func listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lotteries, tickets or plugins",
	}
	cmd.AddCommand(
		listLotteriesCommand(),
		listTicketsCommand(),
		listPluginsCommand(),
	)
	return cmd
}

func listLotteriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lotteries",
		Short: "List lotteries in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				addrs, err := s.ledger.Lotteries()
				if err != nil {
					return err
				}
				views := make([]lotteryView, 0, len(addrs))
				for _, addr := range addrs {
					rec, err := s.ledger.Lottery(addr)
					if err != nil {
						return err
					}
					views = append(views, newLotteryView(addr, rec))
				}
				return printYaml(cmd.OutOrStdout(), views)
			})
		},
	}
}

func listTicketsCommand() *cobra.Command {
	var lotteryRef, ownerRef string
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List the tickets of a lottery or a wallet in purchase order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (lotteryRef == "") == (ownerRef == "") {
				return errors.New("exactly one of --lottery or --owner is required")
			}
			return withSession(cmd, func(s *session) error {
				var addrs []address.Address
				var err error
				if lotteryRef != "" {
					lotteryAddr, resolveErr := ledger.Ref(lotteryRef).Resolve()
					if resolveErr != nil {
						return resolveErr
					}
					addrs, err = s.ledger.TicketsByLottery(lotteryAddr)
				} else {
					owner, resolveErr := ledger.Ref(ownerRef).Resolve()
					if resolveErr != nil {
						return resolveErr
					}
					addrs, err = s.ledger.TicketsByOwner(owner)
				}
				if err != nil {
					return err
				}
				views := make([]ticketView, 0, len(addrs))
				for _, addr := range addrs {
					rec, err := s.ledger.Ticket(addr)
					if err != nil {
						return err
					}
					views = append(views, newTicketView(addr, rec))
				}
				return printYaml(cmd.OutOrStdout(), views)
			})
		},
	}
	cmd.Flags().StringVar(&lotteryRef, "lottery", "", "lottery address")
	cmd.Flags().StringVar(&ownerRef, "owner", "", "ticket owner address")
	return cmd
}

func listPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List all available plugins",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeAllPlugins(cmd.OutOrStdout())
		},
	}
}

func writeAllPlugins(w io.Writer) {
	fmt.Fprintln(w, "Available plugins:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Blob Storage Plugins:")
	for _, p := range plugin.GetPlugins(plugin.PluginTypeBlob) {
		fmt.Fprintf(w, "  %s: %s\n", p.Name, p.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata Storage Plugins:")
	for _, p := range plugin.GetPlugins(plugin.PluginTypeMetadata) {
		fmt.Fprintf(w, "  %s: %s\n", p.Name, p.Description)
	}
}
