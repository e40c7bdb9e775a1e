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
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/spf13/cobra"
)

func processCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <transaction-file>...",
		Short: "Apply transactions in order, stopping at the first failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Parse everything up front so a bad document applies nothing
			txs := make([]ledger.Transaction, 0, len(args))
			for _, path := range args {
				tx, err := ledger.LoadTransaction(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				txs = append(txs, tx)
			}
			return withSession(cmd, func(s *session) error {
				for i, tx := range txs {
					receipt, err := s.ledger.Process(cmd.Context(), tx)
					if err != nil {
						return fmt.Errorf("%s: %w", args[i], err)
					}
					if err := printYaml(cmd.OutOrStdout(), newReceiptView(receipt)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	return cmd
}

func encodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <transaction-file>",
		Short: "Print the hex CBOR encoding of a transaction's instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := ledger.LoadTransaction(args[0])
			if err != nil {
				return err
			}
			data, err := instruction.Encode(tx.Instruction)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return err
		},
	}
	return cmd
}
