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

	"github.com/blinklabs-io/lottery/ledger"
	"github.com/spf13/cobra"
)

func loadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [genesis-file]",
		Short: "Load wallets, mints, stores and token accounts from a genesis file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(s *session) error {
				path := s.cfg.Genesis
				if len(args) > 0 {
					path = args[0]
				}
				if path == "" {
					return errors.New("no genesis file specified")
				}
				genesis, err := ledger.LoadGenesis(path)
				if err != nil {
					return err
				}
				if err := s.ledger.ApplyGenesis(cmd.Context(), genesis); err != nil {
					return fmt.Errorf("failed to apply genesis: %w", err)
				}
				s.logger.Info(
					"loaded genesis from "+path,
					"component", programName,
				)
				return nil
			})
		},
	}
	return cmd
}
