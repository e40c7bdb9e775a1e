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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/internal/config"
	"github.com/blinklabs-io/lottery/ledger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// session holds everything a command needs to work against the ledger
type session struct {
	cfg             *config.Config
	logger          *slog.Logger
	eventBus        *event.EventBus
	registry        *prometheus.Registry
	ledger          *ledger.LedgerState
	shutdownTracing func(context.Context) error
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, errors.New("no config found in context")
	}
	s := &session{
		cfg:      cfg,
		logger:   slog.Default(),
		registry: prometheus.NewRegistry(),
	}
	if cfg.Tracing {
		shutdown, err := setupTracing(cmd.Context(), cfg)
		if err != nil {
			return nil, err
		}
		s.shutdownTracing = shutdown
	}
	s.eventBus = event.NewEventBus(s.registry, s.logger)
	for _, eventType := range ledger.EventTypes {
		s.eventBus.SubscribeFunc(eventType, s.logEvent)
	}
	ls, err := ledger.NewLedgerState(ledger.LedgerStateConfig{
		Logger:         s.logger,
		EventBus:       s.eventBus,
		PromRegistry:   s.registry,
		Clock:          cfg.Clock(),
		Program:        cfg.Program,
		DataDir:        cfg.DataDir,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
	if err != nil {
		s.eventBus.Stop()
		return nil, errors.Join(
			fmt.Errorf("failed to load ledger: %w", err),
			s.stopTracing(cmd.Context()),
		)
	}
	s.ledger = ls
	return s, nil
}

func (s *session) logEvent(evt event.Event) {
	data, ok := evt.Data.(ledger.LotteryEvent)
	if !ok {
		return
	}
	s.logger.Info(
		"event "+string(evt.Type),
		"component", programName,
		"lottery", data.Lottery.String(),
		"ticket", data.Ticket.String(),
		"amount", data.Amount,
	)
}

func (s *session) stopTracing(ctx context.Context) error {
	if s.shutdownTracing == nil {
		return nil
	}
	if err := s.shutdownTracing(ctx); err != nil {
		return fmt.Errorf("tracing shutdown: %w", err)
	}
	return nil
}

// Close releases the ledger, flushes pending events and writes out metrics
func (s *session) Close(ctx context.Context) error {
	var err error
	if closeErr := s.ledger.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("ledger state close: %w", closeErr))
	}
	s.eventBus.Stop()
	if s.cfg.MetricsFile != "" {
		if writeErr := prometheus.WriteToTextfile(s.cfg.MetricsFile, s.registry); writeErr != nil {
			err = errors.Join(err, fmt.Errorf("write metrics: %w", writeErr))
		}
	}
	return errors.Join(err, s.stopTracing(ctx))
}

// withSession runs fn against an open session and closes it afterward
func withSession(
	cmd *cobra.Command,
	fn func(*session) error,
) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	return errors.Join(fn(s), s.Close(cmd.Context()))
}
