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

// Package ledger applies lottery operations atomically against persistent
// account storage.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blinklabs-io/lottery/database"
	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/lottery"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/blinklabs-io/lottery/ledger"

type LedgerStateConfig struct {
	Logger         *slog.Logger
	EventBus       *event.EventBus
	PromRegistry   prometheus.Registerer
	Clock          lottery.Clock
	Drawer         lottery.Drawer
	Program        lottery.ProgramConfig
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
}

type LedgerState struct {
	// serializes operations
	sync.Mutex
	config    LedgerStateConfig
	db        *database.Database
	processor *lottery.Processor
	tracer    trace.Tracer
	metrics   stateMetrics
}

func NewLedgerState(cfg LedgerStateConfig) (*LedgerState, error) {
	if cfg.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.Clock == nil {
		cfg.Clock = lottery.SystemClock{}
	}
	processor, err := lottery.NewProcessor(lottery.Config{
		Program: cfg.Program,
		Clock:   cfg.Clock,
		Drawer:  cfg.Drawer,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	ls := &LedgerState{
		config:    cfg,
		processor: processor,
		tracer:    otel.Tracer(tracerName),
	}
	// Init metrics
	ls.metrics.init(ls.config.PromRegistry)
	// Load database
	needsRecovery := false
	db, err := database.New(&database.Config{
		Logger:         cfg.Logger,
		PromRegistry:   cfg.PromRegistry,
		DataDir:        cfg.DataDir,
		BlobPlugin:     cfg.BlobPlugin,
		MetadataPlugin: cfg.MetadataPlugin,
	})
	if db == nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	ls.db = db
	if err != nil {
		var dbErr database.CommitTimestampError
		if !errors.As(err, &dbErr) {
			_ = db.Close()
			return nil, err
		}
		ls.config.Logger.Warn(
			"database initialization error, needs recovery",
			"error", err,
			"component", "ledger",
		)
		needsRecovery = true
	}
	if needsRecovery {
		if err := ls.recoverCommitTimestampConflict(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to recover database: %w", err)
		}
	}
	if err := ls.refreshLotteryMetrics(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return ls, nil
}

// recoverCommitTimestampConflict rebuilds the metadata index from the
// account snapshots in the blob store, which are always committed first
func (ls *LedgerState) recoverCommitTimestampConflict() error {
	count, err := ls.Reindex()
	if err != nil {
		return err
	}
	ls.config.Logger.Info(
		fmt.Sprintf("rebuilt metadata index from %d accounts", count),
		"component", "ledger",
	)
	return nil
}

// Close releases the database. The event bus belongs to the caller
func (ls *LedgerState) Close() error {
	return ls.db.Close()
}

func (ls *LedgerState) Database() *database.Database {
	return ls.db
}

func (ls *LedgerState) Processor() *lottery.Processor {
	return ls.processor
}

func (ls *LedgerState) Program() lottery.ProgramConfig {
	return ls.processor.Program()
}

func (ls *LedgerState) Clock() lottery.Clock {
	return ls.config.Clock
}

func (ls *LedgerState) publish(eventType event.EventType, data any) {
	if ls.config.EventBus == nil {
		return
	}
	// Bus workers deliver the event outside the ledger lock
	if !ls.config.EventBus.PublishAsync(eventType, event.NewEvent(eventType, data)) {
		ls.config.Logger.Warn(
			"dropped event "+string(eventType),
			"component", "ledger",
		)
	}
}
