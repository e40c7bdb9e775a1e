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
	"time"

	"github.com/blinklabs-io/lottery/account"
	"github.com/blinklabs-io/lottery/address"
	"github.com/blinklabs-io/lottery/database"
	"github.com/blinklabs-io/lottery/event"
	"github.com/blinklabs-io/lottery/instruction"
	"github.com/blinklabs-io/lottery/lottery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNilInstruction = errors.New("transaction has no instruction")

// Transaction is one operation together with its ordered record list
type Transaction struct {
	Instruction instruction.Instruction
	Accounts    []account.Meta
}

// Process applies a single operation. Every listed account is loaded fresh,
// and writable accounts changed by the operation are persisted in one
// database transaction. Nothing is written when the operation fails.
func (ls *LedgerState) Process(
	ctx context.Context,
	tx Transaction,
) (*lottery.Receipt, error) {
	if tx.Instruction == nil {
		return nil, ErrNilInstruction
	}
	opName := tx.Instruction.Tag().String()
	ctx, span := ls.tracer.Start(ctx, "ledger.Process")
	defer span.End()
	span.SetAttributes(
		attribute.String("lottery.operation", opName),
		attribute.Int("lottery.accounts", len(tx.Accounts)),
	)
	ls.Lock()
	defer ls.Unlock()
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	startTime := time.Now()
	var receipt *lottery.Receipt
	err := ls.db.Transaction(true).Do(func(txn *database.Txn) error {
		infos, err := account.Load(tx.Accounts, ls.loader(txn))
		if err != nil {
			return err
		}
		receipt, err = ls.processor.Process(tx.Instruction, infos)
		if err != nil {
			return err
		}
		for _, info := range account.Unique(infos) {
			if !info.Dirty() || !info.IsWritable {
				continue
			}
			if err := ls.persist(info, txn); err != nil {
				return err
			}
		}
		return nil
	})
	ls.metrics.operationLatency.WithLabelValues(opName).
		Observe(time.Since(startTime).Seconds())
	if err != nil {
		kind := lottery.KindOf(err)
		ls.metrics.operationsTotal.WithLabelValues(opName, kind.String()).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("lottery.error_kind", kind.String()))
		ls.config.Logger.Debug(
			"operation failed",
			"component", "ledger",
			"operation", opName,
			"kind", kind.String(),
			"error", err,
		)
		return nil, err
	}
	ls.metrics.operationsTotal.WithLabelValues(opName, "ok").Inc()
	span.SetAttributes(attribute.String("lottery.address", receipt.Lottery.String()))
	ls.config.Logger.Info(
		"processed operation",
		"component", "ledger",
		"operation", opName,
		"lottery", receipt.Lottery.String(),
		"replayed", receipt.Replayed,
	)
	ls.afterCommit(receipt)
	return receipt, nil
}

// loader reads snapshots within txn. Unknown addresses load as empty
// unowned accounts
func (ls *LedgerState) loader(txn *database.Txn) account.Loader {
	return func(addr address.Address) (*account.Info, error) {
		info, err := ls.db.AccountGet(addr, txn)
		if err != nil {
			if errors.Is(err, account.ErrAccountNotFound) {
				return &account.Info{Address: addr}, nil
			}
			return nil, err
		}
		return info, nil
	}
}

// afterCommit records metrics and publishes the event for a committed
// operation
func (ls *LedgerState) afterCommit(receipt *lottery.Receipt) {
	if receipt.Replayed {
		return
	}
	var eventType event.EventType
	switch receipt.Operation {
	case instruction.TagCreateLottery:
		eventType = LotteryCreatedEventType
	case instruction.TagSetAuthority:
		eventType = LotteryAuthorityEventType
	case instruction.TagStartLottery:
		eventType = LotteryStartedEventType
	case instruction.TagEndLottery:
		eventType = LotteryEndedEventType
	case instruction.TagBuyTicket:
		eventType = TicketBoughtEventType
		ls.metrics.ticketsSold.Inc()
		if receipt.TicketState == lottery.TicketStateWon {
			ls.metrics.prizesAwarded.Inc()
		}
	case instruction.TagClaimPrize:
		eventType = PrizeClaimedEventType
		ls.metrics.claimsTotal.WithLabelValues("prize").Inc()
	case instruction.TagClaimRefund:
		eventType = RefundClaimedEventType
		ls.metrics.claimsTotal.WithLabelValues("refund").Inc()
	default:
		return
	}
	switch receipt.Operation {
	case instruction.TagCreateLottery,
		instruction.TagStartLottery,
		instruction.TagEndLottery:
		if err := ls.refreshLotteryMetrics(); err != nil {
			ls.config.Logger.Warn(
				fmt.Sprintf("failed to refresh lottery metrics: %s", err),
				"component", "ledger",
			)
		}
	}
	ls.publish(eventType, NewLotteryEvent(receipt))
}

// refreshLotteryMetrics recounts lotteries by lifecycle state from the index
func (ls *LedgerState) refreshLotteryMetrics() error {
	txn := ls.db.Transaction(false)
	defer txn.Release()
	lotteries, err := ls.db.Metadata().GetLotteries(txn.Metadata())
	if err != nil {
		return err
	}
	counts := map[lottery.LotteryState]int{
		lottery.LotteryStateCreated: 0,
		lottery.LotteryStateStarted: 0,
		lottery.LotteryStateEnded:   0,
	}
	for _, l := range lotteries {
		counts[lottery.LotteryState(l.State)]++
	}
	for state, count := range counts {
		ls.metrics.lotteries.WithLabelValues(state.String()).Set(float64(count))
	}
	return nil
}
