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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricNamePrefix = "lottery_ledger_"

type stateMetrics struct {
	operationsTotal  *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	ticketsSold      prometheus.Counter
	prizesAwarded    prometheus.Counter
	claimsTotal      *prometheus.CounterVec
	lotteries        *prometheus.GaugeVec
}

func (m *stateMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.operationsTotal = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricNamePrefix + "operations_total",
			Help: "processed operations by type and result",
		},
		[]string{"operation", "result"},
	)
	m.operationLatency = promautoFactory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metricNamePrefix + "operation_duration_seconds",
			Help:    "time to process and commit an operation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
		[]string{"operation"},
	)
	m.ticketsSold = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "tickets_sold_total",
		Help: "tickets sold",
	})
	m.prizesAwarded = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: metricNamePrefix + "prizes_awarded_total",
		Help: "tickets that drew a winning slot",
	})
	m.claimsTotal = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: metricNamePrefix + "claims_total",
			Help: "settled claims by kind",
		},
		[]string{"kind"},
	)
	m.lotteries = promautoFactory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: metricNamePrefix + "lotteries",
			Help: "lotteries by lifecycle state",
		},
		[]string{"state"},
	)
}
