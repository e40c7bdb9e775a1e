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

package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type eventMetrics struct {
	eventsTotal   *prometheus.CounterVec
	droppedTotal  *prometheus.CounterVec
	handlerPanics *prometheus.CounterVec
	subscribers   *prometheus.GaugeVec
}

func (e *EventBus) initMetrics(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	e.metrics = &eventMetrics{
		eventsTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_bus_events_total",
				Help: "total events published by type",
			},
			[]string{"type"},
		),
		droppedTotal: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_bus_dropped_total",
				Help: "async events dropped because the queue was full",
			},
			[]string{"type"},
		),
		handlerPanics: promautoFactory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_bus_handler_panics_total",
				Help: "panics recovered from event handlers",
			},
			[]string{"type"},
		),
		subscribers: promautoFactory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "event_bus_subscribers",
				Help: "current subscribers by event type",
			},
			[]string{"type"},
		),
	}
}
