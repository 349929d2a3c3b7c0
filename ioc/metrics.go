/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package ioc

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the sink the runtime feeds with event-path counters. The
// default sink discards everything; NewPromMetrics returns one that doubles
// as a prometheus.Collector for the caller to register.
type Metrics interface {
	// IncPosted counts one stamped post entering the substrate.
	IncPosted()

	// IncDispatched counts one descriptor handed to subscribers.
	IncDispatched()

	// IncDropped counts one post refused for backpressure.
	IncDropped()

	// SetQueueDepth tracks the auto-link queue fill level.
	SetQueueDepth(n uint64)
}

type nopMetrics struct{}

func (nopMetrics) IncPosted()          {}
func (nopMetrics) IncDispatched()      {}
func (nopMetrics) IncDropped()         {}
func (nopMetrics) SetQueueDepth(uint64) {}

type promMetrics struct {
	pst prometheus.Counter
	dsp prometheus.Counter
	drp prometheus.Counter
	dpt prometheus.Gauge
}

// NewPromMetrics returns a prometheus-backed sink. The result implements
// prometheus.Collector; registering it is left to the caller.
func NewPromMetrics(namespace string) interface {
	Metrics
	prometheus.Collector
} {
	return &promMetrics{
		pst: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ioc",
			Name:      "event_posted_total",
			Help:      "Number of message descriptors stamped and posted.",
		}),
		dsp: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ioc",
			Name:      "event_dispatched_total",
			Help:      "Number of event descriptors handed to subscribers.",
		}),
		drp: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ioc",
			Name:      "event_dropped_total",
			Help:      "Number of posts refused for backpressure.",
		}),
		dpt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ioc",
			Name:      "event_queue_depth",
			Help:      "Auto-link event queue fill level.",
		}),
	}
}

func (m *promMetrics) IncPosted() {
	m.pst.Inc()
}

func (m *promMetrics) IncDispatched() {
	m.dsp.Inc()
}

func (m *promMetrics) IncDropped() {
	m.drp.Inc()
}

func (m *promMetrics) SetQueueDepth(n uint64) {
	m.dpt.Set(float64(n))
}

func (m *promMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.pst.Describe(ch)
	m.dsp.Describe(ch)
	m.drp.Describe(ch)
	m.dpt.Describe(ch)
}

func (m *promMetrics) Collect(ch chan<- prometheus.Metric) {
	m.pst.Collect(ch)
	m.dsp.Collect(ch)
	m.drp.Collect(ch)
	m.dpt.Collect(ch)
}
