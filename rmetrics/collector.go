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

// Package rmetrics wraps the Prometheus collectors a reactor.Center
// optionally reports through: active connections per shard, commands
// submitted, events dispatched, and bytes moved. A nil *Collector is valid
// everywhere one is accepted — every method is a no-op on a nil receiver —
// so instrumentation is strictly additive and never gates correctness.
package rmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the counters/gauges one reactor.Center reports.
type Collector struct {
	connections *prometheus.GaugeVec
	commands    *prometheus.CounterVec
	events      *prometheus.CounterVec
	bytesRead   prometheus.Counter
	bytesWrite  prometheus.Counter
	framingErr  prometheus.Counter
}

// New builds a Collector with metric names under the given namespace (e.g.
// "netreactor"). It is not registered with any registry until Register is
// called.
func New(namespace string) *Collector {
	return &Collector{
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reactor",
			Name:      "connections",
			Help:      "Active connections currently owned by a shard.",
		}, []string{"shard"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reactor",
			Name:      "commands_submitted_total",
			Help:      "Commands submitted to a shard's mailbox.",
		}, []string{"shard"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reactor",
			Name:      "events_dispatched_total",
			Help:      "Readiness events dispatched to connections.",
		}, []string{"shard"}),
		bytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reactor",
			Name:      "bytes_read_total",
			Help:      "Bytes read from sockets across all shards.",
		}),
		bytesWrite: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reactor",
			Name:      "bytes_written_total",
			Help:      "Bytes written to sockets across all shards.",
		}),
		framingErr: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "httpstream",
			Name:      "framing_errors_total",
			Help:      "HTTP framing failures that aborted a connection.",
		}),
	}
}

// Register registers every collector with reg. It is safe to call with a
// nil Collector (a no-op).
func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil {
		return nil
	}

	for _, coll := range []prometheus.Collector{c.connections, c.commands, c.events, c.bytesRead, c.bytesWrite, c.framingErr} {
		if err := reg.Register(coll); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) ConnectionOpened(shard int) {
	if c == nil {
		return
	}
	c.connections.WithLabelValues(strconv.Itoa(shard)).Inc()
}

func (c *Collector) ConnectionClosed(shard int) {
	if c == nil {
		return
	}
	c.connections.WithLabelValues(strconv.Itoa(shard)).Dec()
}

func (c *Collector) CommandSubmitted(shard int) {
	if c == nil {
		return
	}
	c.commands.WithLabelValues(strconv.Itoa(shard)).Inc()
}

func (c *Collector) EventDispatched(shard int) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(strconv.Itoa(shard)).Inc()
}

func (c *Collector) AddBytesRead(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesRead.Add(float64(n))
}

func (c *Collector) AddBytesWritten(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesWrite.Add(float64(n))
}

func (c *Collector) FramingError() {
	if c == nil {
		return
	}
	c.framingErr.Inc()
}
