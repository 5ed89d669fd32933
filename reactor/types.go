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

// Package reactor is the engine underneath tcp.Server/Client and
// httpstream.Server/Client: a fixed pool of single-goroutine shards, each
// running its own poller, owns a disjoint slice of connections and drives
// them through a small state machine as readiness events arrive. Nothing in
// this package resolves a hostname, dials a socket, or parses a byte of
// protocol; it only multiplexes already-open file descriptors.
package reactor

import "net"

// Kind distinguishes a listening socket, which only ever produces new
// connections, from a connected stream, which moves bytes.
type Kind uint8

const (
	KindStream Kind = iota
	KindListener
)

// State is the lifecycle a Conn moves through. It is touched only by the
// shard goroutine that owns the connection, so it carries no lock of its own.
type State uint8

const (
	StateInit State = iota
	StateConnecting
	StateConnected
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "init"
	}
}

// commandKind is a bitmask of what a mailbox entry asks the owning shard to
// do. Readable/Writable are combined by Send to mean "make sure write
// interest is set"; the others are mutually exclusive in practice.
type commandKind uint8

const (
	cmdAddConnecting commandKind = 1 << iota
	cmdAddConnected
	cmdRemoveSoft
	cmdRemoveHard
	cmdReadable
	cmdWritable
)

// command is one entry in a shard's mailbox, posted by any goroutine and
// drained only by the owning shard.
type command struct {
	conn *Conn
	kind commandKind
}

// OnConnected fires once a stream's connect completes (including an
// accepted inbound connection) or a listener is live. Returning false closes
// the connection immediately.
type OnConnected func(c *Conn) bool

// OnReceived fires after bytes have been appended to c.Recv(). Returning
// false closes the connection after the current pass.
type OnReceived func(c *Conn) bool

// OnSent fires once a queued buffer has been fully written, or failed.
type OnSent func(ok bool, c *Conn) bool

// OnClosed fires exactly once per connection, however it ends.
type OnClosed func(c *Conn) bool

// Callbacks is the small set of hooks a Conn invokes. Any field left nil is
// simply skipped.
type Callbacks struct {
	Connected OnConnected
	Received  OnReceived
	Sent      OnSent
	Closed    OnClosed
}

// Endpoint pairs the resolved addresses a Conn was opened with or accepted
// from; tcp.Server/Client fill it in before handing a fd to the reactor.
type Endpoint struct {
	Local  net.Addr
	Remote net.Addr
}
