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

package reactor

import (
	"sync"

	"golang.org/x/sys/unix"

	libatm "github.com/sabouaram/netreactor/atomic"
	"github.com/sabouaram/netreactor/netpoll"
	"github.com/sabouaram/netreactor/ringbuf"
)

const defaultGrowStep = 4096

// Conn is one file descriptor owned by exactly one shard. Every field except
// cookie and the send-queue lock is touched only from that shard's
// goroutine, so the state machine itself carries no synchronization: a Conn
// never migrates shards once adopted.
type Conn struct {
	id   uint64
	kind Kind
	fd   int
	ep   Endpoint

	state State
	shard *shard

	recv *ringbuf.Buffer
	cb   Callbacks

	listener       *listenerState
	connectedFired bool

	sendMu  sync.Mutex
	sendQ   []*ringbuf.Buffer
	pending int

	cachedInterest netpoll.EventMask
	lastErr        error

	cookie libatm.Value[interface{}]
}

// listenerState carries the fields only meaningful for a Kind == KindListener
// Conn: the shard routing table it hands newly accepted streams to and the
// callbacks/buffer sizing each accepted stream inherits.
type listenerState struct {
	center   *Center
	accepted Callbacks
	recvSize int
	sendHint int
}

func newConn(id uint64, kind Kind, fd int, ep Endpoint, cb Callbacks, recvSize int) *Conn {
	if recvSize <= 0 {
		recvSize = defaultGrowStep
	}
	c := &Conn{
		id:   id,
		kind: kind,
		fd:   fd,
		ep:   ep,
		cb:   cb,
		recv: ringbuf.New(recvSize),
	}
	c.cookie = libatm.NewValue[interface{}]()
	return c
}

// ID is the connection's identifier, stable for its lifetime. Center assigns
// one monotonically on creation; it also determines which shard owns the
// connection (id % shard count).
func (c *Conn) ID() uint64 { return c.id }

// Kind reports whether this Conn is a listener or a connected stream.
func (c *Conn) Kind() Kind { return c.kind }

// State reports the connection's current lifecycle state. Safe to call from
// any goroutine; it is a plain read of a field only ever written by the
// owning shard, so a caller racing a transition may observe a stale value.
func (c *Conn) State() State { return c.state }

// Endpoint returns the local/remote addresses recorded when the connection
// was created.
func (c *Conn) Endpoint() Endpoint { return c.ep }

// Recv exposes the connection's receive buffer. An OnReceived callback reads
// from it with Find/Read/GetReadPositions/CommitRead; it must not be
// retained past the callback, since the owning shard reuses it for the next
// read.
func (c *Conn) Recv() *ringbuf.Buffer { return c.recv }

// LastError returns the error, if any, that triggered the connection's
// close.
func (c *Conn) LastError() error { return c.lastErr }

// Cookie returns the opaque value a caller previously attached with
// SetCookie, or nil. Safe for concurrent use: a higher layer (httpstream)
// typically sets it once, right after OnConnected, and reads it from
// whatever goroutine processes the parsed request.
func (c *Conn) Cookie() interface{} { return c.cookie.Load() }

// SetCookie attaches an opaque value to the connection, replacing any
// previous one.
func (c *Conn) SetCookie(v interface{}) { c.cookie.Store(v) }

// Send queues p for writing and asks the owning shard to make sure write
// interest is armed. It never blocks and never writes synchronously: even a
// call made from inside that connection's own OnReceived callback is
// delivered through the shard's mailbox like any other, trading the
// same-thread fast path the original reactor takes for a single, uniform
// code path that keeps ordering and at-most-once-close trivially correct.
func (c *Conn) Send(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if c.State() == StateClosed {
		return false
	}

	buf := ringbuf.New(len(p))
	buf.Write(p)

	c.sendMu.Lock()
	c.sendQ = append(c.sendQ, buf)
	c.pending += len(p)
	c.sendMu.Unlock()

	c.shard.submit(command{conn: c, kind: cmdReadable | cmdWritable})
	return true
}

// Pending returns the number of bytes currently queued to be written.
func (c *Conn) Pending() int {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.pending
}

// Close requests the connection be torn down. If graceful is true, any
// already-queued bytes are flushed first and OnClosed fires once the queue
// drains (or immediately, if it is already empty); otherwise the socket is
// closed on the next pass through the owning shard regardless of what is
// still queued.
func (c *Conn) Close(graceful bool) {
	kind := cmdRemoveHard
	if graceful {
		kind = cmdRemoveSoft
	}
	c.shard.submit(command{conn: c, kind: kind})
}

func (c *Conn) frontSend() (*ringbuf.Buffer, bool) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if len(c.sendQ) == 0 {
		return nil, false
	}
	return c.sendQ[0], true
}

func (c *Conn) popSend(n int) {
	c.sendMu.Lock()
	c.sendQ = c.sendQ[1:]
	c.pending -= n
	if c.pending < 0 {
		c.pending = 0
	}
	c.sendMu.Unlock()
}

func (c *Conn) sendQueueEmpty() bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return len(c.sendQ) == 0
}

func (c *Conn) setInterest(mask netpoll.EventMask) {
	if c.cachedInterest == mask {
		return
	}
	c.cachedInterest = mask
	_ = c.shard.poller.Modify(c.fd, mask)
}

// handleReadable runs one readable pass: for a listener it drains the
// accept backlog; for a stream it reads until EAGAIN, end of stream, a read
// error, or an OnReceived callback that declines to continue.
func (c *Conn) handleReadable() {
	switch c.kind {
	case KindListener:
		c.acceptLoop()
	default:
		c.readLoop()
	}
}

func (c *Conn) readLoop() {
	if c.state == StateConnecting {
		if !c.completeConnect() {
			return
		}
	}
	if c.state != StateConnected {
		return
	}

	for {
		c.recv.EnsureWritable(defaultGrowStep)
		halves := c.recv.GetWritePositions()
		iovs := nonEmpty(halves)
		if len(iovs) == 0 {
			return
		}

		n, err := unix.Readv(c.fd, iovs)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			c.fail(err)
			return
		}
		if n == 0 {
			c.fail(nil)
			return
		}

		c.recv.CommitWrite(n)
		c.shard.metrics.AddBytesRead(n)

		keepGoing := true
		if c.cb.Received != nil {
			keepGoing = c.cb.Received(c)
		}
		if !keepGoing {
			c.shard.removeHard(c)
			return
		}
		if c.state != StateConnected {
			return
		}
	}
}

// handleWriteable drains whatever is queued, completing an in-flight
// connect first if necessary.
func (c *Conn) handleWriteable() {
	if c.state == StateConnecting {
		if !c.completeConnect() {
			return
		}
	}

	for {
		front, ok := c.frontSend()
		if !ok {
			break
		}

		halves := front.GetReadPositions()
		iovs := nonEmpty(halves)
		if len(iovs) == 0 {
			c.popSend(0)
			continue
		}

		n, err := unix.Writev(c.fd, iovs)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				break
			}
			if c.cb.Sent != nil {
				c.cb.Sent(false, c)
			}
			c.fail(err)
			return
		}

		front.CommitRead(n)
		c.shard.metrics.AddBytesWritten(n)

		if !front.Empty() {
			break
		}

		c.popSend(0)
		if c.cb.Sent != nil {
			c.cb.Sent(true, c)
		}
	}

	if c.sendQueueEmpty() {
		switch c.state {
		case StateConnected:
			c.setInterest(netpoll.EventRead)
		case StateClosing:
			c.shard.removeHard(c)
		}
	}
}

func (c *Conn) completeConnect() bool {
	errno, err := unix.GetsockoptInt(c.fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		c.fail(err)
		return false
	}
	if errno != 0 {
		c.fail(unix.Errno(errno))
		return false
	}

	c.state = StateConnected
	c.cachedInterest = netpoll.EventRead
	_ = c.shard.poller.Modify(c.fd, netpoll.EventRead)

	if c.cb.Connected != nil && !c.cb.Connected(c) {
		c.shard.removeHard(c)
		return false
	}
	return true
}

func (c *Conn) fail(err error) {
	c.lastErr = err
	c.shard.removeHard(c)
}

func nonEmpty(halves [2][]byte) [][]byte {
	out := make([][]byte, 0, 2)
	for _, h := range halves {
		if len(h) > 0 {
			out = append(out, h)
		}
	}
	return out
}
