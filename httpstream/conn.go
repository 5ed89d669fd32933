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

package httpstream

import (
	"github.com/sabouaram/netreactor/reactor"
)

// Conn is the HttpConnection spec.md §4.9 describes: a stream connection
// plus the Framer assembling packets out of its receive buffer. One Conn is
// created per TCP connected event and removed on closed; the HTTP
// server/client's id → Conn map is the only strong holder, matching the
// weak-handle ownership rule in spec.md §9.
type Conn struct {
	raw    *reactor.Conn
	framer *Framer
}

// ID is the underlying TCP connection's identifier.
func (c *Conn) ID() uint64 { return c.raw.ID() }

// Endpoint returns the local/remote addresses of the underlying connection.
func (c *Conn) Endpoint() reactor.Endpoint { return c.raw.Endpoint() }

// Send serializes pkt and queues it on the underlying connection's send
// path, exactly like reactor.Conn.Send.
func (c *Conn) Send(pkt *Packet) bool {
	return c.raw.Send(pkt.Serialize())
}

// Close requests the underlying connection be torn down; graceful drains
// any queued bytes first.
func (c *Conn) Close(graceful bool) {
	c.raw.Close(graceful)
}

// Raw exposes the underlying reactor.Conn for callers that need lower-level
// access (cookies, pending byte counts) the HTTP wrapper does not surface.
func (c *Conn) Raw() *reactor.Conn { return c.raw }
