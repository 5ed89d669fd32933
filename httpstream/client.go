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
	"context"
	"net"
	"sync"

	ectx "github.com/sabouaram/netreactor/context"
	"github.com/sabouaram/netreactor/reactor"
	"github.com/sabouaram/netreactor/tcp"
)

// Client wraps a tcp.Client, attaching a response Framer to each dialed
// connection and maintaining the id → Conn map spec.md §4.9 describes for
// the client role.
type Client struct {
	opt ClientOptions
	tcp *tcp.Client

	mu    sync.Mutex
	conns map[uint64]*Conn
}

// NewClient validates opt and builds the underlying tcp.Client.
func NewClient(opt ClientOptions) (*Client, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	c := &Client{opt: opt, conns: map[uint64]*Conn{}}

	t, err := tcp.NewClient(opt.TCP)
	if err != nil {
		return nil, err
	}
	c.tcp = t
	return c, nil
}

// Launch starts the client's underlying reactor.Center.
func (c *Client) Launch(ctx context.Context) error {
	return c.tcp.Launch(ctx)
}

// Shutdown stops the client, closing every HTTP connection it owns.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.tcp.Shutdown(ctx)
}

// Values returns the underlying tcp.Client's engine context, letting
// handlers share per-client state without a package-level global.
func (c *Client) Values() ectx.Config[string] { return c.tcp.Values() }

// Dial resolves address under opt.Network (default protocol.NetworkTCP) and
// connects to it, returning the Conn the framer and callbacks are attached
// to.
func (c *Client) Dial(address string) (*Conn, error) {
	network, err := resolveNetwork(c.opt.Network)
	if err != nil {
		return nil, ErrorOptionsValidate.Error(err)
	}

	addr, err := net.ResolveTCPAddr(network, address)
	if err != nil {
		return nil, ErrorOptionsValidate.Error(err)
	}

	hc := &Conn{framer: NewFramer(KindResponse)}

	cb := reactor.Callbacks{
		Received: func(rc *reactor.Conn) bool {
			err := hc.framer.Run(rc.Recv(), func(pkt *Packet) {
				if c.opt.OnResponse != nil {
					c.opt.OnResponse(hc, pkt)
				}
			})
			if err != nil {
				c.opt.TCP.Metrics.FramingError()
				return false
			}
			return true
		},
		Closed: func(rc *reactor.Conn) bool {
			c.mu.Lock()
			delete(c.conns, rc.ID())
			c.mu.Unlock()

			if c.opt.OnClosed != nil {
				c.opt.OnClosed(hc)
			}
			return true
		},
	}

	rc, err := c.tcp.Dial(addr, cb)
	if err != nil {
		return nil, err
	}

	hc.raw = rc
	rc.SetCookie(hc)

	c.mu.Lock()
	c.conns[rc.ID()] = hc
	c.mu.Unlock()

	return hc, nil
}
