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

package tcp

import (
	"context"
	"net"

	"golang.org/x/sys/unix"

	ectx "github.com/sabouaram/netreactor/context"
	"github.com/sabouaram/netreactor/reactor"
	"github.com/sabouaram/netreactor/runner/startStop"
)

// Client owns a reactor.Center dedicated to outbound connections. Multiple
// Dial calls against one Client share its worker pool.
type Client struct {
	opt    Options
	center *reactor.Center
	runner startStop.StartStop
}

// NewClient validates opt and builds the Client's reactor.Center.
func NewClient(opt Options) (*Client, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	center, err := opt.newCenter()
	if err != nil {
		return nil, err
	}

	c := &Client{opt: opt, center: center}
	c.runner = startStop.New(
		func(ctx context.Context) error {
			if err := center.Launch(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
		func(ctx context.Context) error { return center.Shutdown(ctx) },
	)
	return c, nil
}

// Launch starts the client's reactor.Center in the background. Dial fails
// with reactor.ErrorCenterClosed while the Center is not running.
func (c *Client) Launch(ctx context.Context) error {
	return c.runner.Start(ctx)
}

// Shutdown stops the client's reactor.Center, closing every outbound
// connection it owns.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.runner.Stop(ctx)
}

// Dial creates a non-blocking socket, connects it toward remote, and hands
// it to the reactor. cb drives the resulting connection; the Options'
// Callbacks field is not used, letting one Client dial several peers with
// different handlers.
func (c *Client) Dial(remote *net.TCPAddr, cb reactor.Callbacks) (*reactor.Conn, error) {
	fd, inProgress, err := createConnectSocket(remote, c.opt.TCPSendBufferSize, c.opt.TCPReceiveBufferSize)
	if err != nil {
		return nil, err
	}

	local := localAddr(fd)
	conn, err := c.center.Connect(fd, reactor.Endpoint{Local: local, Remote: remote}, cb, c.opt.ReceiveBufferSize, inProgress)
	if err != nil {
		_ = unix.Close(fd)
		return nil, err
	}
	return conn, nil
}

// Values returns the underlying reactor.Center's engine context, letting
// Callbacks share per-client state without a package-level global.
func (c *Client) Values() ectx.Config[string] { return c.center.Values() }

func localAddr(fd int) net.Addr {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return nil
	}
	return sockaddrToNetAddr(sa)
}
