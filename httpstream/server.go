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

// Server wraps a tcp.Server, attaching a Framer to each accepted connection
// and maintaining the id → Conn map spec.md §4.9 describes. It is the HTTP
// server role: each connection's Framer parses requests.
type Server struct {
	opt ServerOptions
	tcp *tcp.Server

	mu    sync.Mutex
	conns map[uint64]*Conn
}

// NewServer validates opt and builds the underlying tcp.Server. opt.TCP.
// Callbacks is replaced with the HTTP adaptation layer; any callbacks set
// there are ignored.
func NewServer(opt ServerOptions) (*Server, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	s := &Server{opt: opt, conns: map[uint64]*Conn{}}

	tcpOpt := opt.TCP
	tcpOpt.Callbacks = reactor.Callbacks{
		Connected: s.onConnected,
		Received:  s.onReceived,
		Closed:    s.onClosed,
	}

	t, err := tcp.NewServer(tcpOpt)
	if err != nil {
		return nil, err
	}
	s.tcp = t
	return s, nil
}

// Launch resolves address under opt.Network (default protocol.NetworkTCP)
// and starts accepting connections.
func (s *Server) Launch(ctx context.Context, address string) error {
	network, err := resolveNetwork(s.opt.Network)
	if err != nil {
		return ErrorOptionsValidate.Error(err)
	}

	addr, err := net.ResolveTCPAddr(network, address)
	if err != nil {
		return ErrorOptionsValidate.Error(err)
	}

	return s.tcp.Launch(ctx, addr)
}

// Values returns the underlying tcp.Server's engine context, letting
// handlers share per-server state without a package-level global.
func (s *Server) Values() ectx.Config[string] { return s.tcp.Values() }

// Shutdown stops the server, closing every HTTP connection it owns.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.tcp.Shutdown(ctx)
}

// Addr returns the address the listener is bound to, or nil before Launch
// completes.
func (s *Server) Addr() *net.TCPAddr { return s.tcp.Addr() }

// Running reports whether the server is currently accepting connections.
func (s *Server) Running() bool { return s.tcp.Running() }

func (s *Server) onConnected(rc *reactor.Conn) bool {
	hc := &Conn{raw: rc, framer: NewFramer(KindRequest)}
	rc.SetCookie(hc)

	s.mu.Lock()
	s.conns[rc.ID()] = hc
	s.mu.Unlock()
	return true
}

func (s *Server) onReceived(rc *reactor.Conn) bool {
	hc, _ := rc.Cookie().(*Conn)
	if hc == nil {
		return false
	}

	err := hc.framer.Run(rc.Recv(), func(pkt *Packet) {
		if s.opt.OnRequest != nil {
			s.opt.OnRequest(hc, pkt)
		}
	})
	if err != nil {
		s.opt.TCP.Metrics.FramingError()
		return false
	}
	return true
}

func (s *Server) onClosed(rc *reactor.Conn) bool {
	hc, _ := rc.Cookie().(*Conn)

	s.mu.Lock()
	delete(s.conns, rc.ID())
	s.mu.Unlock()

	if hc != nil && s.opt.OnClosed != nil {
		s.opt.OnClosed(hc)
	}
	return true
}
