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
	"sync"

	"golang.org/x/sys/unix"

	ectx "github.com/sabouaram/netreactor/context"
	"github.com/sabouaram/netreactor/reactor"
	"github.com/sabouaram/netreactor/runner/startStop"
)

// Server owns a reactor.Center and the single listening socket registered
// with it. Calling Launch again with a different endpoint stops the current
// listener (and every connection it owns) before starting the new one.
type Server struct {
	opt Options

	mu       sync.Mutex
	center   *reactor.Center
	runner   startStop.StartStop
	endpoint *net.TCPAddr
	bound    *net.TCPAddr
}

// NewServer validates opt and builds the Server's reactor.Center, but opens
// no socket until Launch is called.
func NewServer(opt Options) (*Server, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	center, err := opt.newCenter()
	if err != nil {
		return nil, err
	}

	s := &Server{opt: opt, center: center}
	s.runner = startStop.New(s.start, s.stop)
	return s, nil
}

// Launch binds and listens on local, then starts the reactor.Center if it
// is not already running. Every connection accepted on local runs opt's
// Callbacks.
func (s *Server) Launch(ctx context.Context, local *net.TCPAddr) error {
	s.mu.Lock()
	s.endpoint = local
	s.mu.Unlock()
	return s.runner.Start(ctx)
}

// Shutdown stops the reactor.Center, closing every listener and connection
// it owns.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.runner.Stop(ctx)
}

// Running reports whether the server is currently listening.
func (s *Server) Running() bool { return s.runner.IsRunning() }

// Addr returns the address the listener is actually bound to, resolving an
// ephemeral port (:0) to the one the kernel picked. It is nil until the
// listen socket has been created.
func (s *Server) Addr() *net.TCPAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Values returns the underlying reactor.Center's engine context, letting
// Callbacks share per-server state without a package-level global.
func (s *Server) Values() ectx.Config[string] { return s.center.Values() }

func (s *Server) start(ctx context.Context) error {
	s.mu.Lock()
	local := s.endpoint
	s.mu.Unlock()

	if err := s.center.Launch(ctx); err != nil {
		return err
	}

	fd, err := createListenSocket(local, s.opt.Backlog, s.opt.TCPSendBufferSize, s.opt.TCPReceiveBufferSize)
	if err != nil {
		_ = s.center.Shutdown(ctx)
		return err
	}

	bound := local
	if sa, saErr := unix.Getsockname(fd); saErr == nil {
		if tcp, ok := sockaddrToNetAddr(sa).(*net.TCPAddr); ok {
			bound = tcp
		}
	}
	s.mu.Lock()
	s.bound = bound
	s.mu.Unlock()

	if _, err := s.center.NewListener(fd, bound, s.opt.Callbacks, s.opt.ReceiveBufferSize, s.opt.TCPSendBufferSize); err != nil {
		_ = unix.Close(fd)
		_ = s.center.Shutdown(ctx)
		return err
	}

	<-ctx.Done()

	s.mu.Lock()
	s.bound = nil
	s.mu.Unlock()
	return nil
}

func (s *Server) stop(ctx context.Context) error {
	return s.center.Shutdown(ctx)
}
