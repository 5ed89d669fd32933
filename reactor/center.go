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
	"context"
	"net"
	"runtime"
	"sync"
	"sync/atomic"

	ectx "github.com/sabouaram/netreactor/context"
	"github.com/sabouaram/netreactor/logger"
	"github.com/sabouaram/netreactor/rmetrics"
	"github.com/sabouaram/netreactor/runner/startStop"
)

// Center owns a fixed pool of shards and routes every connection to one of
// them by id, for the lifetime of the process. Each tcp.Server and
// tcp.Client builds its own Center; httpstream.Server/Client build on top of
// tcp and never touch a Center directly.
//
// values is the engine's context: a per-Center key/value bag that callbacks
// reach through Values() to share state (a TLS cert cache, an auth table, a
// connection-limiter budget) across every shard without a package-level
// global. One Center, one values bag, no cross-engine leakage between a
// process's independent Centers.
type Center struct {
	shards  []*shard
	nextID  uint64
	log     logger.Logger
	metrics *rmetrics.Collector
	runner  startStop.StartStop
	values  ectx.Config[string]
}

// NewCenter builds a Center with workerCount shards (runtime.NumCPU() when
// workerCount <= 0). metrics may be nil, in which case instrumentation is a
// no-op; log may be nil, in which case nothing is logged.
func NewCenter(workerCount int, log logger.Logger, metrics *rmetrics.Collector) (*Center, error) {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount < 1 {
		workerCount = 1
	}
	if log == nil {
		log = logger.Discard()
	}

	c := &Center{log: log, metrics: metrics, values: ectx.New[string](context.Background())}

	for i := 0; i < workerCount; i++ {
		sh, err := newShard(i, c, log, metrics)
		if err != nil {
			c.closeShards()
			return nil, ErrorShardInit.Error(err)
		}
		c.shards = append(c.shards, sh)
	}

	c.runner = startStop.New(c.start, c.stop)
	return c, nil
}

func (c *Center) closeShards() {
	for _, sh := range c.shards {
		_ = sh.poller.Shutdown()
		_ = sh.interrupter.Close()
	}
	c.shards = nil
}

// Launch starts every shard's poll loop in its own goroutine. It returns
// once the goroutines have been started; call Shutdown to stop them.
func (c *Center) Launch(ctx context.Context) error {
	return c.runner.Start(ctx)
}

// Shutdown cancels every shard's poll loop, waiting for each to wake (via
// its interrupter), drain its table (firing Closed for whatever is still
// open), and return.
func (c *Center) Shutdown(ctx context.Context) error {
	return c.runner.Stop(ctx)
}

// Running reports whether Launch has been called without a matching
// Shutdown.
func (c *Center) Running() bool { return c.runner.IsRunning() }

// Values returns the Center's engine context: a key/value bag scoped to
// this Center's lifetime, for callbacks that need to share state across
// connections and shards without reaching for a package-level global.
func (c *Center) Values() ectx.Config[string] { return c.values }

func (c *Center) start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, sh := range c.shards {
		wg.Add(1)
		go func(sh *shard) {
			defer wg.Done()
			sh.run(ctx)
		}(sh)
	}

	<-ctx.Done()
	for _, sh := range c.shards {
		_ = sh.interrupter.Interrupt()
	}
	wg.Wait()
	return nil
}

func (c *Center) stop(ctx context.Context) error {
	return nil
}

func (c *Center) shardFor(id uint64) *shard {
	return c.shards[id%uint64(len(c.shards))]
}

func (c *Center) newConnObject(kind Kind, fd int, ep Endpoint, cb Callbacks, recvSize int) *Conn {
	id := atomic.AddUint64(&c.nextID, 1)
	return newConn(id, kind, fd, ep, cb, recvSize)
}

// routeConnecting assigns conn to a shard by id and submits it in the
// Connecting state; used for an outbound socket whose connect(2) call
// returned EINPROGRESS.
func (c *Center) routeConnecting(conn *Conn) error {
	if !c.runner.IsRunning() {
		return ErrorCenterClosed.Error()
	}
	c.shardFor(conn.id).submit(command{conn: conn, kind: cmdAddConnecting})
	return nil
}

// routeConnected assigns conn to a shard by id and submits it already
// Connected; used for a listener, an accepted stream, or an outbound socket
// whose connect(2) call succeeded synchronously.
func (c *Center) routeConnected(conn *Conn) error {
	if !c.runner.IsRunning() {
		return ErrorCenterClosed.Error()
	}
	c.shardFor(conn.id).submit(command{conn: conn, kind: cmdAddConnected})
	return nil
}

// NewListener builds a listener Conn around an already-created, already
// non-blocking listening socket and routes it to a shard. accepted are the
// callbacks every connection this listener accepts will run; recvSize and
// sendHint size each accepted connection's receive ring buffer and SO_SNDBUF
// respectively.
func (c *Center) NewListener(fd int, local net.Addr, accepted Callbacks, recvSize, sendHint int) (*Conn, error) {
	conn := c.newConnObject(KindListener, fd, Endpoint{Local: local}, Callbacks{}, recvSize)
	conn.listener = &listenerState{center: c, accepted: accepted, recvSize: recvSize, sendHint: sendHint}

	if err := c.routeConnected(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Connect wraps an already-created socket fd as a stream Conn. If
// inProgress is true the connect(2) call that created fd returned
// EINPROGRESS and completion is detected on the first writable event;
// otherwise fd is already connected.
func (c *Center) Connect(fd int, ep Endpoint, cb Callbacks, recvSize int, inProgress bool) (*Conn, error) {
	conn := c.newConnObject(KindStream, fd, ep, cb, recvSize)

	var err error
	if inProgress {
		err = c.routeConnecting(conn)
	} else {
		err = c.routeConnected(conn)
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
