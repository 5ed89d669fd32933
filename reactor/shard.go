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
	"sync"

	"golang.org/x/sys/unix"

	"github.com/sabouaram/netreactor/logger"
	"github.com/sabouaram/netreactor/netpoll"
	"github.com/sabouaram/netreactor/rmetrics"
)

const eventBatch = 128

// shard is a single poll loop plus the table of connections it exclusively
// owns. A Center fans work out across a fixed pool of shards, routing each
// connection to one by id, so no connection is ever touched by more than one
// goroutine over its lifetime.
type shard struct {
	id          int
	center      *Center
	poller      netpoll.Poller
	interrupter netpoll.Interrupter
	log         logger.Logger
	metrics     *rmetrics.Collector

	table map[int]*Conn

	mailboxMu sync.Mutex
	mailbox   []command
}

func newShard(id int, center *Center, log logger.Logger, metrics *rmetrics.Collector) (*shard, error) {
	p, err := netpoll.New()
	if err != nil {
		return nil, err
	}

	it, err := netpoll.NewInterrupter()
	if err != nil {
		_ = p.Shutdown()
		return nil, err
	}

	if err := p.RegisterInterrupter(it.FD()); err != nil {
		_ = p.Shutdown()
		_ = it.Close()
		return nil, err
	}

	return &shard{
		id:          id,
		center:      center,
		poller:      p,
		interrupter: it,
		log:         log,
		metrics:     metrics,
		table:       make(map[int]*Conn),
	}, nil
}

// submit enqueues cmd for this shard and wakes its poll loop. Safe to call
// from any goroutine, including the shard's own: every mailbox entry is
// drained on the next loop iteration regardless of who posted it.
func (s *shard) submit(cmd command) {
	s.mailboxMu.Lock()
	s.mailbox = append(s.mailbox, cmd)
	s.mailboxMu.Unlock()

	s.metrics.CommandSubmitted(s.id)
	_ = s.interrupter.Interrupt()
}

func (s *shard) run(ctx context.Context) {
	defer s.poller.Shutdown()
	defer s.interrupter.Close()

	events := make([]netpoll.Event, eventBatch)

	for {
		s.drainMailbox()

		if ctx.Err() != nil {
			s.closeAll()
			return
		}

		n, err := s.poller.Wait(events)
		if err != nil {
			s.log.WithError(err).Errorf("shard %d: poll wait failed", s.id)
			continue
		}

		if ctx.Err() != nil {
			s.closeAll()
			return
		}

		for i := 0; i < n; i++ {
			ev := events[i]
			if ev.Fd == s.interrupter.FD() {
				_ = s.interrupter.Reset()
				continue
			}
			s.dispatch(ev)
		}
	}
}

func (s *shard) dispatch(ev netpoll.Event) {
	conn, ok := s.table[ev.Fd]
	if !ok {
		return
	}

	if ev.Mask.Has(netpoll.EventClose) {
		s.removeHard(conn)
		return
	}

	if ev.Mask.Has(netpoll.EventWrite) {
		conn.handleWriteable()
	}

	if _, stillHere := s.table[ev.Fd]; stillHere && ev.Mask.Has(netpoll.EventRead) {
		conn.handleReadable()
	}

	s.metrics.EventDispatched(s.id)
}

func (s *shard) drainMailbox() {
	s.mailboxMu.Lock()
	batch := s.mailbox
	s.mailbox = nil
	s.mailboxMu.Unlock()

	for _, cmd := range batch {
		s.apply(cmd)
	}
}

func (s *shard) apply(cmd command) {
	c := cmd.conn

	switch {
	case cmd.kind&cmdAddConnecting != 0:
		c.shard = s
		c.state = StateConnecting
		c.cachedInterest = netpoll.EventWrite
		s.table[c.fd] = c
		if err := s.poller.Add(c.fd, netpoll.EventWrite); err != nil {
			c.fail(err)
			return
		}
		s.metrics.ConnectionOpened(s.id)

	case cmd.kind&cmdAddConnected != 0:
		c.shard = s
		c.state = StateConnected
		c.cachedInterest = netpoll.EventRead
		s.table[c.fd] = c
		if err := s.poller.Add(c.fd, netpoll.EventRead); err != nil {
			c.fail(err)
			return
		}
		s.metrics.ConnectionOpened(s.id)

		if !c.connectedFired {
			c.connectedFired = true
			if c.cb.Connected != nil && !c.cb.Connected(c) {
				s.removeHard(c)
				return
			}
		}
		c.handleReadable()

	case cmd.kind&cmdRemoveHard != 0:
		s.removeHard(c)

	case cmd.kind&cmdRemoveSoft != 0:
		if c.state != StateConnected {
			return
		}
		c.state = StateClosing
		c.handleWriteable()

	default:
		if c.state != StateConnected && c.state != StateConnecting {
			return
		}
		want := c.cachedInterest
		if cmd.kind&cmdWritable != 0 {
			want |= netpoll.EventWrite
		}
		if cmd.kind&cmdReadable != 0 {
			want |= netpoll.EventRead
		}
		c.setInterest(want)
	}
}

// removeHard tears a connection down: drops it from the poller and the
// table, closes the fd, and fires OnClosed exactly once. Safe to call
// against an already-closed Conn (a no-op), since a connection can reach
// this path from several directions in the same pass (read error then a
// close request already in the mailbox, for instance).
func (s *shard) removeHard(c *Conn) {
	if c.state == StateClosed {
		return
	}

	_ = s.poller.Remove(c.fd)
	delete(s.table, c.fd)
	c.state = StateClosed
	_ = unix.Close(c.fd)

	s.metrics.ConnectionClosed(s.id)

	if c.cb.Closed != nil {
		c.cb.Closed(c)
	}
}

func (s *shard) closeAll() {
	for _, c := range s.table {
		s.removeHard(c)
	}
}
