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

package netpoll

// EventMask is a bitset of readiness kinds. Close takes precedence over
// Read and Write when reported by a backend: a hangup or error bit suppresses
// both.
type EventMask uint8

const (
	EventRead EventMask = 1 << iota
	EventWrite
	EventClose
)

func (m EventMask) Has(bit EventMask) bool { return m&bit != 0 }

// Event is a single readiness report for one file descriptor.
type Event struct {
	Fd   int
	Mask EventMask
}

// Poller is a thin abstraction over the kernel readiness mechanism. A Poller
// is owned by exactly one shard goroutine; none of its methods are safe for
// concurrent use from more than one goroutine.
type Poller interface {
	// RegisterInterrupter installs read-interest on the interrupter's fd.
	// Must be called once, before the first Wait.
	RegisterInterrupter(fd int) error

	// Add registers fd with the given interest mask.
	Add(fd int, interest EventMask) error

	// Modify changes fd's interest mask. It is a no-op, eliding the
	// underlying syscall, when interest already equals the last mask
	// registered for fd.
	Modify(fd int, interest EventMask) error

	// Remove drops fd from the poller.
	Remove(fd int) error

	// Wait blocks until at least one fd is ready or the interrupter fires,
	// and fills out with up to len(out) events, returning how many were
	// written. The interrupter's fd is reported like any other registered
	// fd; when the caller sees it among the events, it calls
	// Interrupter.Reset and drains its mailbox. A Wait interrupted by a
	// signal (EINTR) returns n == 0 and no error.
	Wait(out []Event) (n int, err error)

	// Shutdown releases the kernel state backing this poller.
	Shutdown() error
}

// New selects the best backend available: epoll on Linux, falling back to
// poll(2) everywhere else or if epoll setup itself fails. A bare select(2)
// backend is deliberately not implemented — poll already gives an
// unbounded-fd, non-destructive readiness mechanism that is a strict
// superset of what select offers on every platform this engine targets.
func New() (Poller, error) {
	if p, err := newEpoll(); err == nil {
		return p, nil
	}
	return newPoll()
}
