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

// Package netpoll wraps the kernel readiness-notification mechanisms (epoll,
// poll) and a self-pipe/eventfd interrupter behind the two abstractions a
// reactor shard needs: something that wakes a blocked poller from another
// goroutine, and something that reports which registered file descriptors
// became readable, writable, or hung up.
package netpoll

// Interrupter lets any goroutine wake a shard blocked in Poller.Wait. Create
// one with NewInterrupter; it is safe to call Interrupt from any goroutine,
// but Reset must only be called by the goroutine that owns the poller, after
// the poller reports the interrupter's fd readable.
type Interrupter interface {
	// FD returns the file descriptor to register for read-interest with a
	// Poller.
	FD() int

	// Interrupt wakes a blocked Wait call. Multiple interrupts before the
	// next Reset may coalesce into a single wakeup.
	Interrupt() error

	// Reset drains every pending notification so a subsequent Interrupt can
	// be observed again. It must be called exactly once per wakeup that the
	// interrupter's fd reported.
	Reset() error

	// Close releases the interrupter's file descriptor(s).
	Close() error
}

// NewInterrupter builds the best interrupter available on this platform: an
// eventfd counter on Linux (coalesces many Interrupt calls into one
// readiness event), falling back to a self-pipe everywhere else.
func NewInterrupter() (Interrupter, error) {
	if i, err := newEventfdInterrupter(); err == nil {
		return i, nil
	}
	return newPipeInterrupter()
}
