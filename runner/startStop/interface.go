/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package startStop wraps an arbitrary blocking start function and its
// matching stop function into a restartable, concurrency-safe runner. It is
// the common lifecycle primitive embedded by reactor.Center, tcp.Server, and
// tcp.Client (httpstream.Server/Client reach it through the tcp types they
// wrap): each wraps its own accept/poll loop as a FuncStart and gets
// Start/Stop/Restart/IsRunning/Uptime for free.
package startStop

import (
	"context"
	"time"
)

// FuncStart is run by Start in its own goroutine. It must block until ctx is
// cancelled (or the underlying work finishes on its own) and return any
// terminal error.
type FuncStart func(ctx context.Context) error

// FuncStop is run by Stop (or by Start, when replacing a previous run) to
// unwind whatever FuncStart set up. It should return promptly.
type FuncStop func(ctx context.Context) error

// StartStop is a restartable lifecycle wrapper around a FuncStart/FuncStop
// pair. All methods are safe for concurrent use.
type StartStop interface {
	// Start launches the start function in a new goroutine, first stopping
	// any instance already running. It returns as soon as the goroutine has
	// been launched; it does not wait for the start function to return.
	Start(ctx context.Context) error

	// Stop cancels the running start function and runs the stop function,
	// waiting for both to complete. Calling Stop when not running is a no-op.
	Stop(ctx context.Context) error

	// Restart is Stop followed by Start.
	Restart(ctx context.Context) error

	// IsRunning reports whether a start function is currently running.
	IsRunning() bool

	// Uptime returns how long the current run has been active, or zero if
	// not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recently captured error from either the
	// start or stop function, or nil if none has occurred on the current run.
	ErrorsLast() error

	// ErrorsList returns every error captured on the current run, oldest first.
	ErrorsList() []error
}

// New builds a StartStop around the given start/stop functions. Either may
// be nil; calling Start/Stop with a nil counterpart captures an "invalid
// start/stop function" error instead of panicking.
func New(start FuncStart, stop FuncStop) StartStop {
	return &runner{
		fctStart: start,
		fctStop:  stop,
	}
}
