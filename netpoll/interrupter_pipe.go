//go:build !linux

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

import "golang.org/x/sys/unix"

// newEventfdInterrupter has no non-Linux equivalent; NewInterrupter falls
// back to the pipe implementation below.
func newEventfdInterrupter() (Interrupter, error) {
	return nil, unix.ENOSYS
}

type pipeInterrupter struct {
	r, w int
}

func newPipeInterrupter() (Interrupter, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}

	if err := unix.SetNonblock(fds[0], true); err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}

	return &pipeInterrupter{r: fds[0], w: fds[1]}, nil
}

func (p *pipeInterrupter) FD() int { return p.r }

func (p *pipeInterrupter) Interrupt() error {
	_, err := unix.Write(p.w, []byte{0})
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

// Reset drains the pipe in a loop, since unlike eventfd a pipe does not
// coalesce writes into a single counter.
func (p *pipeInterrupter) Reset() error {
	var buf [64]byte
	for {
		_, err := unix.Read(p.r, buf[:])
		if err == nil {
			continue
		}
		if err == unix.EAGAIN {
			return nil
		}
		return err
	}
}

func (p *pipeInterrupter) Close() error {
	_ = unix.Close(p.w)
	return unix.Close(p.r)
}
