//go:build linux

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

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

type eventfdInterrupter struct {
	fd int
}

func newEventfdInterrupter() (Interrupter, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventfdInterrupter{fd: fd}, nil
}

func (e *eventfdInterrupter) FD() int { return e.fd }

func (e *eventfdInterrupter) Interrupt() error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)

	_, err := unix.Write(e.fd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

func (e *eventfdInterrupter) Reset() error {
	var buf [8]byte
	for {
		_, err := unix.Read(e.fd, buf[:])
		if err == nil {
			continue
		}
		if err == unix.EAGAIN {
			return nil
		}
		return err
	}
}

func (e *eventfdInterrupter) Close() error {
	return unix.Close(e.fd)
}
