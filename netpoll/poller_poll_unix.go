//go:build unix

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

// pollPoller is the portable fallback backend, built on poll(2). It is
// selected whenever epoll is unavailable (non-Linux) or fails to initialize.
type pollPoller struct {
	interest map[int]EventMask
}

func newPoll() (Poller, error) {
	return &pollPoller{interest: make(map[int]EventMask)}, nil
}

func (p *pollPoller) RegisterInterrupter(fd int) error {
	return p.Add(fd, EventRead)
}

func (p *pollPoller) Add(fd int, interest EventMask) error {
	p.interest[fd] = interest
	return nil
}

func (p *pollPoller) Modify(fd int, interest EventMask) error {
	if cur, ok := p.interest[fd]; ok && cur == interest {
		return nil
	}
	p.interest[fd] = interest
	return nil
}

func (p *pollPoller) Remove(fd int) error {
	delete(p.interest, fd)
	return nil
}

func (p *pollPoller) Wait(out []Event) (int, error) {
	fds := make([]unix.PollFd, 0, len(p.interest))
	for fd, interest := range p.interest {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: toPollEvents(interest)})
	}

	n, err := unix.Poll(fds, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	count := 0
	for _, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		if count >= len(out) {
			break
		}
		out[count] = Event{Fd: int(pfd.Fd), Mask: fromPollEvents(pfd.Revents)}
		count++
	}
	return count, nil
}

func (p *pollPoller) Shutdown() error {
	p.interest = nil
	return nil
}

func toPollEvents(m EventMask) int16 {
	var e int16
	if m.Has(EventRead) {
		e |= unix.POLLIN
	}
	if m.Has(EventWrite) {
		e |= unix.POLLOUT
	}
	return e
}

func fromPollEvents(e int16) EventMask {
	if e&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return EventClose
	}

	var m EventMask
	if e&unix.POLLIN != 0 {
		m |= EventRead
	}
	if e&unix.POLLOUT != 0 {
		m |= EventWrite
	}
	return m
}
