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

import "golang.org/x/sys/unix"

type epollPoller struct {
	fd       int
	interest map[int]EventMask
}

func newEpoll() (Poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{fd: fd, interest: make(map[int]EventMask)}, nil
}

func (p *epollPoller) RegisterInterrupter(fd int) error {
	return p.Add(fd, EventRead)
}

func (p *epollPoller) Add(fd int, interest EventMask) error {
	ev := unix.EpollEvent{Fd: int32(fd), Events: toEpollEvents(interest)}
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return err
	}
	p.interest[fd] = interest
	return nil
}

func (p *epollPoller) Modify(fd int, interest EventMask) error {
	if cur, ok := p.interest[fd]; ok && cur == interest {
		return nil
	}

	ev := unix.EpollEvent{Fd: int32(fd), Events: toEpollEvents(interest)}
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return err
	}
	p.interest[fd] = interest
	return nil
}

func (p *epollPoller) Remove(fd int) error {
	err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(p.interest, fd)
	return err
}

func (p *epollPoller) Wait(out []Event) (int, error) {
	raw := make([]unix.EpollEvent, len(out))

	n, err := unix.EpollWait(p.fd, raw, -1)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	for i := 0; i < n; i++ {
		out[count] = Event{Fd: int(raw[i].Fd), Mask: fromEpollEvents(raw[i].Events)}
		count++
	}
	return count, nil
}

func (p *epollPoller) Shutdown() error {
	return unix.Close(p.fd)
}

func toEpollEvents(m EventMask) uint32 {
	var e uint32
	if m.Has(EventRead) {
		e |= unix.EPOLLIN
	}
	if m.Has(EventWrite) {
		e |= unix.EPOLLOUT
	}
	return e
}

func fromEpollEvents(e uint32) EventMask {
	if e&(unix.EPOLLHUP|unix.EPOLLERR) != 0 {
		return EventClose
	}

	var m EventMask
	if e&unix.EPOLLIN != 0 {
		m |= EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		m |= EventWrite
	}
	return m
}
