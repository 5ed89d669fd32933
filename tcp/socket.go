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
	"net"

	"golang.org/x/sys/unix"
)

const defaultBacklog = 128

func sockaddrAndFamily(addr *net.TCPAddr) (unix.Sockaddr, int) {
	if ip4 := addr.IP.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: addr.Port}
		copy(sa.Addr[:], ip4)
		return sa, unix.AF_INET
	}

	sa := &unix.SockaddrInet6{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To16())
	return sa, unix.AF_INET6
}

func sockaddrToNetAddr(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	case *unix.SockaddrInet6:
		return &net.TCPAddr{IP: net.IP(a.Addr[:]), Port: a.Port}
	default:
		return nil
	}
}

func newNonblockingSocket(family int) (int, error) {
	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, err
	}
	return fd, nil
}

func applyBufferSizes(fd, sendBuf, recvBuf int) {
	if sendBuf > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, sendBuf)
	}
	if recvBuf > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, recvBuf)
	}
}

// createListenSocket builds a non-blocking, close-on-exec, SO_REUSEADDR
// listening socket bound to local with the given backlog.
func createListenSocket(local *net.TCPAddr, backlog, sendBuf, recvBuf int) (int, error) {
	sa, family := sockaddrAndFamily(local)

	fd, err := newNonblockingSocket(family)
	if err != nil {
		return -1, ErrorSocketCreate.Error(err)
	}

	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	applyBufferSizes(fd, sendBuf, recvBuf)

	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return -1, ErrorSocketBind.Error(err)
	}

	if backlog <= 0 {
		backlog = defaultBacklog
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return -1, ErrorSocketListen.Error(err)
	}

	return fd, nil
}

// createConnectSocket builds a non-blocking, close-on-exec socket and issues
// connect(2) toward remote. inProgress is true when connect returned
// EINPROGRESS, meaning completion must be detected by the reactor on the
// first writable event.
func createConnectSocket(remote *net.TCPAddr, sendBuf, recvBuf int) (fd int, inProgress bool, err error) {
	sa, family := sockaddrAndFamily(remote)

	fd, err = newNonblockingSocket(family)
	if err != nil {
		return -1, false, ErrorSocketCreate.Error(err)
	}

	applyBufferSizes(fd, sendBuf, recvBuf)
	_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)

	err = unix.Connect(fd, sa)
	if err == nil {
		return fd, false, nil
	}
	if err == unix.EINPROGRESS {
		return fd, true, nil
	}

	_ = unix.Close(fd)
	return -1, false, ErrorSocketConnect.Error(err)
}
