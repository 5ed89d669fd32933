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

package httpstream

import (
	"strconv"
	"strings"

	"github.com/sabouaram/netreactor/ringbuf"
)

// State is one step of the framer's state machine.
type State int

const (
	WaitingHeaders State = iota
	WaitingBody
	WaitingChunkSize
	WaitingChunkData
	WaitingChunkTrailer
	Complete
)

// Framer is the incremental HTTP/1.x decoder attached to one connection. It
// holds no reference to the connection itself: Run is driven by whoever owns
// the receive buffer, which lets it be exercised directly against a
// ringbuf.Buffer in tests as well as from a reactor.Conn's received
// callback.
type Framer struct {
	kind      Kind
	state     State
	pkt       *Packet
	chunkSize int
}

// NewFramer builds a Framer parsing the given kind of start-line: requests
// for an HTTP server, responses for an HTTP client.
func NewFramer(kind Kind) *Framer {
	return &Framer{kind: kind, state: WaitingHeaders}
}

// Run drains buf through the state table in spec until either the buffer is
// starved (returns nil, no packet emitted) or one full Packet completes, in
// which case onPacket is invoked exactly once and the framer resets to
// WaitingHeaders for the next call. A malformed start line, unknown method,
// unknown version, or non-hex chunk size line aborts with an error; the
// caller is expected to treat that as a connection failure and close hard.
func (f *Framer) Run(buf *ringbuf.Buffer, onPacket func(*Packet)) error {
	for {
		var progressed bool
		var err error

		switch f.state {
		case WaitingHeaders:
			progressed, err = f.tryHeaders(buf)
		case WaitingBody:
			progressed, err = f.tryBody(buf)
		case WaitingChunkSize:
			progressed, err = f.tryChunkSize(buf)
		case WaitingChunkData:
			progressed, err = f.tryChunkData(buf)
		case WaitingChunkTrailer:
			progressed, err = f.tryChunkTrailer(buf)
		}

		if err != nil {
			return err
		}
		if !progressed {
			return nil
		}

		if f.state == Complete {
			pkt := f.pkt
			f.pkt = nil
			f.state = WaitingHeaders
			onPacket(pkt)
			return nil
		}
	}
}

func (f *Framer) tryHeaders(buf *ringbuf.Buffer) (bool, error) {
	prefix, ok := buf.Find([]byte("\r\n\r\n"))
	if !ok {
		return false, nil
	}

	lines := strings.Split(string(prefix), "\r\n")
	pkt, err := parseStartLine(f.kind, lines[0])
	if err != nil {
		return false, err
	}

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		pkt.Add(strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]))
	}

	buf.CommitRead(len(prefix) + 4)
	f.pkt = pkt
	f.state = WaitingBody
	return true, nil
}

func (f *Framer) tryBody(buf *ringbuf.Buffer) (bool, error) {
	if cl, ok := f.pkt.contentLength(); ok {
		if buf.Len() < cl {
			return false, nil
		}
		body := make([]byte, cl)
		buf.Read(body, cl)
		f.pkt.Body = body
		f.state = Complete
		return true, nil
	}

	if f.pkt.isChunked() {
		f.state = WaitingChunkSize
		return true, nil
	}

	f.pkt.Body = nil
	f.state = Complete
	return true, nil
}

func (f *Framer) tryChunkSize(buf *ringbuf.Buffer) (bool, error) {
	prefix, ok := buf.Find([]byte("\r\n"))
	if !ok {
		return false, nil
	}

	k, err := strconv.ParseInt(strings.TrimSpace(string(prefix)), 16, 64)
	if err != nil || k < 0 {
		return false, ErrorMalformedChunk.Error(err)
	}

	buf.CommitRead(len(prefix) + 2)
	if k == 0 {
		f.state = WaitingChunkTrailer
	} else {
		f.chunkSize = int(k)
		f.state = WaitingChunkData
	}
	return true, nil
}

func (f *Framer) tryChunkData(buf *ringbuf.Buffer) (bool, error) {
	if buf.Len() < f.chunkSize+2 {
		return false, nil
	}

	chunk := make([]byte, f.chunkSize)
	buf.Read(chunk, f.chunkSize)
	buf.CommitRead(2)

	f.pkt.Body = append(f.pkt.Body, chunk...)
	f.state = WaitingChunkSize
	return true, nil
}

func (f *Framer) tryChunkTrailer(buf *ringbuf.Buffer) (bool, error) {
	prefix, ok := buf.Find([]byte("\r\n"))
	if !ok {
		return false, nil
	}
	buf.CommitRead(len(prefix) + 2)
	f.state = Complete
	return true, nil
}
