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

// Package httpstream implements a strict HTTP/1.x wire codec on top of
// package tcp: a polymorphic request/response Packet, an incremental Framer
// that turns a connection's receive buffer into packet boundaries, and a
// Server/Client pair that adapt the TCP callback surface into an HTTP one.
package httpstream

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
)

// Kind tags a Packet (and the Framer reading it) as a request or a response.
type Kind int

const (
	KindRequest Kind = iota
	KindResponse
)

// Version is one of the three HTTP/1.x wire versions this codec understands.
type Version int

const (
	VersionUnknown Version = iota
	Version09
	Version10
	Version11
)

// String renders the version the way it appears on the wire.
func (v Version) String() string {
	switch v {
	case Version09:
		return "HTTP/0.9"
	case Version10:
		return "HTTP/1.0"
	case Version11:
		return "HTTP/1.1"
	default:
		return "HTTP/?.?"
	}
}

func parseVersion(s string) (Version, bool) {
	switch s {
	case "HTTP/0.9":
		return Version09, true
	case "HTTP/1.0":
		return Version10, true
	case "HTTP/1.1":
		return Version11, true
	default:
		return VersionUnknown, false
	}
}

// Method is an HTTP request method. Only the eight methods below are
// accepted; anything else fails framing with ErrorUnknownMethod.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

func validMethod(m Method) bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodHead, MethodOptions, MethodTrace, MethodConnect:
		return true
	default:
		return false
	}
}

// Header is one (name, value) pair. Packet.Headers preserves insertion
// order; duplicates of the same name are never merged.
type Header struct {
	Name  string
	Value string
}

// Packet is the HTTP/1.x data model, polymorphic over request and response
// via Kind: Method/URI are meaningful only for KindRequest, Status/Reason
// only for KindResponse.
type Packet struct {
	Kind    Kind
	Version Version

	Method Method
	URI    string

	Status int
	Reason string

	Headers []Header
	Body    []byte
}

// NewRequest builds an empty request shell with the given method, target
// and version, ready to have headers added and a body assigned.
func NewRequest(method Method, uri string, version Version) *Packet {
	return &Packet{Kind: KindRequest, Method: method, URI: uri, Version: version}
}

// NewResponse builds an empty response shell. Reason, left empty, is
// derived from status at serialization time.
func NewResponse(status int, version Version) *Packet {
	return &Packet{Kind: KindResponse, Status: status, Version: version}
}

// Add appends a header, preserving whatever duplicates of the same name
// already exist.
func (p *Packet) Add(name, value string) {
	p.Headers = append(p.Headers, Header{Name: name, Value: value})
}

// Get returns the value of the first header matching name, case-insensitive.
func (p *Packet) Get(name string) (string, bool) {
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// GetAll returns every header value matching name, case-insensitive, in
// insertion order.
func (p *Packet) GetAll(name string) []string {
	var out []string
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			out = append(out, h.Value)
		}
	}
	return out
}

func (p *Packet) contentLength() (int, bool) {
	v, ok := p.Get("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (p *Packet) isChunked() bool {
	v, ok := p.Get("Transfer-Encoding")
	return ok && strings.EqualFold(strings.TrimSpace(v), "chunked")
}

// KeepAlive reports whether the connection carrying this packet should stay
// open: false iff the version is below 1.1 and no Connection: keep-alive
// header is present, or a Connection: close header is present.
func (p *Packet) KeepAlive() bool {
	if v, ok := p.Get("Connection"); ok && strings.EqualFold(strings.TrimSpace(v), "close") {
		return false
	}
	if p.Version >= Version11 {
		return true
	}
	v, ok := p.Get("Connection")
	return ok && strings.EqualFold(strings.TrimSpace(v), "keep-alive")
}

// Serialize renders the packet onto the wire: start-line, headers in
// insertion order, the blank-line terminator, then the body verbatim.
func (p *Packet) Serialize() []byte {
	var b bytes.Buffer
	b.WriteString(p.startLine())
	b.WriteString("\r\n")
	for _, h := range p.Headers {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(p.Body)
	return b.Bytes()
}

func (p *Packet) startLine() string {
	if p.Kind == KindRequest {
		return string(p.Method) + " " + p.URI + " " + p.Version.String()
	}

	reason := p.Reason
	if reason == "" {
		reason = http.StatusText(p.Status)
	}
	return p.Version.String() + " " + strconv.Itoa(p.Status) + " " + reason
}

func parseStartLine(kind Kind, line string) (*Packet, error) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) != 3 {
		return nil, ErrorMalformedStartLine.Error()
	}

	if kind == KindRequest {
		method := Method(fields[0])
		if !validMethod(method) {
			return nil, ErrorUnknownMethod.Error()
		}
		version, ok := parseVersion(fields[2])
		if !ok {
			return nil, ErrorUnknownVersion.Error()
		}
		return &Packet{Kind: KindRequest, Method: method, URI: fields[1], Version: version}, nil
	}

	version, ok := parseVersion(fields[0])
	if !ok {
		return nil, ErrorUnknownVersion.Error()
	}
	status, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, ErrorMalformedStartLine.Error(err)
	}
	return &Packet{Kind: KindResponse, Version: version, Status: status, Reason: fields[2]}, nil
}
