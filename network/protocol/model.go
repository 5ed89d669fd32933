/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package protocol defines the transport network identifiers (tcp, udp, unix,
// ...) that tcp.Options and httpstream.ServerOptions accept and validate
// against, along with marshal/unmarshal support for the config formats those
// options are typically loaded from (JSON, YAML, TOML, CBOR, viper).
package protocol

import "math"

// NetworkProtocol is a typed identifier for a net package network string
// ("tcp", "udp", "unix", ...). The zero value, NetworkEmpty, represents an
// unset or invalid protocol.
type NetworkProtocol uint8

const (
	NetworkEmpty NetworkProtocol = iota
	NetworkUnix
	NetworkTCP
	NetworkTCP4
	NetworkTCP6
	NetworkUDP
	NetworkUDP4
	NetworkUDP6
	NetworkIP
	NetworkIP4
	NetworkIP6
	NetworkUnixGram
)

// Int returns the protocol as an int, or 0 if the receiver is not a known protocol.
func (n NetworkProtocol) Int() int {
	if !n.valid() {
		return 0
	}
	return int(n)
}

// Int64 returns the protocol as an int64, or 0 if the receiver is not a known protocol.
func (n NetworkProtocol) Int64() int64 {
	if !n.valid() {
		return 0
	}
	return int64(n)
}

// Uint returns the protocol as a uint, or 0 if the receiver is not a known protocol.
func (n NetworkProtocol) Uint() uint {
	if !n.valid() {
		return 0
	}
	return uint(n)
}

// Uint64 returns the protocol as a uint64, or 0 if the receiver is not a known protocol.
func (n NetworkProtocol) Uint64() uint64 {
	if !n.valid() {
		return 0
	}
	return uint64(n)
}

func (n NetworkProtocol) valid() bool {
	return n >= NetworkUnix && n <= NetworkUnixGram
}

// String returns the net package network string for the protocol, or "" if unknown.
func (n NetworkProtocol) String() string {
	switch n {
	case NetworkUnix:
		return "unix"
	case NetworkTCP:
		return "tcp"
	case NetworkTCP4:
		return "tcp4"
	case NetworkTCP6:
		return "tcp6"
	case NetworkUDP:
		return "udp"
	case NetworkUDP4:
		return "udp4"
	case NetworkUDP6:
		return "udp6"
	case NetworkIP:
		return "ip"
	case NetworkIP4:
		return "ip4"
	case NetworkIP6:
		return "ip6"
	case NetworkUnixGram:
		return "unixgram"
	default:
		return ""
	}
}

// Code returns the same value as String; kept distinct so config struct tags
// can reference Code() for documentation without implying String() formatting.
func (n NetworkProtocol) Code() string {
	return n.String()
}

// Parse returns the NetworkProtocol matching s, case-insensitively, after
// trimming surrounding whitespace and a single layer of quoting
// (", ', or `). It returns NetworkEmpty for anything it does not recognize.
func Parse(s string) NetworkProtocol {
	return parse(s)
}

// ParseBytes is Parse for a byte slice (e.g. raw TOML/CBOR payloads); it
// converts b to a string and parses that.
func ParseBytes(b []byte) NetworkProtocol {
	return parse(string(b))
}

// ParseInt64 returns the NetworkProtocol whose Int64() equals i, or
// NetworkEmpty if i is out of range or unknown.
func ParseInt64(i int64) NetworkProtocol {
	if i <= 0 || i > math.MaxUint8 {
		return NetworkEmpty
	}
	n := NetworkProtocol(i)
	if !n.valid() {
		return NetworkEmpty
	}
	return n
}
