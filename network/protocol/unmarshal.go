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

package protocol

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// stripQuotes removes every leading and trailing single quote, then every
// leading and trailing double quote; each end is trimmed on its own, so the
// quotes need not be paired. Order matters: a value quoted both ways
// ("'tcp'") only loses its outer double quotes (it is treated as an
// unrecognized value rather than unwrapped twice).
func stripQuotes(s string) string {
	s = strings.Trim(s, "'")
	s = strings.Trim(s, `"`)
	return s
}

// lookup is a direct, non-quote-aware byName lookup; unlike Parse it does not
// try to recover a protocol name buried under nested quoting.
func lookup(s string) NetworkProtocol {
	return byName[strings.ToLower(strings.TrimSpace(s))]
}

// UnmarshalJSON implements json.Unmarshaler. Unknown or malformed input
// decodes to NetworkEmpty rather than erroring, matching MarshalJSON's
// round-trip-friendly behavior for zero-value config structs.
func (n *NetworkProtocol) UnmarshalJSON(data []byte) error {
	*n = lookup(stripQuotes(string(data)))
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler (gopkg.in/yaml.v3).
func (n *NetworkProtocol) UnmarshalYAML(node *yaml.Node) error {
	*n = lookup(stripQuotes(node.Value))
	return nil
}

// UnmarshalTOML implements the go-toml Unmarshaler contract. Unlike the other
// formats it rejects non-string/[]byte payloads, matching how the teacher's
// config types reject scalar type mismatches from go-toml.
func (n *NetworkProtocol) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*n = lookup(stripQuotes(v))
		return nil
	case []byte:
		*n = lookup(stripQuotes(string(v)))
		return nil
	default:
		return fmt.Errorf("network protocol value %v is not in valid format", data)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *NetworkProtocol) UnmarshalText(data []byte) error {
	*n = lookup(stripQuotes(string(data)))
	return nil
}

// UnmarshalCBOR implements the fxamacker/cbor text-mode Unmarshaler contract.
func (n *NetworkProtocol) UnmarshalCBOR(data []byte) error {
	*n = lookup(stripQuotes(string(data)))
	return nil
}
