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
	"crypto/tls"
	"fmt"

	"github.com/go-playground/validator/v10"

	liberr "github.com/sabouaram/netreactor/errors"
	"github.com/sabouaram/netreactor/network/protocol"
	"github.com/sabouaram/netreactor/tcp"
)

// ServerOptions configures an HTTP server: the underlying tcp.Options
// (worker count, buffer sizing, backlog) plus the HTTP-level request
// handler. TCP.Callbacks is overwritten by NewServer; set OnRequest and
// OnClosed instead.
type ServerOptions struct {
	TCP tcp.Options `validate:"-"`

	// Network restricts which socket family the listener binds.
	// protocol.NetworkEmpty defaults to "tcp" (dual-stack); only the TCP
	// family makes sense for a stream-framed HTTP listener, so anything else
	// fails Validate. Loads from a plain string, JSON/YAML/TOML scalar, or a
	// viper source via Parse/UnmarshalJSON/UnmarshalYAML/ViperDecoderHook.
	Network protocol.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network"`

	// TLS is accepted but not used: Server never reads it, and accepted
	// connections carry plain TCP. See DESIGN.md for why TLS cannot reach
	// the raw non-blocking fd path this module's reactor owns.
	TLS *tls.Config `validate:"-"`

	// OnRequest is invoked once per fully-framed request, on the shard
	// goroutine that owns the connection. Respond via Conn.Send.
	OnRequest func(conn *Conn, req *Packet)

	// OnClosed is invoked once per connection, after it has been removed
	// from the server's connection map.
	OnClosed func(conn *Conn)
}

// ClientOptions configures an HTTP client dialing one or more servers.
type ClientOptions struct {
	TCP tcp.Options `validate:"-"`

	Network protocol.NetworkProtocol `mapstructure:"network" json:"network" yaml:"network"`

	TLS *tls.Config `validate:"-"`

	// OnResponse is invoked once per fully-framed response.
	OnResponse func(conn *Conn, resp *Packet)

	OnClosed func(conn *Conn)
}

// resolveNetwork returns n's net package string, defaulting NetworkEmpty to
// "tcp", or an error if n names a family this stream codec cannot frame.
func resolveNetwork(n protocol.NetworkProtocol) (string, error) {
	switch n {
	case protocol.NetworkEmpty:
		return "tcp", nil
	case protocol.NetworkTCP, protocol.NetworkTCP4, protocol.NetworkTCP6:
		return n.String(), nil
	default:
		return "", fmt.Errorf("network protocol %q is not a TCP stream family", n.String())
	}
}

// Validate checks field constraints with validator/v10, then that Network
// names a TCP stream family.
func (o ServerOptions) Validate() liberr.Error {
	if err := validateStruct(o); err != nil {
		return err
	}
	if _, err := resolveNetwork(o.Network); err != nil {
		return ErrorOptionsValidate.Error(err)
	}
	return nil
}

// Validate checks field constraints with validator/v10, then that Network
// names a TCP stream family.
func (o ClientOptions) Validate() liberr.Error {
	if err := validateStruct(o); err != nil {
		return err
	}
	if _, err := resolveNetwork(o.Network); err != nil {
		return ErrorOptionsValidate.Error(err)
	}
	return nil
}

func validateStruct(o interface{}) liberr.Error {
	if err := validator.New().Struct(o); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return ErrorOptionsValidate.Error(err)
		}

		out := ErrorOptionsValidate.Error()
		for _, fe := range err.(validator.ValidationErrors) {
			out.Add(fmt.Errorf("field '%s' failed constraint '%s'", fe.Field(), fe.ActualTag()))
		}
		return out
	}
	return nil
}
