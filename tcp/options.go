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

// Package tcp creates the listening and outbound sockets a reactor.Center
// multiplexes: it resolves nothing (every endpoint handed in is already a
// concrete IP:port), it only creates, configures, and hands off already-open
// file descriptors.
package tcp

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	liberr "github.com/sabouaram/netreactor/errors"
	"github.com/sabouaram/netreactor/logger"
	"github.com/sabouaram/netreactor/reactor"
	"github.com/sabouaram/netreactor/rmetrics"
)

// Options configures a Server: its worker pool, kernel and ring-buffer
// sizing, and the backlog of its listen socket. Client shares every field
// except Backlog.
type Options struct {
	// WorkerCount is the number of reactor shards. 0 selects runtime.NumCPU().
	WorkerCount int `mapstructure:"worker_count" json:"worker_count" yaml:"worker_count" validate:"gte=0"`

	// MaxCommandQueueLen is validated but not read: shard mailboxes are
	// unbounded, and Send never fails because of queue length.
	MaxCommandQueueLen int `mapstructure:"max_command_queue_len" json:"max_command_queue_len" yaml:"max_command_queue_len" validate:"gte=0"`

	// TCPSendBufferSize and TCPReceiveBufferSize set SO_SNDBUF/SO_RCVBUF on
	// every accepted or dialed socket. 0 leaves the kernel default.
	TCPSendBufferSize    int `mapstructure:"tcp_send_buffer_size" json:"tcp_send_buffer_size" yaml:"tcp_send_buffer_size" validate:"gte=0"`
	TCPReceiveBufferSize int `mapstructure:"tcp_receive_buffer_size" json:"tcp_receive_buffer_size" yaml:"tcp_receive_buffer_size" validate:"gte=0"`

	// ReceiveBufferSize is the initial capacity of a connection's userspace
	// receive ring buffer. SendBufferSize is validated but not read: each
	// Send allocates a buffer sized to its payload.
	SendBufferSize    int `mapstructure:"send_buffer_size" json:"send_buffer_size" yaml:"send_buffer_size" validate:"gte=0"`
	ReceiveBufferSize int `mapstructure:"receive_buffer_size" json:"receive_buffer_size" yaml:"receive_buffer_size" validate:"gte=0"`

	// Backlog is the listen(2) backlog. Ignored by Client; a Server defaults
	// it to 128 when left at 0.
	Backlog int `mapstructure:"backlog" json:"backlog" yaml:"backlog" validate:"gte=0"`

	// Callbacks are invoked for every stream a Server's listener accepts.
	// Client does not use them; Dial takes its own Callbacks.
	Callbacks reactor.Callbacks `validate:"-"`

	// Log and Metrics are optional dependencies injected into the
	// reactor.Center this Options builds.
	Log     logger.FuncLog
	Metrics *rmetrics.Collector
}

// Validate checks field constraints with validator/v10, wrapping every
// failing constraint into a single coded Error.
func (o Options) Validate() liberr.Error {
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

func (o Options) logger() logger.Logger {
	if o.Log == nil {
		return logger.Discard()
	}
	if l := o.Log(); l != nil {
		return l
	}
	return logger.Discard()
}

func (o Options) newCenter() (*reactor.Center, error) {
	return reactor.NewCenter(o.WorkerCount, o.logger(), o.Metrics)
}
