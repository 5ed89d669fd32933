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

// Package logger is the structured logging façade every engine-facing
// Options/Config struct in this module accepts as a dependency-injected
// default, following the same FuncLog pattern the teacher uses to hand a
// logger into a long-lived server/runner rather than reaching for a
// package-level singleton.
package logger

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is the minimal structured logging surface the module's components
// depend on. A logrus-backed implementation is built by New; a Logger that
// discards everything (see Default) is used when no logger is configured.
type Logger interface {
	WithField(key string, val interface{}) Logger
	WithFields(f Fields) Logger
	WithError(err error) Logger

	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	SetLevel(lvl Level)
	GetLevel() Level
}

// FuncLog returns the Logger a component should use. It lets callers inject
// a shared logger instance (or rebuild one on demand) instead of the
// component constructing its own; every Options/Config struct in this
// module carries one as an optional field. A nil FuncLog, or one that
// returns nil, falls back to Discard().
type FuncLog func() Logger

// Default returns the FuncLog used when a component's Options carry none:
// a discard logger, so disabling logging costs nothing beyond a nil check.
func Default() FuncLog {
	return func() Logger {
		return Discard()
	}
}
