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

package logger

import (
	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	entry *logrus.Entry
}

// New builds a logrus-backed Logger at the given initial level, logging to
// its caller-configured output (logrus defaults to stderr).
func New(lvl Level) Logger {
	l := logrus.New()
	l.SetLevel(lvl.toLogrus())
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (g *logrusLogger) WithField(key string, val interface{}) Logger {
	return &logrusLogger{entry: g.entry.WithField(key, val)}
}

func (g *logrusLogger) WithFields(f Fields) Logger {
	return &logrusLogger{entry: g.entry.WithFields(logrus.Fields(f))}
}

func (g *logrusLogger) WithError(err error) Logger {
	return &logrusLogger{entry: g.entry.WithError(err)}
}

func (g *logrusLogger) Debug(args ...interface{}) { g.entry.Debug(args...) }
func (g *logrusLogger) Info(args ...interface{})  { g.entry.Info(args...) }
func (g *logrusLogger) Warn(args ...interface{})  { g.entry.Warn(args...) }
func (g *logrusLogger) Error(args ...interface{}) { g.entry.Error(args...) }

func (g *logrusLogger) Debugf(format string, args ...interface{}) { g.entry.Debugf(format, args...) }
func (g *logrusLogger) Infof(format string, args ...interface{})  { g.entry.Infof(format, args...) }
func (g *logrusLogger) Warnf(format string, args ...interface{})  { g.entry.Warnf(format, args...) }
func (g *logrusLogger) Errorf(format string, args ...interface{}) { g.entry.Errorf(format, args...) }

func (g *logrusLogger) SetLevel(lvl Level) {
	g.entry.Logger.SetLevel(lvl.toLogrus())
}

func (g *logrusLogger) GetLevel() Level {
	switch g.entry.Logger.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return DebugLevel
	case logrus.WarnLevel:
		return WarnLevel
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}
