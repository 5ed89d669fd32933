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
	liberr "github.com/sabouaram/netreactor/errors"
)

const (
	ErrorOptionsValidate liberr.CodeError = liberr.MinPkgHttpStream + iota
	ErrorMalformedStartLine
	ErrorUnknownMethod
	ErrorUnknownVersion
	ErrorMalformedChunk
	ErrorServerClosed
)

func init() {
	liberr.RegisterIdFctMessage(liberr.MinPkgHttpStream, errMessage)
}

func errMessage(code liberr.CodeError) string {
	switch code {
	case ErrorOptionsValidate:
		return "httpstream: options failed validation"
	case ErrorMalformedStartLine:
		return "httpstream: malformed start line"
	case ErrorUnknownMethod:
		return "httpstream: unknown request method"
	case ErrorUnknownVersion:
		return "httpstream: unknown HTTP version"
	case ErrorMalformedChunk:
		return "httpstream: malformed chunk size line"
	case ErrorServerClosed:
		return "httpstream: server is not running"
	default:
		return liberr.NullMessage
	}
}
