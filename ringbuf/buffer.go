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

// Package ringbuf implements a bounded circular byte buffer with scatter/
// gather read and write cursors. It backs both the per-connection receive
// buffer and every queued send buffer in package reactor; it carries no
// synchronization of its own, since callers serialize access either by
// confining a Buffer to a single shard goroutine (recv) or by guarding it
// with their own lock (send queue).
package ringbuf

import "bytes"

// Buffer is a growable ring buffer over a contiguous byte slice. The zero
// value is not usable; construct one with New.
type Buffer struct {
	buf   []byte
	begin int
	end   int
	size  int
}

// New allocates a Buffer with the given initial capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Cap returns the total capacity C.
func (b *Buffer) Cap() int { return len(b.buf) }

// Len returns the number of readable bytes currently stored.
func (b *Buffer) Len() int { return b.size }

// Free returns the number of writable bytes remaining (C - size).
func (b *Buffer) Free() int { return len(b.buf) - b.size }

// Empty reports whether size == 0.
func (b *Buffer) Empty() bool { return b.size == 0 }

// Full reports whether size == C.
func (b *Buffer) Full() bool { return b.size == len(b.buf) }

// Write appends p in full or not at all: it fails (returning false, leaving
// the buffer unchanged) if p does not fit in the current free space.
func (b *Buffer) Write(p []byte) bool {
	if len(p) > b.Free() {
		return false
	}

	iov := b.GetWritePositions()
	n := copy(iov[0], p)
	if n < len(p) {
		copy(iov[1], p[n:])
	}

	b.CommitWrite(len(p))
	return true
}

// Read copies exactly n readable bytes into out and advances the read
// cursor. It fails (returning false, leaving the buffer unchanged) if
// n exceeds the readable size or out is too small to hold n bytes.
func (b *Buffer) Read(out []byte, n int) bool {
	if n > b.size || n > len(out) {
		return false
	}

	iov := b.GetReadPositions()
	copied := copy(out[:n], iov[0])
	if copied < n {
		copy(out[copied:n], iov[1])
	}

	b.CommitRead(n)
	return true
}

// GetWritePositions returns one or two slices, views directly into the
// backing array, whose lengths sum to Free(). The second slice is empty
// when the writable region does not wrap. Callers fill these in place (a
// single readv/writev style scatter operation) and then call CommitWrite.
func (b *Buffer) GetWritePositions() [2][]byte {
	var iov [2][]byte

	free := b.Free()
	if free == 0 {
		return iov
	}

	firstLen := len(b.buf) - b.end
	if firstLen > free {
		firstLen = free
	}
	iov[0] = b.buf[b.end : b.end+firstLen]

	if rest := free - firstLen; rest > 0 {
		iov[1] = b.buf[:rest]
	}

	return iov
}

// CommitWrite advances the write cursor by n bytes, which must not exceed
// Free() as observed before the call; violating that precondition is a
// programmer error and is not defended against.
func (b *Buffer) CommitWrite(n int) {
	if n <= 0 {
		return
	}
	b.end = (b.end + n) % len(b.buf)
	b.size += n
}

// GetReadPositions returns one or two slices, views directly into the
// backing array, whose lengths sum to Len(). The second slice is empty
// when the readable region does not wrap.
func (b *Buffer) GetReadPositions() [2][]byte {
	var iov [2][]byte

	if b.size == 0 {
		return iov
	}

	firstLen := len(b.buf) - b.begin
	if firstLen > b.size {
		firstLen = b.size
	}
	iov[0] = b.buf[b.begin : b.begin+firstLen]

	if rest := b.size - firstLen; rest > 0 {
		iov[1] = b.buf[:rest]
	}

	return iov
}

// CommitRead advances the read cursor by n bytes, which must not exceed
// Len() as observed before the call.
func (b *Buffer) CommitRead(n int) {
	if n <= 0 {
		return
	}
	b.begin = (b.begin + n) % len(b.buf)
	b.size -= n
}

// Find scans the readable region for delim and returns the bytes preceding
// the first match, without consuming them: indices are never advanced, so
// repeated calls with no intervening Commit* return identical results. If
// the readable region currently wraps around the end of the backing array,
// Find compacts it into a contiguous run first (begin moves to 0); this
// changes the internal layout but not the logical content, so it does not
// violate idempotence.
func (b *Buffer) Find(delim []byte) ([]byte, bool) {
	if b.size == 0 {
		return nil, false
	}

	if b.begin+b.size > len(b.buf) {
		b.compact()
	}

	region := b.buf[b.begin : b.begin+b.size]
	idx := bytes.Index(region, delim)
	if idx < 0 {
		return nil, false
	}

	prefix := make([]byte, idx)
	copy(prefix, region[:idx])
	return prefix, true
}

// compact rewrites the backing array so the readable region starts at
// offset 0, without changing size or consuming any bytes.
func (b *Buffer) compact() {
	if b.begin == 0 {
		return
	}

	tmp := make([]byte, b.size)
	n := copy(tmp, b.buf[b.begin:])
	copy(tmp[n:], b.buf[:b.size-n])
	copy(b.buf, tmp)

	b.begin = 0
	b.end = b.size % len(b.buf)
}

// Resize grows the buffer to capacity n (n must be >= Len()) and compacts
// the readable region to start at offset 0. It returns false, leaving the
// buffer unchanged, if n is smaller than the current size.
func (b *Buffer) Resize(n int) bool {
	if n < b.size {
		return false
	}
	if n == len(b.buf) {
		b.compact()
		return true
	}

	nb := make([]byte, n)
	if b.size > 0 {
		iov := b.GetReadPositions()
		k := copy(nb, iov[0])
		copy(nb[k:], iov[1])
	}

	b.buf = nb
	b.begin = 0
	if n > 0 {
		b.end = b.size % n
	} else {
		b.end = 0
	}

	return true
}

// EnsureWritable grows the buffer (doubling its capacity, or more if needed)
// until at least n bytes are writable. It is a no-op if the buffer already
// has n bytes free. Grounded on the receive-path rule in the connection
// state machine: "ensure recv buffer has >= 512 writable bytes (double its
// capacity otherwise)".
func (b *Buffer) EnsureWritable(n int) {
	if b.Free() >= n {
		return
	}

	target := len(b.buf)
	if target == 0 {
		target = n
	}
	for target-b.size < n {
		target *= 2
	}

	b.Resize(target)
}

// Swap exchanges the backing storage and cursors of b and other in place,
// useful for recycling a buffer without allocating a fresh one.
func (b *Buffer) Swap(other *Buffer) {
	b.buf, other.buf = other.buf, b.buf
	b.begin, other.begin = other.begin, b.begin
	b.end, other.end = other.end, b.end
	b.size, other.size = other.size, b.size
}
