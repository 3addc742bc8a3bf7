/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package conn

// Buffer is a flat byte buffer with a read cursor, shared by both the
// read and write side of a Conn. For a read buffer, pos..end holds the
// unread bytes refilled from the socket. For a write buffer, pos is
// unused and end is the number of bytes accumulated since the last
// flush.
//
// Buffers are not safe for concurrent use; a Conn owns exactly one of
// each at a time and serializes access to them.
type Buffer struct {
	data []byte
	pos  int
	end  int
}

// NewBuffer allocates a Buffer with the given backing capacity.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 4096
	}
	return &Buffer{data: make([]byte, size)}
}

// Reset discards any buffered content without releasing the backing
// array, so the buffer can be reused by another connection.
func (b *Buffer) Reset() {
	b.pos = 0
	b.end = 0
}

// Len reports the number of unconsumed bytes.
func (b *Buffer) Len() int { return b.end - b.pos }

// Cap reports the backing array's capacity.
func (b *Buffer) Cap() int { return len(b.data) }
