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

// Package wire implements the tagged binary serializer used by the
// "beep" transport: a self-describing byte stream of one-character
// type tags, big-endian fixed-width scalars, length-prefixed varlen
// values, and explicitly balanced array/record containers. Encode and
// Decode form a round-trip pair: Decode(Encode(v)) reproduces v.
package wire

// Tag identifies the type of the value that follows it on the wire.
type Tag byte

const (
	TagInt8     Tag = 'c'
	TagUint8    Tag = 'C'
	TagInt16    Tag = 'h'
	TagUint16   Tag = 'H'
	TagInt32    Tag = 'i'
	TagUint32   Tag = 'I'
	TagInt64    Tag = 'l'
	TagUint64   Tag = 'L'
	TagFloat32  Tag = 'f'
	TagFloat64  Tag = 'd'
	TagDatetime Tag = 'D'
	TagBool     Tag = 'b'
	TagNull     Tag = 'Z'

	TagString Tag = 'Q'
	TagBytes  Tag = 'X'

	TagArrayStart  Tag = '['
	TagArrayEnd    Tag = ']'
	TagRecordStart Tag = '{'
	TagRecordEnd   Tag = '}'

	tagBoolTrue  = 't'
	tagBoolFalse = 'f'
)

func (t Tag) String() string {
	return string(rune(t))
}
