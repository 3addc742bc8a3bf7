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

package wire

import (
	"encoding/binary"
	"math"
	"time"

	liberr "github.com/bjornaugestad/highlander-go/errors"
)

// Array is a tagged sequence with an explicit element count on the
// wire ('[' count elements ']').
type Array []any

// Record is a tagged sequence with no explicit count, closed by its
// own end tag ('{' elements '}').
type Record []any

// Encoder appends tagged values to an in-memory buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated wire bytes.
func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) tag(t Tag) { e.buf = append(e.buf, byte(t)) }

func (e *Encoder) u8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) u16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }
func (e *Encoder) u32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }
func (e *Encoder) u64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }

func (e *Encoder) varint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

// PutInt8 appends a 'c' tagged int8.
func (e *Encoder) PutInt8(v int8) { e.tag(TagInt8); e.u8(uint8(v)) }

// PutUint8 appends a 'C' tagged uint8.
func (e *Encoder) PutUint8(v uint8) { e.tag(TagUint8); e.u8(v) }

// PutInt16 appends an 'h' tagged int16.
func (e *Encoder) PutInt16(v int16) { e.tag(TagInt16); e.u16(uint16(v)) }

// PutUint16 appends an 'H' tagged uint16.
func (e *Encoder) PutUint16(v uint16) { e.tag(TagUint16); e.u16(v) }

// PutInt32 appends an 'i' tagged int32.
func (e *Encoder) PutInt32(v int32) { e.tag(TagInt32); e.u32(uint32(v)) }

// PutUint32 appends an 'I' tagged uint32.
func (e *Encoder) PutUint32(v uint32) { e.tag(TagUint32); e.u32(v) }

// PutInt64 appends an 'l' tagged int64.
func (e *Encoder) PutInt64(v int64) { e.tag(TagInt64); e.u64(uint64(v)) }

// PutUint64 appends an 'L' tagged uint64.
func (e *Encoder) PutUint64(v uint64) { e.tag(TagUint64); e.u64(v) }

// PutFloat32 appends an 'f' tagged float32.
func (e *Encoder) PutFloat32(v float32) { e.tag(TagFloat32); e.u32(math.Float32bits(v)) }

// PutFloat64 appends a 'd' tagged float64.
func (e *Encoder) PutFloat64(v float64) { e.tag(TagFloat64); e.u64(math.Float64bits(v)) }

// PutDatetime appends a 'D' tagged epoch-second int64.
func (e *Encoder) PutDatetime(v time.Time) { e.tag(TagDatetime); e.u64(uint64(v.Unix())) }

// PutBool appends a 'b' tagged boolean.
func (e *Encoder) PutBool(v bool) {
	e.tag(TagBool)
	if v {
		e.u8(tagBoolTrue)
	} else {
		e.u8(tagBoolFalse)
	}
}

// PutNull appends a 'Z' tagged null.
func (e *Encoder) PutNull() { e.tag(TagNull) }

// PutString appends a 'Q' tagged UTF-8 string, length-prefixed with a
// big-endian uint32.
func (e *Encoder) PutString(v string) {
	e.tag(TagString)
	e.u32(uint32(len(v)))
	e.buf = append(e.buf, v...)
}

// PutBytes appends an 'X' tagged byte string, length-prefixed with a
// big-endian uint32.
func (e *Encoder) PutBytes(v []byte) {
	e.tag(TagBytes)
	e.u32(uint32(len(v)))
	e.buf = append(e.buf, v...)
}

// PutArray encodes v as a '[' count elements ']' container.
func (e *Encoder) PutArray(v Array) {
	e.tag(TagArrayStart)
	e.varint(uint64(len(v)))
	for _, item := range v {
		e.PutValue(item)
	}
	e.tag(TagArrayEnd)
}

// PutRecord encodes v as a '{' elements '}' container.
func (e *Encoder) PutRecord(v Record) {
	e.tag(TagRecordStart)
	for _, item := range v {
		e.PutValue(item)
	}
	e.tag(TagRecordEnd)
}

// PutValue encodes v according to its dynamic Go type.
func (e *Encoder) PutValue(v any) {
	switch t := v.(type) {
	case nil:
		e.PutNull()
	case int8:
		e.PutInt8(t)
	case uint8:
		e.PutUint8(t)
	case int16:
		e.PutInt16(t)
	case uint16:
		e.PutUint16(t)
	case int32:
		e.PutInt32(t)
	case uint32:
		e.PutUint32(t)
	case int64:
		e.PutInt64(t)
	case uint64:
		e.PutUint64(t)
	case float32:
		e.PutFloat32(t)
	case float64:
		e.PutFloat64(t)
	case time.Time:
		e.PutDatetime(t)
	case bool:
		e.PutBool(t)
	case string:
		e.PutString(t)
	case []byte:
		e.PutBytes(t)
	case Array:
		e.PutArray(t)
	case Record:
		e.PutRecord(t)
	default:
		panic("wire: PutValue: unsupported Go type")
	}
}

// Encode serializes v, a scalar or an Array/Record tree, into wire
// bytes.
func Encode(v any) []byte {
	e := NewEncoder()
	e.PutValue(v)
	return e.Bytes()
}

// Decode parses exactly one tagged value from b and returns it along
// with any trailing bytes.
func Decode(b []byte) (value any, rest []byte, err liberr.Error) {
	d := &Decoder{buf: b}
	v, e := d.value()
	if e != nil {
		return nil, nil, e
	}
	return v, d.buf[d.pos:], nil
}
