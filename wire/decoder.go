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

// Decoder reads tagged values sequentially from a fixed byte slice.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a Decoder positioned at the start of b.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

func (d *Decoder) need(n int) liberr.Error {
	if len(d.buf)-d.pos < n {
		return liberr.Newf(ErrorTruncated, "need %d more bytes, have %d", n, len(d.buf)-d.pos)
	}
	return nil
}

func (d *Decoder) u8() (uint8, liberr.Error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

func (d *Decoder) u16() (uint16, liberr.Error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(d.buf[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *Decoder) u32() (uint32, liberr.Error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *Decoder) u64() (uint64, liberr.Error) {
	if err := d.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return v, nil
}

func (d *Decoder) varint() (uint64, liberr.Error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, liberr.New(ErrorTruncated, "malformed or truncated varint count")
	}
	d.pos += n
	return v, nil
}

// PeekTag returns the next tag byte without consuming it.
func (d *Decoder) PeekTag() (Tag, liberr.Error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	return Tag(d.buf[d.pos]), nil
}

func (d *Decoder) tag() (Tag, liberr.Error) {
	v, err := d.u8()
	return Tag(v), err
}

func (d *Decoder) expect(want Tag) liberr.Error {
	got, err := d.tag()
	if err != nil {
		return err
	}
	if got != want {
		return liberr.Newf(ErrorTypeMismatch, "expected tag %q, got %q", byte(want), byte(got))
	}
	return nil
}

// value parses and returns the next tagged value as its natural Go
// type (Array/Record for containers).
func (d *Decoder) value() (any, liberr.Error) {
	t, err := d.tag()
	if err != nil {
		return nil, err
	}

	switch t {
	case TagInt8:
		v, e := d.u8()
		return int8(v), e
	case TagUint8:
		return d.u8()
	case TagInt16:
		v, e := d.u16()
		return int16(v), e
	case TagUint16:
		return d.u16()
	case TagInt32:
		v, e := d.u32()
		return int32(v), e
	case TagUint32:
		return d.u32()
	case TagInt64:
		v, e := d.u64()
		return int64(v), e
	case TagUint64:
		return d.u64()
	case TagFloat32:
		v, e := d.u32()
		return math.Float32frombits(v), e
	case TagFloat64:
		v, e := d.u64()
		return math.Float64frombits(v), e
	case TagDatetime:
		v, e := d.u64()
		return time.Unix(int64(v), 0).UTC(), e
	case TagBool:
		v, e := d.u8()
		if e != nil {
			return nil, e
		}
		return v == tagBoolTrue, nil
	case TagNull:
		return nil, nil
	case TagString:
		n, e := d.u32()
		if e != nil {
			return nil, e
		}
		if err := d.need(int(n)); err != nil {
			return nil, err
		}
		s := string(d.buf[d.pos : d.pos+int(n)])
		d.pos += int(n)
		return s, nil
	case TagBytes:
		n, e := d.u32()
		if e != nil {
			return nil, e
		}
		if err := d.need(int(n)); err != nil {
			return nil, err
		}
		b := make([]byte, n)
		copy(b, d.buf[d.pos:d.pos+int(n)])
		d.pos += int(n)
		return b, nil
	case TagArrayStart:
		return d.array()
	case TagRecordStart:
		return d.record()
	default:
		return nil, liberr.Newf(ErrorUnknownTag, "unknown wire tag %q", byte(t))
	}
}

func (d *Decoder) array() (Array, liberr.Error) {
	n, err := d.varint()
	if err != nil {
		return nil, err
	}

	out := make(Array, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	if err := d.expect(TagArrayEnd); err != nil {
		return nil, liberr.New(ErrorUnbalancedContainer, "array not closed", err)
	}
	return out, nil
}

func (d *Decoder) record() (Record, liberr.Error) {
	var out Record
	for {
		peek, err := d.PeekTag()
		if err != nil {
			return nil, liberr.New(ErrorUnbalancedContainer, "record not closed", err)
		}
		if peek == TagRecordEnd {
			d.pos++
			return out, nil
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}
