package wire_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/bjornaugestad/highlander-go/wire"
)

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	b := wire.Encode(v)
	got, rest, err := wire.Decode(b)
	if err != nil {
		t.Fatalf("decode(encode(%#v)) failed: %v", v, err)
	}
	if len(rest) != 0 {
		t.Fatalf("decode left %d trailing bytes", len(rest))
	}
	return got
}

func TestScalarRoundTrip(t *testing.T) {
	cases := []any{
		int8(-12), uint8(200), int16(-3000), uint16(50000),
		int32(-70000), uint32(4000000000), int64(-1), uint64(1<<63 + 7),
		float32(3.5), float64(2.71828), true, false, "héllo, 世界",
		[]byte{0x00, 0x01, 0xff},
	}

	for _, c := range cases {
		got := roundTrip(t, c)
		if !reflect.DeepEqual(got, c) {
			t.Errorf("round-trip mismatch: want %#v, got %#v", c, got)
		}
	}
}

func TestNullRoundTrip(t *testing.T) {
	got := roundTrip(t, nil)
	if got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestDatetimeRoundTripToSecondPrecision(t *testing.T) {
	in := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	got := roundTrip(t, in)
	gotTime, ok := got.(time.Time)
	if !ok || !gotTime.Equal(in) {
		t.Fatalf("expected %v, got %#v", in, got)
	}
}

func TestArrayRoundTrip(t *testing.T) {
	in := wire.Array{int32(1), "two", wire.Array{uint8(3), uint8(4)}}
	got := roundTrip(t, in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("array round-trip mismatch: want %#v, got %#v", in, got)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	in := wire.Record{"name", int32(42), wire.Record{"nested", true}}
	got := roundTrip(t, in)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("record round-trip mismatch: want %#v, got %#v", in, got)
	}
}

func TestEmptyArray(t *testing.T) {
	got := roundTrip(t, wire.Array{})
	arr, ok := got.(wire.Array)
	if !ok || len(arr) != 0 {
		t.Fatalf("expected empty Array, got %#v", got)
	}
}

func TestUnbalancedArrayIsDecodeError(t *testing.T) {
	e := wire.NewEncoder()
	e.PutArray(wire.Array{int32(1)})
	b := e.Bytes()
	b = b[:len(b)-1] // drop the closing ']'

	if _, _, err := wire.Decode(b); err == nil {
		t.Fatal("expected an error decoding an unbalanced array")
	}
}

func TestUnknownTagIsDecodeError(t *testing.T) {
	if _, _, err := wire.Decode([]byte{'?'}); err == nil {
		t.Fatal("expected an error for an unknown tag")
	}
}

func TestTruncatedInputIsDecodeError(t *testing.T) {
	e := wire.NewEncoder()
	e.PutUint32(123456)
	b := e.Bytes()[:2]

	if _, _, err := wire.Decode(b); err == nil {
		t.Fatal("expected an error for truncated input")
	}
}
