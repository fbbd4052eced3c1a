package nex

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/testutil/testlog"
)

var (
	ctx34 = Context{NEXVersion: Version{Major: 3, Minor: 4}}
	ctx35 = Context{NEXVersion: Version{Major: 3, Minor: 5}, PRUDPVersion: 1}
)

func TestPrimitiveRoundTrip(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(ctx35)
	u32s := []uint32{0, 1, math.MaxUint32}
	i64s := []int64{0, math.MinInt64, math.MaxInt64}
	for _, v := range u32s {
		w.WriteUint32(v)
	}
	for _, v := range i64s {
		w.WriteInt64(v)
	}
	w.WriteUint8(math.MaxUint8)
	w.WriteUint16(math.MaxUint16)
	w.WriteUint64(math.MaxUint64)
	w.WriteFloat64(-1.5)
	w.WriteBool(true)
	w.WriteString("hello")
	w.WriteString("")
	w.WriteBuffer([]byte{0xde, 0xad})
	w.WriteQBuffer([]byte{0xbe, 0xef})
	if err := w.Err(); err != nil {
		t.Fatalf("encode: %v", err)
	}

	s := NewStream(w.Bytes(), ctx35, nil)
	for _, want := range u32s {
		got, err := s.ReadUint32()
		if err != nil || got != want {
			t.Fatalf("u32 got=%d err=%v want=%d", got, err, want)
		}
	}
	for _, want := range i64s {
		got, err := s.ReadInt64()
		if err != nil || got != want {
			t.Fatalf("i64 got=%d err=%v want=%d", got, err, want)
		}
	}
	if v, _ := s.ReadUint8(); v != math.MaxUint8 {
		t.Fatalf("u8 got=%d", v)
	}
	if v, _ := s.ReadUint16(); v != math.MaxUint16 {
		t.Fatalf("u16 got=%d", v)
	}
	if v, _ := s.ReadUint64(); v != math.MaxUint64 {
		t.Fatalf("u64 got=%d", v)
	}
	if v, _ := s.ReadFloat64(); v != -1.5 {
		t.Fatalf("f64 got=%v", v)
	}
	if v, _ := s.ReadBool(); !v {
		t.Fatalf("bool got=false")
	}
	if v, _ := s.ReadString(); v != "hello" {
		t.Fatalf("string got=%q", v)
	}
	if v, _ := s.ReadString(); v != "" {
		t.Fatalf("empty string got=%q", v)
	}
	if v, _ := s.ReadBuffer(); !bytes.Equal(v, []byte{0xde, 0xad}) {
		t.Fatalf("buffer got=%x", v)
	}
	if v, _ := s.ReadQBuffer(); !bytes.Equal(v, []byte{0xbe, 0xef}) {
		t.Fatalf("qbuffer got=%x", v)
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected stream exhausted, %d left", s.Remaining())
	}
}

func TestLittleEndianLayout(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0x78, 0x56, 0x34, 0x12}, ctx35, nil)
	v, err := s.ReadUint32()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if v != 0x12345678 {
		t.Fatalf("got 0x%x", v)
	}
}

func TestBoolAnyNonzeroIsTrue(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0x00, 0x02, 0xff}, ctx35, nil)
	want := []bool{false, true, true}
	for i, w := range want {
		got, err := s.ReadBool()
		if err != nil || got != w {
			t.Fatalf("bool[%d] got=%v err=%v", i, got, err)
		}
	}
}

func TestStringWithoutTerminator(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0x03, 0x00, 'a', 'b', 'c'}, ctx35, nil)
	got, err := s.ReadString()
	if err != nil || got != "abc" {
		t.Fatalf("got=%q err=%v", got, err)
	}
}

func TestReadPastEndIsTruncated(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0x01, 0x02}, ctx35, nil)
	if _, err := s.ReadUint32(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	var trunc protocol.TruncatedError
	_, err := s.ReadUint64()
	if !errors.As(err, &trunc) {
		t.Fatalf("expected TruncatedError, got %T", err)
	}
	if trunc.Offset != 0 || trunc.Want != 8 || trunc.Have != 2 {
		t.Fatalf("unexpected truncation detail: %+v", trunc)
	}
	if s.Offset() != 0 {
		t.Fatalf("failed read moved cursor to %d", s.Offset())
	}
}

func TestBufferLengthBeyondInput(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0xff, 0xff, 0xff, 0xff, 0x01}, ctx35, nil)
	if _, err := s.ReadBuffer(); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestListPreservesOrder(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(ctx35)
	WriteList(w, []string{"a", "bb", "ccc"}, (*Writer).WriteString)
	s := NewStream(w.Bytes(), ctx35, nil)
	got, err := ReadList(s, (*Stream).ReadString)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "bb" || got[2] != "ccc" {
		t.Fatalf("unexpected list: %v", got)
	}
}

func TestListTruncatedElement(t *testing.T) {
	testlog.Start(t)
	// count=2, one u32 element present
	s := NewStream([]byte{2, 0, 0, 0, 1, 0, 0, 0}, ctx35, nil)
	if _, err := ReadList(s, (*Stream).ReadUint32); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestListCountBeyondInputFailsFast(t *testing.T) {
	testlog.Start(t)
	// Data carries no bytes below 3.5, so an unchecked count would loop.
	s := NewStream([]byte{0x00, 0x2d, 0x31, 0x01}, ctx34, nil)
	got, err := ReadStructureList(s, func() *Data { return &Data{} })
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v (%d elements)", err, len(got))
	}
	var trunc protocol.TruncatedError
	if !errors.As(err, &trunc) || trunc.Offset != 0 || trunc.Have != 0 {
		t.Fatalf("unexpected truncation detail: %+v", trunc)
	}

	s = NewStream([]byte{0xff, 0xff, 0xff, 0xff, 0x01, 0x02}, ctx35, nil)
	if _, err := ReadList(s, (*Stream).ReadUint8); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated for max count, got %v", err)
	}
}

func TestStructureListRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := []*ResultRange{{Offset: 0, Size: 10}, {Offset: 10, Size: 25}}
	w := NewWriter(ctx35)
	WriteStructureList(w, in)
	if err := w.Err(); err != nil {
		t.Fatalf("encode: %v", err)
	}
	// count + two (header + 8 byte) structures
	if w.Len() != 4+2*(5+8) {
		t.Fatalf("unexpected encoded length %d", w.Len())
	}
	s := NewStream(w.Bytes(), ctx35, nil)
	got, err := ReadStructureList(s, func() *ResultRange { return &ResultRange{} })
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[1].Offset != 10 || got[1].Size != 25 || s.Remaining() != 0 {
		t.Fatalf("unexpected list: %+v remaining=%d", got, s.Remaining())
	}
}

func TestWriterRejectsOversizedString(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(ctx35)
	w.WriteString(string(make([]byte, math.MaxUint16)))
	w.WriteUint8(1)
	if !errors.Is(w.Err(), protocol.ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", w.Err())
	}
	if w.Len() != 0 {
		t.Fatalf("writes after failure should be dropped, have %d bytes", w.Len())
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	testlog.Start(t)
	d := DateTime(uint64(2024)<<26 | uint64(3)<<22 | uint64(15)<<17 | uint64(13)<<12 | uint64(45)<<6 | 30)
	w := NewWriter(ctx35)
	w.WriteDateTime(d)
	got, err := NewStream(w.Bytes(), ctx35, nil).ReadDateTime()
	if err != nil || got != d {
		t.Fatalf("got=%d err=%v", got, err)
	}
	tm := got.Time()
	if tm.Year() != 2024 || tm.Month() != 3 || tm.Day() != 15 || tm.Hour() != 13 || tm.Minute() != 45 || tm.Second() != 30 {
		t.Fatalf("unexpected unpacked time %v", tm)
	}
	if NewDateTime(tm) != d {
		t.Fatalf("repack mismatch")
	}
}
