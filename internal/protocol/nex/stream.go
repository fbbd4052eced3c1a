package nex

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/danmuck/nexrmc/internal/protocol"
)

// Stream is a read cursor over one message body. A Stream is owned by a
// single decode call and must not be shared between goroutines.
type Stream struct {
	buf   []byte
	off   int
	ctx   Context
	reg   *Registry
	diags []Diagnostic
}

// NewStream binds buf to ctx. reg resolves AnyDataHolder type names and may be
// nil, in which case every holder falls back to raw bytes.
func NewStream(buf []byte, ctx Context, reg *Registry) *Stream {
	return &Stream{buf: buf, ctx: ctx, reg: reg}
}

// Context returns the decoding context the stream was bound to.
func (s *Stream) Context() Context { return s.ctx }

// Registry returns the AnyDataHolder registry, possibly nil.
func (s *Stream) Registry() *Registry { return s.reg }

// Offset is the number of bytes consumed so far.
func (s *Stream) Offset() int { return s.off }

// Remaining is the number of unread bytes.
func (s *Stream) Remaining() int { return len(s.buf) - s.off }

// Len is the size of the whole body.
func (s *Stream) Len() int { return len(s.buf) }

// Diagnostics returns the conditions tolerated so far, in order.
func (s *Stream) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

// Report records a recoverable condition at the current offset.
func (s *Stream) Report(kind DiagnosticKind, format string, args ...any) {
	s.diags = append(s.diags, Diagnostic{Kind: kind, Offset: s.off, Detail: fmt.Sprintf(format, args...)})
}

func (s *Stream) next(n int) ([]byte, error) {
	if n < 0 || n > s.Remaining() {
		return nil, protocol.TruncatedError{Offset: s.off, Want: n, Have: s.Remaining()}
	}
	b := s.buf[s.off : s.off+n]
	s.off += n
	return b, nil
}

func (s *Stream) ReadUint8() (uint8, error) {
	b, err := s.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Stream) ReadUint16() (uint16, error) {
	b, err := s.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (s *Stream) ReadUint32() (uint32, error) {
	b, err := s.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (s *Stream) ReadUint64() (uint64, error) {
	b, err := s.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (s *Stream) ReadInt64() (int64, error) {
	v, err := s.ReadUint64()
	return int64(v), err
}

func (s *Stream) ReadFloat64() (float64, error) {
	v, err := s.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadBool treats any nonzero byte as true.
func (s *Stream) ReadBool() (bool, error) {
	b, err := s.ReadUint8()
	return b != 0, err
}

// ReadBytes returns a copy of the next n bytes.
func (s *Stream) ReadBytes(n int) ([]byte, error) {
	b, err := s.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadString reads a u16 length-prefixed string. The length counts the NUL
// terminator, which is stripped.
func (s *Stream) ReadString() (string, error) {
	n, err := s.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := s.next(int(n))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\x00"), nil
}

// ReadBuffer reads a u32 length-prefixed byte sequence.
func (s *Stream) ReadBuffer() ([]byte, error) {
	n, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(s.Remaining()) {
		return nil, protocol.TruncatedError{Offset: s.off, Want: int(min(uint64(n), math.MaxInt32)), Have: s.Remaining()}
	}
	return s.ReadBytes(int(n))
}

// ReadQBuffer reads a u16 length-prefixed byte sequence.
func (s *Stream) ReadQBuffer() ([]byte, error) {
	n, err := s.ReadUint16()
	if err != nil {
		return nil, err
	}
	return s.ReadBytes(int(n))
}

// ReadStationURL reads a string and parses it. Non-empty text that is not a
// station url yields a raw-only value and a diagnostic.
func (s *Stream) ReadStationURL() (StationURL, error) {
	raw, err := s.ReadString()
	if err != nil {
		return StationURL{}, err
	}
	url := ParseStationURL(raw)
	if !url.Parsed() && raw != "" {
		s.Report(DiagMalformedStationURL, "station url %q kept raw", raw)
	}
	return url, nil
}

func (s *Stream) ReadDateTime() (DateTime, error) {
	v, err := s.ReadUint64()
	return DateTime(v), err
}

func (s *Stream) ReadResult() (Result, error) {
	v, err := s.ReadUint32()
	return Result(v), err
}

// ReadStructure decodes v in place, parents first.
func (s *Stream) ReadStructure(v Structure) error {
	return ExtractStructure(s, v)
}

// ReadList reads a u32 count followed by count elements, in order. Every
// element is taken to occupy at least one byte, so a count larger than the
// unread bytes fails as truncated before anything is decoded.
func ReadList[T any](s *Stream, read func(*Stream) (T, error)) ([]T, error) {
	start := s.off
	count, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(count) > uint64(s.Remaining()) {
		return nil, fmt.Errorf("list count %d: %w", count,
			protocol.TruncatedError{Offset: start, Want: int(min(uint64(count), math.MaxInt32)), Have: s.Remaining()})
	}
	out := make([]T, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := read(s)
		if err != nil {
			return nil, fmt.Errorf("list element %d/%d: %w", i, count, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// ReadStructureList reads a list of structures built by fn.
func ReadStructureList[T Structure](s *Stream, fn func() T) ([]T, error) {
	return ReadList(s, func(s *Stream) (T, error) {
		v := fn()
		if err := ExtractStructure(s, v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}
