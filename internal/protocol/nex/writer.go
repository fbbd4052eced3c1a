package nex

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/danmuck/nexrmc/internal/protocol"
)

// Writer encodes values in the same layout Stream reads them. The first
// encoding error is kept and every later write is a no-op.
type Writer struct {
	buf []byte
	ctx Context
	err error
}

// NewWriter returns an empty writer that encodes for ctx.
func NewWriter(ctx Context) *Writer {
	return &Writer{ctx: ctx}
}

// Context returns the encoding context.
func (w *Writer) Context() Context { return w.ctx }

// Bytes returns the encoded body. It is only meaningful when Err is nil.
func (w *Writer) Bytes() []byte { return w.buf }

// Len is the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Err returns the first encoding error.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

// WriteString writes the length (NUL included), the text and a NUL.
func (w *Writer) WriteString(v string) {
	if len(v)+1 > math.MaxUint16 {
		w.fail(fmt.Errorf("string of %d bytes: %w", len(v), protocol.ErrInvalidLength))
		return
	}
	w.WriteUint16(uint16(len(v) + 1))
	w.WriteBytes([]byte(v))
	w.WriteUint8(0)
}

func (w *Writer) WriteBuffer(b []byte) {
	if uint64(len(b)) > math.MaxUint32 {
		w.fail(fmt.Errorf("buffer of %d bytes: %w", len(b), protocol.ErrInvalidLength))
		return
	}
	w.WriteUint32(uint32(len(b)))
	w.WriteBytes(b)
}

func (w *Writer) WriteQBuffer(b []byte) {
	if len(b) > math.MaxUint16 {
		w.fail(fmt.Errorf("qbuffer of %d bytes: %w", len(b), protocol.ErrInvalidLength))
		return
	}
	w.WriteUint16(uint16(len(b)))
	w.WriteBytes(b)
}

func (w *Writer) WriteStationURL(u StationURL) { w.WriteString(u.String()) }
func (w *Writer) WriteDateTime(d DateTime) { w.WriteUint64(uint64(d)) }
func (w *Writer) WriteResult(r Result) { w.WriteUint32(uint32(r)) }
func (w *Writer) WriteStructure(v Structure) { WriteStructure(w, v) }

// WriteList writes a u32 count followed by each element.
func WriteList[T any](w *Writer, items []T, write func(*Writer, T)) {
	if uint64(len(items)) > math.MaxUint32 {
		w.fail(fmt.Errorf("list of %d items: %w", len(items), protocol.ErrInvalidLength))
		return
	}
	w.WriteUint32(uint32(len(items)))
	for _, item := range items {
		write(w, item)
	}
}

// WriteStructureList writes a list of structures.
func WriteStructureList[T Structure](w *Writer, items []T) {
	WriteList(w, items, func(w *Writer, v T) { WriteStructure(w, v) })
}
