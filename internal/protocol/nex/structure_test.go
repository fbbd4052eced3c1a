package nex

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
	"github.com/danmuck/nexrmc/internal/testutil/testlog"
)

// marker structures consume one byte each so ordering is observable.
type markerA struct {
	Base
	V uint8
}

func (m *markerA) StructureName() string { return "MarkerA" }
func (m *markerA) ExtractFields(s *Stream) (err error) {
	m.V, err = s.ReadUint8()
	return err
}
func (m *markerA) WriteFields(w *Writer) { w.WriteUint8(m.V) }
func (m *markerA) FieldsTree() tree.Object { return tree.Object{{Name: "v", Node: tree.Uint8(m.V)}} }

type markerB struct {
	Base
	V uint8
}

func (m *markerB) StructureName() string { return "MarkerB" }
func (m *markerB) ExtractFields(s *Stream) (err error) {
	m.V, err = s.ReadUint8()
	return err
}
func (m *markerB) WriteFields(w *Writer) { w.WriteUint8(m.V) }
func (m *markerB) FieldsTree() tree.Object { return tree.Object{{Name: "v", Node: tree.Uint8(m.V)}} }

type chained struct {
	Base
	C uint8
}

func (c *chained) StructureName() string { return "Chained" }
func (c *chained) DeclaredParents() []Structure { return []Structure{&markerA{}, &markerB{}} }
func (c *chained) ExtractFields(s *Stream) (err error) {
	c.C, err = s.ReadUint8()
	return err
}
func (c *chained) WriteFields(w *Writer) { w.WriteUint8(c.C) }
func (c *chained) FieldsTree() tree.Object { return tree.Object{{Name: "c", Node: tree.Uint8(c.C)}} }

func TestHeaderGateQuadrants(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		major, minor int
		want         bool
	}{
		{2, 9, false},
		{3, 4, false},
		{3, 5, true},
		{4, 0, true},
	}
	for _, tc := range cases {
		c := Context{NEXVersion: Version{Major: tc.major, Minor: tc.minor}}
		if got := c.HasStructureHeader(); got != tc.want {
			t.Fatalf("%d.%d: header=%v want %v", tc.major, tc.minor, got, tc.want)
		}
	}
}

func TestHeaderGateLegacyRule(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		major, minor int
		want         bool
	}{
		{2, 9, false},
		{3, 4, false},
		{3, 5, true},
		{4, 0, false},
		{4, 6, true},
	}
	for _, tc := range cases {
		c := Context{NEXVersion: Version{Major: tc.major, Minor: tc.minor}, HeaderRule: HeaderRuleLegacy}
		if got := c.HasStructureHeader(); got != tc.want {
			t.Fatalf("legacy %d.%d: header=%v want %v", tc.major, tc.minor, got, tc.want)
		}
	}
}

func TestExtractStructureHeaderConsumption(t *testing.T) {
	testlog.Start(t)
	// 3.5: header {version=1, length=8}, then ResultRange fields
	raw := []byte{0x01, 0x08, 0, 0, 0, 0x0a, 0, 0, 0, 0x14, 0, 0, 0}
	rr := &ResultRange{}
	if err := ExtractStructure(NewStream(raw, ctx35, nil), rr); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rr.Header == nil || rr.Header.Version != 1 || rr.Header.ContentLength != 8 {
		t.Fatalf("unexpected header %+v", rr.Header)
	}
	if rr.Offset != 10 || rr.Size != 20 {
		t.Fatalf("unexpected fields %+v", rr)
	}

	// 3.4: same fields, no header
	rr = &ResultRange{}
	if err := ExtractStructure(NewStream(raw[5:], ctx34, nil), rr); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if rr.Header != nil || rr.Offset != 10 || rr.Size != 20 {
		t.Fatalf("unexpected 3.4 decode %+v", rr)
	}
}

func TestParentChainOrder(t *testing.T) {
	testlog.Start(t)
	// A header, A, B header, B, own header, C
	raw := []byte{
		0, 1, 0, 0, 0, 0xA1,
		0, 1, 0, 0, 0, 0xB2,
		0, 1, 0, 0, 0, 0xC3,
	}
	v := &chained{}
	s := NewStream(raw, ctx35, nil)
	if err := ExtractStructure(s, v); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(v.Parents) != 2 {
		t.Fatalf("expected 2 parents, got %d", len(v.Parents))
	}
	a, okA := v.Parents[0].(*markerA)
	b, okB := v.Parents[1].(*markerB)
	if !okA || !okB || a.V != 0xA1 || b.V != 0xB2 || v.C != 0xC3 {
		t.Fatalf("bytes consumed out of order: parents=%+v c=%x", v.Parents, v.C)
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected all bytes consumed")
	}

	w := NewWriter(ctx35)
	WriteStructure(w, v)
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("re-encode mismatch:\n got %x\nwant %x", w.Bytes(), raw)
	}
}

func TestNoFieldStructure(t *testing.T) {
	testlog.Start(t)
	s := NewStream(nil, ctx34, nil)
	if err := ExtractStructure(s, &Data{}); err != nil {
		t.Fatalf("extract empty data: %v", err)
	}
	s = NewStream([]byte{0, 0, 0, 0, 0}, ctx35, nil)
	d := &Data{}
	if err := ExtractStructure(s, d); err != nil {
		t.Fatalf("extract data with header: %v", err)
	}
	if d.Header == nil || d.Header.ContentLength != 0 || s.Remaining() != 0 {
		t.Fatalf("unexpected data decode %+v remaining=%d", d.Header, s.Remaining())
	}
}

func TestTruncatedStructureHeader(t *testing.T) {
	testlog.Start(t)
	err := ExtractStructure(NewStream([]byte{0x01, 0x02}, ctx35, nil), &ResultRange{})
	if !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestRVConnectionDataTimestampFollowsTransportVersion(t *testing.T) {
	testlog.Start(t)
	in := &RVConnectionData{
		StationURL:        ParseStationURL("prudps:/address=10.0.0.1;port=60000;CID=1;PID=2;sid=1;stream=10;type=2"),
		SpecialProtocols:  []uint8{},
		StationURLSpecial: ParseStationURL("udp"),
		CurrentUTCTime:    DateTime(12345),
	}
	for _, prudp := range []int{0, 1} {
		c := Context{NEXVersion: Version{Major: 3, Minor: 4}, PRUDPVersion: prudp}
		w := NewWriter(c)
		WriteStructure(w, in)
		out := &RVConnectionData{}
		s := NewStream(w.Bytes(), c, nil)
		if err := ExtractStructure(s, out); err != nil {
			t.Fatalf("prudp v%d extract: %v", prudp, err)
		}
		if out.HasCurrentUTCTime != (prudp == 1) {
			t.Fatalf("prudp v%d: HasCurrentUTCTime=%v", prudp, out.HasCurrentUTCTime)
		}
		if prudp == 1 && out.CurrentUTCTime != 12345 {
			t.Fatalf("timestamp mismatch %d", out.CurrentUTCTime)
		}
		if port, ok := out.StationURL.Port(); !ok || port != 60000 {
			t.Fatalf("port=%d ok=%v", port, ok)
		}
		if len(s.Diagnostics()) != 1 || s.Diagnostics()[0].Kind != DiagMalformedStationURL {
			t.Fatalf("expected malformed station url diagnostic, got %v", s.Diagnostics())
		}
	}
}

func TestStructureTreeListsParentsFirst(t *testing.T) {
	testlog.Start(t)
	v := &chained{C: 3}
	v.Parents = []Structure{&markerA{V: 1}, &markerB{V: 2}}
	node := StructureTree(v)
	obj, ok := node.Value.(tree.Object)
	if !ok || node.Type != "Chained" {
		t.Fatalf("unexpected node %+v", node)
	}
	if len(obj) != 3 || obj[0].Name != "__MarkerA" || obj[1].Name != "__MarkerB" || obj[2].Name != "c" {
		t.Fatalf("unexpected member order %+v", obj)
	}
}
