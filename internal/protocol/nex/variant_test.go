package nex

import (
	"testing"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
	"github.com/danmuck/nexrmc/internal/testutil/testlog"
)

func TestVariantBool(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{3, 1}, ctx35, nil)
	v, err := s.ReadVariant()
	if err != nil {
		t.Fatalf("read variant: %v", err)
	}
	if b, ok := v.Value.(bool); !ok || !b {
		t.Fatalf("expected true, got %#v", v.Value)
	}
}

func TestVariantNoneConsumesOnlyTag(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{0, 0xAA}, ctx35, nil)
	v, err := s.ReadVariant()
	if err != nil {
		t.Fatalf("read variant: %v", err)
	}
	if v.Value != nil || s.Offset() != 1 {
		t.Fatalf("value=%v offset=%d", v.Value, s.Offset())
	}
}

func TestVariantOutOfRangeTag(t *testing.T) {
	testlog.Start(t)
	s := NewStream([]byte{9, 0xAA}, ctx35, nil)
	v, err := s.ReadVariant()
	if err != nil {
		t.Fatalf("out of range tag must not fail: %v", err)
	}
	if v.Value != nil || v.Known() || s.Offset() != 1 {
		t.Fatalf("value=%v known=%v offset=%d", v.Value, v.Known(), s.Offset())
	}
	diags := s.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagOutOfRangeVariant {
		t.Fatalf("expected out of range diagnostic, got %v", diags)
	}
}

func TestVariantRoundTrip(t *testing.T) {
	testlog.Start(t)
	values := []any{nil, int64(-7), 2.25, true, "str", DateTime(99), uint64(1 << 63)}
	w := NewWriter(ctx35)
	for _, val := range values {
		v, err := NewVariant(val)
		if err != nil {
			t.Fatalf("new variant %T: %v", val, err)
		}
		w.WriteVariant(v)
	}
	s := NewStream(w.Bytes(), ctx35, nil)
	for i, want := range values {
		v, err := s.ReadVariant()
		if err != nil {
			t.Fatalf("variant %d: %v", i, err)
		}
		if v.Type != uint8(i) || v.Value != want {
			t.Fatalf("variant %d: got type=%d value=%#v want %#v", i, v.Type, v.Value, want)
		}
	}
	if _, err := NewVariant(int32(1)); err == nil {
		t.Fatalf("expected error for unsupported Go type")
	}
}

func TestVariantTreeLabels(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		v    Variant
		want string
	}{
		{Variant{Type: VariantNone}, tree.TypeNoValue},
		{Variant{Type: VariantInt64, Value: int64(-3)}, tree.TypeSint64},
		{Variant{Type: VariantFloat64, Value: 0.5}, tree.TypeDouble},
		{Variant{Type: VariantBool, Value: true}, tree.TypeBool},
		{Variant{Type: VariantString, Value: "x"}, tree.TypeString},
		{Variant{Type: VariantDateTime, Value: DateTime(1)}, tree.TypeDateTime},
		{Variant{Type: VariantUint64, Value: uint64(7)}, tree.TypeUint64},
		{Variant{Type: 9}, "unknown"},
		{Variant{Type: VariantBool, Value: "mismatched"}, "unknown"},
	}
	for _, tc := range cases {
		fields, ok := tc.v.Tree().Value.(tree.Object)
		if !ok {
			t.Fatalf("variant %d: tree value is not an object", tc.v.Type)
		}
		value, ok := fields.Get("value")
		if !ok || value.Type != tc.want {
			t.Fatalf("variant %d: expected %q, got %q", tc.v.Type, tc.want, value.Type)
		}
	}
}
