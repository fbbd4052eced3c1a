package nex

import (
	"fmt"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// Variant tags.
const (
	VariantNone     uint8 = 0
	VariantInt64    uint8 = 1
	VariantFloat64  uint8 = 2
	VariantBool     uint8 = 3
	VariantString   uint8 = 4
	VariantDateTime uint8 = 5
	VariantUint64   uint8 = 6
)

// Variant is a tagged union over six payload kinds. Value is nil for
// VariantNone and for tags this decoder does not know.
type Variant struct {
	Type  uint8
	Value any
}

// NewVariant picks the tag from the Go type of v.
func NewVariant(v any) (Variant, error) {
	switch val := v.(type) {
	case nil:
		return Variant{Type: VariantNone}, nil
	case int64:
		return Variant{Type: VariantInt64, Value: val}, nil
	case float64:
		return Variant{Type: VariantFloat64, Value: val}, nil
	case bool:
		return Variant{Type: VariantBool, Value: val}, nil
	case string:
		return Variant{Type: VariantString, Value: val}, nil
	case DateTime:
		return Variant{Type: VariantDateTime, Value: val}, nil
	case uint64:
		return Variant{Type: VariantUint64, Value: val}, nil
	default:
		return Variant{}, fmt.Errorf("nex: no variant tag for %T", v)
	}
}

// Known reports whether the tag is one of the defined cases.
func (v Variant) Known() bool { return v.Type <= VariantUint64 }

// ReadVariant reads the tag byte and its payload. Unknown tags consume only
// the tag byte.
func (s *Stream) ReadVariant() (Variant, error) {
	tag, err := s.ReadUint8()
	if err != nil {
		return Variant{}, err
	}
	v := Variant{Type: tag}
	switch tag {
	case VariantNone:
	case VariantInt64:
		v.Value, err = s.ReadInt64()
	case VariantFloat64:
		v.Value, err = s.ReadFloat64()
	case VariantBool:
		v.Value, err = s.ReadBool()
	case VariantString:
		v.Value, err = s.ReadString()
	case VariantDateTime:
		v.Value, err = s.ReadDateTime()
	case VariantUint64:
		v.Value, err = s.ReadUint64()
	default:
		s.Report(DiagOutOfRangeVariant, "variant tag %d has no payload kind", tag)
	}
	if err != nil {
		return Variant{}, err
	}
	return v, nil
}

func (w *Writer) WriteVariant(v Variant) {
	w.WriteUint8(v.Type)
	switch v.Type {
	case VariantInt64:
		val, _ := v.Value.(int64)
		w.WriteInt64(val)
	case VariantFloat64:
		val, _ := v.Value.(float64)
		w.WriteFloat64(val)
	case VariantBool:
		val, _ := v.Value.(bool)
		w.WriteBool(val)
	case VariantString:
		val, _ := v.Value.(string)
		w.WriteString(val)
	case VariantDateTime:
		val, _ := v.Value.(DateTime)
		w.WriteDateTime(val)
	case VariantUint64:
		val, _ := v.Value.(uint64)
		w.WriteUint64(val)
	}
}

func (v Variant) Tree() tree.Node {
	return tree.Struct("Variant", tree.Object{
		{Name: "type", Node: tree.Uint8(v.Type)},
		{Name: "value", Node: v.valueTree()},
	})
}

// valueTree types the payload by tag. A value that does not match its tag
// renders as an untyped leaf rather than panicking.
func (v Variant) valueTree() tree.Node {
	switch val := v.Value.(type) {
	case int64:
		if v.Type == VariantInt64 {
			return tree.Sint64(val)
		}
	case float64:
		if v.Type == VariantFloat64 {
			return tree.Double(val)
		}
	case bool:
		if v.Type == VariantBool {
			return tree.Bool(val)
		}
	case string:
		if v.Type == VariantString {
			return tree.String(val)
		}
	case DateTime:
		if v.Type == VariantDateTime {
			return val.Tree()
		}
	case uint64:
		if v.Type == VariantUint64 {
			return tree.Uint64(val)
		}
	case nil:
		if v.Type == VariantNone {
			return tree.Leaf(tree.TypeNoValue, nil)
		}
	}
	return tree.Leaf("unknown", v.Value)
}
