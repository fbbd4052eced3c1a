package nex

import (
	"encoding/hex"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// AnyDataHolder carries one structure whose concrete shape is named on the
// wire. Unresolved names keep the payload as Raw bytes.
type AnyDataHolder struct {
	TypeName string
	Length1  uint32
	Length2  uint32
	Data     Structure
	Raw      []byte
}

// NewAnyDataHolder wraps v under its structure name.
func NewAnyDataHolder(v Structure) *AnyDataHolder {
	return &AnyDataHolder{TypeName: v.StructureName(), Data: v}
}

func (h *AnyDataHolder) Resolved() bool { return h.Data != nil }

// ReadAnyDataHolder reads the type name and both lengths, then decodes the
// payload with the registered structure or captures Length2 raw bytes.
func (s *Stream) ReadAnyDataHolder() (*AnyDataHolder, error) {
	h := &AnyDataHolder{}
	var err error
	if h.TypeName, err = s.ReadString(); err != nil {
		return nil, err
	}
	if h.Length1, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	if h.Length2, err = s.ReadUint32(); err != nil {
		return nil, err
	}

	v, ok := s.reg.New(h.TypeName)
	if !ok {
		s.Report(DiagUnresolvedType, "no structure registered for %q, kept %d raw bytes", h.TypeName, h.Length2)
		if h.Raw, err = s.ReadBytes(int(h.Length2)); err != nil {
			return nil, err
		}
		return h, nil
	}

	start := s.off
	if err := ExtractStructure(s, v); err != nil {
		return nil, err
	}
	if consumed := s.off - start; uint32(consumed) != h.Length2 {
		s.Report(DiagLengthMismatch, "%s consumed %d bytes, holder declared %d", h.TypeName, consumed, h.Length2)
	}
	h.Data = v
	return h, nil
}

// WriteAnyDataHolder sets Length2 to the payload size and Length1 to
// Length2 plus the four bytes of Length2 itself.
func (w *Writer) WriteAnyDataHolder(h *AnyDataHolder) {
	if h == nil {
		h = &AnyDataHolder{}
	}
	payload := h.Raw
	name := h.TypeName
	if h.Data != nil {
		body := NewWriter(w.ctx)
		WriteStructure(body, h.Data)
		if err := body.Err(); err != nil {
			w.fail(err)
			return
		}
		payload = body.Bytes()
		if name == "" {
			name = h.Data.StructureName()
		}
	}
	w.WriteString(name)
	w.WriteUint32(uint32(len(payload)) + 4)
	w.WriteUint32(uint32(len(payload)))
	w.WriteBytes(payload)
}

func (h *AnyDataHolder) Tree() tree.Node {
	if h == nil {
		return tree.Leaf(tree.TypeNoValue, nil)
	}
	data := tree.Leaf(h.TypeName, hex.EncodeToString(h.Raw))
	if h.Data != nil {
		data = StructureTree(h.Data)
	}
	return tree.Struct("AnyDataHolder", tree.Object{
		{Name: "typeName", Node: tree.String(h.TypeName)},
		{Name: "length1", Node: tree.Uint32(h.Length1)},
		{Name: "length2", Node: tree.Uint32(h.Length2)},
		{Name: "objectData", Node: data},
	})
}
