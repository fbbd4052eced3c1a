package nex

import (
	"fmt"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// StructureHeader precedes a structure's own fields on NEX 3.5 and later.
type StructureHeader struct {
	Version       uint8
	ContentLength uint32
}

// Base carries the decoded parent chain and header. Structures embed it.
type Base struct {
	Parents []Structure
	Header  *StructureHeader
}

func (b *Base) StructureBase() *Base { return b }

// DeclaredParents is the default for structures without parents.
func (b *Base) DeclaredParents() []Structure { return nil }

// Structure is a versionable record. Parents decode strictly before the
// header, which decodes strictly before the structure's own fields.
type Structure interface {
	StructureName() string
	StructureBase() *Base
	// DeclaredParents returns fresh parent instances, oldest ancestor first.
	DeclaredParents() []Structure
	ExtractFields(s *Stream) error
	WriteFields(w *Writer)
	FieldsTree() tree.Object
}

// ExtractStructure decodes v: parents, then the header when the context
// carries one, then own fields.
func ExtractStructure(s *Stream, v Structure) error {
	base := v.StructureBase()
	base.Parents = base.Parents[:0]
	for _, parent := range v.DeclaredParents() {
		if err := ExtractStructure(s, parent); err != nil {
			return fmt.Errorf("%s parent %s: %w", v.StructureName(), parent.StructureName(), err)
		}
		base.Parents = append(base.Parents, parent)
	}

	base.Header = nil
	if s.ctx.HasStructureHeader() {
		version, err := s.ReadUint8()
		if err != nil {
			return fmt.Errorf("%s header: %w", v.StructureName(), err)
		}
		length, err := s.ReadUint32()
		if err != nil {
			return fmt.Errorf("%s header: %w", v.StructureName(), err)
		}
		base.Header = &StructureHeader{Version: version, ContentLength: length}
	}

	if err := v.ExtractFields(s); err != nil {
		return fmt.Errorf("%s: %w", v.StructureName(), err)
	}
	return nil
}

// WriteStructure encodes v in the layout ExtractStructure reads. The header
// content length is computed from the encoded own fields.
func WriteStructure(w *Writer, v Structure) {
	base := v.StructureBase()
	parents := base.Parents
	if len(parents) == 0 {
		parents = v.DeclaredParents()
	}
	for _, parent := range parents {
		WriteStructure(w, parent)
	}

	if !w.ctx.HasStructureHeader() {
		v.WriteFields(w)
		return
	}

	body := NewWriter(w.ctx)
	v.WriteFields(body)
	if err := body.Err(); err != nil {
		w.fail(err)
		return
	}
	var version uint8
	if base.Header != nil {
		version = base.Header.Version
	}
	w.WriteUint8(version)
	w.WriteUint32(uint32(body.Len()))
	w.WriteBytes(body.Bytes())
}

// StructureTree renders v with its parents ahead of its own fields.
func StructureTree(v Structure) tree.Node {
	var fields tree.Object
	base := v.StructureBase()
	for _, parent := range base.Parents {
		fields = fields.Add("__"+parent.StructureName(), StructureTree(parent))
	}
	if h := base.Header; h != nil {
		fields = fields.Add("__structureHeader", tree.Struct("StructureHeader", tree.Object{
			{Name: "version", Node: tree.Uint8(h.Version)},
			{Name: "contentLength", Node: tree.Uint32(h.ContentLength)},
		}))
	}
	fields = append(fields, v.FieldsTree()...)
	return tree.Struct(v.StructureName(), fields)
}
