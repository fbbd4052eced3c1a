package nex

import (
	"fmt"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

func registerCommon(r *Registry) {
	r.Register("Data", func() Structure { return &Data{} })
	r.Register("ResultRange", func() Structure { return &ResultRange{} })
	r.Register("RVConnectionData", func() Structure { return &RVConnectionData{} })
}

// Data is the empty root structure many types declare as their parent.
type Data struct {
	Base
}

func (d *Data) StructureName() string { return "Data" }
func (d *Data) ExtractFields(s *Stream) error { return nil }
func (d *Data) WriteFields(w *Writer) {}
func (d *Data) FieldsTree() tree.Object { return nil }
func (d *Data) Tree() tree.Node { return StructureTree(d) }

// ResultRange selects a window of a result set.
type ResultRange struct {
	Base
	Offset uint32
	Size   uint32
}

func (r *ResultRange) StructureName() string { return "ResultRange" }

func (r *ResultRange) ExtractFields(s *Stream) error {
	var err error
	if r.Offset, err = s.ReadUint32(); err != nil {
		return err
	}
	r.Size, err = s.ReadUint32()
	return err
}

func (r *ResultRange) WriteFields(w *Writer) {
	w.WriteUint32(r.Offset)
	w.WriteUint32(r.Size)
}

func (r *ResultRange) FieldsTree() tree.Object {
	return tree.Object{
		{Name: "m_uiOffset", Node: tree.Uint32(r.Offset)},
		{Name: "m_uiSize", Node: tree.Uint32(r.Size)},
	}
}

func (r *ResultRange) Tree() tree.Node { return StructureTree(r) }

// Result is a NEX result code. Error codes have the high bit set.
type Result uint32

const ResultSuccess Result = 0x00010001

func (r Result) IsSuccess() bool { return r&0x80000000 == 0 }

func (r Result) String() string { return fmt.Sprintf("0x%08X", uint32(r)) }

func (r Result) Tree() tree.Node {
	return tree.Struct(tree.TypeResult, tree.Object{
		{Name: "resultCode", Node: tree.Uint32(uint32(r))},
	})
}

// RVConnectionData describes how to reach a secure server. CurrentUTCTime is
// present only on PRUDP v1 connections.
type RVConnectionData struct {
	Base
	StationURL        StationURL
	SpecialProtocols  []uint8
	StationURLSpecial StationURL
	CurrentUTCTime    DateTime
	HasCurrentUTCTime bool
}

func (c *RVConnectionData) StructureName() string { return "RVConnectionData" }

func (c *RVConnectionData) ExtractFields(s *Stream) error {
	var err error
	if c.StationURL, err = s.ReadStationURL(); err != nil {
		return err
	}
	if c.SpecialProtocols, err = ReadList(s, (*Stream).ReadUint8); err != nil {
		return err
	}
	if c.StationURLSpecial, err = s.ReadStationURL(); err != nil {
		return err
	}
	c.HasCurrentUTCTime = s.Context().PRUDPVersion == 1
	if c.HasCurrentUTCTime {
		if c.CurrentUTCTime, err = s.ReadDateTime(); err != nil {
			return err
		}
	}
	return nil
}

func (c *RVConnectionData) WriteFields(w *Writer) {
	w.WriteStationURL(c.StationURL)
	WriteList(w, c.SpecialProtocols, (*Writer).WriteUint8)
	w.WriteStationURL(c.StationURLSpecial)
	if w.Context().PRUDPVersion == 1 {
		w.WriteDateTime(c.CurrentUTCTime)
	}
}

func (c *RVConnectionData) FieldsTree() tree.Object {
	fields := tree.Object{
		{Name: "m_urlRegularProtocols", Node: c.StationURL.Tree()},
		{Name: "m_lstSpecialProtocols", Node: tree.List(tree.TypeUint8, c.SpecialProtocols, tree.Uint8)},
		{Name: "m_urlSpecialProtocols", Node: c.StationURLSpecial.Tree()},
	}
	if c.HasCurrentUTCTime {
		fields = fields.Add("m_currentUTCTime", c.CurrentUTCTime.Tree())
	}
	return fields
}

func (c *RVConnectionData) Tree() tree.Node { return StructureTree(c) }
