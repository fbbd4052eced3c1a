package authentication

import (
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

type LoginRequest struct {
	UserName string
}

func (r *LoginRequest) ExtractFrom(s *nex.Stream) (err error) {
	r.UserName, err = s.ReadString()
	return err
}

func (r *LoginRequest) WriteTo(w *nex.Writer) { w.WriteString(r.UserName) }

func (r *LoginRequest) Tree() tree.Node {
	return tree.Struct("LoginRequest", tree.Object{
		{Name: "strUserName", Node: tree.String(r.UserName)},
	})
}

type LoginExRequest struct {
	UserName  string
	ExtraData *nex.AnyDataHolder
}

func (r *LoginExRequest) ExtractFrom(s *nex.Stream) (err error) {
	if r.UserName, err = s.ReadString(); err != nil {
		return err
	}
	r.ExtraData, err = s.ReadAnyDataHolder()
	return err
}

func (r *LoginExRequest) WriteTo(w *nex.Writer) {
	w.WriteString(r.UserName)
	w.WriteAnyDataHolder(r.ExtraData)
}

func (r *LoginExRequest) Tree() tree.Node {
	return tree.Struct("LoginExRequest", tree.Object{
		{Name: "strUserName", Node: tree.String(r.UserName)},
		{Name: "oExtraData", Node: r.ExtraData.Tree()},
	})
}

type RequestTicketRequest struct {
	SourcePID uint32
	TargetPID uint32
}

func (r *RequestTicketRequest) ExtractFrom(s *nex.Stream) (err error) {
	if r.SourcePID, err = s.ReadUint32(); err != nil {
		return err
	}
	r.TargetPID, err = s.ReadUint32()
	return err
}

func (r *RequestTicketRequest) WriteTo(w *nex.Writer) {
	w.WriteUint32(r.SourcePID)
	w.WriteUint32(r.TargetPID)
}

func (r *RequestTicketRequest) Tree() tree.Node {
	return tree.Struct("RequestTicketRequest", tree.Object{
		{Name: "idSource", Node: tree.Uint32(r.SourcePID)},
		{Name: "idTarget", Node: tree.Uint32(r.TargetPID)},
	})
}

type GetPIDRequest struct {
	UserName string
}

func (r *GetPIDRequest) ExtractFrom(s *nex.Stream) (err error) {
	r.UserName, err = s.ReadString()
	return err
}

func (r *GetPIDRequest) WriteTo(w *nex.Writer) { w.WriteString(r.UserName) }

func (r *GetPIDRequest) Tree() tree.Node {
	return tree.Struct("GetPIDRequest", tree.Object{
		{Name: "strUserName", Node: tree.String(r.UserName)},
	})
}

type GetNameRequest struct {
	PID uint32
}

func (r *GetNameRequest) ExtractFrom(s *nex.Stream) (err error) {
	r.PID, err = s.ReadUint32()
	return err
}

func (r *GetNameRequest) WriteTo(w *nex.Writer) { w.WriteUint32(r.PID) }

func (r *GetNameRequest) Tree() tree.Node {
	return tree.Struct("GetNameRequest", tree.Object{
		{Name: "id", Node: tree.Uint32(r.PID)},
	})
}

type LoginWithContextRequest struct {
	LoginData *nex.AnyDataHolder
}

func (r *LoginWithContextRequest) ExtractFrom(s *nex.Stream) (err error) {
	r.LoginData, err = s.ReadAnyDataHolder()
	return err
}

func (r *LoginWithContextRequest) WriteTo(w *nex.Writer) { w.WriteAnyDataHolder(r.LoginData) }

func (r *LoginWithContextRequest) Tree() tree.Node {
	return tree.Struct("LoginWithContextRequest", tree.Object{
		{Name: "loginData", Node: r.LoginData.Tree()},
	})
}
