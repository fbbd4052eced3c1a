package authentication

import (
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// LoginResponse is shared by Login, LoginEx and LoginWithContext. Only Login
// and LoginEx carry the trailing return message.
type LoginResponse struct {
	Result         nex.Result
	PID            uint32
	Ticket         []byte
	ConnectionData *nex.RVConnectionData
	ReturnMessage  string

	name          string
	withReturnMsg bool
}

func NewLoginResponse() *LoginResponse {
	return &LoginResponse{name: "LoginResponse", withReturnMsg: true}
}

func (r *LoginResponse) ExtractFrom(s *nex.Stream) (err error) {
	if r.Result, err = s.ReadResult(); err != nil {
		return err
	}
	if r.PID, err = s.ReadUint32(); err != nil {
		return err
	}
	if r.Ticket, err = s.ReadBuffer(); err != nil {
		return err
	}
	r.ConnectionData = &nex.RVConnectionData{}
	if err = s.ReadStructure(r.ConnectionData); err != nil {
		return err
	}
	if r.withReturnMsg {
		r.ReturnMessage, err = s.ReadString()
	}
	return err
}

func (r *LoginResponse) WriteTo(w *nex.Writer) {
	w.WriteResult(r.Result)
	w.WriteUint32(r.PID)
	w.WriteBuffer(r.Ticket)
	cd := r.ConnectionData
	if cd == nil {
		cd = &nex.RVConnectionData{}
	}
	w.WriteStructure(cd)
	if r.withReturnMsg {
		w.WriteString(r.ReturnMessage)
	}
}

func (r *LoginResponse) Tree() tree.Node {
	fields := tree.Object{
		{Name: "retval", Node: r.Result.Tree()},
		{Name: "pidPrincipal", Node: tree.Uint32(r.PID)},
		{Name: "pbufResponse", Node: tree.Buffer(r.Ticket)},
	}
	if r.ConnectionData != nil {
		fields = fields.Add("pConnectionData", r.ConnectionData.Tree())
	}
	if r.withReturnMsg {
		fields = fields.Add("strReturnMsg", tree.String(r.ReturnMessage))
	}
	name := r.name
	if name == "" {
		name = "LoginResponse"
	}
	return tree.Struct(name, fields)
}

type RequestTicketResponse struct {
	Result nex.Result
	Ticket []byte
}

func (r *RequestTicketResponse) ExtractFrom(s *nex.Stream) (err error) {
	if r.Result, err = s.ReadResult(); err != nil {
		return err
	}
	r.Ticket, err = s.ReadBuffer()
	return err
}

func (r *RequestTicketResponse) WriteTo(w *nex.Writer) {
	w.WriteResult(r.Result)
	w.WriteBuffer(r.Ticket)
}

func (r *RequestTicketResponse) Tree() tree.Node {
	return tree.Struct("RequestTicketResponse", tree.Object{
		{Name: "retval", Node: r.Result.Tree()},
		{Name: "bufResponse", Node: tree.Buffer(r.Ticket)},
	})
}

type GetPIDResponse struct {
	PID uint32
}

func (r *GetPIDResponse) ExtractFrom(s *nex.Stream) (err error) {
	r.PID, err = s.ReadUint32()
	return err
}

func (r *GetPIDResponse) WriteTo(w *nex.Writer) { w.WriteUint32(r.PID) }

func (r *GetPIDResponse) Tree() tree.Node {
	return tree.Struct("GetPIDResponse", tree.Object{
		{Name: "pid", Node: tree.Uint32(r.PID)},
	})
}

type GetNameResponse struct {
	Name string
}

func (r *GetNameResponse) ExtractFrom(s *nex.Stream) (err error) {
	r.Name, err = s.ReadString()
	return err
}

func (r *GetNameResponse) WriteTo(w *nex.Writer) { w.WriteString(r.Name) }

func (r *GetNameResponse) Tree() tree.Node {
	return tree.Struct("GetNameResponse", tree.Object{
		{Name: "strName", Node: tree.String(r.Name)},
	})
}
