package matchmake

import (
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// GatheringRequest carries a single gathering id.
type GatheringRequest struct {
	GID  uint32
	name string
}

func NewCloseParticipationRequest(gid uint32) *GatheringRequest {
	return &GatheringRequest{GID: gid, name: "CloseParticipationRequest"}
}

func NewOpenParticipationRequest(gid uint32) *GatheringRequest {
	return &GatheringRequest{GID: gid, name: "OpenParticipationRequest"}
}

func (r *GatheringRequest) ExtractFrom(s *nex.Stream) (err error) {
	r.GID, err = s.ReadUint32()
	return err
}

func (r *GatheringRequest) WriteTo(w *nex.Writer) { w.WriteUint32(r.GID) }

func (r *GatheringRequest) Tree() tree.Node {
	return tree.Struct(r.name, tree.Object{
		{Name: "gid", Node: tree.Uint32(r.GID)},
	})
}

type JoinMatchmakeSessionRequest struct {
	GID     uint32
	Message string
}

func (r *JoinMatchmakeSessionRequest) ExtractFrom(s *nex.Stream) (err error) {
	if r.GID, err = s.ReadUint32(); err != nil {
		return err
	}
	r.Message, err = s.ReadString()
	return err
}

func (r *JoinMatchmakeSessionRequest) WriteTo(w *nex.Writer) {
	w.WriteUint32(r.GID)
	w.WriteString(r.Message)
}

func (r *JoinMatchmakeSessionRequest) Tree() tree.Node {
	return tree.Struct("JoinMatchmakeSessionRequest", tree.Object{
		{Name: "gid", Node: tree.Uint32(r.GID)},
		{Name: "strMessage", Node: tree.String(r.Message)},
	})
}

// SessionKeyResponse is the Buffer returned by the join methods.
type SessionKeyResponse struct {
	SessionKey []byte
	name       string
}

func NewSessionKeyResponse(key []byte) *SessionKeyResponse {
	return &SessionKeyResponse{SessionKey: key, name: "JoinMatchmakeSessionResponse"}
}

func (r *SessionKeyResponse) ExtractFrom(s *nex.Stream) (err error) {
	r.SessionKey, err = s.ReadBuffer()
	return err
}

func (r *SessionKeyResponse) WriteTo(w *nex.Writer) { w.WriteBuffer(r.SessionKey) }

func (r *SessionKeyResponse) Tree() tree.Node {
	return tree.Struct(r.name, tree.Object{
		{Name: "sessionKey", Node: tree.Buffer(r.SessionKey)},
	})
}
