package authentication

import (
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// AuthenticationInfo is sent inside LoginEx's AnyDataHolder.
type AuthenticationInfo struct {
	nex.Base
	Token         string
	TokenType     uint32
	NGSVersion    uint8
	ServerVersion uint32
}

func (a *AuthenticationInfo) StructureName() string { return "AuthenticationInfo" }

func (a *AuthenticationInfo) DeclaredParents() []nex.Structure {
	return []nex.Structure{&nex.Data{}}
}

func (a *AuthenticationInfo) ExtractFields(s *nex.Stream) error {
	var err error
	if a.Token, err = s.ReadString(); err != nil {
		return err
	}
	if a.TokenType, err = s.ReadUint32(); err != nil {
		return err
	}
	if a.NGSVersion, err = s.ReadUint8(); err != nil {
		return err
	}
	a.ServerVersion, err = s.ReadUint32()
	return err
}

func (a *AuthenticationInfo) WriteFields(w *nex.Writer) {
	w.WriteString(a.Token)
	w.WriteUint32(a.TokenType)
	w.WriteUint8(a.NGSVersion)
	w.WriteUint32(a.ServerVersion)
}

func (a *AuthenticationInfo) FieldsTree() tree.Object {
	return tree.Object{
		{Name: "token", Node: tree.String(a.Token)},
		{Name: "tokenType", Node: tree.Uint32(a.TokenType)},
		{Name: "ngsVersion", Node: tree.Uint8(a.NGSVersion)},
		{Name: "serverVersion", Node: tree.Uint32(a.ServerVersion)},
	}
}

func (a *AuthenticationInfo) Tree() tree.Node { return nex.StructureTree(a) }
