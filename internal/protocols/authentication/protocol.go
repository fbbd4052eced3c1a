// Package authentication describes the NEX Authentication protocol (0x0A).
package authentication

import (
	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
)

const ProtocolID uint16 = 0x0A

const (
	MethodLogin            uint32 = 0x1
	MethodLoginEx          uint32 = 0x2
	MethodRequestTicket    uint32 = 0x3
	MethodGetPID           uint32 = 0x4
	MethodGetName          uint32 = 0x5
	MethodLoginWithContext uint32 = 0x6
)

var Protocol = dispatch.MustProtocol(ProtocolID, "Authentication",
	dispatch.Method{ID: MethodLogin, Name: "Login",
		Request:  func() dispatch.Body { return &LoginRequest{} },
		Response: func() dispatch.Body { return &LoginResponse{name: "LoginResponse", withReturnMsg: true} },
	},
	dispatch.Method{ID: MethodLoginEx, Name: "LoginEx",
		Request:  func() dispatch.Body { return &LoginExRequest{} },
		Response: func() dispatch.Body { return &LoginResponse{name: "LoginExResponse", withReturnMsg: true} },
	},
	dispatch.Method{ID: MethodRequestTicket, Name: "RequestTicket",
		Request:  func() dispatch.Body { return &RequestTicketRequest{} },
		Response: func() dispatch.Body { return &RequestTicketResponse{} },
	},
	dispatch.Method{ID: MethodGetPID, Name: "GetPID",
		Request:  func() dispatch.Body { return &GetPIDRequest{} },
		Response: func() dispatch.Body { return &GetPIDResponse{} },
	},
	dispatch.Method{ID: MethodGetName, Name: "GetName",
		Request:  func() dispatch.Body { return &GetNameRequest{} },
		Response: func() dispatch.Body { return &GetNameResponse{} },
	},
	dispatch.Method{ID: MethodLoginWithContext, Name: "LoginWithContext",
		Request:  func() dispatch.Body { return &LoginWithContextRequest{} },
		Response: func() dispatch.Body { return &LoginResponse{name: "LoginWithContextResponse"} },
	},
)

// Register adds the structures this protocol carries inside AnyDataHolder.
func Register(reg *nex.Registry) {
	reg.Register("AuthenticationInfo", func() nex.Structure { return &AuthenticationInfo{} })
}
