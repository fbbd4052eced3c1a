// Package matchmake describes the NEX MatchmakeExtension protocol (0x6D) and
// the Mario Kart 8 variant that adds a title-specific method under the same
// protocol id.
package matchmake

import (
	"fmt"

	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
)

const ProtocolID uint16 = 0x6D

const (
	MethodCloseParticipation   uint32 = 0x1
	MethodOpenParticipation    uint32 = 0x2
	MethodJoinMatchmakeSession uint32 = 0x7

	// Default only. The id has not been confirmed against a capture; deployments
	// override it with the mk8_extra_participants_method config key.
	MethodJoinMatchmakeSessionWithExtraParticipants uint32 = 0x2B
)

var Protocol = dispatch.MustProtocol(ProtocolID, "MatchmakeExtension",
	dispatch.Method{ID: MethodCloseParticipation, Name: "CloseParticipation",
		Request:  func() dispatch.Body { return &GatheringRequest{name: "CloseParticipationRequest"} },
		Response: dispatch.NewEmpty,
	},
	dispatch.Method{ID: MethodOpenParticipation, Name: "OpenParticipation",
		Request:  func() dispatch.Body { return &GatheringRequest{name: "OpenParticipationRequest"} },
		Response: dispatch.NewEmpty,
	},
	dispatch.Method{ID: MethodJoinMatchmakeSession, Name: "JoinMatchmakeSession",
		Request:  func() dispatch.Body { return &JoinMatchmakeSessionRequest{} },
		Response: func() dispatch.Body { return &SessionKeyResponse{name: "JoinMatchmakeSessionResponse"} },
	},
)

// MK8Protocol is MatchmakeExtension with the Mario Kart 8 method added at its
// default id. Only the response shape of the extra method is known.
var MK8Protocol = mustMK8Protocol(MethodJoinMatchmakeSessionWithExtraParticipants)

// NewMK8Protocol builds the Mario Kart 8 variant with the extra method at
// methodID. It fails when methodID would replace a base method.
func NewMK8Protocol(methodID uint32) (*dispatch.Protocol, error) {
	if name, ok := Protocol.MethodName(methodID); ok {
		return nil, fmt.Errorf("matchmake: method 0x%x is already %s", methodID, name)
	}
	return Protocol.Extend("MatchmakeExtensionMK8",
		dispatch.Method{
			ID:   methodID,
			Name: "JoinMatchmakeSessionWithExtraParticipants",
			Response: func() dispatch.Body {
				return &SessionKeyResponse{name: "JoinMatchmakeSessionWithExtraParticipantsResponse"}
			},
		},
	), nil
}

func mustMK8Protocol(methodID uint32) *dispatch.Protocol {
	p, err := NewMK8Protocol(methodID)
	if err != nil {
		panic(err)
	}
	return p
}
