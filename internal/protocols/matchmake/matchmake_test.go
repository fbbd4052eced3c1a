package matchmake

import (
	"bytes"
	"testing"

	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/rmc"
	"github.com/danmuck/nexrmc/internal/testutil/testlog"
)

var testCtx = nex.Context{NEXVersion: nex.Version{Major: 3, Minor: 5}, PRUDPVersion: 1}

func newDispatcher(t *testing.T, p *dispatch.Protocol) *dispatch.Dispatcher {
	t.Helper()
	d, err := dispatch.New(nex.NewRegistry(), []*dispatch.Protocol{p})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func marshal(t *testing.T, b dispatch.Body) []byte {
	t.Helper()
	out, err := dispatch.Marshal(b, testCtx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

func TestParticipationMethods(t *testing.T) {
	testlog.Start(t)
	d := newDispatcher(t, Protocol)
	for _, req := range []*GatheringRequest{NewCloseParticipationRequest(0x1234), NewOpenParticipationRequest(0x1234)} {
		method := MethodCloseParticipation
		if req.name == "OpenParticipationRequest" {
			method = MethodOpenParticipation
		}
		out, err := d.Dispatch(rmc.NewRequest(ProtocolID, method, 1, marshal(t, req)), testCtx)
		if err != nil {
			t.Fatalf("dispatch %s: %v", req.name, err)
		}
		got, ok := out.Body.(*GatheringRequest)
		if !ok || got.GID != 0x1234 {
			t.Fatalf("unexpected body %#v", out.Body)
		}

		out, err = d.Dispatch(rmc.NewResponse(ProtocolID, method, 1, nil), testCtx)
		if err != nil {
			t.Fatalf("dispatch empty response: %v", err)
		}
		if _, ok := out.Body.(*dispatch.Empty); !ok || len(out.Diagnostics) != 0 {
			t.Fatalf("expected empty response, got %#v %v", out.Body, out.Diagnostics)
		}
	}
}

func TestJoinMatchmakeSession(t *testing.T) {
	testlog.Start(t)
	d := newDispatcher(t, Protocol)
	req := &JoinMatchmakeSessionRequest{GID: 99, Message: "hello"}
	out, err := d.Dispatch(rmc.NewRequest(ProtocolID, MethodJoinMatchmakeSession, 4, marshal(t, req)), testCtx)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got, ok := out.Body.(*JoinMatchmakeSessionRequest); !ok || *got != *req {
		t.Fatalf("unexpected request %#v", out.Body)
	}

	key := bytes.Repeat([]byte{0xab}, 32)
	out, err = d.Dispatch(rmc.NewResponse(ProtocolID, MethodJoinMatchmakeSession, 4, marshal(t, NewSessionKeyResponse(key))), testCtx)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got, ok := out.Body.(*SessionKeyResponse); !ok || !bytes.Equal(got.SessionKey, key) {
		t.Fatalf("unexpected response %#v", out.Body)
	}
}

func TestMK8ExtensionMethod(t *testing.T) {
	testlog.Start(t)
	key := []byte{1, 2, 3, 4}
	raw := marshal(t, NewSessionKeyResponse(key))
	resp := rmc.NewResponse(ProtocolID, MethodJoinMatchmakeSessionWithExtraParticipants, 9, raw)

	base := newDispatcher(t, Protocol)
	out, err := base.Dispatch(resp, testCtx)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Body != nil || len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != nex.DiagUnknownMethod {
		t.Fatalf("base protocol should not know the method: %#v %v", out.Body, out.Diagnostics)
	}

	mk8 := newDispatcher(t, MK8Protocol)
	out, err = mk8.Dispatch(resp, testCtx)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	got, ok := out.Body.(*SessionKeyResponse)
	if !ok || !bytes.Equal(got.SessionKey, key) {
		t.Fatalf("unexpected body %#v", out.Body)
	}
	if out.Method != "JoinMatchmakeSessionWithExtraParticipants" {
		t.Fatalf("method name %q", out.Method)
	}

	// Only the response shape is declared.
	out, err = mk8.Dispatch(rmc.NewRequest(ProtocolID, MethodJoinMatchmakeSessionWithExtraParticipants, 9, []byte{0}), testCtx)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Body != nil || len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != nex.DiagUnknownMethod {
		t.Fatalf("request shape should be unknown: %#v %v", out.Body, out.Diagnostics)
	}
	if _, ok := Protocol.MethodName(MethodJoinMatchmakeSessionWithExtraParticipants); ok {
		t.Fatalf("extension leaked into the base protocol")
	}
}

func TestNewMK8ProtocolMethodID(t *testing.T) {
	testlog.Start(t)
	p, err := NewMK8Protocol(0x28)
	if err != nil {
		t.Fatalf("new mk8 protocol: %v", err)
	}
	if name, ok := p.MethodName(0x28); !ok || name != "JoinMatchmakeSessionWithExtraParticipants" {
		t.Fatalf("unexpected method at 0x28: %q %v", name, ok)
	}
	if _, ok := p.MethodName(MethodJoinMatchmakeSessionWithExtraParticipants); ok {
		t.Fatalf("default id should not be declared when overridden")
	}
	if _, err := NewMK8Protocol(MethodJoinMatchmakeSession); err == nil {
		t.Fatalf("expected error when shadowing a base method")
	}
}
