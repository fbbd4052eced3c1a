// Package rmc frames NEX remote method calls. The PRUDP transport hands over
// defragmented payloads; rmc splits them into envelope fields and body bytes.
package rmc

import "fmt"

// Direction of an RMC envelope.
type Direction uint8

const (
	DirectionRequest Direction = iota
	DirectionResponse
	DirectionError
)

func (d Direction) String() string {
	switch d {
	case DirectionRequest:
		return "request"
	case DirectionResponse:
		return "response"
	case DirectionError:
		return "error"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

const (
	protocolRequestFlag = 0x80
	extendedProtocolID  = 0x7F
	methodResponseFlag  = 0x8000
)

// Message is one RMC envelope. Treat it as immutable once built.
type Message struct {
	ProtocolID uint16
	MethodID   uint32
	CallID     uint32
	Direction  Direction
	// ErrorCode is set only for DirectionError.
	ErrorCode uint32
	Body      []byte
}

func (m *Message) IsRequest() bool { return m.Direction == DirectionRequest }
func (m *Message) IsResponse() bool { return m.Direction == DirectionResponse }
func (m *Message) IsError() bool { return m.Direction == DirectionError }

func NewRequest(protocolID uint16, methodID, callID uint32, body []byte) *Message {
	return &Message{ProtocolID: protocolID, MethodID: methodID, CallID: callID, Direction: DirectionRequest, Body: body}
}

func NewResponse(protocolID uint16, methodID, callID uint32, body []byte) *Message {
	return &Message{ProtocolID: protocolID, MethodID: methodID, CallID: callID, Direction: DirectionResponse, Body: body}
}

func NewError(protocolID uint16, callID, errorCode uint32) *Message {
	return &Message{ProtocolID: protocolID, CallID: callID, Direction: DirectionError, ErrorCode: errorCode}
}
