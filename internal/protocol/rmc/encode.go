package rmc

import (
	"fmt"
	"io"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
)

// Encode writes msg to w with its size prefix.
func Encode(w io.Writer, msg *Message) error {
	buf, err := Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// Marshal returns the size-prefixed wire form of msg.
func Marshal(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, protocol.ErrInvalidLength
	}
	if msg.MethodID&methodResponseFlag != 0 {
		return nil, fmt.Errorf("method id 0x%x overlaps response flag: %w", msg.MethodID, protocol.ErrInvalidLength)
	}

	w := nex.NewWriter(nex.Context{})
	w.WriteUint32(0)
	writeProtocolID(w, msg)

	switch msg.Direction {
	case DirectionRequest:
		w.WriteUint32(msg.CallID)
		w.WriteUint32(msg.MethodID)
		w.WriteBytes(msg.Body)
	case DirectionResponse:
		w.WriteBool(true)
		w.WriteUint32(msg.CallID)
		w.WriteUint32(msg.MethodID | methodResponseFlag)
		w.WriteBytes(msg.Body)
	case DirectionError:
		w.WriteBool(false)
		w.WriteUint32(msg.ErrorCode)
		w.WriteUint32(msg.CallID)
	default:
		return nil, fmt.Errorf("rmc: invalid direction %s", msg.Direction)
	}
	if err := w.Err(); err != nil {
		return nil, err
	}

	buf := w.Bytes()
	size := uint32(len(buf) - 4)
	buf[0], buf[1], buf[2], buf[3] = byte(size), byte(size>>8), byte(size>>16), byte(size>>24)
	return buf, nil
}

func writeProtocolID(w *nex.Writer, msg *Message) {
	var flag uint8
	if msg.Direction == DirectionRequest {
		flag = protocolRequestFlag
	}
	if msg.ProtocolID < extendedProtocolID {
		w.WriteUint8(uint8(msg.ProtocolID) | flag)
		return
	}
	w.WriteUint8(extendedProtocolID | flag)
	w.WriteUint16(msg.ProtocolID)
}
