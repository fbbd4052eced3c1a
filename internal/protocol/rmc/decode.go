package rmc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
)

// MaxMessageSize bounds the size prefix accepted by Decode.
const MaxMessageSize = 8 * 1024 * 1024

// Decode reads one size-prefixed RMC message from r.
func Decode(r io.Reader) (*Message, error) {
	sizeBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, sizeBuf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, protocol.ErrTruncated
	}
	size := binary.LittleEndian.Uint32(sizeBuf)
	if size > MaxMessageSize {
		return nil, fmt.Errorf("rmc size %d: %w", size, protocol.ErrInvalidLength)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, protocol.ErrTruncated
	}
	return parsePayload(payload)
}

// Parse reads a complete message including its size prefix. The prefix must
// match the remaining length exactly.
func Parse(buf []byte) (*Message, error) {
	if len(buf) < 4 {
		return nil, protocol.TruncatedError{Offset: 0, Want: 4, Have: len(buf)}
	}
	size := binary.LittleEndian.Uint32(buf[:4])
	if uint64(size) != uint64(len(buf)-4) {
		return nil, fmt.Errorf("size prefix %d, payload %d: %w", size, len(buf)-4, protocol.ErrInvalidSize)
	}
	return parsePayload(buf[4:])
}

func parsePayload(payload []byte) (*Message, error) {
	s := nex.NewStream(payload, nex.Context{}, nil)
	msg := &Message{}

	first, err := s.ReadUint8()
	if err != nil {
		return nil, err
	}
	msg.ProtocolID = uint16(first &^ protocolRequestFlag)
	if msg.ProtocolID == extendedProtocolID {
		if msg.ProtocolID, err = s.ReadUint16(); err != nil {
			return nil, err
		}
	}

	if first&protocolRequestFlag != 0 {
		msg.Direction = DirectionRequest
		if msg.CallID, err = s.ReadUint32(); err != nil {
			return nil, err
		}
		if msg.MethodID, err = s.ReadUint32(); err != nil {
			return nil, err
		}
		msg.Body, err = s.ReadBytes(s.Remaining())
		return msg, err
	}

	success, err := s.ReadBool()
	if err != nil {
		return nil, err
	}
	if !success {
		msg.Direction = DirectionError
		if msg.ErrorCode, err = s.ReadUint32(); err != nil {
			return nil, err
		}
		if msg.CallID, err = s.ReadUint32(); err != nil {
			return nil, err
		}
		return msg, nil
	}

	msg.Direction = DirectionResponse
	if msg.CallID, err = s.ReadUint32(); err != nil {
		return nil, err
	}
	method, err := s.ReadUint32()
	if err != nil {
		return nil, err
	}
	msg.MethodID = method &^ methodResponseFlag
	msg.Body, err = s.ReadBytes(s.Remaining())
	return msg, err
}
