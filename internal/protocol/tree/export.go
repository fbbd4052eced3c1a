package tree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shamaton/msgpack/v2"
)

// Format is an export encoding for decoded trees.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return f, nil
	default:
		return "", fmt.Errorf("tree: unknown format %q", raw)
	}
}

func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// Marshal encodes v. Objects keep member order in JSON; msgpack carries them
// as name/node pairs.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatMsgpack:
		return msgpack.Marshal(v)
	case FormatJSON, "":
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("tree: unknown format %q", string(f))
	}
}
