package nex

import (
	"strconv"
	"strings"

	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// stationURLMinLen is len("udp:/").
const stationURLMinLen = 5

// StationURLParam is one key/value pair of a station url.
type StationURLParam struct {
	Key   string
	Value string
}

// StationURL is a parsed "scheme:/key=value;key=value" address descriptor.
// Text that cannot be parsed keeps only the raw string.
type StationURL struct {
	raw    string
	scheme string
	params []StationURLParam
	parsed bool
}

// ParseStationURL never fails. Each pair splits at its first '=' so values
// may themselves contain '='.
func ParseStationURL(text string) StationURL {
	u := StationURL{raw: text}
	if len(text) < stationURLMinLen {
		return u
	}
	scheme, rest, ok := strings.Cut(text, ":/")
	if !ok {
		return u
	}
	u.scheme = scheme
	u.parsed = true
	for _, segment := range strings.Split(rest, ";") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		u.params = append(u.params, StationURLParam{Key: key, Value: value})
	}
	return u
}

// NewStationURL builds a url from parts; the raw text is the canonical form.
func NewStationURL(scheme string, params ...StationURLParam) StationURL {
	u := StationURL{scheme: scheme, parsed: true}
	u.params = append(u.params, params...)
	u.raw = u.Format()
	return u
}

func (u StationURL) Parsed() bool { return u.parsed }
func (u StationURL) Scheme() string { return u.scheme }
func (u StationURL) String() string { return u.raw }

// Params returns a copy of the parameters in wire order.
func (u StationURL) Params() []StationURLParam {
	out := make([]StationURLParam, len(u.params))
	copy(out, u.params)
	return out
}

// Get returns the last value given for key.
func (u StationURL) Get(key string) (string, bool) {
	for i := len(u.params) - 1; i >= 0; i-- {
		if u.params[i].Key == key {
			return u.params[i].Value, true
		}
	}
	return "", false
}

// Format renders scheme and parameters. For parsed urls this equals the raw
// text up to empty segments.
func (u StationURL) Format() string {
	if !u.parsed {
		return u.raw
	}
	var b strings.Builder
	b.WriteString(u.scheme)
	b.WriteString(":/")
	for i, p := range u.params {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

func (u StationURL) uintParam(key string, bits int) (uint64, bool) {
	raw, ok := u.Get(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (u StationURL) flag(key string) (bool, bool) {
	v, ok := u.uintParam(key, 8)
	return v != 0, ok
}

func (u StationURL) Address() (string, bool) { return u.Get("address") }

func (u StationURL) Port() (uint16, bool) {
	v, ok := u.uintParam("port", 16)
	return uint16(v), ok
}

func (u StationURL) PID() (uint64, bool) { return u.uintParam("PID", 64) }
func (u StationURL) CID() (uint32, bool) { return u.uint32Param("CID") }
func (u StationURL) RVCID() (uint32, bool) { return u.uint32Param("RVCID") }
func (u StationURL) PRID() (uint32, bool) { return u.uint32Param("PRID") }
func (u StationURL) SID() (uint8, bool) { return u.uint8Param("sid") }
func (u StationURL) StreamType() (uint8, bool) { return u.uint8Param("stream") }
func (u StationURL) Type() (uint8, bool) { return u.uint8Param("type") }
func (u StationURL) NATMapping() (uint8, bool) { return u.uint8Param("natm") }
func (u StationURL) NATFiltering() (uint8, bool) { return u.uint8Param("natf") }
func (u StationURL) UPnP() (bool, bool) { return u.flag("upnp") }
func (u StationURL) PMP() (bool, bool) { return u.flag("pmp") }
func (u StationURL) ProbeInit() (bool, bool) { return u.flag("probeinit") }
func (u StationURL) FastProbeResponse() (bool, bool) { return u.flag("fastproberesponse") }
func (u StationURL) NodeID() (string, bool) { return u.Get("NodeID") }

func (u StationURL) uint32Param(key string) (uint32, bool) {
	v, ok := u.uintParam(key, 32)
	return uint32(v), ok
}

func (u StationURL) uint8Param(key string) (uint8, bool) {
	v, ok := u.uintParam(key, 8)
	return uint8(v), ok
}

// Tree shows the raw text; Params is the queryable form.
func (u StationURL) Tree() tree.Node {
	return tree.Struct(tree.TypeURL, tree.Object{
		{Name: "url", Node: tree.String(u.raw)},
	})
}
