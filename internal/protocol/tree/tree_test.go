package tree

import (
	"testing"

	"github.com/shamaton/msgpack/v2"

	"github.com/danmuck/nexrmc/internal/testutil/testlog"
)

func sample() Node {
	return Struct("Sample", Object{
		{Name: "zeta", Node: Uint32(7)},
		{Name: "alpha", Node: Buffer([]byte{0xca, 0xfe})},
		{Name: "items", Node: List(TypeUint8, []uint8{1, 2}, Uint8)},
	})
}

func TestJSONKeepsMemberOrder(t *testing.T) {
	testlog.Start(t)
	out, err := Marshal(sample(), FormatJSON)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"__typeName":"Sample","__typeValue":{"zeta":{"__typeName":"uint32","__typeValue":7},` +
		`"alpha":{"__typeName":"Buffer","__typeValue":"cafe"},` +
		`"items":{"__typeName":"List<uint8>","__typeValue":[{"__typeName":"uint8","__typeValue":1},{"__typeName":"uint8","__typeValue":2}]}}}`
	if string(out) != want {
		t.Fatalf("unexpected json:\n%s\nwant:\n%s", out, want)
	}
}

func TestMsgpackExport(t *testing.T) {
	testlog.Start(t)
	out, err := Marshal(sample(), FormatMsgpack)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back struct {
		Type string `msgpack:"__typeName"`
	}
	if err := msgpack.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != "Sample" {
		t.Fatalf("unexpected type %q", back.Type)
	}
}

func TestParseFormat(t *testing.T) {
	testlog.Start(t)
	for raw, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, " msgpack ": FormatMsgpack} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error")
	}
	if FormatMsgpack.ContentType() != "application/msgpack" {
		t.Fatalf("unexpected content type")
	}
}
