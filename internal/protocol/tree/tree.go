// Package tree renders decoded values as a typed value tree. Every leaf carries
// the wire type it was decoded as. The tree is for inspection and logging only
// and is never re-encoded.
package tree

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

// Wire type labels.
const (
	TypeUint8    = "uint8"
	TypeUint16   = "uint16"
	TypeUint32   = "uint32"
	TypeUint64   = "uint64"
	TypeSint64   = "sint64"
	TypeDouble   = "double"
	TypeBool     = "boolean"
	TypeString   = "String"
	TypeBuffer   = "Buffer"
	TypeDateTime = "DateTime"
	TypeURL      = "StationURL"
	TypeNoValue  = "No value"
	TypeResult   = "Result"
)

// Node is one typed value.
type Node struct {
	Type  string `json:"__typeName" msgpack:"__typeName"`
	Value any    `json:"__typeValue" msgpack:"__typeValue"`
}

// Member is a named node inside an Object.
type Member struct {
	Name string `msgpack:"name"`
	Node Node   `msgpack:"node"`
}

// Object is an ordered set of members. It marshals to a JSON object that keeps
// declaration order.
type Object []Member

// Exporter is implemented by every decoded entity that renders itself.
type Exporter interface {
	Tree() Node
}

func Leaf(typ string, v any) Node {
	return Node{Type: typ, Value: v}
}

func Uint8(v uint8) Node { return Leaf(TypeUint8, v) }
func Uint16(v uint16) Node { return Leaf(TypeUint16, v) }
func Uint32(v uint32) Node { return Leaf(TypeUint32, v) }
func Uint64(v uint64) Node { return Leaf(TypeUint64, v) }
func Sint64(v int64) Node { return Leaf(TypeSint64, v) }
func Double(v float64) Node { return Leaf(TypeDouble, v) }
func Bool(v bool) Node { return Leaf(TypeBool, v) }
func String(v string) Node { return Leaf(TypeString, v) }
func Buffer(v []byte) Node { return Leaf(TypeBuffer, hex.EncodeToString(v)) }
func Struct(name string, fields Object) Node {
	return Node{Type: name, Value: fields}
}

// List renders a sequence as "List<elem>".
func List[T any](elem string, items []T, fn func(T) Node) Node {
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, fn(item))
	}
	return Node{Type: "List<" + elem + ">", Value: nodes}
}

// Add appends a member and returns the extended object.
func (o Object) Add(name string, n Node) Object {
	return append(o, Member{Name: name, Node: n})
}

// Get returns the first member called name.
func (o Object) Get(name string) (Node, bool) {
	for _, m := range o {
		if m.Name == name {
			return m.Node, true
		}
	}
	return Node{}, false
}

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Node)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
