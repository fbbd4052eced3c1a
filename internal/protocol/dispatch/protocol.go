package dispatch

import (
	"fmt"
	"sort"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/rmc"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

// Body is a decoded method request or response.
type Body interface {
	ExtractFrom(s *nex.Stream) error
	WriteTo(w *nex.Writer)
	tree.Exporter
}

// Method declares one RMC method. A method with neither shape keeps its name
// for diagnostics but has no handler.
type Method struct {
	ID       uint32
	Name     string
	Request  func() Body
	Response func() Body
}

// Shape returns the body constructor for direction.
func (m Method) Shape(d rmc.Direction) (func() Body, bool) {
	switch d {
	case rmc.DirectionRequest:
		return m.Request, m.Request != nil
	case rmc.DirectionResponse:
		return m.Response, m.Response != nil
	default:
		return nil, false
	}
}

func (m Method) handled() bool {
	return m.Request != nil || m.Response != nil
}

// Protocol is a read-only descriptor shared by every decode of one protocol.
// Names and handlers come from the same method list.
type Protocol struct {
	ID      uint16
	Name    string
	methods map[uint32]Method
	order   []uint32
}

// NewProtocol builds the descriptor. Duplicate method ids are rejected.
func NewProtocol(id uint16, name string, methods ...Method) (*Protocol, error) {
	p := &Protocol{ID: id, Name: name, methods: make(map[uint32]Method, len(methods))}
	for _, m := range methods {
		if _, dup := p.methods[m.ID]; dup {
			return nil, fmt.Errorf("%s method 0x%x: %w", name, m.ID, protocol.ErrDuplicateMethod)
		}
		p.methods[m.ID] = m
		p.order = append(p.order, m.ID)
	}
	return p, nil
}

// MustProtocol is NewProtocol for package-level descriptors.
func MustProtocol(id uint16, name string, methods ...Method) *Protocol {
	p, err := NewProtocol(id, name, methods...)
	if err != nil {
		panic(err)
	}
	return p
}

// Extend returns a copy of p where methods are added or replace existing ids.
// Title-specific method sets are built this way.
func (p *Protocol) Extend(name string, methods ...Method) *Protocol {
	out := &Protocol{ID: p.ID, Name: name, methods: make(map[uint32]Method, len(p.methods)+len(methods))}
	for _, id := range p.order {
		out.methods[id] = p.methods[id]
		out.order = append(out.order, id)
	}
	for _, m := range methods {
		if _, exists := out.methods[m.ID]; !exists {
			out.order = append(out.order, m.ID)
		}
		out.methods[m.ID] = m
	}
	return out
}

func (p *Protocol) MethodName(id uint32) (string, bool) {
	m, ok := p.methods[id]
	return m.Name, ok
}

// Handler returns the method when it declares at least one body shape.
func (p *Protocol) Handler(id uint32) (Method, bool) {
	m, ok := p.methods[id]
	if !ok || !m.handled() {
		return Method{}, false
	}
	return m, true
}

// Methods lists methods in declaration order.
func (p *Protocol) Methods() []Method {
	out := make([]Method, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.methods[id])
	}
	return out
}

func sortProtocols(in []*Protocol) {
	sort.Slice(in, func(i, j int) bool { return in[i].ID < in[j].ID })
}

// Empty is the body of methods that carry no parameters.
type Empty struct{}

func NewEmpty() Body { return &Empty{} }

func (e *Empty) ExtractFrom(*nex.Stream) error { return nil }
func (e *Empty) WriteTo(*nex.Writer) {}
func (e *Empty) Tree() tree.Node { return tree.Struct("Empty", nil) }

// Marshal encodes body under ctx.
func Marshal(body Body, ctx nex.Context) ([]byte, error) {
	w := nex.NewWriter(ctx)
	body.WriteTo(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
