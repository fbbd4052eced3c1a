package dispatch

import (
	"fmt"
	"time"

	"github.com/danmuck/nexrmc/internal/protocol"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/rmc"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Decode outcomes reported to observers.
const (
	OutcomeDecoded       = "decoded"
	OutcomeUnknownMethod = "unknown_method"
	OutcomeErrorEnvelope = "error_envelope"
	OutcomeFailed        = "failed"
)

// Observer receives decode results, e.g. for metrics.
type Observer interface {
	ObserveDecode(protocol, method, direction, outcome string, elapsed time.Duration)
	ObserveDiagnostic(protocol string, kind nex.DiagnosticKind)
}

// Decoded is the typed result of dispatching one message. Body is nil for
// unknown methods and error envelopes.
type Decoded struct {
	Message     *rmc.Message
	Protocol    string
	Method      string
	Body        Body
	Diagnostics []nex.Diagnostic
}

func (d *Decoded) Tree() tree.Node {
	msg := d.Message
	fields := tree.Object{
		{Name: "protocolId", Node: tree.Uint16(msg.ProtocolID)},
		{Name: "protocolName", Node: tree.String(d.Protocol)},
		{Name: "methodId", Node: tree.Uint32(msg.MethodID)},
		{Name: "methodName", Node: tree.String(d.Method)},
		{Name: "callId", Node: tree.Uint32(msg.CallID)},
		{Name: "direction", Node: tree.String(msg.Direction.String())},
	}
	switch {
	case msg.IsError():
		fields = fields.Add("errorCode", nex.Result(msg.ErrorCode).Tree())
	case d.Body != nil:
		fields = fields.Add("body", d.Body.Tree())
	default:
		fields = fields.Add("rawBody", tree.Buffer(msg.Body))
	}
	return tree.Struct("RMCMessage", fields)
}

type Option func(*Dispatcher)

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithDiagnosticRate caps diagnostic log lines. Observers still see every
// diagnostic.
func WithDiagnosticRate(limit rate.Limit, burst int) Option {
	return func(d *Dispatcher) { d.limiter = rate.NewLimiter(limit, burst) }
}

// Dispatcher resolves messages to method bodies. It is safe for concurrent
// use once built.
type Dispatcher struct {
	protocols map[uint16]*Protocol
	registry  *nex.Registry
	logger    zerolog.Logger
	observer  Observer
	limiter   *rate.Limiter
}

func New(reg *nex.Registry, protocols []*Protocol, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		protocols: make(map[uint16]*Protocol, len(protocols)),
		registry:  reg,
		logger:    zerolog.Nop(),
		limiter:   rate.NewLimiter(rate.Limit(10), 20),
	}
	for _, p := range protocols {
		if _, dup := d.protocols[p.ID]; dup {
			return nil, fmt.Errorf("%s id 0x%x: %w", p.Name, p.ID, protocol.ErrDuplicateProtocol)
		}
		d.protocols[p.ID] = p
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Dispatcher) Registry() *nex.Registry { return d.registry }

func (d *Dispatcher) Protocol(id uint16) (*Protocol, bool) {
	p, ok := d.protocols[id]
	return p, ok
}

// Protocols lists descriptors ordered by id.
func (d *Dispatcher) Protocols() []*Protocol {
	out := make([]*Protocol, 0, len(d.protocols))
	for _, p := range d.protocols {
		out = append(out, p)
	}
	sortProtocols(out)
	return out
}

// Dispatch decodes msg.Body with the shape its method and direction select.
// Unknown methods are reported as diagnostics and return a Decoded without a
// body. Only decode failures of the body itself return an error.
func (d *Dispatcher) Dispatch(msg *rmc.Message, ctx nex.Context) (*Decoded, error) {
	start := time.Now()
	out := &Decoded{Message: msg}
	p, known := d.protocols[msg.ProtocolID]
	if known {
		out.Protocol = p.Name
		out.Method, _ = p.MethodName(msg.MethodID)
	}

	if msg.IsError() {
		d.observe(out, OutcomeErrorEnvelope, start)
		return out, nil
	}

	var shape func() Body
	if known {
		if m, ok := p.Handler(msg.MethodID); ok {
			shape, _ = m.Shape(msg.Direction)
		}
	}
	if shape == nil {
		detail := fmt.Sprintf("unknown %s method id %d (0x%x) on protocol 0x%x (%s)",
			displayName(out.Protocol, "protocol"), msg.MethodID, msg.MethodID, msg.ProtocolID, displayName(out.Method, "unnamed"))
		d.report(out, nex.Diagnostic{Kind: nex.DiagUnknownMethod, Detail: detail})
		d.observe(out, OutcomeUnknownMethod, start)
		return out, nil
	}

	s := nex.NewStream(msg.Body, ctx, d.registry)
	body := shape()
	err := body.ExtractFrom(s)
	for _, diag := range s.Diagnostics() {
		d.report(out, diag)
	}
	if err != nil {
		d.observe(out, OutcomeFailed, start)
		d.logger.Debug().
			Err(err).
			Uint16("protocol_id", msg.ProtocolID).
			Uint32("method_id", msg.MethodID).
			Uint32("call_id", msg.CallID).
			Msg("dispatch.Dispatch decode failed")
		return nil, fmt.Errorf("%s.%s %s call=%d: %w", out.Protocol, out.Method, msg.Direction, msg.CallID, err)
	}
	if n := s.Remaining(); n > 0 {
		d.report(out, nex.Diagnostic{
			Kind:   nex.DiagTrailingBytes,
			Offset: s.Offset(),
			Detail: fmt.Sprintf("%d bytes left after %s.%s %s", n, out.Protocol, out.Method, msg.Direction),
		})
	}
	out.Body = body
	d.observe(out, OutcomeDecoded, start)
	return out, nil
}

// DecodeRaw parses a size-prefixed RMC message and dispatches it.
func (d *Dispatcher) DecodeRaw(raw []byte, ctx nex.Context) (*Decoded, error) {
	msg, err := rmc.Parse(raw)
	if err != nil {
		return nil, err
	}
	return d.Dispatch(msg, ctx)
}

func (d *Dispatcher) report(out *Decoded, diag nex.Diagnostic) {
	out.Diagnostics = append(out.Diagnostics, diag)
	if d.observer != nil {
		d.observer.ObserveDiagnostic(out.Protocol, diag.Kind)
	}
	if d.limiter != nil && !d.limiter.Allow() {
		return
	}
	d.logger.Warn().
		Str("kind", string(diag.Kind)).
		Uint16("protocol_id", out.Message.ProtocolID).
		Uint32("method_id", out.Message.MethodID).
		Int("offset", diag.Offset).
		Msg(diag.Detail)
}

func (d *Dispatcher) observe(out *Decoded, outcome string, start time.Time) {
	if d.observer == nil {
		return
	}
	d.observer.ObserveDecode(
		displayName(out.Protocol, "unknown"),
		displayName(out.Method, "unknown"),
		out.Message.Direction.String(),
		outcome,
		time.Since(start),
	)
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
