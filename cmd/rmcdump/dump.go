package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/danmuck/nexrmc/internal/capture"
	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

type dumpRecord struct {
	Source      string           `json:"source" msgpack:"source"`
	Line        int              `json:"line" msgpack:"line"`
	Protocol    string           `json:"protocol,omitempty" msgpack:"protocol"`
	Method      string           `json:"method,omitempty" msgpack:"method"`
	Direction   string           `json:"direction,omitempty" msgpack:"direction"`
	CallID      uint32           `json:"call_id,omitempty" msgpack:"call_id"`
	Tree        *tree.Node       `json:"tree,omitempty" msgpack:"tree"`
	Diagnostics []nex.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics"`
	Error       string           `json:"error,omitempty" msgpack:"error"`
}

type dumper struct {
	dispatcher *dispatch.Dispatcher
	ctx        nex.Context
	workers    int
	format     tree.Format
	out        io.Writer
	logger     zerolog.Logger
}

// dumpFile decodes one capture and writes a record per message. JSON records
// are newline separated; msgpack records are concatenated values. It returns
// how many messages failed to decode.
func (d dumper) dumpFile(ctx context.Context, path string) (int, error) {
	recs, err := capture.Open(path)
	if err != nil {
		return 0, err
	}
	return d.dump(ctx, recs)
}

func (d dumper) dump(ctx context.Context, recs []capture.Record) (int, error) {
	raws := make([][]byte, len(recs))
	for i, rec := range recs {
		raws[i] = rec.Raw
	}
	results, err := d.dispatcher.DecodeBatch(ctx, raws, d.ctx, d.workers)
	if err != nil {
		return 0, err
	}

	failed := 0
	for i, res := range results {
		out := buildRecord(recs[i], res)
		if out.Error != "" {
			failed++
			d.logger.Debug().Str("source", out.Source).Int("line", out.Line).Str("err", out.Error).Msg("rmcdump decode failed")
		}
		data, err := tree.Marshal(out, d.format)
		if err != nil {
			return failed, err
		}
		if d.format == tree.FormatJSON {
			data = append(data, '\n')
		}
		if _, err := d.out.Write(data); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func buildRecord(rec capture.Record, res dispatch.BatchResult) dumpRecord {
	out := dumpRecord{Source: rec.Source, Line: rec.Line}
	if res.Err != nil {
		out.Error = res.Err.Error()
		return out
	}
	dec := res.Decoded
	node := dec.Tree()
	out.Protocol = dec.Protocol
	out.Method = dec.Method
	out.Direction = dec.Message.Direction.String()
	out.CallID = dec.Message.CallID
	out.Tree = &node
	out.Diagnostics = dec.Diagnostics
	return out
}
