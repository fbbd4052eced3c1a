package inspect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/danmuck/nexrmc/internal/observability"
	"github.com/danmuck/nexrmc/internal/protocol/nex"
	"github.com/danmuck/nexrmc/internal/protocol/tree"
)

type decodeRequest struct {
	Messages     []string `json:"messages" binding:"required,min=1"`
	NEXVersion   string   `json:"nex_version"`
	PRUDPVersion *int     `json:"prudp_version"`
	HeaderRule   string   `json:"header_rule"`
}

type decodeResult struct {
	Index       int              `json:"index" msgpack:"index"`
	Protocol    string           `json:"protocol,omitempty" msgpack:"protocol"`
	Method      string           `json:"method,omitempty" msgpack:"method"`
	Direction   string           `json:"direction,omitempty" msgpack:"direction"`
	CallID      uint32           `json:"call_id" msgpack:"call_id"`
	Tree        *tree.Node       `json:"tree,omitempty" msgpack:"tree"`
	Diagnostics []nex.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics"`
	Error       string           `json:"error,omitempty" msgpack:"error"`
}

type decodeResponse struct {
	RequestID string         `json:"request_id" msgpack:"request_id"`
	Context   string         `json:"context" msgpack:"context"`
	Results   []decodeResult `json:"results" msgpack:"results"`
}

type methodInfo struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Request  bool   `json:"request"`
	Response bool   `json:"response"`
}

type protocolInfo struct {
	ID      uint16       `json:"id"`
	Name    string       `json:"name"`
	Methods []methodInfo `json:"methods"`
}

func (s *Server) handleProtocols(c *gin.Context) {
	out := make([]protocolInfo, 0)
	for _, p := range s.dispatcher.Protocols() {
		info := protocolInfo{ID: p.ID, Name: p.Name}
		for _, m := range p.Methods() {
			info.Methods = append(info.Methods, methodInfo{
				ID:       m.ID,
				Name:     m.Name,
				Request:  m.Request != nil,
				Response: m.Response != nil,
			})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{
		"protocols":  out,
		"structures": s.dispatcher.Registry().Names(),
	})
}

func (s *Server) handleDecode(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Inspect.MaxBodyBytes)
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	nexCtx, err := s.requestContext(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	format, err := tree.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.Contains(c.GetHeader("Accept"), tree.FormatMsgpack.ContentType()) {
		format = tree.FormatMsgpack
	}

	results := make([]decodeResult, len(req.Messages))
	raws := make([][]byte, 0, len(req.Messages))
	slots := make([]int, 0, len(req.Messages))
	for i, msg := range req.Messages {
		results[i].Index = i
		raw, err := hex.DecodeString(strings.Join(strings.Fields(msg), ""))
		if err != nil {
			results[i].Error = "invalid hex: " + err.Error()
			continue
		}
		raws = append(raws, raw)
		slots = append(slots, i)
	}

	batch, err := s.dispatcher.DecodeBatch(c.Request.Context(), raws, nexCtx, s.cfg.Workers)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	for j, res := range batch {
		out := &results[slots[j]]
		if res.Err != nil {
			out.Error = res.Err.Error()
			continue
		}
		d := res.Decoded
		node := d.Tree()
		out.Protocol = d.Protocol
		out.Method = d.Method
		out.Direction = d.Message.Direction.String()
		out.CallID = d.Message.CallID
		out.Tree = &node
		out.Diagnostics = d.Diagnostics
	}

	resp := decodeResponse{
		RequestID: observability.RequestIDFrom(c),
		Context:   describeContext(nexCtx),
		Results:   results,
	}
	body, err := tree.Marshal(resp, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), body)
}

// requestContext applies per-request overrides to the configured context.
func (s *Server) requestContext(req decodeRequest) (nex.Context, error) {
	ctx := s.cfg.Context()
	if strings.TrimSpace(req.NEXVersion) != "" {
		v, err := nex.ParseVersion(req.NEXVersion)
		if err != nil {
			return nex.Context{}, err
		}
		ctx.NEXVersion = v
	}
	if req.PRUDPVersion != nil {
		ctx.PRUDPVersion = *req.PRUDPVersion
	}
	if strings.TrimSpace(req.HeaderRule) != "" {
		rule, err := nex.ParseHeaderRule(req.HeaderRule)
		if err != nil {
			return nex.Context{}, err
		}
		ctx.HeaderRule = rule
	}
	return ctx, nil
}

func describeContext(ctx nex.Context) string {
	return fmt.Sprintf("nex=%s prudp=%d header_rule=%s", ctx.NEXVersion, ctx.PRUDPVersion, ctx.HeaderRule)
}
