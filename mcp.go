package finreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quillon/finreport/extract"
)

// RegisterMCP registers the report tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerGenerateTool(srv)
	p.registerDetectTool(srv)
	p.registerFormatsTool(srv)
}

// RunMCP serves the report tools over stdio until ctx is done.
func (p *Pipeline) RunMCP(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "finreport", Version: "0.1.0"}, nil)
	p.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// addTool wires a typed handler into the server, turning decode and
// handler failures into tool errors rather than protocol errors.
func addTool[Req any](srv *mcp.Server, tool *mcp.Tool, handler func(ctx context.Context, r *Req) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r Req
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := handler(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- generate ---

type generateReq struct {
	Paths []string `json:"paths"`
	Out   string   `json:"out"`
}

func (p *Pipeline) registerGenerateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "report_generate",
		Description: "Run the full analysis pipeline over the given financial files and write a PDF report.",
		InputSchema: inputSchema(map[string]any{
			"paths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Input file paths (csv, xlsx, pdf, docx, txt)",
			},
			"out": map[string]any{"type": "string", "description": "Output PDF path"},
		}, []string{"paths", "out"}),
	}

	addTool(srv, tool, func(ctx context.Context, r *generateReq) (any, error) {
		out, err := p.Run(ctx, r.Paths, r.Out)
		if err != nil {
			return nil, err
		}
		return map[string]any{"output": out}, nil
	})
}

// --- detect ---

type detectReq struct {
	Path string `json:"path"`
}

func (p *Pipeline) registerDetectTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_detect",
		Description: "Detect the format of an input file from its extension.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "File path to detect"},
		}, []string{"path"}),
	}

	addTool(srv, tool, func(_ context.Context, r *detectReq) (any, error) {
		format, err := p.extractor.Detect(r.Path)
		if err != nil {
			return nil, err
		}
		return map[string]any{"format": string(format)}, nil
	})
}

// --- formats ---

func (p *Pipeline) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_formats",
		Description: "List all supported input file formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	addTool(srv, tool, func(_ context.Context, _ *struct{}) (any, error) {
		return map[string]any{"formats": extract.SupportedFormats()}, nil
	})
}
