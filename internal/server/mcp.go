package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/apresai/ikigen/internal/insight"
	"github.com/apresai/ikigen/internal/share"
	"github.com/apresai/ikigen/internal/tone"
)

var tracer = otel.Tracer("ikigen-mcp")

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "compose_share_post",
			Description: "Compose a LinkedIn-ready share post from an Ikigai insight: a random header, the insight in the header's voice and italics, and a call to action.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"insight": map[string]any{
						"type":        "string",
						"description": "The insight text to share",
					},
				},
				Required: []string{"insight"},
			},
		},
		{
			Name:        "adjust_tone",
			Description: "Rewrite second-person text (you, your) into the first person when the header speaks in the first person.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to adjust",
					},
					"header": map[string]any{
						"type":        "string",
						"description": "Header the text will appear under, e.g. \"✨ My Ikigai ✨\"",
					},
					"enhanced": map[string]any{
						"type":        "boolean",
						"description": "Use the language model rewrite instead of the rule-based one",
						"default":     false,
					},
				},
				Required: []string{"text", "header"},
			},
		},
		{
			Name:        "generate_insight",
			Description: "Generate a short reflective insight for one Ikigai step, or the structured final summary.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"input": map[string]any{
						"type":        "string",
						"description": "What the person wrote",
					},
					"context": map[string]any{
						"type": "string",
						"description": fmt.Sprintf("Reflection step: %s",
							strings.Join([]string{insight.ContextLove, insight.ContextGoodAt, insight.ContextWorldNeeds, insight.ContextPaidFor, insight.ContextSummary}, ", ")),
					},
					"question": map[string]any{
						"type":        "string",
						"description": "The question that was asked",
					},
				},
				Required: []string{"input"},
			},
		},
	}
}

type toolHandlers struct {
	srv *Server
}

// HandleComposeSharePost composes a share post.
func (h *toolHandlers) HandleComposeSharePost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.compose_share_post")
	defer span.End()

	post := h.srv.deps.Composer.Build(ctx, mcp.ParseString(req, "insight", ""))
	span.SetAttributes(attribute.Bool("was_adjusted", post.WasAdjusted))

	return jsonResult(map[string]any{
		"post":           post.String(),
		"header":         post.Header,
		"call_to_action": post.CallToAction,
		"was_adjusted":   post.WasAdjusted,
		"share_url":      share.LinkedInURL(h.srv.cfg.SiteURL),
	})
}

// HandleAdjustTone runs the rule-based or enhanced tone adjustment.
func (h *toolHandlers) HandleAdjustTone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.adjust_tone")
	defer span.End()

	text := mcp.ParseString(req, "text", "")
	header := mcp.ParseString(req, "header", "")
	enhanced := mcp.ParseBoolean(req, "enhanced", false)
	span.SetAttributes(attribute.Bool("enhanced", enhanced))

	res := tone.RuleBased(text, header)
	if enhanced {
		adj, err := h.srv.deps.Enhancer.Adjust(ctx, text, header)
		if err == nil {
			res = adj
		} else if !errors.Is(err, tone.ErrUnavailable) {
			span.RecordError(err)
		}
	}

	return jsonResult(map[string]any{
		"adjusted_text": res.AdjustedText,
		"was_adjusted":  res.WasAdjusted,
		"first_person":  tone.IsFirstPersonVoice(header),
	})
}

// HandleGenerateInsight generates one insight.
func (h *toolHandlers) HandleGenerateInsight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.generate_insight")
	defer span.End()

	ir := insight.Request{
		Input:    mcp.ParseString(req, "input", ""),
		Context:  mcp.ParseString(req, "context", ""),
		Question: mcp.ParseString(req, "question", ""),
	}
	span.SetAttributes(attribute.String("context", ir.Context))

	res, err := h.srv.deps.Insight.Insight(ctx, ir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insight failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
