package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mailman/internal/logger"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleListTemplates lists every template in collection order.
func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := s.templates.Collection().All()
	if len(all) == 0 {
		return mcp.NewToolResultText("No templates."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d template(s):\n", len(all))
	for _, t := range all {
		repeat := ""
		if t.Repeating() {
			repeat = " [repeating]"
		}
		runs := ""
		if s.runs != nil {
			if info, err := s.runs.Lookup(ctx, t.ID()); err == nil && info.RunCount > 0 {
				runs = fmt.Sprintf(" (ran %d times)", info.RunCount)
			}
		}
		fmt.Fprintf(&b, "- %s: %s <%s>%s%s\n", t.ID(), t.Title(), t.Type(), repeat, runs)
	}
	return mcp.NewToolResultText(strings.TrimRight(b.String(), "\n")), nil
}

// handleGetTemplate returns one template as YAML.
func (s *Server) handleGetTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}

	t, err := s.templates.Get(id)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	data, err := t.YAML()
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleDeleteTemplate deletes a template and its run metadata.
func (s *Server) handleDeleteTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.templates.Delete(ctx, id); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	if s.runs != nil {
		if err := s.runs.Delete(ctx, id); err != nil {
			logger.Warn("Failed to delete run metadata for %s: %v", id, err)
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", id)), nil
}

// handleSetRepeating switches repetition of a template.
func (s *Server) handleSetRepeating(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}

	repeating, ok := request.GetArguments()["repeating"].(bool)
	if !ok {
		return mcp.NewToolResultText("error: missing or invalid 'repeating' parameter"), nil
	}

	if err := s.templates.SetRepeating(ctx, id, repeating); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	state := "off"
	if repeating {
		state = "on"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Repeat %s for %s", state, id)), nil
}

// handleRecordRun bumps the run count of a template.
func (s *Server) handleRecordRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(request)
	if errResult != nil {
		return errResult, nil
	}
	if s.runs == nil {
		return mcp.NewToolResultText("error: run tracking is not available"), nil
	}
	if _, err := s.templates.Get(id); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	info, err := s.runs.RecordRun(ctx, id)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded run %d for %s", info.RunCount, id)), nil
}

// requireID extracts the id argument, returning an error result when it
// is missing.
func requireID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	args := request.GetArguments()
	if args == nil {
		return "", mcp.NewToolResultText("error: no arguments provided")
	}
	id, ok := args["id"].(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", mcp.NewToolResultText("error: missing or invalid 'id' parameter")
	}
	return id, nil
}
