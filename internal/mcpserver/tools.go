package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// registerTools adds the template tools to the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_templates",
			mcp.WithDescription("List merge templates with their ID, title, type and repeat flag"),
		),
		s.handleListTemplates,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_template",
			mcp.WithDescription("Show one merge template as YAML"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
		),
		s.handleGetTemplate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_template",
			mcp.WithDescription("Delete a merge template"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
		),
		s.handleDeleteTemplate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_repeating",
			mcp.WithDescription("Turn scheduled repetition of a merge template on or off"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
			mcp.WithBoolean("repeating", mcp.Required(), mcp.Description("Whether the merge repeats")),
		),
		s.handleSetRepeating,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("record_run",
			mcp.WithDescription("Record that a merge template was run"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
		),
		s.handleRecordRun,
	)
}
