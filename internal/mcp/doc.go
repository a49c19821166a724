// Package mcp exposes the branch and fusion operations as MCP tools.
//
// Tools are registered with the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and served over stdio by the daemon's "mcp" mode. Each tool calls the
// service layer directly; structured output mirrors the HTTP API bodies.
//
// Registered tools:
//
//	fusion_compute       fuse one chart into the rounded fusion document
//	branch_map           hard-map a longitude to its branch
//	branch_soft_weights  von Mises weights of a longitude over the twelve branches
//	branch_table         list the configured branch sectors
//	branch_compare       contrast boundary conventions at a longitude
//	tool_search          find tools by name, description or keyword
package mcp
