// Package mcp implements the Model Context Protocol endpoint.
//
// The server speaks JSON-RPC 2.0 over HTTP POST per the MCP Streamable
// HTTP transport. Clients initialize a session, then list and call the
// tools registered in the tools package:
//
//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {
//	    "name": "calculate",
//	    "arguments": {"operation": "add", "a": 2, "b": 3}
//	  },
//	  "id": 2
//	}
//
// Authentication is handled before requests reach this package: the
// credential middleware resolves an API key or OAuth access token to a
// user and attaches it to the request context. Sessions are kept in
// memory and bound to the initializing account; DELETE with the
// Mcp-Session-Id header terminates one.
//
// Claude Desktop configuration:
//
//	{
//	  "mcpServers": {
//	    "backpack": {
//	      "url": "http://localhost:8080/mcp",
//	      "headers": {"X-Backpack-API-Key": "<key>"}
//	    }
//	  }
//	}
package mcp
