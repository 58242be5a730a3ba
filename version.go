// Package asepritemcp is the root of the Aseprite MCP server module.
package asepritemcp

// Version is the server version reported over MCP and by the CLI.
const Version = "0.3.0"
