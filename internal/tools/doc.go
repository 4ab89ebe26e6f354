// ABOUTME: Package tools defines the callable tool set and its registry.
// ABOUTME: The protocol server lists and dispatches tools through it.

// Package tools holds the fixed tool registry exposed over the protocol
// endpoint. Tools are stateless between calls; the only per-request
// state they see is the authenticated user carried in the context.
package tools
