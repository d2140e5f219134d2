package tools

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/footprintmcp/pkg/core"
)

// ResultText returns the first text content of a result
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if text, ok := c.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// AssertErrorResult checks that a result is an error result and fails the test if not
func AssertErrorResult(t *testing.T, result *mcp.CallToolResult, message string) {
	t.Helper()
	if result == nil || !result.IsError {
		t.Error(message)
	}
}

// AssertSuccessResult checks that a result is a success result and fails the test if not
func AssertSuccessResult(t *testing.T, result *mcp.CallToolResult, message string) {
	t.Helper()
	if result == nil {
		t.Errorf("%s. Got nil result", message)
		return
	}
	if result.IsError {
		t.Errorf("%s. Got error: %s", message, ResultText(result))
	}
}

// ParseResultJSON parses the JSON content from a CallToolResult
func ParseResultJSON(result *mcp.CallToolResult, out interface{}) error {
	return json.Unmarshal([]byte(ResultText(result)), out)
}

// ParseErrorResult asserts an error result and decodes its structured error
func ParseErrorResult(t *testing.T, result *mcp.CallToolResult) core.MCPError {
	t.Helper()
	AssertErrorResult(t, result, "Expected error result, but got success")

	var mcpErr core.MCPError
	if err := ParseResultJSON(result, &mcpErr); err != nil {
		t.Fatalf("Failed to unmarshal error: %v", err)
	}
	return mcpErr
}
