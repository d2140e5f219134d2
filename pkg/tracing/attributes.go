package tracing

import "go.opentelemetry.io/otel/attribute"

// Attribute keys
const (
	// MCP tool attributes
	AttrMCPToolName     = "mcp.tool.name"
	AttrMCPToolStatus   = "mcp.tool.status"
	AttrMCPToolDuration = "mcp.tool.duration_ms"
	AttrMCPResultSize   = "mcp.tool.result_size"

	// Calculator attributes
	AttrFootprintGroup    = "footprint.group"
	AttrFootprintActivity = "footprint.activity"
	AttrFootprintTonnes   = "footprint.tonnes"

	// Cache attributes
	AttrCacheType = "footprint.cache.type"
	AttrCacheHit  = "footprint.cache.hit"

	// HTTP transport attributes
	AttrHTTPMethod     = "http.method"
	AttrHTTPStatusCode = "http.status_code"
	AttrHTTPPath       = "http.path"
	AttrHTTPSessionID  = "mcp.session.id"

	// Error attributes
	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// Status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CacheTypeReport labels the profile report cache
const CacheTypeReport = "report"

// MCPToolAttributes returns attributes for MCP tool execution
func MCPToolAttributes(toolName string, status string, durationMs int64, resultSize int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrMCPToolName, toolName),
		attribute.String(AttrMCPToolStatus, status),
		attribute.Int64(AttrMCPToolDuration, durationMs),
		attribute.Int(AttrMCPResultSize, resultSize),
	}
}

// FootprintAttributes describes one computed group or activity
func FootprintAttributes(group, activity string, tonnes float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrFootprintGroup, group),
		attribute.Float64(AttrFootprintTonnes, tonnes),
	}
	if activity != "" {
		attrs = append(attrs, attribute.String(AttrFootprintActivity, activity))
	}
	return attrs
}

// CacheAttributes returns attributes for cache operations
func CacheAttributes(cacheType string, hit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrCacheType, cacheType),
		attribute.Bool(AttrCacheHit, hit),
	}
}

// ErrorAttributes returns attributes for errors
func ErrorAttributes(err error) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String(AttrErrorType, "error"),
		attribute.String(AttrErrorMessage, err.Error()),
	}
}
