// Package mcpserver exposes the Engine's operations as mark3labs/mcp-go
// tools, mirroring the teacher's internal/mcp tool-registration pattern.
package mcpserver

import "fmt"

func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}
	return str, nil
}

// parseClampedInt extracts an integer argument (MCP sends numbers as
// float64) and clamps it to [min, max], returning defaultVal if missing.
func parseClampedInt(argsMap map[string]interface{}, key string, defaultVal, min, max int) int {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}
	f, ok := val.(float64)
	if !ok {
		return defaultVal
	}
	n := int(f)
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
