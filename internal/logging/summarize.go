package logging

import (
	"fmt"
	"strings"
)

// maxLoggedString bounds string arguments in debug logs; image payloads
// arrive as base64 and would otherwise flood the log.
const maxLoggedString = 256

var payloadKeys = map[string]bool{
	"base64_string": true,
	"image":         true,
	"svg":           true,
	"data":          true,
}

// SummarizeArgs returns a copy of tool arguments that is safe to log.
func SummarizeArgs(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			if s, ok := val.(string); ok && isPayloadKey(key) {
				out[key] = fmt.Sprintf("<%d bytes>", len(s))
				continue
			}
			out[key] = SummarizeArgs(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = SummarizeArgs(val)
		}
		return out
	case string:
		return truncate(typed)
	default:
		return value
	}
}

func isPayloadKey(key string) bool {
	return payloadKeys[strings.ToLower(strings.TrimSpace(key))]
}

func truncate(s string) string {
	if len(s) <= maxLoggedString {
		return s
	}
	return fmt.Sprintf("%s...(%d bytes)", s[:maxLoggedString], len(s))
}
