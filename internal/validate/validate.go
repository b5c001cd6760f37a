// Package validate classifies fetched text as a usable instructions document
// or as an error payload that must never be written into a workspace.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result reports whether fetched content may be written, with the rejection
// reason when it may not.
type Result struct {
	Valid  bool
	Reason string
}

// errorIndicators mark an HTML document as a hosting provider's error or
// auth page. Matched case-insensitively against the whole document.
var errorIndicators = []string{
	"404",
	"401",
	"403",
	"500",
	"page not found",
	"access denied",
	"unauthorized",
	"sign in to",
	"login required",
}

// apiErrorFields are checked in order of preference when a JSON payload is
// inspected for an API error.
var apiErrorFields = []string{"message", "error", "errors"}

// Content classifies fetched text. Hosting providers can return HTTP 200
// with an HTML auth page or a JSON fault body, so a status check alone is
// not enough to trust the payload.
func Content(content string) Result {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Result{Reason: "empty content"}
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html") {
		for _, indicator := range errorIndicators {
			if strings.Contains(lower, indicator) {
				return Result{Reason: "HTML error page"}
			}
		}
		return Result{Reason: "HTML content instead of markdown"}
	}

	if strings.HasPrefix(trimmed, "{") {
		if reason, ok := apiError(trimmed); ok {
			return Result{Reason: reason}
		}
	}

	return Result{Valid: true}
}

// apiError decodes a brace-prefixed payload and reports the provider's error
// field when one is present. Content that fails to decode is not JSON after
// all; a markdown document can legitimately open with a brace.
func apiError(content string) (string, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", false
	}
	for _, field := range apiErrorFields {
		if v, ok := payload[field]; ok {
			return fmt.Sprintf("API error: %v", v), true
		}
	}
	return "", false
}
