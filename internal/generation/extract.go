package generation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// StripCodeFences removes Markdown code-fence markers, including a trailing language tag.
func StripCodeFences(s string) string {
	return fenceMarker.ReplaceAllString(s, "")
}

// recoveryCandidates lists, in order, the texts worth parsing: the fence-stripped
// and trimmed output, then the greedy span from the first open to the last close.
func recoveryCandidates(raw string, open, close byte) []string {
	cleaned := strings.TrimSpace(StripCodeFences(raw))
	out := []string{cleaned}
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start >= 0 && end > start {
		if span := cleaned[start : end+1]; span != cleaned {
			out = append(out, span)
		}
	}
	return out
}

func decodeRecovered(raw string, open, close byte, v any) error {
	var lastErr error
	for _, candidate := range recoveryCandidates(raw, open, close) {
		if candidate == "" || candidate[0] != open {
			lastErr = fmt.Errorf("no JSON %s found", shapeName(open))
			continue
		}
		if err := json.Unmarshal([]byte(candidate), v); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON %s found", shapeName(open))
	}
	return lastErr
}

// DecodeObject parses a JSON object out of free-text generator output.
func DecodeObject(raw string, v any) error { return decodeRecovered(raw, '{', '}', v) }

// DecodeArray parses a JSON array out of free-text generator output.
func DecodeArray(raw string, v any) error { return decodeRecovered(raw, '[', ']', v) }

func shapeName(open byte) string {
	if open == '[' {
		return "array"
	}
	return "object"
}
