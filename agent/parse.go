package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ParseMessage is a structured-extraction utility: it builds an
// extraction prompt from sender/timestamp/content, drives it
// through Chat, and parses the reply as JSON, accepting a top-level array,
// a top-level object, or a fenced code block. On decode failure it returns
// a single-element "noise" record rather than propagating an error — the
// extraction prompt's output is untrusted model text, not a programming
// contract, so a parse failure is data, not a caller bug.
func (a *Agent) ParseMessage(ctx context.Context, sender, timestamp, content string) ([]map[string]any, error) {
	prompt := buildExtractionPrompt(sender, timestamp, content)

	result, err := a.Chat(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}

	return parseExtractedJSON(result.Content), nil
}

func buildExtractionPrompt(sender, timestamp, content string) string {
	var b strings.Builder
	b.WriteString("Extract structured information from the following message as a JSON array of objects.\n")
	b.WriteString("Sender: ")
	b.WriteString(sender)
	b.WriteString("\nTimestamp: ")
	b.WriteString(timestamp)
	b.WriteString("\nMessage:\n")
	b.WriteString(content)
	return b.String()
}

// parseExtractedJSON accepts a top-level array, a top-level object (wrapped
// into a one-element array), or a fenced ```json block, in that order of
// attempt. Anything else yields a single noise record.
func parseExtractedJSON(text string) []map[string]any {
	trimmed := strings.TrimSpace(text)

	if arr, ok := tryDecodeArray(trimmed); ok {
		return arr
	}
	if obj, ok := tryDecodeObject(trimmed); ok {
		return []map[string]any{obj}
	}
	if match := fencedJSONPattern.FindStringSubmatch(trimmed); match != nil {
		inner := strings.TrimSpace(match[1])
		if arr, ok := tryDecodeArray(inner); ok {
			return arr
		}
		if obj, ok := tryDecodeObject(inner); ok {
			return []map[string]any{obj}
		}
	}

	return []map[string]any{{"type": "noise", "error": "could not parse a JSON array, object, or fenced block from the reply"}}
}

func tryDecodeArray(text string) ([]map[string]any, bool) {
	var arr []map[string]any
	if err := json.Unmarshal([]byte(text), &arr); err != nil {
		return nil, false
	}
	return arr, true
}

func tryDecodeObject(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
