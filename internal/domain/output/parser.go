package output

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// rawCapture bounds how much of the original text a synthesized record
	// preserves for diagnosis.
	rawCapture = 500

	yamlFenceOpen = "```yaml"
	fenceClose    = "```"

	summaryIncomplete = "Agent executed but output format incomplete"
	summaryNotYAML    = "Agent executed but output not in YAML format"
)

// Parse normalizes raw executor text into a Structured record. It never
// fails: text that cannot be parsed, or parses without both status and
// summary, yields a synthetic warning record instead. Parse is a pure
// function — calling it twice on the same text yields the same record.
func Parse(raw string) Structured {
	text := extractFencedYAML(raw)

	var out Structured
	if err := yaml.Unmarshal([]byte(text), &out); err != nil {
		return fallback(raw, summaryNotYAML)
	}
	if out.Status == "" || out.Summary == "" {
		return fallback(raw, summaryIncomplete)
	}
	return out
}

// extractFencedYAML returns the contents of the first ```yaml fenced block,
// or the whole text when no such block exists.
func extractFencedYAML(text string) string {
	start := strings.Index(text, yamlFenceOpen)
	if start < 0 {
		return text
	}
	body := text[start+len(yamlFenceOpen):]
	end := strings.Index(body, fenceClose)
	if end < 0 {
		return body
	}
	return body[:end]
}

func fallback(raw, summary string) Structured {
	return Structured{
		Status:    StatusWarning,
		Summary:   summary,
		RawOutput: truncate(raw, rawCapture),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
