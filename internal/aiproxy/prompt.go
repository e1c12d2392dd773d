package aiproxy

import (
	"fmt"
	"sort"
	"strings"
)

const (
	analystSystemPrompt = "You are a power grid operations analyst. Explain anomalies concisely, " +
		"name the likely cause and the immediate operator action."
	advisorSystemPrompt = "You are a power grid optimization advisor. Give short, numbered, " +
		"actionable recommendations grounded in the supplied figures."
)

// formatFields renders sanitized fields as sorted "key: value" lines so
// prompts are stable for identical input.
func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, fields[k])
	}
	return b.String()
}

func anomalyPrompt(fields map[string]any) string {
	return "Analyze this grid anomaly:\n" + formatFields(fields) +
		"Respond with the probable cause, the risk if unaddressed and the recommended response."
}

func recommendationsPrompt(fields map[string]any) string {
	return "Current grid state:\n" + formatFields(fields) +
		"Suggest up to five recommendations to improve stability and renewable utilization."
}
