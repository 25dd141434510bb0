package parsers

import (
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/schema"
)

// decisionArgs is the argument payload of the forced determine_next_node
// function call.
type decisionArgs struct {
	Decision string `json:"decision"`
}

// ParseDecision extracts the routing decision word from a router model
// reply. It prefers the determine_next_node tool-call arguments and falls
// back to the bare message content (some providers answer in plain text
// despite a forced tool choice). Returns "" when nothing usable is found;
// the routing layer applies the fallback policy.
func ParseDecision(msg *schema.Message) string {
	if msg == nil {
		return ""
	}

	for _, tc := range msg.ToolCalls {
		if tc.Function.Name != "determine_next_node" {
			continue
		}
		var args decisionArgs
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			continue
		}
		if d := normalizeDecision(args.Decision); d != "" {
			return d
		}
	}

	return normalizeDecision(msg.Content)
}

func normalizeDecision(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	// take the first word so "End. El usuario quiere terminar." still parses
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "\"'.,")
	switch s {
	case "shopping", "long", "end":
		return s
	default:
		return ""
	}
}
