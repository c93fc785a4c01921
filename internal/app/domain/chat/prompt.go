package chat

import (
	_ "embed"
)

// The system prompt is the product: it drives the four-phase planning
// conversation end to end. It lives in a plain text asset so prompt revisions
// never touch Go code.
//
//go:embed system_prompt.txt
var systemPrompt string

// SystemPrompt returns the planning-assistant instruction block sent with
// every model call.
func SystemPrompt() string {
	return systemPrompt
}
