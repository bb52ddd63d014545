package webui

import (
	"strings"

	"github.com/aicorp/aicorp/internal/observability"
)

// buildPayload validates the free-form prompt and assembles the wire payload:
// the configured system prompt always comes first, followed by the single
// user message, followed by the filtered extra parameters. A blank model
// falls back to defaultModel rather than erroring.
func buildPayload(prompt, model, defaultModel, systemPrompt string, params map[string]any, log *observability.Logger) (map[string]any, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{Index: -1, Reason: ReasonEmptyPrompt}
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
		log.Debug("no model specified, using default", "model", model)
	}

	payload := map[string]any{
		"model": model,
		"messages": []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: prompt},
		},
	}
	for key, value := range filterParams(params, log) {
		payload[key] = value
	}
	return payload, nil
}

// Transcript validates a structured message list and serializes it to a
// single newline-joined prompt with capitalized role labels, terminated by a
// trailing "Assistant:" marker. Messages with unrecognized roles are omitted
// from the transcript but do not fail validation; a message with empty
// trimmed content fails the whole request.
func Transcript(messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", &ValidationError{Index: -1, Reason: ReasonEmptyMessages}
	}

	var parts []string
	for i, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			return "", &ValidationError{Index: i, Reason: ReasonEmptyContent}
		}
		switch m.Role {
		case RoleSystem:
			parts = append(parts, "System: "+m.Content)
		case RoleUser:
			parts = append(parts, "User: "+m.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+m.Content)
		}
	}
	return strings.Join(parts, "\n") + "\nAssistant:", nil
}
