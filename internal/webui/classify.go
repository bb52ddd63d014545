package webui

import (
	"encoding/json"
	"fmt"
	"time"
)

// completionResponse mirrors the provider's chat-completions wire format.
// Usage is a pointer so an absent usage block is distinguishable from a
// reported zero.
type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// classify maps an observed HTTP status and body into the generation result:
//
//	200 + parsable body  -> *Completion (empty choices is a lenient success)
//	200 + unparsable body -> *TransportError (broken proxy, not provider fault)
//	non-200              -> *ProviderError with the raw body text
//
// Network failures never reach classify; the transport wraps them in a
// *TransportError before a status exists.
func classify(status int, body []byte, elapsed time.Duration) (*Completion, error) {
	if status != 200 {
		return nil, &ProviderError{StatusCode: status, Body: string(body)}
	}

	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("unparsable 200 response: %w", err)}
	}

	c := &Completion{
		Model:   resp.Model,
		Elapsed: elapsed,
	}
	if len(resp.Choices) > 0 {
		c.Content = resp.Choices[0].Message.Content
	}
	if resp.Usage != nil {
		tokens := resp.Usage.TotalTokens
		c.TokenCount = &tokens
	}
	return c, nil
}
