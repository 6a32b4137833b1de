package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a local stand-in that never calls a model. Output is
// deterministic for a given prompt, and differs by the number of replayed
// drafts so regeneration can be exercised offline.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if strings.HasPrefix(prompt.System, "You are a careful copy editor") {
		return strings.TrimSpace(prompt.User), nil
	}
	version := len(prompt.History)/2 + 1
	subject := "this business"
	if i := strings.Index(prompt.User, "review of "); i >= 0 {
		rest := prompt.User[i+len("review of "):]
		if j := strings.IndexAny(rest, ".\n"); j >= 0 {
			rest = rest[:j]
		}
		if k := strings.Index(rest, " to post on "); k >= 0 {
			rest = rest[:k]
		}
		subject = rest
	}
	return fmt.Sprintf("I had a great experience with %s. Everything was handled with care and I would happily recommend them. (draft %d)", subject, version), nil
}
