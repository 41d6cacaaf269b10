package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/challengely/challengely/pkg/entity"
)

// completionTimeout is the firm upper bound on one remote attempt. After it
// the call counts as failed and the keyword fallback answers instead.
const completionTimeout = 60 * time.Second

// Assistant produces exactly one reply per user message. The remote path is
// optional: without a client every reply comes from the keyword fallback, and
// any remote failure degrades to the same fallback. Respond never returns an
// error.
type Assistant struct {
	client  CompletionClient
	timeout time.Duration
}

// New creates an assistant. A nil client disables the remote path.
func New(client CompletionClient) *Assistant {
	return &Assistant{
		client:  client,
		timeout: completionTimeout,
	}
}

func NewWithTimeout(client CompletionClient, timeout time.Duration) *Assistant {
	return &Assistant{
		client:  client,
		timeout: timeout,
	}
}

func (a *Assistant) Respond(ctx context.Context, userMessage string, challenge *entity.Challenge, profile *entity.UserProfile) string {
	if a.client == nil {
		return Fallback(userMessage, challenge)
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	text, err := a.client.Complete(ctx, systemPrompt, buildPrompt(userMessage, challenge, profile))
	if err != nil {
		return Fallback(userMessage, challenge)
	}
	if strings.TrimSpace(text) == "" {
		return defaultResponse
	}
	return text
}
