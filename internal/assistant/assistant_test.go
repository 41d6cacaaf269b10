package assistant_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/challengely/challengely/internal/assistant"
	"github.com/challengely/challengely/pkg/entity"
)

type completionClientMock struct {
	text   string
	err    error
	slow   bool
	system string
	prompt string
}

func (m *completionClientMock) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.system = systemPrompt
	m.prompt = userPrompt
	if m.slow {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}
	return m.text, m.err
}

func TestRespond(t *testing.T) {
	ctx := context.Background()
	profile := &entity.UserProfile{
		Interests:                []entity.Interest{entity.InterestCreativity},
		DifficultyPreference:     entity.DifficultyMedium,
		CurrentStreak:            3,
		TotalChallengesCompleted: 10,
	}
	t.Run("remote text wins", func(t *testing.T) {
		client := &completionClientMock{text: "Keep sketching, you're on a roll!"}
		a := assistant.New(client)
		resp := a.Respond(ctx, "how am I doing?", testChallenge(entity.InterestCreativity), profile)
		assert.Equal(t, "Keep sketching, you're on a roll!", resp)
	})
	t.Run("prompt carries challenge and profile context", func(t *testing.T) {
		client := &completionClientMock{text: "ok"}
		a := assistant.New(client)
		a.Respond(ctx, "hello", testChallenge(entity.InterestCreativity), profile)
		assert.Contains(t, client.prompt, "Creative Sketch Session")
		assert.Contains(t, client.prompt, "Current streak: 3 days")
		assert.Contains(t, client.prompt, "User message: hello")
		assert.Contains(t, client.system, "Challengely")
	})
	t.Run("remote failure degrades to the keyword fallback", func(t *testing.T) {
		client := &completionClientMock{err: errors.New("network down")}
		a := assistant.New(client)
		challenge := testChallenge(entity.InterestCreativity)
		resp := a.Respond(ctx, "what's my challenge?", challenge, profile)
		assert.Equal(t, assistant.Fallback("what's my challenge?", challenge), resp)
		assert.NotEmpty(t, resp)
	})
	t.Run("empty completion gets the generic reply", func(t *testing.T) {
		client := &completionClientMock{text: "  \n "}
		a := assistant.New(client)
		resp := a.Respond(ctx, "zzz", nil, nil)
		assert.Equal(t, assistant.Fallback("zzz", nil), resp)
	})
	t.Run("nil client answers from the fallback", func(t *testing.T) {
		a := assistant.New(nil)
		resp := a.Respond(ctx, "I need motivation", nil, nil)
		assert.Equal(t, assistant.Fallback("I need motivation", nil), resp)
	})
	t.Run("slow remote is cut off", func(t *testing.T) {
		client := &completionClientMock{slow: true, text: "too late"}
		a := assistant.NewWithTimeout(client, 50*time.Millisecond)
		start := time.Now()
		resp := a.Respond(ctx, "hello there", nil, nil)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Equal(t, assistant.Fallback("hello there", nil), resp)
	})
}
