package assistant

import (
	"fmt"
	"strings"

	"github.com/challengely/challengely/pkg/entity"
)

const systemPrompt = `You are a friendly, motivational challenge assistant inside a personal development app called "Challengely".

Your personality:
- Encouraging, supportive, and inspiring tone
- Speak briefly and conversationally (under 100 words)
- Show empathy and understanding for user struggles
- Provide actionable advice and motivation
- Use challenge-themed language occasionally (🎯, 💪, 🚀, ✨)
- Celebrate progress and effort, not just completion

Your role:
- Help users with their daily challenges (fitness, creativity, mindfulness, learning, social)
- Provide emotional support and motivation
- Offer practical tips and strategies
- Help users overcome obstacles and build habits
- Encourage reflection and growth mindset

Always respond as a supportive coach and friend, focusing on personal development and growth.`

// buildPrompt prefixes the raw user message with a summary of the current
// challenge and profile so the model answers in context.
func buildPrompt(userMessage string, challenge *entity.Challenge, profile *entity.UserProfile) string {
	var sb strings.Builder
	sb.WriteString("User context: ")

	if challenge != nil {
		fmt.Fprintf(&sb, "Current challenge: %s (%s), difficulty: %s, estimated time: %d minutes. ",
			challenge.Title, challenge.Category, challenge.Difficulty, challenge.EstimatedTime)
	} else {
		sb.WriteString("No current challenge available. ")
	}

	if profile != nil {
		interests := make([]string, 0, len(profile.Interests))
		for _, interest := range profile.Interests {
			interests = append(interests, string(interest))
		}
		fmt.Fprintf(&sb, "User interests: %s. ", strings.Join(interests, ", "))
		fmt.Fprintf(&sb, "Preferred difficulty: %s. ", profile.DifficultyPreference)
		fmt.Fprintf(&sb, "Current streak: %d days, total completed: %d challenges. ",
			profile.CurrentStreak, profile.TotalChallengesCompleted)
	}

	sb.WriteString("\n\nUser message: ")
	sb.WriteString(userMessage)
	return sb.String()
}
