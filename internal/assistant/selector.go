package assistant

import (
	"fmt"
	"strings"

	"github.com/challengely/challengely/pkg/entity"
)

const defaultResponse = "I'm here to support you on your challenge journey! 💪 What would you like to know about your challenge or how can I help motivate you today?"

// Fallback picks a canned reply for the message by ordered keyword matching.
// Earlier groups win: a message mentioning both "challenge" and "tip" gets the
// challenge reply. Pure, same inputs always give the same output.
func Fallback(userMessage string, challenge *entity.Challenge) string {
	msg := strings.ToLower(userMessage)

	if strings.Contains(msg, "challenge") || strings.Contains(msg, "what") {
		if challenge != nil {
			return fmt.Sprintf("Your challenge today is: %s 🎯\n\nIt's a %s %s challenge that should take about %d minutes. Ready to tackle it? 💪",
				challenge.Title,
				strings.ToLower(string(challenge.Difficulty)),
				strings.ToLower(string(challenge.Category)),
				challenge.EstimatedTime,
			)
		}
		return "I don't see a challenge for today yet! Check back later or try refreshing the app. ✨"
	}

	if strings.Contains(msg, "motivation") || strings.Contains(msg, "motivate") {
		return "You've got this! 💪 Every challenge is a step toward becoming your best self. Remember why you started - you're building habits that will last a lifetime. Take it one moment at a time! ✨"
	}

	if strings.Contains(msg, "tip") || strings.Contains(msg, "help") || strings.Contains(msg, "advice") {
		if challenge != nil {
			return categoryTip(challenge.Category)
		}
		return "My best tip: Start where you are, use what you have, and do what you can. Every small step counts toward your bigger goals! ✨"
	}

	if strings.Contains(msg, "progress") || strings.Contains(msg, "streak") || strings.Contains(msg, "doing") {
		return "You're making amazing progress! Every challenge you complete builds your confidence and strengthens your habits. Keep going - you're building something incredible! 🔥"
	}

	if strings.Contains(msg, "nervous") || strings.Contains(msg, "anxious") || strings.Contains(msg, "worried") {
		return "It's totally normal to feel nervous! Remember, challenges are meant to stretch you, not break you. Start with just 5 minutes and see how it feels. You're stronger than you think! 💪"
	}

	if strings.Contains(msg, "distract") || strings.Contains(msg, "focus") {
		return "Distractions happen to everyone! Try counting your breaths from 1 to 10, then repeat. When your mind wanders, gently bring it back. It's like training a muscle - it gets stronger with practice! 🧠"
	}

	if strings.Contains(msg, "complete") || strings.Contains(msg, "done") || strings.Contains(msg, "finished") {
		return "Congratulations! 🎉 You did it! How did it feel? What was the most challenging part? Take a moment to celebrate your accomplishment - you earned it! ✨"
	}

	return defaultResponse
}

func categoryTip(category entity.Interest) string {
	switch category {
	case entity.InterestFitness:
		return "For fitness challenges: Start small, focus on form over speed, and remember to breathe! Even 5 minutes of movement counts. You're doing great! 🏃‍♀️"
	case entity.InterestMindfulness:
		return "For mindfulness: Find a quiet spot, focus on your breath, and don't worry about clearing your mind completely. It's normal for thoughts to wander - just gently bring your attention back. 🧘‍♀️"
	case entity.InterestCreativity:
		return "For creativity: Don't overthink it! Start with whatever comes to mind first. There are no wrong answers in creativity. Let your imagination run wild! 🎨"
	case entity.InterestLearning:
		return "For learning: Break it down into smaller chunks, take notes, and don't be afraid to ask questions. Learning is a journey, not a race! 📚"
	case entity.InterestSocial:
		return "For social challenges: Be genuine, listen actively, and remember that everyone appreciates kindness. You have something valuable to share! 🤝"
	}
	return "My best tip: Start where you are, use what you have, and do what you can. Every small step counts toward your bigger goals! ✨"
}

// Suggestions builds the quick replies for the current state: one generic
// entry plus exactly two per-category ones when a challenge exists, four
// generic entries otherwise.
func Suggestions(challenge *entity.Challenge) []entity.ChatSuggestion {
	if challenge == nil {
		return []entity.ChatSuggestion{
			{Text: "What's my challenge today?", Action: "challenge"},
			{Text: "I need motivation", Action: "motivation"},
			{Text: "Give me some tips", Action: "tips"},
			{Text: "How am I doing?", Action: "progress"},
		}
	}
	suggestions := []entity.ChatSuggestion{
		{Text: "What's my challenge today?", Action: "challenge"},
	}
	switch challenge.Category {
	case entity.InterestFitness:
		suggestions = append(suggestions,
			entity.ChatSuggestion{Text: "I'm tired, any tips?", Action: "fitness_tips"},
			entity.ChatSuggestion{Text: "How do I stay motivated?", Action: "motivation"},
		)
	case entity.InterestMindfulness:
		suggestions = append(suggestions,
			entity.ChatSuggestion{Text: "I'm getting distracted", Action: "focus"},
			entity.ChatSuggestion{Text: "Help me relax", Action: "relax"},
		)
	case entity.InterestCreativity:
		suggestions = append(suggestions,
			entity.ChatSuggestion{Text: "I'm stuck for ideas", Action: "creativity_block"},
			entity.ChatSuggestion{Text: "How do I get inspired?", Action: "inspiration"},
		)
	case entity.InterestLearning:
		suggestions = append(suggestions,
			entity.ChatSuggestion{Text: "This is too hard", Action: "difficulty"},
			entity.ChatSuggestion{Text: "How do I remember this?", Action: "memory"},
		)
	case entity.InterestSocial:
		suggestions = append(suggestions,
			entity.ChatSuggestion{Text: "I'm nervous about this", Action: "social_anxiety"},
			entity.ChatSuggestion{Text: "What should I say?", Action: "conversation"},
		)
	}
	return suggestions
}
