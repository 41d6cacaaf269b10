package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
}

type Interest string

const (
	InterestFitness     Interest = "Fitness"
	InterestCreativity  Interest = "Creativity"
	InterestMindfulness Interest = "Mindfulness"
	InterestLearning    Interest = "Learning"
	InterestSocial      Interest = "Social"
)

var Interests = []Interest{
	InterestFitness,
	InterestCreativity,
	InterestMindfulness,
	InterestLearning,
	InterestSocial,
}

func (i Interest) Valid() bool {
	switch i {
	case InterestFitness, InterestCreativity, InterestMindfulness, InterestLearning, InterestSocial:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type UserProfile struct {
	Interests                []Interest `json:"interests"`
	DifficultyPreference     Difficulty `json:"difficulty_preference"`
	HasCompletedOnboarding   bool       `json:"has_completed_onboarding"`
	CurrentStreak            int        `json:"current_streak"`
	LongestStreak            int        `json:"longest_streak"`
	TotalChallengesCompleted int        `json:"total_challenges_completed"`
	LastChallengeDate        *time.Time `json:"last_challenge_date,omitempty"`
}

// DefaultProfile is the state of a freshly registered user before onboarding.
func DefaultProfile() *UserProfile {
	return &UserProfile{
		Interests:            []Interest{},
		DifficultyPreference: DifficultyMedium,
	}
}

type Challenge struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	EstimatedTime  int        `json:"estimated_time"`
	Difficulty     Difficulty `json:"difficulty"`
	Category       Interest   `json:"category"`
	Date           time.Time  `json:"date"`
	IsCompleted    bool       `json:"is_completed"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`
	TimeSpent      *int       `json:"time_spent,omitempty"`
}

// IsForDay reports whether the challenge belongs to the calendar day of now.
// A challenge dated another day is stale and must be replaced.
func (c *Challenge) IsForDay(now time.Time) bool {
	return SameCalendarDay(c.Date, now)
}

type MessageType string

const (
	MessageTypeText       MessageType = "text"
	MessageTypeSuggestion MessageType = "suggestion"
	MessageTypeSystem     MessageType = "system"
)

type ChatMessage struct {
	ID          uuid.UUID   `json:"id"`
	Content     string      `json:"content"`
	IsFromUser  bool        `json:"is_from_user"`
	Timestamp   time.Time   `json:"timestamp"`
	MessageType MessageType `json:"message_type"`
}

func NewChatMessage(content string, fromUser bool, messageType MessageType) ChatMessage {
	return ChatMessage{
		ID:          uuid.New(),
		Content:     content,
		IsFromUser:  fromUser,
		Timestamp:   time.Now(),
		MessageType: messageType,
	}
}

// ChatSuggestion is a pre-authored quick reply. Never persisted, rebuilt from
// the current challenge on every request.
type ChatSuggestion struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

// Achievement is a milestone derived from the profile counters. Never
// persisted, recomputed on every read.
type Achievement struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func EarnedAchievements(profile *UserProfile) []Achievement {
	earned := []Achievement{}
	if profile.CurrentStreak >= 7 {
		earned = append(earned, Achievement{
			Title:       "Week Warrior",
			Description: "Maintained a 7-day streak",
		})
	}
	if profile.LongestStreak >= 30 {
		earned = append(earned, Achievement{
			Title:       "Monthly Master",
			Description: "Achieved a 30-day streak",
		})
	}
	if profile.TotalChallengesCompleted >= 10 {
		earned = append(earned, Achievement{
			Title:       "Dedicated Learner",
			Description: "Completed 10 challenges",
		})
	}
	if profile.TotalChallengesCompleted >= 50 {
		earned = append(earned, Achievement{
			Title:       "Challenge Champion",
			Description: "Completed 50 challenges",
		})
	}
	return earned
}

func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
