package catalog

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/challengely/challengely/pkg/entity"
)

// candidates is the fixed set of daily challenges the product ships with.
var candidates = []entity.Challenge{
	{
		Title:         "Mindful Morning Meditation",
		Description:   "Start your day with 10 minutes of guided meditation. Find a quiet space, sit comfortably, and focus on your breath.",
		EstimatedTime: 10,
		Difficulty:    entity.DifficultyEasy,
		Category:      entity.InterestMindfulness,
	},
	{
		Title:         "Creative Sketch Session",
		Description:   "Draw something from your imagination for 15 minutes. Don't worry about perfection - just let your creativity flow!",
		EstimatedTime: 15,
		Difficulty:    entity.DifficultyMedium,
		Category:      entity.InterestCreativity,
	},
	{
		Title:         "Learn Something New",
		Description:   "Spend 20 minutes learning about a topic you've always been curious about. Watch a video, read an article, or listen to a podcast.",
		EstimatedTime: 20,
		Difficulty:    entity.DifficultyMedium,
		Category:      entity.InterestLearning,
	},
	{
		Title:         "Quick Workout",
		Description:   "Complete a 15-minute bodyweight workout. Include push-ups, squats, and planks. Challenge yourself but listen to your body.",
		EstimatedTime: 15,
		Difficulty:    entity.DifficultyMedium,
		Category:      entity.InterestFitness,
	},
	{
		Title:         "Reach Out to a Friend",
		Description:   "Send a thoughtful message to someone you haven't talked to in a while. Share something positive or ask how they're doing.",
		EstimatedTime: 5,
		Difficulty:    entity.DifficultyEasy,
		Category:      entity.InterestSocial,
	},
}

// Catalog picks daily challenges from the fixed candidate set.
type Catalog struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New() *Catalog {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand lets tests pin the selection by providing a seeded source.
func NewWithRand(rnd *rand.Rand) *Catalog {
	return &Catalog{
		rnd: rnd,
	}
}

// Pick selects one candidate uniformly at random and stamps it with a fresh
// id and the given day. The candidate set is a non-empty static fixture, so
// selection cannot fail.
func (c *Catalog) Pick(now time.Time) entity.Challenge {
	c.mu.Lock()
	challenge := candidates[c.rnd.Intn(len(candidates))]
	c.mu.Unlock()
	challenge.ID = uuid.New()
	challenge.Date = now
	return challenge
}

// Size returns the number of candidates in the fixture.
func (c *Catalog) Size() int {
	return len(candidates)
}
