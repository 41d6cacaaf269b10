package catalog_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/challengely/challengely/internal/catalog"
	"github.com/challengely/challengely/pkg/entity"
)

func TestPick(t *testing.T) {
	now := time.Date(2026, time.August, 30, 9, 0, 0, 0, time.UTC)
	t.Run("stamps id and day", func(t *testing.T) {
		cat := catalog.New()
		challenge := cat.Pick(now)
		assert.NotEqual(t, uuid.UUID{}, challenge.ID)
		assert.Equal(t, now, challenge.Date)
		assert.False(t, challenge.IsCompleted)
		assert.NotEmpty(t, challenge.Title)
		assert.Greater(t, challenge.EstimatedTime, 0)
		assert.True(t, challenge.Category.Valid())
		assert.True(t, challenge.Difficulty.Valid())
	})
	t.Run("seeded source pins the candidate", func(t *testing.T) {
		first := catalog.NewWithRand(rand.New(rand.NewSource(42))).Pick(now)
		second := catalog.NewWithRand(rand.New(rand.NewSource(42))).Pick(now)
		assert.Equal(t, first.Title, second.Title)
		assert.Equal(t, first.Category, second.Category)
		// Fresh ids even for the same candidate
		assert.NotEqual(t, first.ID, second.ID)
	})
	t.Run("every candidate reachable", func(t *testing.T) {
		cat := catalog.NewWithRand(rand.New(rand.NewSource(7)))
		seen := make(map[string]entity.Interest)
		for i := 0; i < 200; i++ {
			challenge := cat.Pick(now)
			seen[challenge.Title] = challenge.Category
		}
		assert.Len(t, seen, cat.Size())
	})
}
