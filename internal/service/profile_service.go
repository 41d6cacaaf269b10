package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/challengely/challengely/internal/catalog"
	errorvalues "github.com/challengely/challengely/internal/error_values"
	"github.com/challengely/challengely/internal/repository"
	"github.com/challengely/challengely/pkg/entity"
)

// ProfileService owns every mutation of per-user state. All read-modify-write
// cycles for one user serialize through a per-user mutex, so persistence
// applies in call order.
type ProfileService struct {
	stateRepo repository.StateRepositoryI
	catalog   *catalog.Catalog
	now       func() time.Time

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewProfileService(stateRepo repository.StateRepositoryI, cat *catalog.Catalog) *ProfileService {
	return NewProfileServiceWithClock(stateRepo, cat, time.Now)
}

// NewProfileServiceWithClock lets tests pin "now" for the calendar-day logic.
func NewProfileServiceWithClock(stateRepo repository.StateRepositoryI, cat *catalog.Catalog, clock func() time.Time) *ProfileService {
	if stateRepo == nil || cat == nil {
		log.Fatal("on profile service provided nil dependencies")
	}
	return &ProfileService{
		stateRepo: stateRepo,
		catalog:   cat,
		now:       clock,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (ps *ProfileService) userLock(uid uuid.UUID) *sync.Mutex {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	l, ok := ps.locks[uid]
	if !ok {
		l = &sync.Mutex{}
		ps.locks[uid] = l
	}
	return l
}

func (ps *ProfileService) State(ctx context.Context, uid uuid.UUID) (*UserState, error) {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	profile, err := ps.stateRepo.LoadProfile(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if profile == nil {
		profile = entity.DefaultProfile()
	}
	challenge, err := ps.stateRepo.LoadChallenge(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	chatLog, err := ps.stateRepo.LoadChatLog(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if chatLog == nil {
		chatLog = []entity.ChatMessage{}
	}
	// A missing or stale challenge is replaced, which also resets the chat.
	if challenge == nil || !challenge.IsForDay(ps.now()) {
		challenge, err = ps.generateLocked(ctx, uid)
		if err != nil {
			return nil, err
		}
		chatLog = []entity.ChatMessage{}
	}
	return &UserState{
		Profile:   profile,
		Challenge: challenge,
		ChatLog:   chatLog,
	}, nil
}

func (ps *ProfileService) GenerateNewChallenge(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error) {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()
	return ps.generateLocked(ctx, uid)
}

func (ps *ProfileService) generateLocked(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error) {
	challenge := ps.catalog.Pick(ps.now())
	if err := ps.stateRepo.SaveChallenge(ctx, uid, &challenge); err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if err := ps.stateRepo.SaveChatLog(ctx, uid, []entity.ChatMessage{}); err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &challenge, nil
}

func (ps *ProfileService) CompleteChallenge(ctx context.Context, uid uuid.UUID, timeSpent *int) (*CompletionResult, error) {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	challenge, err := ps.stateRepo.LoadChallenge(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if challenge == nil {
		return nil, errorvalues.ErrNoActiveChallenge
	}
	now := ps.now()
	challenge.IsCompleted = true
	challenge.CompletionTime = &now
	if timeSpent != nil {
		challenge.TimeSpent = timeSpent
	}

	profile, err := ps.stateRepo.LoadProfile(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if profile == nil {
		profile = entity.DefaultProfile()
	}
	applyCompletion(profile, now)

	if err := ps.stateRepo.SaveChallenge(ctx, uid, challenge); err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if err := ps.stateRepo.SaveProfile(ctx, uid, profile); err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &CompletionResult{
		Challenge: challenge,
		Profile:   profile,
	}, nil
}

// applyCompletion advances the streak counters for a completion at now.
// A completion the day after the previous one extends the streak, a longer
// gap restarts it at 1, and a second completion on the same day leaves the
// streak as is.
func applyCompletion(profile *entity.UserProfile, now time.Time) {
	if profile.LastChallengeDate != nil {
		lastDate := *profile.LastChallengeDate
		if entity.SameCalendarDay(lastDate, now.Add(-24*time.Hour)) {
			profile.CurrentStreak++
		} else if !entity.SameCalendarDay(lastDate, now) {
			profile.CurrentStreak = 1
		}
	} else {
		profile.CurrentStreak = 1
	}
	profile.TotalChallengesCompleted++
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastChallengeDate = &now
}

func (ps *ProfileService) UpdateProfile(ctx context.Context, uid uuid.UUID, req *UpdateProfileRequest) (*entity.UserProfile, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	for _, interest := range req.Interests {
		if !interest.Valid() {
			return nil, errorvalues.ErrInvalidInterest
		}
	}
	if req.DifficultyPreference != nil && !req.DifficultyPreference.Valid() {
		return nil, errorvalues.ErrInvalidDifficulty
	}

	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	profile, err := ps.stateRepo.LoadProfile(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	if profile == nil {
		profile = entity.DefaultProfile()
	}
	if req.Interests != nil {
		profile.Interests = req.Interests
	}
	if req.DifficultyPreference != nil {
		profile.DifficultyPreference = *req.DifficultyPreference
	}
	if req.HasCompletedOnboarding != nil {
		profile.HasCompletedOnboarding = *req.HasCompletedOnboarding
	}
	if err := ps.stateRepo.SaveProfile(ctx, uid, profile); err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return profile, nil
}

func (ps *ProfileService) AddChatMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	chatLog, err := ps.stateRepo.LoadChatLog(ctx, uid)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	chatLog = append(chatLog, msg)
	if err := ps.stateRepo.SaveChatLog(ctx, uid, chatLog); err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (ps *ProfileService) UpdateLastMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	chatLog, err := ps.stateRepo.LoadChatLog(ctx, uid)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	if len(chatLog) == 0 {
		return nil
	}
	chatLog[len(chatLog)-1] = msg
	if err := ps.stateRepo.SaveChatLog(ctx, uid, chatLog); err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (ps *ProfileService) ClearChatMessages(ctx context.Context, uid uuid.UUID) error {
	l := ps.userLock(uid)
	l.Lock()
	defer l.Unlock()

	if err := ps.stateRepo.SaveChatLog(ctx, uid, []entity.ChatMessage{}); err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}
