package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/challengely/challengely/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

// UpdateProfileRequest carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Interests              []entity.Interest  `validate:"omitempty"`
	DifficultyPreference   *entity.Difficulty `validate:"omitempty"`
	HasCompletedOnboarding *bool
}

// UserState is the full per-user state: profile, current challenge and chat
// transcript.
type UserState struct {
	Profile   *entity.UserProfile  `json:"profile"`
	Challenge *entity.Challenge    `json:"challenge"`
	ChatLog   []entity.ChatMessage `json:"chat_log"`
}

type CompletionResult struct {
	Challenge *entity.Challenge   `json:"challenge"`
	Profile   *entity.UserProfile `json:"profile"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, give back user's data with ID.
	Login(ctx context.Context, name, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByName(ctx context.Context, name string) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type ProfileServiceI interface {
	// Loads the user's state, generating a fresh challenge when none exists
	// or the stored one is from another day.
	State(ctx context.Context, uid uuid.UUID) (*UserState, error)
	// Replaces the current challenge with a random pick from the catalog and
	// clears the chat transcript.
	GenerateNewChallenge(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error)
	// Marks the current challenge completed and applies the streak update.
	CompleteChallenge(ctx context.Context, uid uuid.UUID, timeSpent *int) (*CompletionResult, error)
	UpdateProfile(ctx context.Context, uid uuid.UUID, req *UpdateProfileRequest) (*entity.UserProfile, error)
	AddChatMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error
	// Replaces the most recent chat message. No-op on an empty transcript.
	UpdateLastMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error
	ClearChatMessages(ctx context.Context, uid uuid.UUID) error
}
