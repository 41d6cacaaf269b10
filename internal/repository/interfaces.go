package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/challengely/challengely/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name. Can be used for login
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user
	Delete(ctx context.Context, uid uuid.UUID) error
}

// StateRepositoryI persists the three independent per-user records: profile,
// current challenge and chat transcript. Loads report a missing or
// undecodable record as absent (nil / nil slice) rather than as an error, so
// callers fall back to defaults instead of failing.
type StateRepositoryI interface {
	LoadProfile(ctx context.Context, uid uuid.UUID) (*entity.UserProfile, error)
	SaveProfile(ctx context.Context, uid uuid.UUID, profile *entity.UserProfile) error
	LoadChallenge(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error)
	SaveChallenge(ctx context.Context, uid uuid.UUID, challenge *entity.Challenge) error
	LoadChatLog(ctx context.Context, uid uuid.UUID) ([]entity.ChatMessage, error)
	SaveChatLog(ctx context.Context, uid uuid.UUID, messages []entity.ChatMessage) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
