package repository

import (
	"context"
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/challengely/challengely/pkg/cleanup"
	"github.com/challengely/challengely/pkg/entity"
)

// The three record keys every user owns. Each is read and written
// independently, so losing or corrupting one never affects the others.
const (
	stateKeyProfile   = "profile"
	stateKeyChallenge = "current_challenge"
	stateKeyChatLog   = "chat_messages"
)

type StateRepository struct {
	conn PgConnection
}

func NewStateRepo(cfg DBConfig) *StateRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for stateRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for stateRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &StateRepository{
		conn: pool,
	}
}

func NewStateRepoWithConn(conn PgConnection) *StateRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for stateRepo: " + err.Error())
	}
	return &StateRepository{
		conn: conn,
	}
}

// load fetches the raw payload for one record key. A missing row comes back
// as nil payload with no error.
func (sr *StateRepository) load(ctx context.Context, uid uuid.UUID, key string) ([]byte, error) {
	var payload []byte
	row := sr.conn.QueryRow(ctx, `SELECT payload FROM user_state WHERE user_id = $1 AND state_key = $2;`, uid, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.New("loading state record error: " + err.Error())
	}
	return payload, nil
}

// save upserts one record key. Last write wins.
func (sr *StateRepository) save(ctx context.Context, uid uuid.UUID, key string, payload []byte) error {
	_, err := sr.conn.Exec(ctx, `INSERT INTO user_state (user_id, state_key, payload) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, state_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW();`,
		uid, key, payload,
	)
	if err != nil {
		return errors.New("saving state record error: " + err.Error())
	}
	return nil
}

func (sr *StateRepository) LoadProfile(ctx context.Context, uid uuid.UUID) (*entity.UserProfile, error) {
	payload, err := sr.load(ctx, uid, stateKeyProfile)
	if err != nil || payload == nil {
		return nil, err
	}
	var profile entity.UserProfile
	if err := sonic.Unmarshal(payload, &profile); err != nil {
		// Undecodable record is treated the same as a missing one.
		return nil, nil
	}
	return &profile, nil
}

func (sr *StateRepository) SaveProfile(ctx context.Context, uid uuid.UUID, profile *entity.UserProfile) error {
	payload, err := sonic.Marshal(profile)
	if err != nil {
		return errors.New("encoding profile error: " + err.Error())
	}
	return sr.save(ctx, uid, stateKeyProfile, payload)
}

func (sr *StateRepository) LoadChallenge(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error) {
	payload, err := sr.load(ctx, uid, stateKeyChallenge)
	if err != nil || payload == nil {
		return nil, err
	}
	var challenge entity.Challenge
	if err := sonic.Unmarshal(payload, &challenge); err != nil {
		return nil, nil
	}
	return &challenge, nil
}

func (sr *StateRepository) SaveChallenge(ctx context.Context, uid uuid.UUID, challenge *entity.Challenge) error {
	payload, err := sonic.Marshal(challenge)
	if err != nil {
		return errors.New("encoding challenge error: " + err.Error())
	}
	return sr.save(ctx, uid, stateKeyChallenge, payload)
}

func (sr *StateRepository) LoadChatLog(ctx context.Context, uid uuid.UUID) ([]entity.ChatMessage, error) {
	payload, err := sr.load(ctx, uid, stateKeyChatLog)
	if err != nil || payload == nil {
		return nil, err
	}
	messages := make([]entity.ChatMessage, 0)
	if err := sonic.Unmarshal(payload, &messages); err != nil {
		return nil, nil
	}
	return messages, nil
}

func (sr *StateRepository) SaveChatLog(ctx context.Context, uid uuid.UUID, messages []entity.ChatMessage) error {
	if messages == nil {
		messages = []entity.ChatMessage{}
	}
	payload, err := sonic.Marshal(messages)
	if err != nil {
		return errors.New("encoding chat log error: " + err.Error())
	}
	return sr.save(ctx, uid, stateKeyChatLog, payload)
}
