package api

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/challengely/challengely/pkg/entity"
)

type JWTServiceI interface {
	GenerateToken(user *entity.User) (string, error)
	ParseToken(tokenString string) (*JWTClaims, error)
}

type JWTClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AssistantI turns a user message into exactly one reply. Implementations
// never fail: remote trouble degrades to a canned reply.
type AssistantI interface {
	Respond(ctx context.Context, userMessage string, challenge *entity.Challenge, profile *entity.UserProfile) string
}
