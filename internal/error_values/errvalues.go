package errorvalues

import "errors"

var (
	ErrUserExists        = errors.New("such user already exists")
	ErrUserNotFound      = errors.New("user doesn't exist")
	ErrWrongCredentials  = errors.New("wrong name or password")
	ErrInvalidToken      = errors.New("invalid token")
	ErrNoActiveChallenge = errors.New("no active challenge")
	ErrInvalidInterest   = errors.New("unknown interest")
	ErrInvalidDifficulty = errors.New("unknown difficulty level")
)
