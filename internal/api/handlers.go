package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"

	"github.com/challengely/challengely/internal/assistant"
	errorvalues "github.com/challengely/challengely/internal/error_values"
	"github.com/challengely/challengely/internal/service"
	"github.com/challengely/challengely/pkg/entity"
	"github.com/challengely/challengely/pkg/httputil"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type CompleteChallengeRequest struct {
	TimeSpent *int `json:"time_spent"`
}

type UpdateProfileRequest struct {
	Interests              []entity.Interest  `json:"interests"`
	DifficultyPreference   *entity.Difficulty `json:"difficulty_preference"`
	HasCompletedOnboarding *bool              `json:"has_completed_onboarding"`
}

// Chat messages above this length are rejected outright.
const maxMessageLength = 500

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	Reply entity.ChatMessage `json:"reply"`
}

type SuggestionsResponse struct {
	Suggestions []entity.ChatSuggestion `json:"suggestions"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such name already exists", nil)
			return
		}
		logger.Error("registering error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such name doesn't exist", nil)
			return
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid username or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		logger.Error("login error: generating token error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating token", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"uid":   user.ID.String(),
		"token": token,
	})
	logger.Info("successful login")
}

// GetChallenge returns today's state: profile, current challenge and chat
// transcript. A stale challenge is replaced before answering.
func (s *Server) GetChallenge(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get challenge error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := s.profileService.State(ctx, uid)
	if err != nil {
		logger.Error("get challenge error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting challenge", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, state)
	logger.Info("challenge provided")
}

func (s *Server) NewChallenge(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("new challenge error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	challenge, err := s.profileService.GenerateNewChallenge(ctx, uid)
	if err != nil {
		logger.Error("new challenge error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while generating challenge", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{"challenge": challenge})
	logger.Info("new challenge generated")
}

func (s *Server) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("complete challenge error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CompleteChallengeRequest
	defer r.Body.Close()
	// Body is optional, time spent is the only field
	_ = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.profileService.CompleteChallenge(ctx, uid, req.TimeSpent)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNoActiveChallenge) {
			logger.Error("complete challenge error: no active challenge")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no active challenge to complete", nil)
			return
		}
		logger.Error("complete challenge error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while completing challenge", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, result)
	logger.Info("challenge completed")
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := s.profileService.State(ctx, uid)
	if err != nil {
		logger.Error("get profile error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{
		"profile":      state.Profile,
		"achievements": entity.EarnedAchievements(state.Profile),
	})
	logger.Info("profile provided")
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req UpdateProfileRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update profile error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	profile, err := s.profileService.UpdateProfile(ctx, uid, &service.UpdateProfileRequest{
		Interests:              req.Interests,
		DifficultyPreference:   req.DifficultyPreference,
		HasCompletedOnboarding: req.HasCompletedOnboarding,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidInterest), errors.Is(err, errorvalues.ErrInvalidDifficulty):
			logger.Error("update profile error: invalid enum value")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid profile values", err)
		default:
			logger.Error("update profile error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while updating profile", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"profile": profile})
	logger.Info("profile updated")
}

func (s *Server) GetChatLog(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get chat error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := s.profileService.State(ctx, uid)
	if err != nil {
		logger.Error("get chat error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting chat log", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"messages": state.ChatLog})
	logger.Info("chat log provided")
}

// SendChatMessage appends the user message, obtains exactly one assistant
// reply and appends it too. The assistant never fails, so the handler always
// answers 200 once the message is stored.
func (s *Server) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("send message error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req SendMessageRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil || strings.TrimSpace(req.Message) == "" {
		logger.Error("send message error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLength {
		logger.Error("send message error: message too long")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "message too long", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*90)
	defer cancel()
	state, err := s.profileService.State(ctx, uid)
	if err != nil {
		logger.Error("send message error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while loading chat state", nil)
		return
	}
	userMsg := entity.NewChatMessage(req.Message, true, entity.MessageTypeText)
	if err := s.profileService.AddChatMessage(ctx, uid, userMsg); err != nil {
		logger.Error("send message error: storing user message", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while storing message", nil)
		return
	}
	replyText := s.assistant.Respond(ctx, req.Message, state.Challenge, state.Profile)
	replyMsg := entity.NewChatMessage(replyText, false, entity.MessageTypeText)
	if err := s.profileService.AddChatMessage(ctx, uid, replyMsg); err != nil {
		logger.Error("send message error: storing reply", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while storing reply", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, SendMessageResponse{
		Reply: replyMsg,
	})
	logger.Info("chat message answered")
}

func (s *Server) ClearChat(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("clear chat error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := s.profileService.ClearChatMessages(ctx, uid); err != nil {
		logger.Error("clear chat error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while clearing chat", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("chat cleared")
}

func (s *Server) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get suggestions error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	state, err := s.profileService.State(ctx, uid)
	if err != nil {
		logger.Error("get suggestions error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting suggestions", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, SuggestionsResponse{
		Suggestions: assistant.Suggestions(state.Challenge),
	})
	logger.Info("suggestions provided")
}
