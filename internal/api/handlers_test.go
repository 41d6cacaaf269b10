package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/challengely/challengely/internal/api"
	errorvalues "github.com/challengely/challengely/internal/error_values"
	"github.com/challengely/challengely/internal/service"
	"github.com/challengely/challengely/pkg/entity"
	jwtservice "github.com/challengely/challengely/pkg/jwt_service"
)

var (
	username        = "test_name"
	password        = "test_password"
	passwordHash, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	uid             = uuid.New()
	testChallenge   = entity.Challenge{
		ID:            uuid.New(),
		Title:         "Quick Workout",
		Description:   "Complete a 15-minute bodyweight workout.",
		EstimatedTime: 15,
		Difficulty:    entity.DifficultyMedium,
		Category:      entity.InterestFitness,
		Date:          time.Now(),
	}
)

type UserServiceMock struct {
	success bool
}

func (usmock *UserServiceMock) ChangeState(success bool) {
	usmock.success = success
}

func (usmock *UserServiceMock) Register(ctx context.Context, req *service.RegisterRequest) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errors.New("mocked error")
}

func (usmock *UserServiceMock) Login(ctx context.Context, name, password string) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errorvalues.ErrWrongCredentials
}

func (usmock *UserServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if usmock.success {
		return &entity.User{ID: uid, Name: username, PasswordHash: string(passwordHash)}, nil
	}
	return nil, errorvalues.ErrUserNotFound
}

func (usmock *UserServiceMock) GetByName(ctx context.Context, name string) (*entity.User, error) {
	return usmock.GetByID(ctx, uid)
}

func (usmock *UserServiceMock) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	if usmock.success {
		return nil
	}
	return errors.New("mocked error")
}

type ProfileServiceMock struct {
	success     bool
	noChallenge bool
	profile     *entity.UserProfile
	chatLog     []entity.ChatMessage
}

func (psmock *ProfileServiceMock) State(ctx context.Context, uid uuid.UUID) (*service.UserState, error) {
	if !psmock.success {
		return nil, errors.New("mocked error")
	}
	profile := psmock.profile
	if profile == nil {
		profile = entity.DefaultProfile()
	}
	state := &service.UserState{
		Profile: profile,
		ChatLog: psmock.chatLog,
	}
	if !psmock.noChallenge {
		challenge := testChallenge
		state.Challenge = &challenge
	}
	return state, nil
}

func (psmock *ProfileServiceMock) GenerateNewChallenge(ctx context.Context, uid uuid.UUID) (*entity.Challenge, error) {
	if !psmock.success {
		return nil, errors.New("mocked error")
	}
	challenge := testChallenge
	psmock.chatLog = nil
	return &challenge, nil
}

func (psmock *ProfileServiceMock) CompleteChallenge(ctx context.Context, uid uuid.UUID, timeSpent *int) (*service.CompletionResult, error) {
	if !psmock.success {
		return nil, errors.New("mocked error")
	}
	if psmock.noChallenge {
		return nil, errorvalues.ErrNoActiveChallenge
	}
	now := time.Now()
	challenge := testChallenge
	challenge.IsCompleted = true
	challenge.CompletionTime = &now
	challenge.TimeSpent = timeSpent
	profile := entity.DefaultProfile()
	profile.CurrentStreak = 1
	profile.LongestStreak = 1
	profile.TotalChallengesCompleted = 1
	profile.LastChallengeDate = &now
	return &service.CompletionResult{Challenge: &challenge, Profile: profile}, nil
}

func (psmock *ProfileServiceMock) UpdateProfile(ctx context.Context, uid uuid.UUID, req *service.UpdateProfileRequest) (*entity.UserProfile, error) {
	if !psmock.success {
		return nil, errors.New("mocked error")
	}
	for _, interest := range req.Interests {
		if !interest.Valid() {
			return nil, errorvalues.ErrInvalidInterest
		}
	}
	profile := entity.DefaultProfile()
	if req.Interests != nil {
		profile.Interests = req.Interests
	}
	if req.HasCompletedOnboarding != nil {
		profile.HasCompletedOnboarding = *req.HasCompletedOnboarding
	}
	return profile, nil
}

func (psmock *ProfileServiceMock) AddChatMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error {
	if !psmock.success {
		return errors.New("mocked error")
	}
	psmock.chatLog = append(psmock.chatLog, msg)
	return nil
}

func (psmock *ProfileServiceMock) UpdateLastMessage(ctx context.Context, uid uuid.UUID, msg entity.ChatMessage) error {
	if !psmock.success {
		return errors.New("mocked error")
	}
	if len(psmock.chatLog) > 0 {
		psmock.chatLog[len(psmock.chatLog)-1] = msg
	}
	return nil
}

func (psmock *ProfileServiceMock) ClearChatMessages(ctx context.Context, uid uuid.UUID) error {
	if !psmock.success {
		return errors.New("mocked error")
	}
	psmock.chatLog = nil
	return nil
}

type AssistantMock struct {
	reply string
}

func (amock *AssistantMock) Respond(ctx context.Context, userMessage string, challenge *entity.Challenge, profile *entity.UserProfile) string {
	return amock.reply
}

func authorized(req *http.Request) *http.Request {
	return req.WithContext(api.WithUID(req.Context(), uid))
}

func TestRegister(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.RegisterRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
	})
	t.Run("registered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusCreated, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
		mock.ChangeState(true)
		serv.Register(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestLogin(t *testing.T) {
	body, err := sonic.ConfigDefault.Marshal(api.LoginRequest{
		Name:     username,
		Password: password,
	})
	if err != nil {
		t.Fatal(err)
	}
	mock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &mock,
		JwtService:  jwtservice.New("secret"),
	})
	t.Run("logged in", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		result := make(map[string]any)
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		require.NoError(t, err)
		token, ok := result["token"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, token)
	})
	t.Run("wrong password", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
		mock.ChangeState(false)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		mock.ChangeState(true)
		serv.Login(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestGetChallenge(t *testing.T) {
	mock := ProfileServiceMock{success: true}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	t.Run("state provided", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/challenge", nil))
		serv.GetChallenge(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var state service.UserState
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&state)
		require.NoError(t, err)
		require.NotNil(t, state.Challenge)
		assert.Equal(t, testChallenge.Title, state.Challenge.Title)
	})
	t.Run("unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/challenge", nil)
		serv.GetChallenge(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("service error", func(t *testing.T) {
		mock.success = false
		defer func() { mock.success = true }()
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/challenge", nil))
		serv.GetChallenge(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Result().StatusCode)
	})
}

func TestCompleteChallenge(t *testing.T) {
	mock := ProfileServiceMock{success: true}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	t.Run("completed", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.CompleteChallengeRequest{})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/challenge/complete", bytes.NewReader(body)))
		serv.CompleteChallenge(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var result service.CompletionResult
		err = sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&result)
		require.NoError(t, err)
		assert.True(t, result.Challenge.IsCompleted)
		assert.Equal(t, 1, result.Profile.CurrentStreak)
	})
	t.Run("no active challenge", func(t *testing.T) {
		mock.noChallenge = true
		defer func() { mock.noChallenge = false }()
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/challenge/complete", nil))
		serv.CompleteChallenge(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}

func TestSendChatMessage(t *testing.T) {
	mock := ProfileServiceMock{success: true}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
		Assistant:      &AssistantMock{reply: "You've got this! 💪"},
	})
	t.Run("answered", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.SendMessageRequest{Message: "I need motivation"})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body)))
		serv.SendChatMessage(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.SendMessageResponse
		err = sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Equal(t, "You've got this! 💪", resp.Reply.Content)
		assert.False(t, resp.Reply.IsFromUser)
		// Both the user message and the reply are stored in order
		require.Len(t, mock.chatLog, 2)
		assert.True(t, mock.chatLog[0].IsFromUser)
		assert.False(t, mock.chatLog[1].IsFromUser)
	})
	t.Run("message too long", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.SendMessageRequest{Message: strings.Repeat("a", 501)})
		require.NoError(t, err)
		stored := len(mock.chatLog)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body)))
		serv.SendChatMessage(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
		assert.Len(t, mock.chatLog, stored)
	})
	t.Run("empty message", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.SendMessageRequest{Message: "   "})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body)))
		serv.SendChatMessage(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
	t.Run("invalid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPost, "/api/v1/chat", nil))
		serv.SendChatMessage(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestClearChat(t *testing.T) {
	mock := ProfileServiceMock{
		success: true,
		chatLog: []entity.ChatMessage{
			entity.NewChatMessage("hello", true, entity.MessageTypeText),
		},
	}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	rr := httptest.NewRecorder()
	req := authorized(httptest.NewRequest(http.MethodDelete, "/api/v1/chat", nil))
	serv.ClearChat(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Result().StatusCode)
	assert.Empty(t, mock.chatLog)
}

func TestGetSuggestions(t *testing.T) {
	mock := ProfileServiceMock{success: true}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	t.Run("with a challenge", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/chat/suggestions", nil))
		serv.GetSuggestions(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.SuggestionsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Len(t, resp.Suggestions, 3)
	})
	t.Run("without a challenge", func(t *testing.T) {
		mock.noChallenge = true
		defer func() { mock.noChallenge = false }()
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/chat/suggestions", nil))
		serv.GetSuggestions(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
		var resp api.SuggestionsResponse
		err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
		require.NoError(t, err)
		assert.Len(t, resp.Suggestions, 4)
	})
}

func TestGetProfile(t *testing.T) {
	mock := ProfileServiceMock{
		success: true,
		profile: &entity.UserProfile{
			CurrentStreak:            8,
			LongestStreak:            8,
			TotalChallengesCompleted: 12,
		},
	}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	rr := httptest.NewRecorder()
	req := authorized(httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))
	serv.GetProfile(rr, req)
	assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	var resp struct {
		Profile      *entity.UserProfile  `json:"profile"`
		Achievements []entity.Achievement `json:"achievements"`
	}
	err := sonic.ConfigDefault.NewDecoder(rr.Result().Body).Decode(&resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, 8, resp.Profile.CurrentStreak)
	require.Len(t, resp.Achievements, 2)
	assert.Equal(t, "Week Warrior", resp.Achievements[0].Title)
	assert.Equal(t, "Dedicated Learner", resp.Achievements[1].Title)
}

func TestUpdateProfile(t *testing.T) {
	mock := ProfileServiceMock{success: true}
	serv := api.New(&api.ServicesList{
		ProfileService: &mock,
	})
	t.Run("applied", func(t *testing.T) {
		done := true
		body, err := sonic.ConfigDefault.Marshal(api.UpdateProfileRequest{
			Interests:              []entity.Interest{entity.InterestMindfulness},
			HasCompletedOnboarding: &done,
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPatch, "/api/v1/profile", bytes.NewReader(body)))
		serv.UpdateProfile(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("unknown interest", func(t *testing.T) {
		body, err := sonic.ConfigDefault.Marshal(api.UpdateProfileRequest{
			Interests: []entity.Interest{"Skydiving"},
		})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := authorized(httptest.NewRequest(http.MethodPatch, "/api/v1/profile", bytes.NewReader(body)))
		serv.UpdateProfile(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Result().StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	userMock := UserServiceMock{}
	serv := api.New(&api.ServicesList{
		UserService: &userMock,
		JwtService:  jwtservice.New("secret"),
	})
	handler := serv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := api.GetUIDFromContext(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Run("valid token", func(t *testing.T) {
		userMock.ChangeState(true)
		token, err := jwtservice.New("secret").GenerateToken(&entity.User{ID: uid, Name: username})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Result().StatusCode)
	})
	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Result().StatusCode)
	})
	t.Run("deleted user", func(t *testing.T) {
		userMock.ChangeState(false)
		token, err := jwtservice.New("secret").GenerateToken(&entity.User{ID: uid, Name: username})
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/endpoint", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Result().StatusCode)
	})
}
