// @title Challengely API
// @description Backend for the daily-challenge app "Challengely"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"

	"github.com/challengely/challengely/internal/api"
	"github.com/challengely/challengely/internal/assistant"
	"github.com/challengely/challengely/internal/catalog"
	"github.com/challengely/challengely/internal/repository"
	"github.com/challengely/challengely/internal/service"
	"github.com/challengely/challengely/pkg/cleanup"
	"github.com/challengely/challengely/pkg/config"
	jwtservice "github.com/challengely/challengely/pkg/jwt_service"
)

func init() {
	service.InitValidator()
	api.InitMetrics()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	profileService := service.NewProfileService(repository.NewStateRepo(&dbCfg), catalog.New())

	// Without an API key the assistant answers from the canned catalog only.
	var completionClient assistant.CompletionClient
	if key := cfg.GetString("GEMINI_API_KEY"); key != "" {
		client, err := assistant.NewGeminiClient(context.Background(), key, cfg.GetStringOrDefault("GEMINI_MODEL", "gemini-2.0-flash"))
		if err != nil {
			log.Println("Gemini client unavailable, using fallback responses: " + err.Error())
		} else {
			completionClient = client
		}
	}

	go api.CleanupVisitors()

	serv := api.New(&api.ServicesList{
		UserService:    userService,
		ProfileService: profileService,
		Assistant:      assistant.New(completionClient),
		JwtService:     jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
