package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/challengely/challengely/internal/service"
)

type Server struct {
	mx             *chi.Mux
	userService    service.UserServiceI
	profileService service.ProfileServiceI
	assistant      AssistantI
	jwtService     JWTServiceI
}

type ServicesList struct {
	UserService    service.UserServiceI
	ProfileService service.ProfileServiceI
	Assistant      AssistantI
	JwtService     JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:             chi.NewMux(),
		userService:    servicesOptions.UserService,
		profileService: servicesOptions.ProfileService,
		assistant:      servicesOptions.Assistant,
		jwtService:     servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(RateLimitMiddleware)
	s.mx.Use(s.RequestIDMiddleware)
	s.mx.Use(s.SettingUpLoggerMiddleware)
	s.mx.Use(MonitorMiddleware)

	s.mx.Handle("/metrics", promhttp.Handler())

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Use(s.LoggerExtensionMiddleware)

			r.Get("/challenge", s.GetChallenge)
			r.Post("/challenge/new", s.NewChallenge)
			r.Post("/challenge/complete", s.CompleteChallenge)

			r.Get("/profile", s.GetProfile)
			r.Patch("/profile", s.UpdateProfile)

			r.Get("/chat", s.GetChatLog)
			r.Post("/chat", s.SendChatMessage)
			r.Delete("/chat", s.ClearChat)
			r.Get("/chat/suggestions", s.GetSuggestions)
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}
