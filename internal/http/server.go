package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"dashboard-backend-go/internal/config"
	"dashboard-backend-go/internal/services"
	"dashboard-backend-go/internal/storage"
)

type Server struct {
	DB      *sqlx.DB
	Config  config.Config
	Tokens  services.TokenService
	Uploads *storage.Service
}

func NewServer(db *sqlx.DB, cfg config.Config) *Server {
	tokens := services.TokenService{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    time.Duration(cfg.TokenTTLSeconds) * time.Second,
	}
	return &Server{
		DB:      db,
		Config:  cfg,
		Tokens:  tokens,
		Uploads: storage.NewService(cfg, db),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)

		api.Group(func(protected chi.Router) {
			protected.Use(WithAuth(s.Tokens))
			protected.Get("/auth/me", s.Me)
			protected.Put("/auth/profile", s.UpdateProfile)

			protected.Route("/certs", func(certs chi.Router) {
				certs.Get("/", s.ListCertifications)
				certs.Post("/", s.CreateCertification)
				certs.Get("/{id}", s.GetCertification)
				certs.Put("/{id}", s.UpdateCertification)
				certs.Delete("/{id}", s.DeleteCertification)
			})

			protected.Route("/degrees", func(degrees chi.Router) {
				degrees.Get("/", s.ListDegrees)
				degrees.Post("/", s.CreateDegree)
				degrees.Get("/{id}", s.GetDegree)
				degrees.Put("/{id}", s.UpdateDegree)
				degrees.Delete("/{id}", s.DeleteDegree)
			})

			protected.Route("/todos", func(todos chi.Router) {
				todos.Get("/", s.ListTodos)
				todos.Post("/", s.CreateTodo)
				todos.Get("/{id}", s.GetTodo)
				todos.Put("/{id}", s.UpdateTodo)
				todos.Delete("/{id}", s.DeleteTodo)
			})

			protected.Route("/goals", func(goals chi.Router) {
				goals.Get("/", s.ListGoals)
				goals.Post("/", s.CreateGoal)
				goals.Get("/dashboard/stats", s.GetDashboardStats)
				goals.Get("/{id}", s.GetGoal)
				goals.Put("/{id}", s.UpdateGoal)
				goals.Delete("/{id}", s.DeleteGoal)
			})

			protected.Post("/uploads/cv", s.UploadCV)
		})

		// Open by choice: database-hosted files double as shareable CV links.
		api.Get("/uploads/grid/{id}", s.GridContent)
	})

	r.Get("/health", s.Health)

	// Static hosting for the local-disk upload backend.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.Config.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "Server is running",
		"uptime": services.Uptime().String(),
		"system": services.CaptureSystem(s.Config.UploadDir),
	}, "OK")
}
