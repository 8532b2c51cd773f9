package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dorothy-center/apiserver/config"
	"github.com/dorothy-center/apiserver/internal/db"
	"github.com/dorothy-center/apiserver/internal/events"
	"github.com/dorothy-center/apiserver/internal/handlers"
	"github.com/dorothy-center/apiserver/internal/mailer"
	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/dorothy-center/apiserver/internal/storage"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Server wraps the HTTP server, the router and the shared resources
// that need closing on shutdown.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  *events.Publisher
	log        zerolog.Logger
}

// New wires configuration, storage, services and routes into a ready
// to run Server.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "dorothy-api").Logger()

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objectStore, err := newObjectStorage(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	mailClient, err := mailer.NewClient(cfg.Email)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg.Broker, log)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	eventRepo := store.NewEventRepository(dbConn)
	registrationRepo := store.NewRegistrationRepository(dbConn)
	contactRepo := store.NewContactRepository(dbConn)
	galleryRepo := store.NewGalleryRepository(dbConn)
	partnerRepo := store.NewPartnerRepository(dbConn)
	postRepo := store.NewPostRepository(dbConn)
	teamRepo := store.NewTeamRepository(dbConn)

	userService := services.NewUserService(userRepo)
	eventService := services.NewEventService(eventRepo)
	registrationService := services.NewRegistrationService(
		registrationRepo, eventRepo, mailClient, publisher,
		cfg.Email.AdminAddress, cfg.BackendURL, log,
	)
	contactService := services.NewContactService(contactRepo)
	galleryService := services.NewGalleryService(galleryRepo)
	partnerService := services.NewPartnerService(partnerRepo)
	postService := services.NewPostService(postRepo)
	teamService := services.NewTeamService(teamRepo)
	uploadService := services.NewUploadService(objectStore)
	statsService := services.NewStatsService(
		eventService, registrationService, contactService,
		postService, galleryService, partnerService, teamService,
	)

	eventHandler := handlers.NewEventHandler(eventService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, cfg.FrontendURL)
	contactHandler := handlers.NewContactHandler(contactService)
	galleryHandler := handlers.NewGalleryHandler(galleryService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	postHandler := handlers.NewPostHandler(postService)
	teamHandler := handlers.NewTeamHandler(teamService)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	statsHandler := handlers.NewStatsHandler(statsService)

	authMiddleware := handlers.RequireAuth(cfg.JWTSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.NotFound(handlers.NotFound)
	router.Get("/health", handlers.Health)

	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, cfg.JWTSecret)
	})
	router.Route("/events", eventHandler.Routes)
	router.Route("/registrations", registrationHandler.Routes)
	router.Route("/posts", postHandler.Routes)
	router.Route("/gallery", galleryHandler.Routes)
	router.Route("/partners", partnerHandler.Routes)
	router.Route("/team", teamHandler.Routes)
	router.Route("/contacts", contactHandler.Routes)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(handlers.RequireAdmin)

		r.Route("/events", eventHandler.AdminRoutes)
		r.Route("/registrations", registrationHandler.AdminRoutes)
		r.Route("/contacts", contactHandler.AdminRoutes)
		r.Route("/gallery", galleryHandler.AdminRoutes)
		r.Route("/partners", partnerHandler.AdminRoutes)
		r.Route("/posts", postHandler.AdminRoutes)
		r.Route("/team", teamHandler.AdminRoutes)
		r.Route("/uploads", uploadHandler.AdminRoutes)
		r.Route("/stats", statsHandler.AdminRoutes)
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
		log:        log,
	}, nil
}

// newObjectStorage builds the configured storage backend and makes
// sure the bucket exists before the server accepts uploads.
func newObjectStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		publicBase := cfg.PublicBaseURL
		if publicBase == "" {
			publicBase = client.PublicBaseURL(cfg.Minio)
		}
		s := storage.NewStorage(client, publicBase)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		publicBase := cfg.PublicBaseURL
		if publicBase == "" {
			publicBase = client.PublicBaseURL()
		}
		s := storage.NewStorage(client, publicBase)
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newPublisher builds the optional broker publisher. An empty backend
// disables publishing without an error.
func newPublisher(ctx context.Context, cfg config.BrokerConfig, log zerolog.Logger) (*events.Publisher, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := events.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(client, log), nil
	case "pubsub":
		client, err := events.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return events.NewPublisher(client, log), nil
	default:
		return nil, fmt.Errorf("unknown broker backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes shared resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
