package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/auth"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/config"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/handlers"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/mail"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/media"
	appmiddleware "github.com/maicon-romano/arrivabene-advocacia-web/internal/middleware"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store/local"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	var (
		posts store.Store
		err   error
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
		posts, err = postgres.New(ctx, cfg.DatabaseURL)
	case config.BackendLocal:
		posts, err = local.Open(filepath.Join(cfg.DataDir, "blog"))
	}
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	defer posts.Close()
	posts = store.WithRetry(posts, logger)

	guardStates := auth.NewFileStateStore(filepath.Join(cfg.DataDir, "auth_state.json"))
	guard, err := auth.NewGuard(auth.Credentials{
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
		Salt:         cfg.AdminPasswordSalt,
	}, cfg.LoginMaxAttempts, cfg.LoginLockout, guardStates, logger)
	if err != nil {
		log.Fatalf("auth guard init failed: %v", err)
	}

	uploader := media.NewUploader(cfg.UploadURL, cfg.UploadPreset, logger)
	mailer := mail.NewMailer(mail.Config{
		Endpoint:   cfg.MailURL,
		ServiceID:  cfg.MailServiceID,
		TemplateID: cfg.MailTemplateID,
		UserID:     cfg.MailUserID,
		To:         cfg.MailTo,
	}, logger)

	postsHandler := handlers.NewPostsHandler(posts, cfg.PageSize, logger)
	categoriesHandler := handlers.NewCategoriesHandler(posts, logger)
	authHandler := handlers.NewAuthHandler(guard, []byte(cfg.JWTSecret), logger)
	mediaHandler := handlers.NewMediaHandler(uploader, logger)
	contactHandler := handlers.NewContactHandler(mailer, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		// Brute-force mitigation in front of the guard: 5 attempts/min/IP.
		loginLimiter := appmiddleware.NewRateLimiter(5, time.Minute)
		r.With(loginLimiter.Limit).Post("/login", authHandler.Login)

		publicLimiter := appmiddleware.NewRateLimiter(30, time.Minute)
		r.With(publicLimiter.Limit).Get("/posts", postsHandler.List)
		r.Get("/posts/{id}", postsHandler.Get)
		r.Get("/categories", categoriesHandler.List)
		r.With(publicLimiter.Limit).Post("/contact", contactHandler.Send)

		// Admin area.
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.JWTAuth([]byte(cfg.JWTSecret)))
			r.Post("/posts", postsHandler.Create)
			r.Put("/posts/{id}", postsHandler.Update)
			r.Delete("/posts/{id}", postsHandler.Delete)
			r.Post("/categories", categoriesHandler.Add)
			r.Delete("/categories/{name}", categoriesHandler.Delete)
			r.Post("/upload", mediaHandler.Upload)
			r.Post("/logout", authHandler.Logout)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info(ctx, "listening", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "shutdown error", "error", err)
	}
}
