package main

import (
	"context"
	"os"

	api "inboxmind-backend/cmd/api"
	authdomain "inboxmind-backend/internal/auth/domain"
	authRepo "inboxmind-backend/internal/auth/repository"
	authUsecase "inboxmind-backend/internal/auth/usecase"
	emaildomain "inboxmind-backend/internal/email/domain"
	emailRepo "inboxmind-backend/internal/email/repository"
	emailUsecase "inboxmind-backend/internal/email/usecase"
	"inboxmind-backend/pkg/ai"
	"inboxmind-backend/pkg/config"
	"inboxmind-backend/pkg/database"
	"inboxmind-backend/pkg/gmail"
	"inboxmind-backend/pkg/imap"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.GoogleAccount{},
		&emaildomain.Email{},
		&emaildomain.EmailDigest{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)
	digestRepository := emailRepo.NewDigestRepository(db)

	// Initialize services
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	imapService := imap.NewService()
	aiClient := ai.NewOpenAIClient(ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.AITimeout,
	})

	// Initialize use cases (dependency injection)
	authUc := authUsecase.NewAuthUsecase(userRepository, gmailService, cfg)
	emailUc := emailUsecase.NewEmailUsecase(emailRepository, digestRepository, userRepository, aiClient, gmailService, imapService, cfg)

	// Sync the linked mailbox right after a Google login so the inbox is
	// populated before the frontend redirect lands.
	authUc.SetEmailSyncCallback(func(ctx context.Context, userID string) {
		if _, err := emailUc.SyncGmail(ctx, userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("initial gmail sync failed")
		}
	})

	// Start server
	handler := api.NewHandler(authUc, emailUc, cfg)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
