package main

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth"
	"github.com/goliatone/go-heroes-auth/config"
	"github.com/goliatone/go-heroes-auth/obs"
)

type authStack struct {
	registration *auth.RegisterUserHandler
	controller   *auth.AuthController
}

func initAuth(cfg *config.Config, db *bun.DB, logger *zap.Logger, reg prometheus.Registerer) (*authStack, error) {
	authLogger := obs.NewAuthLogger(logger, "auth")

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	sink := auth.ActivitySinks{
		obs.NewMetricsSink(reg),
		obs.NewLogSink(logger),
	}

	hasher := auth.NewPasswordHasher(cfg.GetBcryptCost())

	tokens, err := auth.NewTokenService(cfg, auth.WithTokenLogger(authLogger))
	if err != nil {
		return nil, err
	}

	users := auth.NewUserProvider(repo.Users()).WithLogger(authLogger)

	auther := auth.NewCredentialAuthenticator(users, hasher, tokens,
		auth.WithAuthenticatorLogger(authLogger),
		auth.WithActivitySink(sink),
	)

	registration := auth.NewRegisterUserHandler(repo, hasher).
		WithActivitySink(sink).
		WithLogger(authLogger)

	passwords := auth.NewUpdatePasswordHandler(repo, hasher).
		WithActivitySink(sink).
		WithLogger(authLogger)

	controller := auth.NewAuthController(
		auth.WithControllerDebug(cfg.Debug),
		auth.WithControllerLogger(obs.NewAuthLogger(logger, "http")),
		auth.WithAuthenticator(auther),
		auth.WithTokenValidator(tokens),
		auth.WithUserStore(users),
		auth.WithRegistration(registration),
		auth.WithPasswordUpdate(passwords),
	)

	return &authStack{
		registration: registration,
		controller:   controller,
	}, nil
}

// seedSuperuser registers the configured first user unless it already exists
func seedSuperuser(ctx context.Context, cfg *config.Config, stack *authStack, logger *zap.Logger) error {
	if !cfg.SeedSuperuser() {
		return nil
	}

	_, err := stack.registration.Register(ctx, auth.RegisterUserMessage{
		Email:     cfg.FirstSuperuser.Email,
		Password:  cfg.FirstSuperuser.Password,
		UseHashid: true,
	})
	if errors.Is(err, auth.ErrUserExists) {
		logger.Info("first superuser already present", zap.String("email", cfg.FirstSuperuser.Email))
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("first superuser created", zap.String("email", cfg.FirstSuperuser.Email))
	return nil
}
