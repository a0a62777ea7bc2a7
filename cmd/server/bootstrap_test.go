package main

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-heroes-auth"
	"github.com/goliatone/go-heroes-auth/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ProjectName:               "heroes",
		SecretKey:                 "bootstrap-test-secret-0123456789abcdef",
		AccessTokenExpireMinutes:  15,
		RefreshTokenExpireMinutes: 60,
		HTTPAddr:                  ":0",
		ShutdownTimeout:           time.Second,
		Security:                  config.Security{BcryptRounds: 4},
		Database: config.Database{
			Driver: config.DriverSQLite,
			DSN:    "file:bootstrap?mode=memory&cache=shared",
		},
		FirstSuperuser: config.Superuser{
			Email:    "admin@example.com",
			Password: "admin-password",
		},
	}
}

func TestSeedSuperuser(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	logger := zap.NewNop()
	db, err := initDB(ctx, cfg, logger)
	require.NoError(t, err)
	defer db.Close()

	stack, err := initAuth(cfg, db, logger, prometheus.NewRegistry())
	require.NoError(t, err)

	require.NoError(t, seedSuperuser(ctx, cfg, stack, logger))
	require.NoError(t, seedSuperuser(ctx, cfg, stack, logger), "seeding twice is a no-op")

	admin, err := auth.NewRepositoryManager(db).Users().GetByLogin(ctx, "admin@example.com")
	require.NoError(t, err)

	want, err := hashid.NewUUID("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, want, admin.ID)
	assert.Equal(t, "admin", admin.Nickname)
}

func TestSeedSuperuserDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.FirstSuperuser = config.Superuser{}

	require.NoError(t, seedSuperuser(context.Background(), cfg, nil, zap.NewNop()))
}
