package persistence_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-heroes-auth"
	"github.com/goliatone/go-heroes-auth/persistence"
)

func memoryDSN(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()

	db, err := persistence.Open(ctx, persistence.DriverSQLite, memoryDSN(t), persistence.WithDebug(false))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, persistence.CheckConnection(ctx, db))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := persistence.Open(context.Background(), "mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestCheckConnectionClosed(t *testing.T) {
	ctx := context.Background()

	db, err := persistence.Open(ctx, persistence.DriverSQLite, memoryDSN(t))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	require.Error(t, persistence.CheckConnection(ctx, db))
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()

	db, err := persistence.Open(ctx, persistence.DriverSQLite, memoryDSN(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, persistence.EnsureSchema(ctx, db))
	require.NoError(t, persistence.EnsureSchema(ctx, db))

	user := &auth.User{Email: "a@example.com", Nickname: "a", PasswordHash: "x"}
	_, err = auth.NewUsersRepository(db).Create(ctx, user)
	require.NoError(t, err)

	dup := &auth.User{Email: "a@example.com", Nickname: "b", PasswordHash: "x"}
	_, err = auth.NewUsersRepository(db).Create(ctx, dup)
	require.Error(t, err, "email is unique")
}
