package persistence

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-heroes-auth"
)

// Models lists the tables EnsureSchema creates
var Models = []any{
	(*auth.User)(nil),
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range Models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}
