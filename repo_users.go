package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var UpdateUserPasswordSQL = `UPDATE "hrs_users"
SET
	"hashed_password" = ?,
	"updated_at" = ?
WHERE
	"id" = ?
RETURNING *;`

type Users interface {
	repository.Repository[*User]

	GetByLogin(ctx context.Context, identifier string) (*User, error)
	GetByLoginTx(ctx context.Context, tx bun.IDB, identifier string) (*User, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUUIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "nickname"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

// RegisterTx creates user unless its email or nickname is already taken.
// Email and nickname share one login namespace, so each new value is
// checked against both columns.
func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	existing, err := a.findLoginOwnerTx(ctx, tx, user.Email, user.Nickname)
	if err == nil {
		column := "nickname"
		if user.Email == existing.Email || user.Email == existing.Nickname {
			column = "email"
		}
		return nil, fmt.Errorf("%w: %s is taken", ErrUserExists, column)
	}
	if !repository.IsRecordNotFound(err) {
		return nil, err
	}
	return a.CreateTx(ctx, tx, user)
}

// findLoginOwnerTx returns the first user whose email or nickname equals any of values
func (a *users) findLoginOwnerTx(ctx context.Context, tx bun.IDB, values ...string) (*User, error) {
	logins := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			logins = append(logins, v)
		}
	}
	if len(logins) == 0 {
		return nil, repository.NewRecordNotFound()
	}

	record := &User{}
	err := tx.NewSelect().Model(record).
		Where("?TableAlias.email IN (?)", bun.In(logins)).
		WhereOr("?TableAlias.nickname IN (?)", bun.In(logins)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"logins": logins,
				})
		}
		return nil, err
	}
	return record, nil
}

// GetByIdentifier resolves identifier against id, email and nickname
func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.firstMatchTx(ctx, tx, identifier, resolveUserIdentifier(identifier, true), criteria...)
}

// GetByLogin resolves identifier against email and nickname only, exact match
func (a *users) GetByLogin(ctx context.Context, identifier string) (*User, error) {
	return a.GetByLoginTx(ctx, a.db, identifier)
}

func (a *users) GetByLoginTx(ctx context.Context, tx bun.IDB, identifier string) (*User, error) {
	return a.firstMatchTx(ctx, tx, identifier, resolveUserIdentifier(identifier, false))
}

func (a *users) GetByUUID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.GetByUUIDTx(ctx, a.db, id)
}

func (a *users) GetByUUIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	return a.findOneTx(ctx, tx, identifierOption{column: "id", value: id.String()})
}

func (a *users) firstMatchTx(ctx context.Context, tx bun.IDB, identifier string, options []identifierOption, criteria ...repository.SelectCriteria) (*User, error) {
	for _, opt := range options {
		record, err := a.findOneTx(ctx, tx, opt, criteria...)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}
		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

func (a *users) findOneTx(ctx context.Context, tx bun.IDB, opt identifierOption, criteria ...repository.SelectCriteria) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					opt.column: opt.value,
				})
		}
		return nil, err
	}
	return record, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	created, err := a.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrUserExists, err)
		}
		return nil, err
	}
	return created, nil
}

func (a *users) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.UpdatePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, UpdateUserPasswordSQL, passwordHash, time.Now().UTC(), id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = strings.TrimSpace(record.Email)
	record.Nickname = strings.TrimSpace(record.Nickname)

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now().UTC()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

type identifierOption struct {
	column string
	value  string
}

func resolveUserIdentifier(identifier string, includeID bool) []identifierOption {
	if strings.TrimSpace(identifier) == "" {
		return nil
	}

	options := make([]identifierOption, 0, 3)

	if includeID && isUUID(identifier) {
		options = append(options, identifierOption{
			column: "id",
			value:  identifier,
		})
	}

	if isEmail(identifier) {
		options = append(options, identifierOption{
			column: "email",
			value:  identifier,
		})
	}

	options = append(options, identifierOption{
		column: "nickname",
		value:  identifier,
	})

	return options
}

// isUniqueViolation reports unique index failures from postgres and sqlite
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
