package auth

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UpdatePasswordMessage struct {
	UserID          uuid.UUID `json:"-"`
	CurrentPassword string    `json:"current_password" form:"current_password"`
	NewPassword     string    `json:"new_password" form:"new_password"`
}

func (e UpdatePasswordMessage) Type() string { return "user.password.update" }

// Validate will run validation rules
func (e UpdatePasswordMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.CurrentPassword, validation.Required),
		validation.Field(&e.NewPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringNotEquals(e.CurrentPassword)),
		),
	)
}

type UpdatePasswordHandler struct {
	repo   RepositoryManager
	hasher PasswordHasher
	sink   ActivitySink
	logger Logger
}

func NewUpdatePasswordHandler(repo RepositoryManager, hasher PasswordHasher) *UpdatePasswordHandler {
	return &UpdatePasswordHandler{
		repo:   repo,
		hasher: hasher,
		sink:   noopActivitySink{},
		logger: defLogger{},
	}
}

func (h *UpdatePasswordHandler) WithActivitySink(sink ActivitySink) *UpdatePasswordHandler {
	h.sink = normalizeActivitySink(sink)
	return h
}

func (h *UpdatePasswordHandler) WithLogger(logger Logger) *UpdatePasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute checks the current password before storing the new hash. A wrong
// current password is ErrPasswordMismatch. Both bcrypt calls run before the
// transaction opens. The transaction only swaps the hash if it is unchanged.
func (h *UpdatePasswordHandler) Execute(ctx context.Context, event UpdatePasswordMessage) error {
	if err := event.Validate(); err != nil {
		return err
	}

	user, err := h.repo.Users().GetByUUID(ctx, event.UserID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	if !h.hasher.Verify(ctx, event.CurrentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	hash, err := h.hasher.Hash(ctx, event.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		current, err := h.repo.Users().GetByUUIDTx(ctx, tx, user.ID)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrSubjectNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		// changed by a concurrent update after we verified
		if current.PasswordHash != user.PasswordHash {
			return ErrPasswordMismatch
		}

		if err := h.repo.Users().UpdatePasswordTx(ctx, tx, user.ID, hash); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrSubjectNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	emitActivity(ctx, h.sink, h.logger, ActivityEvent{
		EventType: ActivityEventPasswordChanged,
		Actor:     ActorRef{ID: user.ID.String(), Type: "user"},
		UserID:    user.ID.String(),
	})
	return nil
}

// ValidateStringNotEquals fails when the value equals str
func ValidateStringNotEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == str {
			return errors.New("must differ from the current password")
		}
		return nil
	}
}
