package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:hrs_users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"uuid"`
	Email         string     `bun:"email,notnull,unique" json:"email"`
	Nickname      string     `bun:"nickname,notnull,unique" json:"nickname"`
	PasswordHash  string     `bun:"hashed_password,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

// Identifier is the value users log in with
func (u *User) Identifier() string {
	return u.Nickname
}

// UserResponse is the public projection of a User
type UserResponse struct {
	UUID     string `json:"uuid"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// ToResponse drops private fields such as the password hash
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UUID:     u.ID.String(),
		Email:    u.Email,
		Nickname: u.Nickname,
	}
}
