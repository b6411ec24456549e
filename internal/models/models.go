package models

import (
	"time"

	"block-builder-backend/internal/authorization"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OpenID       string                 `gorm:"column:open_id;type:varchar(64);uniqueIndex;not null" json:"openId"`
	Name         *string                `gorm:"type:text" json:"name"`
	Email        *string                `gorm:"type:varchar(320)" json:"email"`
	LoginMethod  *string                `gorm:"type:varchar(64)" json:"loginMethod"`
	Role         authorization.UserRole `gorm:"type:varchar(32);not null;default:'user'" json:"role"`
	LastSignedIn time.Time              `gorm:"not null" json:"lastSignedIn"`
}

// UserIdentity is the identity asserted by the upstream login provider.
// Nil fields are not touched when the user already exists.
type UserIdentity struct {
	OpenID       string                  `json:"openId" binding:"required,max=64"`
	Name         *string                 `json:"name,omitempty" binding:"omitempty,max=255,no_html"`
	Email        *string                 `json:"email,omitempty" binding:"omitempty,email,max=320"`
	LoginMethod  *string                 `json:"loginMethod,omitempty" binding:"omitempty,max=64"`
	Role         *authorization.UserRole `json:"role,omitempty"`
	LastSignedIn *time.Time              `json:"lastSignedIn,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
