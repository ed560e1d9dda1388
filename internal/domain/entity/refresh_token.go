package entity

import (
	"time"
)

// RefreshToken persists only a bcrypt hash of the random secret; the
// plaintext handed to the client is never stored. TokenID is a non-secret
// public lookup key embedded in the plaintext so validation does not need
// a linear scan over every active token.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TokenID   string    `gorm:"type:varchar(36);uniqueIndex:uq_refresh_tokens_token_id;not null" json:"token_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"type:varchar(255);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	Revoked   bool      `gorm:"not null;default:false" json:"revoked"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// Usable reports whether the token may still be exchanged at the given
// instant: not revoked and not past expiry. Expired tokens are inert, not
// deleted.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
