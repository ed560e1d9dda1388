package repository

import (
	"clinisys-school/internal/domain/entity"

	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(db *gorm.DB, token *entity.RefreshToken) error
	FindByTokenID(db *gorm.DB, tokenID string) (*entity.RefreshToken, error)
	// Revoke flips the revoked flag; revoking an already revoked token is a
	// no-op.
	Revoke(db *gorm.DB, token *entity.RefreshToken) error
	RevokeAllForUser(db *gorm.DB, userID uint) error
	// DeleteExpired removes tokens past their expiry and returns how many
	// rows went away. Run from a cleanup job, never from the request path.
	DeleteExpired(db *gorm.DB) (int64, error)
}
