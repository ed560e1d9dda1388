package repository

import (
	"errors"
	"time"

	"clinisys-school/internal/domain/entity"
	domainRepo "clinisys-school/internal/domain/repository"

	"gorm.io/gorm"
)

type refreshTokenRepository struct{}

func NewRefreshTokenRepository() domainRepo.RefreshTokenRepository {
	return &refreshTokenRepository{}
}

func (r *refreshTokenRepository) Create(db *gorm.DB, token *entity.RefreshToken) error {
	return db.Create(token).Error
}

func (r *refreshTokenRepository) FindByTokenID(db *gorm.DB, tokenID string) (*entity.RefreshToken, error) {
	var token entity.RefreshToken
	err := db.Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) Revoke(db *gorm.DB, token *entity.RefreshToken) error {
	if token.Revoked {
		return nil
	}
	token.Revoked = true
	return db.Model(token).Update("revoked", true).Error
}

func (r *refreshTokenRepository) RevokeAllForUser(db *gorm.DB, userID uint) error {
	return db.Model(&entity.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func (r *refreshTokenRepository) DeleteExpired(db *gorm.DB) (int64, error) {
	result := db.Where("expires_at < ?", time.Now().UTC()).Delete(&entity.RefreshToken{})
	return result.RowsAffected, result.Error
}
