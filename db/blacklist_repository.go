package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/techagentng/chatrelay/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenBlacklist stores revoked session tokens until their expiry.
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	Contains(ctx context.Context, token string) (bool, error)
}

type blacklistRepo struct {
	DB *gorm.DB
}

func NewBlacklistRepo(db *GormDB) TokenBlacklist {
	return &blacklistRepo{db.DB}
}

func (b *blacklistRepo) Add(ctx context.Context, token string, expiresAt time.Time) error {
	entry := &models.Blacklist{Token: token, ExpiresAt: expiresAt}
	err := b.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry).Error
	return errors.Wrap(err, "add token to blacklist")
}

func (b *blacklistRepo) Contains(ctx context.Context, token string) (bool, error) {
	var count int64
	err := b.DB.WithContext(ctx).Model(&models.Blacklist{}).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "gorm count error")
	}
	return count > 0, nil
}
