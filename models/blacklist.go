package models

import "time"

// Blacklist holds revoked session tokens until they would have expired anyway.
type Blacklist struct {
	Model
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
}
