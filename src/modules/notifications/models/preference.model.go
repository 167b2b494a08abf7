package notifications

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// MinDeviceTokenLength rejects obviously truncated push tokens.
const MinDeviceTokenLength = 50

// NotificationPreference records what a user registered for push delivery.
type NotificationPreference struct {
	UserEmail    string         `json:"user_email" gorm:"primaryKey;type:varchar(255)"`
	Enabled      bool           `json:"enabled"`
	DeviceTokens pq.StringArray `json:"device_tokens" gorm:"type:text[]"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// AddToken appends token unless it is already registered.
func (p *NotificationPreference) AddToken(token string) bool {
	for _, t := range p.DeviceTokens {
		if t == token {
			return false
		}
	}
	p.DeviceTokens = append(p.DeviceTokens, token)
	return true
}

func MigratePreferences(db *gorm.DB) error {
	return db.AutoMigrate(&NotificationPreference{})
}
