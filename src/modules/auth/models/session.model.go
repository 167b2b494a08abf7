package auth

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleSupervisor = "supervisor"

	PlanBasic   = "basic"
	PlanPremium = "premium"
)

// User is the profile of the signed-in account as the remote service reports it.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Role         string `json:"role"`
}

// Session is the server-side identity record referenced by the session cookie.
// UserData keeps the raw profile JSON; read it through User().
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Token     string    `json:"-" gorm:"type:text;not null"`
	UserData  string    `json:"-" gorm:"type:text"`
	PlanType  string    `json:"plan_type" gorm:"type:varchar(16);not null;default:basic"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// User decodes the stored profile. A corrupt record yields an anonymous
// profile with the plain user role.
func (s *Session) User() User {
	var u User
	if s == nil || strings.TrimSpace(s.UserData) == "" {
		return User{Role: RoleUser}
	}
	if err := json.Unmarshal([]byte(s.UserData), &u); err != nil {
		return User{Role: RoleUser}
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u
}

func (s *Session) IsSupervisor() bool {
	return s != nil && s.User().Role == RoleSupervisor
}

func (s *Session) IsPremium() bool {
	return s != nil && s.PlanType == PlanPremium
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func MigrateSessions(db *gorm.DB) error {
	return db.AutoMigrate(&Session{})
}
