package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User представляє зареєстрованого користувача чату.
// Профільні поля (аватар) можуть змінюватися, ідентичність - ні.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UniqueUserID string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uniqueUserId"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	AvatarURL    *string   `gorm:"size:200" json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	LoginProvider *LoginProvider `gorm:"constraint:OnDelete:CASCADE" json:"loginProvider,omitempty"`
}

// BeforeCreate - це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо UniqueUserID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.UniqueUserID == "" {
		u.UniqueUserID = uuid.New().String()
	}
	return
}

// LoginProvider прив'язує користувача до зовнішнього провайдера входу.
// У користувача може бути не більше однієї такої прив'язки.
type LoginProvider struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Provider   string    `gorm:"size:50;not null;uniqueIndex:idx_login_provider_identity" json:"provider"`
	ProviderID string    `gorm:"size:100;not null;uniqueIndex:idx_login_provider_identity" json:"providerId"`
	CreatedAt  time.Time `json:"createdAt"`
}
