package storage

import (
	"fmt"

	"gorm.io/gorm"

	"talk2me/backend/internal/models"
)

var extraIndexes = []string{
	// feed ordering: last_message_at DESC, id DESC
	`CREATE INDEX IF NOT EXISTS idx_conversations_feed ON conversations (last_message_at DESC, id DESC)`,
}

// Migrate створює або оновлює схему.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.LoginProvider{},
		&models.Conversation{},
		&models.Participant{},
		&models.Group{},
		&models.Message{},
		&models.ReadReceipt{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range extraIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
