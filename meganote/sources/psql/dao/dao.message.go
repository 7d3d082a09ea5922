package dao

import (
	"context"
	"fmt"

	"meganote/meganote/sources/psql/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageDAO struct {
	DB *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{DB: db}
}

// CreateMessage is an independent INSERT, so concurrent appends never race.
func (dao *MessageDAO) CreateMessage(ctx context.Context, msg *models.Message) error {
	if err := dao.DB.WithContext(ctx).Omit(clause.Associations).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// GetMessagesByNote returns the note's messages oldest first.
func (dao *MessageDAO) GetMessagesByNote(ctx context.Context, noteID int64) ([]models.Message, error) {
	msgs := []models.Message{}
	err := dao.DB.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("created_at asc").
		Order("id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("list messages of note %d: %w", noteID, err)
	}
	return msgs, nil
}
