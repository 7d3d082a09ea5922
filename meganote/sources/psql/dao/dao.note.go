// meganote/sources/psql/dao/dao.note.go
package dao

import (
	"context"
	"errors"
	"fmt"

	"meganote/meganote/sources/psql/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteDAO struct {
	DB *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{DB: db}
}

// CreateNote inserts the note; a code collision yields ErrDuplicateKey.
func (dao *NoteDAO) CreateNote(ctx context.Context, note *models.Note) error {
	if err := dao.DB.WithContext(ctx).Omit(clause.Associations).Create(note).Error; err != nil {
		return wrapInsertError("create note", err)
	}
	return nil
}

func (dao *NoteDAO) GetNoteByCode(ctx context.Context, code string) (*models.Note, error) {
	var note models.Note
	err := dao.DB.WithContext(ctx).Where("code = ?", code).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note by code: %w", err)
	}
	return &note, nil
}

// GetAllNotesByUser lists the user's notes, newest first.
func (dao *NoteDAO) GetAllNotesByUser(ctx context.Context, userID int) ([]models.Note, error) {
	notes := []models.Note{}
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes of user %d: %w", userID, err)
	}
	return notes, nil
}
