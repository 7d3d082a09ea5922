package models

import (
	"time"
)

type Message struct {
	ID        int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	NoteID    int64     `json:"-" gorm:"not null;index:idx_messages_note_created,priority:1"`
	Note      Note      `json:"-" gorm:"foreignKey:NoteID;references:ID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index:idx_messages_note_created,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}
