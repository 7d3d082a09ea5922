// meganote/sources/psql/models/note.go
package models

import (
	"time"
)

// Note is an owner-scoped inbox. Code is the public write capability.
type Note struct {
	ID        int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    int       `json:"-" gorm:"not null;index"`
	User      User      `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Code      string    `json:"noteCode" gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

func (Note) TableName() string {
	return "notes"
}
