package models

import "time"

type User struct {
	ID             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordDigest string    `json:"-" gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
