package model

import "time"

// User identity is immutable; profile fields mutate. Accounts are never
// hard-deleted, only anonymized, so authored content keeps a valid author id.
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Name         string `gorm:"type:varchar(128);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(128)" json:"-"`
	Avatar       string `gorm:"type:text"`
	Bio          string `gorm:"type:text"`
	Location     string `gorm:"type:varchar(255)"`
	BirthYear    int
	IsRegistered bool `gorm:"index"`
	Anonymized   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }
