package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null"             json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime"                json:"created_at"`
}

// Product is owned by exactly one user; UserID never changes after insert.
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:255;not null"        json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime"           json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"           json:"updated_at"`
}
