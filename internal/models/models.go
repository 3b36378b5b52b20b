package models

import (
	"time"

	"github.com/google/uuid"
)

// Arcade, Game and Cabinet belong to the arcade directory. The queue service
// only reads them to resolve the cabinet a request refers to.

type Arcade struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `json:"description"`
	IsPublic    bool      `gorm:"not null;default:true" json:"-"`
	CreateDate  time.Time `gorm:"type:date;not null" json:"create_date"`
}

type Game struct {
	Name        string  `gorm:"primaryKey" json:"name"`
	Description *string `json:"description"`
}

type Cabinet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GameName    string    `gorm:"not null" json:"game_name"`
	Name        string    `gorm:"not null" json:"name"`
	AssocArcade uuid.UUID `gorm:"type:uuid;index;not null" json:"assoc_arcade"`
}
