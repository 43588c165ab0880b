package models

import (
	"time"

	"gorm.io/gorm"

	"finview/internal/uuid"
)

// Base holds the id and timestamp columns shared by every table.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BeforeCreate assigns a UUIDv7 to new rows. A caller-supplied id is kept
// in canonical lower-case form and rejected if it does not parse.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
		return nil
	}
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}
