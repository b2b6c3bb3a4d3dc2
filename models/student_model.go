package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RollNo string    `gorm:"size:50;not null;unique" json:"rollNo"`
	Name   string    `gorm:"size:255;not null" json:"name"`
	Email  string    `gorm:"size:255" json:"email"`
	Class  string    `gorm:"size:100" json:"class"`

	Payments           []Payment           `gorm:"foreignkey:StudentID" json:"payments,omitempty"`
	PrintDistributions []PrintDistribution `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
