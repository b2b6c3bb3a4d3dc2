package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrintDistribution struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DistributedAt time.Time `gorm:"not null" json:"distributedAt"`

	StudentID uuid.UUID `gorm:"not null;index" json:"studentId"`
	EventID   uuid.UUID `gorm:"not null;index" json:"eventId"`

	Student Student `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Event   Event   `gorm:"foreignkey:EventID" json:"event,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *PrintDistribution) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.DistributedAt.IsZero() {
		p.DistributedAt = time.Now()
	}
	return nil
}
