package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Deadline    time.Time `gorm:"not null" json:"deadline"`
	Cost        float64   `gorm:"type:numeric(10,2);not null" json:"cost"`

	// JSON-serialized list of accepted payment methods, e.g. ["UPI","Cash"].
	PaymentOptions string  `gorm:"type:text;not null;default:'[]'" json:"paymentOptions"`
	QrCodeURL      *string `gorm:"size:255" json:"qrCodeUrl"`
	Category       string  `gorm:"size:100" json:"category"`

	Payments           []Payment           `gorm:"foreignkey:EventID" json:"payments,omitempty"`
	PrintDistributions []PrintDistribution `gorm:"foreignkey:EventID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
