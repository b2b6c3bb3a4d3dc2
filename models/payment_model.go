package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses. Pending → Verification Pending → Paid, Pending → Paid
// (manual cash entries), Pending/Verification Pending → Failed.
const (
	PaymentStatusPending      = "Pending"
	PaymentStatusPaid         = "Paid"
	PaymentStatusFailed       = "Failed"
	PaymentStatusVerification = "Verification Pending"
)

type Payment struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Amount          float64   `gorm:"type:numeric(10,2);not null" json:"amount"`
	PaymentDate     time.Time `gorm:"not null" json:"paymentDate"`
	TransactionID   *string   `gorm:"size:255" json:"transactionId"`
	Status          string    `gorm:"size:30;not null;default:'Pending'" json:"status"`
	PaymentMethod   *string   `gorm:"size:50" json:"paymentMethod"`
	ScreenshotURL   *string   `gorm:"size:255" json:"screenshotUrl"`
	RazorpayOrderID *string   `gorm:"size:100;unique" json:"razorpay_order_id"`

	IsManualEntry    bool       `gorm:"not null;default:false" json:"isManualEntry"`
	RecordedBy       *uuid.UUID `json:"recordedBy"`
	ManualEntryNotes *string    `gorm:"type:text" json:"manualEntryNotes"`
	ReceiptNumber    *string    `gorm:"size:50" json:"receiptNumber"`
	ReceiptURL       *string    `gorm:"size:255" json:"receiptUrl"`

	StudentID uuid.UUID `gorm:"not null;index" json:"studentId"`
	EventID   uuid.UUID `gorm:"not null;index" json:"eventId"`

	Student Student `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Event   Event   `gorm:"foreignkey:EventID" json:"event,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	return nil
}
