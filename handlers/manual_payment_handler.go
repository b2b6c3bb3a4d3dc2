package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/utils"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ManualPaymentHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewManualPaymentHandler(db *gorm.DB, hub *ws.Hub) *ManualPaymentHandler {
	return &ManualPaymentHandler{DB: db, Hub: hub}
}

type RecordCashPaymentRequest struct {
	StudentID     string  `json:"studentId" validate:"required,uuid4"`
	EventID       string  `json:"eventId" validate:"required,uuid4"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate   string  `json:"paymentDate" validate:"required"`
	Notes         *string `json:"notes"`
	ReceiptNumber *string `json:"receiptNumber"`
}

var errAlreadyPaid = apperrors.Conflict("Payment already recorded for this student and event")

// RecordCashPayment records an offline cash payment. The duplicate check
// and the insert run in one transaction with the existing rows locked, so
// concurrent submissions for the same pair cannot both succeed.
func (h *ManualPaymentHandler) RecordCashPayment(c *fiber.Ctx) error {
	recordedBy, err := middleware.SessionUserID(c)
	if err != nil {
		return fail(c, apperrors.Auth("Unauthorized"))
	}

	var req RecordCashPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	paymentDate, err := time.Parse(time.RFC3339, req.PaymentDate)
	if err != nil {
		return fail(c, apperrors.Validation("Invalid paymentDate format. Use RFC3339."))
	}

	studentID := uuid.MustParse(req.StudentID)
	eventID := uuid.MustParse(req.EventID)

	var student models.Student
	if err := h.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return fail(c, apperrors.NotFound("Student not found"))
	}
	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return fail(c, apperrors.NotFound("Event not found"))
	}

	var payment models.Payment
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND event_id = ? AND status = ?",
				studentID, eventID, models.PaymentStatusPaid).
			First(&existing).Error
		if err == nil {
			return errAlreadyPaid
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		receiptNumber := req.ReceiptNumber
		if receiptNumber == nil || *receiptNumber == "" {
			generated, err := utils.GenerateUniqueReceiptNumber(tx)
			if err != nil {
				return err
			}
			receiptNumber = &generated
		}

		method := "Cash"
		transactionID := "CASH_" + stamp()
		payment = models.Payment{
			Amount:           req.Amount,
			PaymentDate:      paymentDate,
			Status:           models.PaymentStatusPaid,
			PaymentMethod:    &method,
			TransactionID:    &transactionID,
			IsManualEntry:    true,
			RecordedBy:       &recordedBy,
			ManualEntryNotes: req.Notes,
			ReceiptNumber:    receiptNumber,
			StudentID:        studentID,
			EventID:          eventID,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		if errors.Is(err, errAlreadyPaid) {
			return fail(c, errAlreadyPaid)
		}
		return fail(c, apperrors.Internal("Failed to record payment"))
	}

	payment.Student = student
	payment.Event = event
	h.Hub.Publish(ws.FeedPaymentCreated, payment)

	return created(c, payment)
}

func (h *ManualPaymentHandler) GetManualPayments(c *fiber.Ctx) error {
	var manualPayments []models.Payment
	if err := h.DB.Preload("Student").Preload("Event").
		Where("is_manual_entry = ?", true).
		Order("created_at desc").
		Find(&manualPayments).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch manual payments"))
	}
	return success(c, manualPayments)
}
