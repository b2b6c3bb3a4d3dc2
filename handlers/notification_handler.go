package handlers

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/notifications"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationHandler serves the pending-verification queue: payments
// submitted by students that an administrator must confirm or reject.
type NotificationHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewNotificationHandler(db *gorm.DB, hub *ws.Hub) *NotificationHandler {
	return &NotificationHandler{DB: db, Hub: hub}
}

type PendingTransaction struct {
	models.Payment
	StudentName string `json:"studentName"`
	StudentRoll string `json:"studentRoll"`
	EventName   string `json:"eventName"`
}

func (h *NotificationHandler) GetPendingTransactions(c *fiber.Ctx) error {
	var txns []models.Payment
	if err := h.DB.Preload("Student").Preload("Event").
		Where("status = ?", models.PaymentStatusVerification).
		Order("created_at asc").
		Find(&txns).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch pending transactions"))
	}

	pending := make([]PendingTransaction, 0, len(txns))
	for _, t := range txns {
		pending = append(pending, PendingTransaction{
			Payment:     t,
			StudentName: t.Student.Name,
			StudentRoll: t.Student.RollNo,
			EventName:   t.Event.Name,
		})
	}
	return success(c, pending)
}

// ApproveVerification moves a Verification Pending payment to Paid.
func (h *NotificationHandler) ApproveVerification(c *fiber.Ctx) error {
	return h.resolveVerification(c, models.PaymentStatusPaid)
}

// RejectVerification moves a Verification Pending payment to Failed.
func (h *NotificationHandler) RejectVerification(c *fiber.Ctx) error {
	return h.resolveVerification(c, models.PaymentStatusFailed)
}

func (h *NotificationHandler) resolveVerification(c *fiber.Ctx, newStatus string) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid payment ID format"))
	}

	var payment models.Payment
	if err := h.DB.Preload("Student").Preload("Event").
		First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, apperrors.NotFound("Payment not found"))
		}
		return fail(c, apperrors.Internal("Failed to fetch payment"))
	}

	if payment.Status != models.PaymentStatusVerification {
		return fail(c, apperrors.Conflict("Payment is not awaiting verification"))
	}

	payment.Status = newStatus
	if err := h.DB.Save(&payment).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to update payment"))
	}

	h.Hub.Publish(ws.FeedPaymentUpdated, payment)

	if payment.Student.Email != "" {
		subject := "Payment Verified"
		body := fmt.Sprintf("<h1>Payment Verified</h1><p>Your payment of ₹%.2f for %s has been verified.</p>", payment.Amount, payment.Event.Name)
		if newStatus == models.PaymentStatusFailed {
			subject = "Payment Could Not Be Verified"
			body = fmt.Sprintf("<h1>Verification Failed</h1><p>Your payment submission for %s could not be verified. Please contact the administrator.</p>", payment.Event.Name)
		}
		go notifications.SendEmail(payment.Student.Name, payment.Student.Email, subject, body)
	}

	return success(c, payment)
}
