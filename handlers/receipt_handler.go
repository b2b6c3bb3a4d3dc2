package handlers

import (
	"errors"
	"log"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReceiptHandler struct {
	DB       *gorm.DB
	Receipts *services.ReceiptService
}

func NewReceiptHandler(db *gorm.DB, receipts *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{DB: db, Receipts: receipts}
}

// GenerateReceipt renders and uploads a PDF receipt for a paid payment,
// returning the stored URL. Regenerating overwrites the previous URL.
func (h *ReceiptHandler) GenerateReceipt(c *fiber.Ctx) error {
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

	if payment.Status != models.PaymentStatusPaid {
		return fail(c, apperrors.Conflict("Receipts can only be generated for paid payments"))
	}

	receiptURL, err := h.Receipts.GenerateReceipt(payment)
	if err != nil {
		log.Printf("🔥 Receipt generation failed for payment %s: %v", payment.ID, err)
		return fail(c, apperrors.Internal("Failed to generate receipt"))
	}

	return success(c, fiber.Map{"receiptUrl": receiptURL})
}
