package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/notifications"
	"github.com/anjiri1684/fee_collect/payments"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewPaymentHandler(db *gorm.DB, hub *ws.Hub) *PaymentHandler {
	return &PaymentHandler{DB: db, Hub: hub}
}

type CreateOrderRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	EventID   string  `json:"eventId" validate:"required,uuid4"`
	StudentID string  `json:"studentId" validate:"required,uuid4"`
}

// CreateRazorpayOrder creates a gateway order for a student/event pair and
// records the matching Pending payment row carrying the order id, so the
// webhook can correlate the capture later.
func (h *PaymentHandler) CreateRazorpayOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
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

	order, err := payments.CreateOrder(req.Amount, req.EventID, req.StudentID)
	if err != nil {
		log.Printf("🔥 Razorpay order creation failed: %v", err)
		return fail(c, apperrors.Internal("Failed to create Razorpay order"))
	}

	method := "Razorpay"
	payment := models.Payment{
		Amount:          req.Amount,
		Status:          models.PaymentStatusPending,
		PaymentMethod:   &method,
		RazorpayOrderID: &order.ID,
		StudentID:       studentID,
		EventID:         eventID,
	}
	if err := h.DB.Create(&payment).Error; err != nil {
		log.Printf("🔥 Failed to record pending payment for order %s: %v", order.ID, err)
		return fail(c, apperrors.Internal("Failed to record payment"))
	}

	h.Hub.Publish(ws.FeedPaymentCreated, payment)

	return success(c, order)
}

// HandleRazorpayWebhook reconciles payment status against the gateway.
// Authenticity first, then parse, correlate and transition. Retries on
// failure are the gateway's redelivery, not ours.
func (h *PaymentHandler) HandleRazorpayWebhook(c *fiber.Ctx) error {
	secret := config.Config("RAZORPAY_WEBHOOK_SECRET")
	if secret == "" {
		log.Println("🔥 RAZORPAY_WEBHOOK_SECRET is not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook secret not configured"})
	}

	body := c.Body()
	signature := c.Get("x-razorpay-signature")
	if signature == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Signature missing"})
	}
	if !payments.VerifyWebhookSignature(body, signature, secret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var event payments.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	// Every event type other than a capture is acknowledged as a no-op.
	if event.Event != "payment.captured" {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	entity := event.Payload.Payment.Entity
	log.Printf("Received payment.captured webhook for order %s", entity.OrderID)

	var payment models.Payment
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Student").Preload("Event").
			Where("razorpay_order_id = ?", entity.OrderID).
			First(&payment).Error; err != nil {
			return err
		}

		// Idempotent overwrite: a redelivered capture lands on the same
		// target values.
		payment.Status = models.PaymentStatusPaid
		payment.TransactionID = &entity.ID
		return tx.Save(&payment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment record not found"})
		}
		log.Printf("🔥 Error processing webhook for order %s: %v", entity.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Webhook processing failed"})
	}

	h.Hub.Publish(ws.FeedPaymentCaptured, payment)
	if payment.Student.Email != "" {
		go notifications.SendEmail(payment.Student.Name, payment.Student.Email,
			"Payment Received",
			fmt.Sprintf("<h1>Payment Received</h1><p>Your payment of ₹%.2f for %s has been confirmed.</p>", payment.Amount, payment.Event.Name))
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

type CreatePaymentRequest struct {
	StudentID       string  `json:"studentId" validate:"required,uuid4"`
	EventID         string  `json:"eventId" validate:"required,uuid4"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"paymentMethod" validate:"required"`
	TransactionID   *string `json:"transactionId"`
	Status          string  `json:"status" validate:"omitempty,oneof=Pending Paid Failed 'Verification Pending'"`
	RazorpayOrderID *string `json:"razorpay_order_id"`
	ScreenshotURL   *string `json:"screenshotUrl"`
}

// CreatePayment records a payment entry directly, e.g. a UPI transfer whose
// screenshot awaits verification.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	status := req.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	payment := models.Payment{
		Amount:          req.Amount,
		Status:          status,
		PaymentMethod:   &req.PaymentMethod,
		TransactionID:   req.TransactionID,
		RazorpayOrderID: req.RazorpayOrderID,
		ScreenshotURL:   req.ScreenshotURL,
		StudentID:       uuid.MustParse(req.StudentID),
		EventID:         uuid.MustParse(req.EventID),
	}
	if err := h.DB.Create(&payment).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to create payment"))
	}
	if err := h.DB.Preload("Student").Preload("Event").First(&payment, "id = ?", payment.ID).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to load payment"))
	}

	h.Hub.Publish(ws.FeedPaymentCreated, payment)

	return created(c, payment)
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Paid Failed 'Verification Pending'"`
}

func (h *PaymentHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("paymentId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid payment ID format"))
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	var payment models.Payment
	if err := h.DB.Preload("Student").Preload("Event").First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, apperrors.NotFound("Payment not found"))
		}
		return fail(c, apperrors.Internal("Failed to fetch payment"))
	}

	payment.Status = req.Status
	if err := h.DB.Save(&payment).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to update payment status"))
	}

	h.Hub.Publish(ws.FeedPaymentUpdated, payment)

	return success(c, payment)
}

type EventTransaction struct {
	models.Payment
	StudentName string `json:"studentName"`
	StudentRoll string `json:"studentRoll"`
}

// GetEventPayments returns the event and every transaction against it,
// newest first.
func (h *PaymentHandler) GetEventPayments(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid event ID format"))
	}

	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, apperrors.NotFound("Event not found"))
		}
		return fail(c, apperrors.Internal("Failed to fetch event"))
	}

	var txns []models.Payment
	if err := h.DB.Preload("Student").
		Where("event_id = ?", eventID).
		Order("payment_date desc").
		Find(&txns).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch payments"))
	}

	transactions := make([]EventTransaction, 0, len(txns))
	for _, t := range txns {
		transactions = append(transactions, EventTransaction{
			Payment:     t,
			StudentName: t.Student.Name,
			StudentRoll: t.Student.RollNo,
		})
	}

	return success(c, fiber.Map{
		"event":        toEventResponse(event),
		"transactions": transactions,
	})
}

// stamp is a helper for consistent timestamps in manual references.
func stamp() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}
