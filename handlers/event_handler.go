package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventHandler struct {
	DB *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{DB: db}
}

type EventRequest struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description"`
	Deadline       string   `json:"deadline" validate:"required"`
	Cost           float64  `json:"cost" validate:"gte=0"`
	PaymentOptions []string `json:"paymentOptions"`
	QrCodeURL      *string  `json:"qrCodeUrl"`
	Category       string   `json:"category"`
}

// EventResponse is an event with its serialized paymentOptions parsed back
// into a list for the dashboard.
type EventResponse struct {
	models.Event
	PaymentOptions []string `json:"paymentOptions"`
}

func toEventResponse(event models.Event) EventResponse {
	var options []string
	if err := json.Unmarshal([]byte(event.PaymentOptions), &options); err != nil {
		options = []string{}
	}
	event.Payments = nil
	return EventResponse{Event: event, PaymentOptions: options}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		return fail(c, apperrors.Validation("Invalid deadline format. Use RFC3339."))
	}

	options := req.PaymentOptions
	if options == nil {
		options = []string{}
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return fail(c, apperrors.Internal("Failed to serialize payment options"))
	}

	event := models.Event{
		Name:           req.Name,
		Description:    req.Description,
		Deadline:       deadline,
		Cost:           req.Cost,
		PaymentOptions: string(optionsJSON),
		QrCodeURL:      req.QrCodeURL,
		Category:       req.Category,
	}
	if err := h.DB.Create(&event).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to create event"))
	}

	return created(c, toEventResponse(event))
}

func (h *EventHandler) GetEvents(c *fiber.Ctx) error {
	var events []models.Event
	if err := h.DB.Order("deadline asc").Find(&events).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch events"))
	}

	responses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, toEventResponse(e))
	}
	return success(c, responses)
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
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
	return success(c, toEventResponse(event))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid event ID format"))
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		return fail(c, apperrors.Validation("Invalid deadline format. Use RFC3339."))
	}

	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, apperrors.NotFound("Event not found"))
		}
		return fail(c, apperrors.Internal("Failed to fetch event"))
	}

	options := req.PaymentOptions
	if options == nil {
		options = []string{}
	}
	optionsJSON, _ := json.Marshal(options)

	event.Name = req.Name
	event.Description = req.Description
	event.Deadline = deadline
	event.Cost = req.Cost
	event.PaymentOptions = string(optionsJSON)
	event.QrCodeURL = req.QrCodeURL
	event.Category = req.Category

	if err := h.DB.Save(&event).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to update event"))
	}
	return success(c, toEventResponse(event))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid event ID format"))
	}

	result := h.DB.Delete(&models.Event{}, "id = ?", eventID)
	if result.Error != nil {
		return fail(c, apperrors.Internal("Failed to delete event"))
	}
	if result.RowsAffected == 0 {
		return fail(c, apperrors.NotFound("Event not found"))
	}
	return success(c, fiber.Map{"message": "Event deleted"})
}

// GetPaymentPageData returns the event plus every student who has not yet
// paid (or submitted a payment awaiting verification) for it.
func (h *EventHandler) GetPaymentPageData(c *fiber.Ctx) error {
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

	var students []models.Student
	if err := h.DB.Order("roll_no asc").Find(&students).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch students"))
	}

	var payments []models.Payment
	if err := h.DB.Where("event_id = ?", eventID).Find(&payments).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch payments"))
	}

	paidStudentIDs := make(map[uuid.UUID]bool)
	for _, p := range payments {
		if p.Status == models.PaymentStatusPaid || p.Status == models.PaymentStatusVerification {
			paidStudentIDs[p.StudentID] = true
		}
	}

	availableStudents := make([]models.Student, 0, len(students))
	for _, s := range students {
		if !paidStudentIDs[s.ID] {
			availableStudents = append(availableStudents, s)
		}
	}

	return success(c, fiber.Map{
		"event":             toEventResponse(event),
		"availableStudents": availableStudents,
	})
}
