package handlers

import (
	"errors"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrintHandler records which students have been handed their printed
// receipts or passes for an event.
type PrintHandler struct {
	DB *gorm.DB
}

func NewPrintHandler(db *gorm.DB) *PrintHandler {
	return &PrintHandler{DB: db}
}

type RecordDistributionRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid4"`
	EventID   string `json:"eventId" validate:"required,uuid4"`
}

func (h *PrintHandler) RecordDistribution(c *fiber.Ctx) error {
	var req RecordDistributionRequest
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

	var existing models.PrintDistribution
	err := h.DB.Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&existing).Error
	if err == nil {
		return fail(c, apperrors.Conflict("Distribution already recorded for this student and event"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, apperrors.Internal("Failed to record distribution"))
	}

	distribution := models.PrintDistribution{
		StudentID: studentID,
		EventID:   eventID,
	}
	if err := h.DB.Create(&distribution).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to record distribution"))
	}

	distribution.Student = student
	distribution.Event = event
	return created(c, distribution)
}

func (h *PrintHandler) GetEventDistributions(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("eventId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid event ID format"))
	}

	var distributions []models.PrintDistribution
	if err := h.DB.Preload("Student").
		Where("event_id = ?", eventID).
		Order("distributed_at desc").
		Find(&distributions).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch distributions"))
	}
	return success(c, distributions)
}
