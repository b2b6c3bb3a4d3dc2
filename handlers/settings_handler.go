package handlers

import (
	"net/url"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	DB *gorm.DB
}

func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{DB: db}
}

func (h *SettingsHandler) GetQrCodes(c *fiber.Ctx) error {
	var qrCodes []models.QrCode
	if err := h.DB.Order("created_at asc").Find(&qrCodes).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch QR codes"))
	}
	return success(c, qrCodes)
}

type AddQrCodeRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

func (h *SettingsHandler) AddQrCode(c *fiber.Ctx) error {
	var req AddQrCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		return fail(c, apperrors.Validation("Invalid QR code URL"))
	}

	qrCode := models.QrCode{Name: req.Name, URL: req.URL}
	if err := h.DB.Create(&qrCode).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to add QR code"))
	}
	return created(c, qrCode)
}

func (h *SettingsHandler) DeleteQrCode(c *fiber.Ctx) error {
	qrID, err := uuid.Parse(c.Params("qrId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid QR code ID format"))
	}

	result := h.DB.Delete(&models.QrCode{}, "id = ?", qrID)
	if result.Error != nil {
		return fail(c, apperrors.Internal("Failed to delete QR code"))
	}
	if result.RowsAffected == 0 {
		return fail(c, apperrors.NotFound("QR code not found"))
	}
	return success(c, fiber.Map{"message": "QR code deleted"})
}
